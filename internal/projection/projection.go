// Package projection derives UI-facing views from a queue snapshot. Every
// function is pure and deterministic: the same snapshot always yields the same
// result, and nothing here talks to the network or mutates shared state.
package projection

import (
	"fmt"
	"math"
	"strings"

	"lifecert-queue/internal/api"
	"lifecert-queue/internal/priority"
)

// MinutesPerPerson is the assumed average service time. It is a fixed
// simplifying constant, not a measured rate; wait estimates built on it are
// approximations.
const MinutesPerPerson = 5

// PositionOf returns the 1-based serving position of certNo in the snapshot,
// scanning in server order. The first element is position 1, including the
// entry currently being served. ok is false when the key is absent.
func PositionOf(queue []api.QueueEntry, certNo string) (position int, ok bool) {
	for i := range queue {
		if queue[i].LifeCertificateNo == certNo {
			return i + 1, true
		}
	}
	return 0, false
}

// PeopleAhead converts a 1-based position into the count of entries served
// before it.
func PeopleAhead(position int) int {
	if position < 1 {
		return 0
	}
	return position - 1
}

// EstimatedWaitMinutes estimates the wait for the given number of people
// ahead, using the fixed per-person constant.
func EstimatedWaitMinutes(peopleAhead int) int {
	if peopleAhead < 0 {
		return 0
	}
	return peopleAhead * MinutesPerPerson
}

// Placement is one entry's derived standing in the queue.
type Placement struct {
	Position             int
	PeopleAhead          int
	EstimatedWaitMinutes int
}

// Locate combines position, people-ahead and wait estimate for one key.
func Locate(queue []api.QueueEntry, certNo string) (Placement, bool) {
	pos, ok := PositionOf(queue, certNo)
	if !ok {
		return Placement{}, false
	}
	ahead := PeopleAhead(pos)
	return Placement{
		Position:             pos,
		PeopleAhead:          ahead,
		EstimatedWaitMinutes: EstimatedWaitMinutes(ahead),
	}, true
}

// ComputeStatistics aggregates a snapshot into the same shape the remote
// stats endpoint serves, so either source renders identically. An empty
// snapshot yields all zeroes.
func ComputeStatistics(queue []api.QueueEntry) api.QueueStatistics {
	stats := api.QueueStatistics{TotalInQueue: len(queue)}
	if len(queue) == 0 {
		return stats
	}

	ageSum := 0
	oldest := queue[0].CreatedAt
	for i := range queue {
		e := &queue[i]
		if e.Priority == priority.Senior {
			stats.Priority0Count++
		} else {
			stats.Priority1Count++
		}
		switch e.VerificationMode {
		case api.ModePresence:
			stats.PresenceModeCount++
		case api.ModeOnline:
			stats.OnlineModeCount++
		}
		ageSum += e.Age
		if e.CreatedAt.Before(oldest) {
			oldest = e.CreatedAt
		}
	}

	stats.AverageAge = math.Round(float64(ageSum)/float64(len(queue))*10) / 10
	if !oldest.IsZero() {
		stats.OldestEntryTimestamp = oldest.UTC().Format("2006-01-02T15:04:05Z")
	}
	stats.EstimatedWaitMinutes = len(queue) * MinutesPerPerson
	return stats
}

const maskRune = '*'

// MaskName obscures a display name while keeping the first letter of each
// token: "Rahul Mehta" becomes "R**** M****". Presentation only; masked
// values must never be used for lookups or submissions.
func MaskName(name string) string {
	parts := strings.Split(name, " ")
	for i, part := range parts {
		if len(part) <= 1 {
			continue
		}
		runes := []rune(part)
		parts[i] = string(runes[0]) + strings.Repeat(string(maskRune), len(runes)-1)
	}
	return strings.Join(parts, " ")
}

// MaskCertificateNo keeps a short prefix and suffix and hides the middle:
// "LC123456789" becomes "LC***456789". Values of six characters or fewer are
// returned unchanged.
func MaskCertificateNo(certNo string) string {
	if len(certNo) <= 6 {
		return certNo
	}
	return certNo[:2] + "***" + certNo[len(certNo)-6:]
}

// MaskPhone hides the middle of a 10-digit phone number: "9876543210"
// becomes "98****3210".
func MaskPhone(phone string) string {
	if len(phone) <= 6 {
		return phone
	}
	return phone[:2] + "****" + phone[len(phone)-4:]
}

// FormatWaitTime renders minutes as a short human-readable duration.
func FormatWaitTime(minutes int) string {
	switch {
	case minutes < 1:
		return "Less than a minute"
	case minutes == 1:
		return "1 minute"
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours, rem := minutes/60, minutes%60
	unit := "hours"
	if hours == 1 {
		unit = "hour"
	}
	if rem == 0 {
		return fmt.Sprintf("%d %s", hours, unit)
	}
	return fmt.Sprintf("%d %s %d min", hours, unit, rem)
}

// FormatPosition renders a 1-based position as an ordinal. Zero is the
// offset-base sentinel and renders as the serving marker.
func FormatPosition(position int) string {
	if position == 0 {
		return "Now Serving"
	}
	suffix := "th"
	if position%100 < 11 || position%100 > 13 {
		switch position % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", position, suffix)
}
