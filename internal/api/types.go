package api

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Verification modes accepted by the queue service.
const (
	ModePresence = "presence"
	ModeOnline   = "online"
)

// QueueEntry is one booked appointment as returned by the queue service.
// The certificate number is the sole identity; array position in a snapshot
// encodes serving order but is never used for lookups.
type QueueEntry struct {
	LifeCertificateNo string    `json:"life_certificate_no"`
	Name              string    `json:"name"`
	Age               int       `json:"age"`
	Phone             string    `json:"phone"`
	ProofGuardianName string    `json:"proof_guardian_name"`
	VerificationMode  string    `json:"verification_mode"`
	PreferredDate     string    `json:"preferred_date"`
	PreferredTime     string    `json:"preferred_time"`
	Priority          int       `json:"priority"`
	Status            string    `json:"status,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// EnqueueInput is the booking form payload. Priority is intentionally absent:
// the server assigns it from the age.
type EnqueueInput struct {
	LifeCertificateNo string `json:"life_certificate_no"`
	Name              string `json:"name"`
	Age               int    `json:"age"`
	Phone             string `json:"phone"`
	ProofGuardianName string `json:"proof_guardian_name"`
	VerificationMode  string `json:"verification_mode"`
	PreferredDate     string `json:"preferred_date"`
	PreferredTime     string `json:"preferred_time"`
}

var (
	certNoPattern = regexp.MustCompile(`^[A-Za-z0-9]{5,20}$`)
	phonePattern  = regexp.MustCompile(`^\d{10}$`)
)

// Validate mirrors the server-side checks so a booking can be rejected before
// it ever reaches the wire. A passing input can still fail server-side
// (duplicate certificate number is only known there).
func (in *EnqueueInput) Validate() error {
	if strings.TrimSpace(in.LifeCertificateNo) == "" {
		return fmt.Errorf("life_certificate_no is required")
	}
	if !certNoPattern.MatchString(in.LifeCertificateNo) {
		return fmt.Errorf("life_certificate_no must be 5-20 letters or digits")
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if in.Age < 0 || in.Age > 150 {
		return fmt.Errorf("age must be between 0 and 150")
	}
	if !phonePattern.MatchString(in.Phone) {
		return fmt.Errorf("phone must be a 10-digit number")
	}
	if strings.TrimSpace(in.ProofGuardianName) == "" {
		return fmt.Errorf("proof_guardian_name is required")
	}
	if in.VerificationMode != ModePresence && in.VerificationMode != ModeOnline {
		return fmt.Errorf("verification_mode must be %q or %q", ModePresence, ModeOnline)
	}
	if _, err := time.Parse("2006-01-02", in.PreferredDate); err != nil {
		return fmt.Errorf("preferred_date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse("15:04", in.PreferredTime); err != nil {
		return fmt.Errorf("preferred_time must be in HH:MM format")
	}
	return nil
}

// envelope is the response wrapper used by every queue endpoint except /health.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Err     string          `json:"error,omitempty"`
}

// QueueSnapshot is one server-returned queue listing; Queue order is the
// serving order (index 0 is currently being served).
type QueueSnapshot struct {
	QueueLength int          `json:"queue_length"`
	NowServing  *QueueEntry  `json:"now_serving,omitempty"`
	LastUpdated string       `json:"last_updated,omitempty"`
	Queue       []QueueEntry `json:"queue"`
}

// QueueStatistics is the aggregate view returned by /queue/stats.
type QueueStatistics struct {
	TotalInQueue         int     `json:"total_in_queue"`
	Priority0Count       int     `json:"priority_0_count"`
	Priority1Count       int     `json:"priority_1_count"`
	PresenceModeCount    int     `json:"presence_mode_count"`
	OnlineModeCount      int     `json:"online_mode_count"`
	AverageAge           float64 `json:"average_age"`
	OldestEntryTimestamp string  `json:"oldest_entry_timestamp,omitempty"`
	EstimatedWaitMinutes int     `json:"estimated_wait_time_minutes"`
}

// EnqueueResult is the acknowledgement for a successful booking.
type EnqueueResult struct {
	Position             int        `json:"position"`
	Priority             int        `json:"priority"`
	EstimatedWaitMinutes int        `json:"estimated_wait_time"`
	Entry                QueueEntry `json:"entry"`
}

// DequeueResult reports the entry just served and how many remain.
type DequeueResult struct {
	Served    QueueEntry `json:"served"`
	Remaining int        `json:"remaining_in_queue"`
}

// RemoveResult reports a cancelled entry.
type RemoveResult struct {
	Removed QueueEntry `json:"removed"`
}

// ClearResult reports how many entries an admin clear dropped.
type ClearResult struct {
	ClearedCount int `json:"cleared_count"`
}

// HealthStatus is the /health payload. Unlike the queue endpoints it is not
// wrapped in the response envelope.
type HealthStatus struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	QueueStatus struct {
		TotalEntries     int `json:"total_entries"`
		Priority0Entries int `json:"priority_0_entries"`
		Priority1Entries int `json:"priority_1_entries"`
	} `json:"queue_status"`
}
