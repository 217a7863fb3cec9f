package projection

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifecert-queue/internal/api"
)

func sampleQueue() []api.QueueEntry {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return []api.QueueEntry{
		{LifeCertificateNo: "LC100000001", Name: "Kamla Devi", Age: 84, Priority: 0, VerificationMode: api.ModePresence, CreatedAt: base.Add(10 * time.Minute)},
		{LifeCertificateNo: "LC100000002", Name: "Rahul Mehta", Age: 67, Priority: 1, VerificationMode: api.ModeOnline, CreatedAt: base},
		{LifeCertificateNo: "LC100000003", Name: "S Iyer", Age: 71, Priority: 1, VerificationMode: api.ModePresence, CreatedAt: base.Add(5 * time.Minute)},
	}
}

func TestPositionOf(t *testing.T) {
	queue := sampleQueue()

	pos, ok := PositionOf(queue, "LC100000001")
	require.True(t, ok)
	assert.Equal(t, 1, pos, "first element is position 1, even while being served")

	pos, ok = PositionOf(queue, "LC100000003")
	require.True(t, ok)
	assert.Equal(t, 3, pos)

	_, ok = PositionOf(queue, "LC999999999")
	assert.False(t, ok)

	_, ok = PositionOf(nil, "LC100000001")
	assert.False(t, ok)
}

func TestPeopleAheadAndWait(t *testing.T) {
	assert.Equal(t, 0, PeopleAhead(1))
	assert.Equal(t, 4, PeopleAhead(5))
	assert.Equal(t, 0, EstimatedWaitMinutes(0))
	assert.Equal(t, 20, EstimatedWaitMinutes(4))
}

func TestLocate(t *testing.T) {
	queue := sampleQueue()

	placement, ok := Locate(queue, "LC100000002")
	require.True(t, ok)
	assert.Equal(t, Placement{Position: 2, PeopleAhead: 1, EstimatedWaitMinutes: 5}, placement)

	_, ok = Locate(queue, "LC999999999")
	assert.False(t, ok)
}

func TestComputeStatistics(t *testing.T) {
	stats := ComputeStatistics(sampleQueue())

	assert.Equal(t, 3, stats.TotalInQueue)
	assert.Equal(t, 1, stats.Priority0Count)
	assert.Equal(t, 2, stats.Priority1Count)
	assert.Equal(t, stats.TotalInQueue, stats.Priority0Count+stats.Priority1Count)
	assert.Equal(t, 2, stats.PresenceModeCount)
	assert.Equal(t, 1, stats.OnlineModeCount)
	assert.InDelta(t, 74.0, stats.AverageAge, 0.01)
	assert.Equal(t, "2026-03-14T09:00:00Z", stats.OldestEntryTimestamp)
	assert.Equal(t, 15, stats.EstimatedWaitMinutes)
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil)

	assert.Equal(t, 0, stats.TotalInQueue)
	assert.Equal(t, 0, stats.Priority0Count)
	assert.Equal(t, 0, stats.Priority1Count)
	assert.Equal(t, 0.0, stats.AverageAge)
	assert.Equal(t, 0, stats.EstimatedWaitMinutes)
	assert.Empty(t, stats.OldestEntryTimestamp)
}

func TestMaskName(t *testing.T) {
	masked := MaskName("Rahul Mehta")
	assert.Equal(t, "R**** M****", masked)
	assert.NotEqual(t, "Rahul Mehta", masked)

	parts := strings.Split(masked, " ")
	require.Len(t, parts, 2, "token boundaries preserved")
	assert.Equal(t, byte('R'), parts[0][0])
	assert.Equal(t, byte('M'), parts[1][0])

	// Single-rune tokens stay as they are.
	assert.Equal(t, "S I***", MaskName("S Iyer"))
	assert.Equal(t, "A", MaskName("A"))
}

func TestMaskCertificateNo(t *testing.T) {
	assert.Equal(t, "LC***456789", MaskCertificateNo("LC123456789"))
	assert.Equal(t, "LC1234", MaskCertificateNo("LC1234"), "short keys pass through")
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "98****3210", MaskPhone("9876543210"))
	assert.Equal(t, "123456", MaskPhone("123456"))
}

func TestFormatWaitTime(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "Less than a minute"},
		{1, "1 minute"},
		{45, "45 minutes"},
		{60, "1 hour"},
		{61, "1 hour 1 min"},
		{135, "2 hours 15 min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWaitTime(tt.minutes))
	}
}

func TestFormatPosition(t *testing.T) {
	tests := []struct {
		position int
		want     string
	}{
		{0, "Now Serving"},
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{102, "102nd"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPosition(tt.position))
	}
}
