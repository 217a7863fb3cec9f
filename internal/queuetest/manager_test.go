package queuetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifecert-queue/internal/api"
)

func input(certNo string, age int, date, clock string) api.EnqueueInput {
	return api.EnqueueInput{
		LifeCertificateNo: certNo,
		Name:              "Test Person",
		Age:               age,
		Phone:             "9876543210",
		ProofGuardianName: "Guardian",
		VerificationMode:  api.ModePresence,
		PreferredDate:     date,
		PreferredTime:     clock,
	}
}

func order(m *manager) []string {
	queue, _ := m.snapshot()
	certs := make([]string, len(queue))
	for i := range queue {
		certs[i] = queue[i].LifeCertificateNo
	}
	return certs
}

func TestServingOrder(t *testing.T) {
	m := newManager()

	// Arrival order deliberately scrambled against serving order.
	_, _, ok := m.enqueue(input("GEN-LATE", 50, "2026-09-02", "10:00"))
	require.True(t, ok)
	_, _, ok = m.enqueue(input("GEN-EARLY", 50, "2026-09-01", "09:00"))
	require.True(t, ok)
	_, _, ok = m.enqueue(input("GEN-SAME-SLOT", 50, "2026-09-01", "09:00"))
	require.True(t, ok)
	_, _, ok = m.enqueue(input("SENIOR", 85, "2026-09-02", "10:00"))
	require.True(t, ok)

	// Senior first regardless of slot; generals by date, time, then arrival.
	assert.Equal(t, []string{"SENIOR", "GEN-EARLY", "GEN-SAME-SLOT", "GEN-LATE"}, order(m))
}

func TestEnqueueReportsSortedPosition(t *testing.T) {
	m := newManager()

	_, pos, _ := m.enqueue(input("GEN-1", 50, "2026-09-01", "09:00"))
	assert.Equal(t, 1, pos)

	entry, pos, _ := m.enqueue(input("SENIOR", 85, "2026-09-01", "09:00"))
	assert.Equal(t, 1, pos, "senior enters ahead of the waiting general entry")
	assert.Equal(t, 0, entry.Priority)
}

func TestDuplicateRejected(t *testing.T) {
	m := newManager()

	_, _, ok := m.enqueue(input("LC1", 50, "2026-09-01", "09:00"))
	require.True(t, ok)
	_, _, ok = m.enqueue(input("LC1", 60, "2026-09-01", "09:00"))
	assert.False(t, ok)
}

func TestDequeueServesHead(t *testing.T) {
	m := newManager()

	_, _, found := m.dequeue()
	assert.False(t, found, "dequeue on an empty queue")

	m.enqueue(input("GEN-1", 50, "2026-09-01", "09:00"))
	m.enqueue(input("SENIOR", 85, "2026-09-01", "09:00"))

	served, remaining, ok := m.dequeue()
	require.True(t, ok)
	assert.Equal(t, "SENIOR", served.LifeCertificateNo)
	assert.Equal(t, 1, remaining)

	served, remaining, ok = m.dequeue()
	require.True(t, ok)
	assert.Equal(t, "GEN-1", served.LifeCertificateNo)
	assert.Equal(t, 0, remaining)
}

func TestRemoveAndClear(t *testing.T) {
	m := newManager()

	m.enqueue(input("LC1", 50, "2026-09-01", "09:00"))
	m.enqueue(input("LC2", 60, "2026-09-01", "10:00"))

	removed, ok := m.remove("LC1")
	require.True(t, ok)
	assert.Equal(t, "LC1", removed.LifeCertificateNo)

	_, ok = m.remove("LC1")
	assert.False(t, ok)

	assert.Equal(t, 1, m.clear())
	assert.Empty(t, order(m))
}
