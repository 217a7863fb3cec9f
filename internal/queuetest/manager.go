package queuetest

import (
	"sort"
	"sync"
	"time"

	"lifecert-queue/internal/api"
	"lifecert-queue/internal/priority"
)

// manager is the in-memory queue behind the fake service. Ordering matches
// the real service: priority class first, then preferred date, preferred
// time, and finally arrival sequence.
type manager struct {
	mu      sync.Mutex
	entries []managedEntry
	seq     int
	updated time.Time
}

type managedEntry struct {
	api.QueueEntry
	seq int
}

func newManager() *manager {
	return &manager{updated: time.Now()}
}

func (m *manager) less(a, b *managedEntry) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.PreferredDate != b.PreferredDate {
		return a.PreferredDate < b.PreferredDate
	}
	if a.PreferredTime != b.PreferredTime {
		return a.PreferredTime < b.PreferredTime
	}
	return a.seq < b.seq
}

// sorted returns the queue in serving order. Callers hold m.mu.
func (m *manager) sorted() []api.QueueEntry {
	ordered := make([]managedEntry, len(m.entries))
	copy(ordered, m.entries)
	sort.Slice(ordered, func(i, j int) bool { return m.less(&ordered[i], &ordered[j]) })
	out := make([]api.QueueEntry, len(ordered))
	for i := range ordered {
		out[i] = ordered[i].QueueEntry
	}
	return out
}

func (m *manager) enqueue(input api.EnqueueInput) (api.QueueEntry, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].LifeCertificateNo == input.LifeCertificateNo {
			return api.QueueEntry{}, 0, false
		}
	}
	entry := api.QueueEntry{
		LifeCertificateNo: input.LifeCertificateNo,
		Name:              input.Name,
		Age:               input.Age,
		Phone:             input.Phone,
		ProofGuardianName: input.ProofGuardianName,
		VerificationMode:  input.VerificationMode,
		PreferredDate:     input.PreferredDate,
		PreferredTime:     input.PreferredTime,
		Priority:          priority.Classify(input.Age),
		Status:            "waiting",
		CreatedAt:         time.Now().UTC(),
	}
	m.entries = append(m.entries, managedEntry{QueueEntry: entry, seq: m.seq})
	m.seq++
	m.updated = time.Now()

	position := 1
	for i, e := range m.sorted() {
		if e.LifeCertificateNo == entry.LifeCertificateNo {
			position = i + 1
			break
		}
	}
	return entry, position, true
}

func (m *manager) snapshot() ([]api.QueueEntry, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), m.updated
}

func (m *manager) get(certNo string) (api.QueueEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].LifeCertificateNo == certNo {
			return m.entries[i].QueueEntry, true
		}
	}
	return api.QueueEntry{}, false
}

func (m *manager) dequeue() (api.QueueEntry, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return api.QueueEntry{}, 0, false
	}
	ordered := m.sorted()
	head := ordered[0]
	m.removeLocked(head.LifeCertificateNo)
	m.updated = time.Now()
	return head, len(m.entries), true
}

func (m *manager) remove(certNo string) (api.QueueEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].LifeCertificateNo == certNo {
			removed := m.entries[i].QueueEntry
			m.removeLocked(certNo)
			m.updated = time.Now()
			return removed, true
		}
	}
	return api.QueueEntry{}, false
}

func (m *manager) removeLocked(certNo string) {
	for i := range m.entries {
		if m.entries[i].LifeCertificateNo == certNo {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return
		}
	}
}

func (m *manager) clear() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.entries)
	m.entries = nil
	m.seq = 0
	m.updated = time.Now()
	return n
}
