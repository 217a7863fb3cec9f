package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"lifecert-queue/internal/api"
)

// DraftTTL is how long an unsubmitted booking draft stays recoverable.
const DraftTTL = 24 * time.Hour

// draftRecord is the persisted envelope: the form fields plus when they were
// last saved.
type draftRecord struct {
	Data      api.EnqueueInput `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// DraftStore owns the single booking-draft slot. Save always overwrites;
// there is never more than one draft and drafts are never merged.
type DraftStore struct {
	kv     KV
	now    func() time.Time
	logger *slog.Logger
}

// NewDraftStore creates a draft store on the given KV.
func NewDraftStore(kv KV) *DraftStore {
	return &DraftStore{kv: kv, now: time.Now, logger: slog.Default()}
}

// SetClock replaces the time source, for expiry tests.
func (s *DraftStore) SetClock(now func() time.Time) { s.now = now }

// Save overwrites the draft slot with the given form fields. Callers only
// invoke this after the user has edited at least one field, so an untouched
// form never leaves a recovery prompt behind.
func (s *DraftStore) Save(ctx context.Context, data api.EnqueueInput) error {
	record := draftRecord{Data: data, Timestamp: s.now()}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyFormDraft, payload, DraftTTL)
}

// Load returns the saved draft, or ok=false when there is none. A draft older
// than DraftTTL is deleted and reported as absent, as is any record that no
// longer parses.
func (s *DraftStore) Load(ctx context.Context) (api.EnqueueInput, bool, error) {
	payload, found, err := s.kv.Get(ctx, KeyFormDraft)
	if err != nil || !found {
		return api.EnqueueInput{}, false, err
	}

	var record draftRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		s.logger.Warn("discarding unreadable booking draft", "error", err)
		_ = s.kv.Delete(ctx, KeyFormDraft)
		return api.EnqueueInput{}, false, nil
	}

	if s.now().Sub(record.Timestamp) > DraftTTL {
		if err := s.kv.Delete(ctx, KeyFormDraft); err != nil {
			return api.EnqueueInput{}, false, err
		}
		return api.EnqueueInput{}, false, nil
	}

	return record.Data, true, nil
}

// Clear deletes the draft, called on successful submission or explicit
// discard.
func (s *DraftStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyFormDraft)
}

// HasDraft reports whether a live draft exists.
func (s *DraftStore) HasDraft(ctx context.Context) bool {
	_, ok, err := s.Load(ctx)
	return err == nil && ok
}
