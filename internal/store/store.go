// Package store holds the portal's durable local state: the in-progress
// booking draft, the admin bearer token, UI preferences and the last-searched
// certificate number. Everything sits on a small injectable key-value
// interface so tests swap in the in-memory implementation.
package store

import (
	"context"
	"time"
)

// Namespaced keys, one per persisted concern.
const (
	KeyFormDraft  = "lifecert:booking_form_draft"
	KeyTheme      = "lifecert:app_theme"
	KeyLanguage   = "lifecert:app_language"
	KeyFontSize   = "lifecert:app_font_size"
	KeyAdminToken = "lifecert:admin_token"
	KeyLastSearch = "lifecert:last_search"
)

// KV is a byte-valued store with optional per-entry TTL. A zero ttl means the
// entry does not expire. Implementations treat unreadable values as absent
// rather than failing.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
