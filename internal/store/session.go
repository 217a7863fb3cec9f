package store

import (
	"context"
	"time"
)

// TokenStore keeps the admin bearer credential. It satisfies the gateway's
// TokenSource so a 401 can clear the stale token in place.
type TokenStore struct {
	kv  KV
	ctx context.Context
}

// NewTokenStore creates a token store. The context is held because the
// gateway's TokenSource interface has no context parameter.
func NewTokenStore(ctx context.Context, kv KV) *TokenStore {
	return &TokenStore{kv: kv, ctx: ctx}
}

func (s *TokenStore) Token() (string, bool) {
	value, ok, err := s.kv.Get(s.ctx, KeyAdminToken)
	if err != nil || !ok {
		return "", false
	}
	return string(value), true
}

func (s *TokenStore) SetToken(token string) error {
	return s.kv.Set(s.ctx, KeyAdminToken, []byte(token), 0)
}

func (s *TokenStore) Clear() {
	_ = s.kv.Delete(s.ctx, KeyAdminToken)
}

func (s *TokenStore) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// Preference defaults.
const (
	DefaultTheme    = "light"
	DefaultLanguage = "en"
	DefaultFontSize = "normal"
)

// Preferences persists the display settings (theme, language, font size).
// Values are plain strings with no TTL; unknown values fall back to defaults
// at read time.
type Preferences struct {
	kv KV
}

func NewPreferences(kv KV) *Preferences {
	return &Preferences{kv: kv}
}

func (p *Preferences) get(ctx context.Context, key, fallback string) string {
	value, ok, err := p.kv.Get(ctx, key)
	if err != nil || !ok || len(value) == 0 {
		return fallback
	}
	return string(value)
}

func (p *Preferences) Theme(ctx context.Context) string {
	return p.get(ctx, KeyTheme, DefaultTheme)
}

func (p *Preferences) SetTheme(ctx context.Context, theme string) error {
	return p.kv.Set(ctx, KeyTheme, []byte(theme), 0)
}

func (p *Preferences) Language(ctx context.Context) string {
	return p.get(ctx, KeyLanguage, DefaultLanguage)
}

func (p *Preferences) SetLanguage(ctx context.Context, lang string) error {
	return p.kv.Set(ctx, KeyLanguage, []byte(lang), 0)
}

func (p *Preferences) FontSize(ctx context.Context) string {
	return p.get(ctx, KeyFontSize, DefaultFontSize)
}

func (p *Preferences) SetFontSize(ctx context.Context, size string) error {
	return p.kv.Set(ctx, KeyFontSize, []byte(size), 0)
}

// SearchStore remembers the last certificate number looked up on the status
// page, so the search form can be prefilled next visit.
type SearchStore struct {
	kv KV
}

func NewSearchStore(kv KV) *SearchStore {
	return &SearchStore{kv: kv}
}

func (s *SearchStore) Last(ctx context.Context) (string, bool) {
	value, ok, err := s.kv.Get(ctx, KeyLastSearch)
	if err != nil || !ok {
		return "", false
	}
	return string(value), true
}

func (s *SearchStore) Remember(ctx context.Context, certNo string) error {
	return s.kv.Set(ctx, KeyLastSearch, []byte(certNo), 30*24*time.Hour)
}

func (s *SearchStore) Forget(ctx context.Context) error {
	return s.kv.Delete(ctx, KeyLastSearch)
}
