package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-docflow/document"
	"github.com/google/uuid"
)

// DefaultSessionTTL bounds how long a login stays valid.
const DefaultSessionTTL = 24 * time.Hour

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "docflow_session"

// Session is an authenticated login.
type Session struct {
	Token     string       `json:"token"`
	User      TelegramUser `json:"user"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// SessionConfig configures SessionStore.
type SessionConfig struct {
	TTL         time.Duration
	Now         document.Clock
	IDGenerator func() string
}

// SessionStore keeps sessions in memory until they expire.
type SessionStore struct {
	cache *ttlCache[string, Session]
	ttl   time.Duration
	now   document.Clock
	newID func() string
}

// NewSessionStore creates a store.
func NewSessionStore(cfg SessionConfig) *SessionStore {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	return &SessionStore{
		cache: newTTLCache[string, Session](now),
		ttl:   ttl,
		now:   now,
		newID: idGen,
	}
}

// Create opens a session for user.
func (s *SessionStore) Create(user TelegramUser) Session {
	session := Session{
		Token:     s.newID(),
		User:      user,
		CreatedAt: s.now(),
	}
	session.ExpiresAt = session.CreatedAt.Add(s.ttl)
	s.cache.Set(session.Token, session, s.ttl)
	return session
}

// Get returns a live session.
func (s *SessionStore) Get(token string) (Session, bool) {
	if s == nil || token == "" {
		return Session{}, false
	}
	return s.cache.Get(token)
}

// Delete ends a session. Unknown tokens are ignored.
func (s *SessionStore) Delete(token string) {
	if s == nil || token == "" {
		return
	}
	s.cache.Delete(token)
}

// Sweep removes expired sessions.
func (s *SessionStore) Sweep() int {
	if s == nil {
		return 0
	}
	return s.cache.Sweep()
}

// RunSweeper sweeps every interval until ctx is done.
func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if s == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
