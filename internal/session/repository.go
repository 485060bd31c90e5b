package session

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Repository holds one Session per user identity. Entries never auto-evict;
// expiry is checked lazily and is mode-aware, so the cache is used purely as
// a concurrent map with a periodic janitor disabled.
type Repository struct {
	cache      *cache.Cache
	timeSource TimeSource
}

// NewRepository creates a new Repository
func NewRepository() *Repository {
	return NewRepositoryWithTimeSource(&defaultTimeSource{})
}

// NewRepositoryWithTimeSource creates a Repository with a custom time source for testing
func NewRepositoryWithTimeSource(ts TimeSource) *Repository {
	return &Repository{
		cache:      cache.New(cache.NoExpiration, 0),
		timeSource: ts,
	}
}

// GetOrCreate returns the existing session for userID, or a fresh Idle one.
func (r *Repository) GetOrCreate(userID string) *Session {
	if x, found := r.cache.Get(userID); found {
		return x.(*Session)
	}
	s := newSession(userID, r.timeSource.Now())
	r.cache.Set(userID, s, cache.NoExpiration)
	return s
}

// Reset replaces the user's session wholesale with a fresh Idle one.
func (r *Repository) Reset(userID string) *Session {
	s := newSession(userID, r.timeSource.Now())
	r.cache.Set(userID, s, cache.NoExpiration)
	return s
}

// Touch marks the session as active now.
func (r *Repository) Touch(s *Session) {
	s.LastActivity = r.timeSource.Now()
}

// IsExpired reports whether the session has been inactive longer than
// timeout. Idle sessions never expire.
func (r *Repository) IsExpired(s *Session, timeout time.Duration) bool {
	if s.Mode == ModeIdle {
		return false
	}
	return r.timeSource.Now().Sub(s.LastActivity) > timeout
}

// Locks serializes event processing per user identity. Different identities
// proceed in parallel; two events for the same identity never interleave.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocks creates a new Locks
func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the identity's mutex and returns the release function. The
// caller must release on every exit path.
func (l *Locks) Acquire(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
