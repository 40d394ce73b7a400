package services

import (
	"log/slog"
	"sync"
	"time"
)

// LoginThrottle counts failed login attempts per client key and enforces a
// temporary lockout once the threshold is reached. State is process-local and
// mutex-guarded; it does not survive restarts and is not shared across
// instances, which is an accepted trade-off for a single-secret site.
type LoginThrottle struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

type loginAttempt struct {
	count        int
	blockedUntil time.Time
}

// NewLoginThrottle creates a throttle locking a client out for lockout after
// maxAttempts consecutive failures.
func NewLoginThrottle(maxAttempts int, lockout time.Duration, logger *slog.Logger) *LoginThrottle {
	return &LoginThrottle{
		attempts:    make(map[string]*loginAttempt),
		maxAttempts: maxAttempts,
		lockout:     lockout,
		now:         time.Now,
		logger:      logger,
	}
}

// SetClock overrides the time source. Tests only.
func (t *LoginThrottle) SetClock(now func() time.Time) {
	t.now = now
}

// CheckLockout reports whether key is currently locked out and, if so, the
// remaining whole seconds. A record whose lockout has elapsed is deleted, so
// the failure count restarts after the window.
func (t *LoginThrottle) CheckLockout(key string) (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.attempts[key]
	if !ok || entry.blockedUntil.IsZero() {
		return false, 0
	}

	now := t.now()
	if now.Before(entry.blockedUntil) {
		remaining := int(entry.blockedUntil.Sub(now).Seconds())
		if remaining < 1 {
			remaining = 1
		}
		return true, remaining
	}

	delete(t.attempts, key)
	return false, 0
}

// RecordFailure increments the failure count for key and sets the lockout
// expiry once the threshold is reached.
func (t *LoginThrottle) RecordFailure(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.attempts[key]
	if !ok {
		entry = &loginAttempt{}
		t.attempts[key] = entry
	}

	entry.count++
	if entry.count >= t.maxAttempts {
		entry.blockedUntil = t.now().Add(t.lockout)
		t.logger.Warn("login lockout set",
			slog.String("client", key),
			slog.Int("failed_attempts", entry.count),
			slog.Duration("lockout", t.lockout))
	}
}

// RecordSuccess clears any record for key.
func (t *LoginThrottle) RecordSuccess(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.attempts, key)
}

// Len returns the number of tracked clients.
func (t *LoginThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.attempts)
}
