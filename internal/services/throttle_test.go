package services

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestThrottle() (*LoginThrottle, *time.Time) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	throttle := NewLoginThrottle(5, 60*time.Second, logger)

	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	throttle.SetClock(func() time.Time { return current })
	return throttle, &current
}

func TestThrottleAllowsUnknownClient(t *testing.T) {
	throttle, _ := newTestThrottle()

	locked, retryAfter := throttle.CheckLockout("203.0.113.1")
	assert.False(t, locked)
	assert.Equal(t, 0, retryAfter)
}

func TestThrottleLocksAfterThreshold(t *testing.T) {
	throttle, _ := newTestThrottle()

	for i := 0; i < 4; i++ {
		throttle.RecordFailure("203.0.113.1")
		locked, _ := throttle.CheckLockout("203.0.113.1")
		assert.False(t, locked, "attempt %d should not lock", i+1)
	}

	throttle.RecordFailure("203.0.113.1")

	locked, retryAfter := throttle.CheckLockout("203.0.113.1")
	assert.True(t, locked)
	assert.LessOrEqual(t, retryAfter, 60)
	assert.Greater(t, retryAfter, 0)
}

func TestThrottleUnlocksAfterWindowAndResetsCount(t *testing.T) {
	throttle, clock := newTestThrottle()

	for i := 0; i < 5; i++ {
		throttle.RecordFailure("203.0.113.1")
	}
	locked, _ := throttle.CheckLockout("203.0.113.1")
	assert.True(t, locked)

	*clock = clock.Add(61 * time.Second)

	locked, _ = throttle.CheckLockout("203.0.113.1")
	assert.False(t, locked)
	// Lazy deletion on unlock: the record is gone, so counting restarts.
	assert.Equal(t, 0, throttle.Len())
}

func TestThrottleSuccessClearsRecord(t *testing.T) {
	throttle, _ := newTestThrottle()

	for i := 0; i < 4; i++ {
		throttle.RecordFailure("203.0.113.1")
	}
	throttle.RecordSuccess("203.0.113.1")
	assert.Equal(t, 0, throttle.Len())

	// A failure after a success starts counting from 1 again.
	throttle.RecordFailure("203.0.113.1")
	locked, _ := throttle.CheckLockout("203.0.113.1")
	assert.False(t, locked)
}

func TestThrottleKeysAreIndependent(t *testing.T) {
	throttle, _ := newTestThrottle()

	for i := 0; i < 5; i++ {
		throttle.RecordFailure("203.0.113.1")
	}

	locked, _ := throttle.CheckLockout("203.0.113.2")
	assert.False(t, locked, "a different client must not inherit the lockout")
}
