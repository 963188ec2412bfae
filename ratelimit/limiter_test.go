package ratelimit_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/informesapp/go-auth-core/ratelimit"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAllowUpToLimit(t *testing.T) {
	c := newClock()
	limiter := ratelimit.New(5, time.Minute, ratelimit.WithNowFunc(c.Now))

	for i := 0; i < 5; i++ {
		require.True(t, limiter.Allow("email:bob@example.com"), "attempt %d", i+1)
	}
	require.False(t, limiter.Allow("email:bob@example.com"))
}

func TestWindowExpiryRestoresAllowance(t *testing.T) {
	c := newClock()
	limiter := ratelimit.New(5, time.Minute, ratelimit.WithNowFunc(c.Now))

	for i := 0; i < 5; i++ {
		require.True(t, limiter.Allow("k"))
	}
	require.False(t, limiter.Allow("k"))

	c.Advance(61 * time.Second)
	require.True(t, limiter.Allow("k"))
}

// A denied attempt must not count toward the window, so a caller hammering
// a locked key regains access as soon as the original attempts age out.
func TestDeniedAttemptsNotRecorded(t *testing.T) {
	c := newClock()
	limiter := ratelimit.New(2, time.Minute, ratelimit.WithNowFunc(c.Now))

	require.True(t, limiter.Allow("k"))
	require.True(t, limiter.Allow("k"))

	for i := 0; i < 10; i++ {
		c.Advance(5 * time.Second)
		require.False(t, limiter.Allow("k"))
	}

	// 50s of denials later, the two recorded attempts age out on schedule.
	c.Advance(11 * time.Second)
	require.True(t, limiter.Allow("k"))
}

func TestKeysAreIndependent(t *testing.T) {
	c := newClock()
	limiter := ratelimit.New(1, time.Minute, ratelimit.WithNowFunc(c.Now))

	require.True(t, limiter.Allow("email:a@example.com"))
	require.False(t, limiter.Allow("email:a@example.com"))
	require.True(t, limiter.Allow("email:b@example.com"))
	require.True(t, limiter.Allow("ip:10.0.0.1"))
}

func TestPartialWindowSlide(t *testing.T) {
	c := newClock()
	limiter := ratelimit.New(3, time.Minute, ratelimit.WithNowFunc(c.Now))

	require.True(t, limiter.Allow("k")) // t=0
	c.Advance(30 * time.Second)
	require.True(t, limiter.Allow("k")) // t=30
	require.True(t, limiter.Allow("k")) // t=30
	require.False(t, limiter.Allow("k"))

	// t=61: the first attempt has aged out, the two at t=30 remain.
	c.Advance(31 * time.Second)
	require.True(t, limiter.Allow("k"))
	require.False(t, limiter.Allow("k"))
}

func TestConcurrentAttemptsNeverOverAdmit(t *testing.T) {
	limiter := ratelimit.New(5, time.Minute)

	var wg sync.WaitGroup
	var allowed int64
	var mu sync.Mutex
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow("k") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 5, allowed)
}
