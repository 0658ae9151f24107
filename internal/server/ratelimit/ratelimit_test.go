package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(cfg Config) (*Limiter, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = c.now
	return l, c
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(Config{})
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("1.2.3.4", "GET", "/jobs/x/matches").Allowed)
	}
	assert.False(t, l.Enabled())

	var nilLimiter *Limiter
	assert.True(t, nilLimiter.Allow("c", "GET", "/").Allowed)
}

func TestLimiter_DefaultBurstThenDeny(t *testing.T) {
	l, c := newTestLimiter(Config{DefaultPerMinute: 60})

	for i := 0; i < 60; i++ {
		require.True(t, l.Allow("client", "GET", "/jobs/a/matches").Allowed, "request %d", i+1)
	}
	info := l.Allow("client", "GET", "/jobs/a/matches")
	assert.False(t, info.Allowed)
	assert.Equal(t, 60, info.Limit)
	assert.Greater(t, info.RetryAfter, time.Duration(0))

	// 60 per minute refills one token per second
	c.advance(time.Second)
	assert.True(t, l.Allow("client", "GET", "/jobs/a/matches").Allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(Config{DefaultPerMinute: 1})

	assert.True(t, l.Allow("a", "GET", "/x").Allowed)
	assert.False(t, l.Allow("a", "GET", "/x").Allowed)
	assert.True(t, l.Allow("b", "GET", "/x").Allowed)
}

func TestLimiter_Rules(t *testing.T) {
	l, _ := newTestLimiter(Config{DefaultPerMinute: 100, Rules: DefaultRules(100)})

	// Health is unlimited
	for i := 0; i < 500; i++ {
		require.True(t, l.Allow("c", "GET", "/health").Allowed)
	}

	// Runs share a burst of 2 across jobs
	assert.True(t, l.Allow("c", "POST", "/jobs/a/matches").Allowed)
	assert.True(t, l.Allow("c", "POST", "/jobs/b/matches").Allowed)
	info := l.Allow("c", "POST", "/jobs/c/matches")
	assert.False(t, info.Allowed)
	assert.Equal(t, 10, info.Limit)

	// Reading matches is not a run
	assert.True(t, l.Allow("c", "GET", "/jobs/a/matches").Allowed)

	assert.True(t, l.Allow("c", "POST", "/batch-match").Allowed)
	assert.False(t, l.Allow("c", "POST", "/batch-match").Allowed)
}

func TestRule_Matches(t *testing.T) {
	tests := []struct {
		name   string
		rule   Rule
		method string
		path   string
		want   bool
	}{
		{"exact", Rule{Path: "/health"}, "GET", "/health", true},
		{"exact mismatch", Rule{Path: "/health"}, "GET", "/healthz", false},
		{"prefix with suffix", Rule{Method: "POST", Path: "/jobs/", Suffix: "/matches"}, "POST", "/jobs/1/matches", true},
		{"prefix wrong suffix", Rule{Method: "POST", Path: "/jobs/", Suffix: "/matches"}, "POST", "/jobs/1/skill-gaps", false},
		{"wrong method", Rule{Method: "POST", Path: "/batch-match"}, "GET", "/batch-match", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.matches(tt.method, tt.path))
		})
	}
}

func TestDefaultRules_MinimumRunLimit(t *testing.T) {
	rules := DefaultRules(5)
	assert.Equal(t, 1, rules[1].PerMinute)
}

func TestLimiter_Sweep(t *testing.T) {
	l, c := newTestLimiter(Config{DefaultPerMinute: 10, IdleTTL: time.Minute})

	l.Allow("a", "GET", "/x")
	c.advance(30 * time.Second)
	l.Allow("b", "GET", "/x")
	c.advance(45 * time.Second)

	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 0, l.Sweep())
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(Config{DefaultPerMinute: 50})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("c", "GET", "/x").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}
