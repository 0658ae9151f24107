// Package ratelimit limits requests per client and endpoint with token buckets.
package ratelimit

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Rule limits one group of endpoints. Path matches exactly, or as a prefix when it
// ends with "/"; Suffix, when set, must also match the end of the path.
type Rule struct {
	Method string
	Path   string
	Suffix string
	// PerMinute is the sustained rate; zero means unlimited
	PerMinute int
	Burst     int
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if strings.HasSuffix(r.Path, "/") {
		if !strings.HasPrefix(path, r.Path) {
			return false
		}
	} else if r.Path != path {
		return false
	}
	return r.Suffix == "" || strings.HasSuffix(path, r.Suffix)
}

// Config holds rate limiting configuration.
type Config struct {
	// DefaultPerMinute applies to endpoints without a rule; zero disables limiting
	DefaultPerMinute int
	Rules            []Rule
	// IdleTTL is how long an unused bucket is kept
	IdleTTL time.Duration
}

// DefaultRules returns the limits for the matching API given the default per-minute rate.
// Runs are the expensive tier; health is never limited.
func DefaultRules(perMinute int) []Rule {
	runLimit := max(perMinute/10, 1)
	return []Rule{
		{Method: "GET", Path: "/health"},
		{Method: "POST", Path: "/jobs/", Suffix: "/matches", PerMinute: runLimit, Burst: 2},
		{Method: "POST", Path: "/batch-match", PerMinute: runLimit, Burst: 1},
	}
}

// Info describes the outcome of one Allow call.
type Info struct {
	Allowed    bool
	Limit      int
	RetryAfter time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter manages one token bucket per client, method and endpoint group.
type Limiter struct {
	cfg     Config
	mu      sync.Mutex
	buckets map[string]*entry
	now     func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(cfg Config) *Limiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = time.Hour
	}
	return &Limiter{
		cfg:     cfg,
		buckets: make(map[string]*entry),
		now:     time.Now,
	}
}

// Enabled reports whether any request can be limited
func (l *Limiter) Enabled() bool {
	return l != nil && l.cfg.DefaultPerMinute > 0
}

// Allow consumes a token for the client's request if one is available.
func (l *Limiter) Allow(clientID, method, path string) Info {
	if !l.Enabled() {
		return Info{Allowed: true}
	}

	perMinute, burst, group := l.cfg.DefaultPerMinute, l.cfg.DefaultPerMinute, "default"
	for i, r := range l.cfg.Rules {
		if r.matches(method, path) {
			perMinute, burst, group = r.PerMinute, r.Burst, "rule"+strconv.Itoa(i)
			break
		}
	}
	if perMinute <= 0 {
		return Info{Allowed: true}
	}
	if burst <= 0 {
		burst = perMinute
	}

	now := l.now()
	key := clientID + ":" + method + ":" + group
	if group == "default" {
		key += ":" + path
	}

	l.mu.Lock()
	e, ok := l.buckets[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), burst)}
		l.buckets[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	r := e.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
		return Info{Allowed: false, Limit: perMinute, RetryAfter: delay}
	}
	return Info{Allowed: true, Limit: perMinute}
}

// Sweep drops buckets that have been idle longer than the configured TTL.
// It returns the number of buckets removed.
func (l *Limiter) Sweep() int {
	if l == nil {
		return 0
	}
	cutoff := l.now().Add(-l.cfg.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, e := range l.buckets {
		if e.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}
