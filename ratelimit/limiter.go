// Package ratelimit implements a fixed-window request counter keyed by client.
package ratelimit

import (
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	DefaultWindow           = time.Minute
	DefaultMaxRequests      = 300
	DefaultSweepProbability = 0.05
)

// record tracks one client's usage of the current window
type record struct {
	count       int
	windowStart time.Time
}

// Limiter allows at most maxRequests per window for each key. A window starts
// with the first request of a key and ends when window has fully elapsed.
// Once a key reaches the limit further requests are rejected without being
// counted until the window ends.
type Limiter struct {
	mu          sync.Mutex
	records     map[string]*record
	window      time.Duration
	maxRequests int
	sweepChance float64
	now         func() time.Time
	random      func() float64
}

type Option func(*Limiter)

func WithWindow(window time.Duration) Option {
	return func(l *Limiter) {
		l.window = window
	}
}

func WithMaxRequests(n int) Option {
	return func(l *Limiter) {
		l.maxRequests = n
	}
}

// WithSweepProbability sets the chance that a call also evicts stale records
func WithSweepProbability(p float64) Option {
	return func(l *Limiter) {
		l.sweepChance = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithRandom replaces the source used to decide when to sweep. It must return values in [0, 1).
func WithRandom(random func() float64) Option {
	return func(l *Limiter) {
		l.random = random
	}
}

func New(options ...Option) *Limiter {
	l := &Limiter{
		records:     make(map[string]*record),
		window:      DefaultWindow,
		maxRequests: DefaultMaxRequests,
		sweepChance: DefaultSweepProbability,
		now:         time.Now,
		random:      rand.Float64,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Allow records a request for key and reports whether it is within the limit
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	allowed := l.count(key, now)

	if l.random() < l.sweepChance {
		l.sweep(now)
	}
	return allowed
}

func (l *Limiter) count(key string, now time.Time) bool {
	rec, ok := l.records[key]
	if !ok || now.Sub(rec.windowStart) > l.window {
		l.records[key] = &record{count: 1, windowStart: now}
		return true
	}
	if rec.count >= l.maxRequests {
		return false
	}
	rec.count++
	return true
}

func (l *Limiter) sweep(now time.Time) {
	for key, rec := range l.records {
		if now.Sub(rec.windowStart) > l.window {
			delete(l.records, key)
		}
	}
}

// RetryAfter returns how long key has to wait for its window to end
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	if !ok {
		return 0
	}
	remaining := l.window - l.now().Sub(rec.windowStart)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Len returns the number of tracked keys
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// ClientKey identifies the caller of r: the first X-Forwarded-For entry, then
// the peer address, then "unknown".
func ClientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if r.RemoteAddr != "" {
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
	return "unknown"
}
