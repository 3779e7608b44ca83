// FILE: trackwisp/src/internal/auth/guard.go
package auth

import (
	"net"
	"sync"
	"time"

	"github.com/lixenwraith/log"
	"golang.org/x/time/rate"
)

// Prevent unbounded map growth
const maxTrackedIPs = 10000

// Guard slows down credential guessing per client IP. Each IP gets a small
// token bucket of attempts; exhausting it blocks the IP for a period that
// doubles with every further violation, capped at 64 minutes.
type Guard struct {
	attempts map[string]*ipAuthState
	mu       sync.Mutex
	logger   *log.Logger
	done     chan struct{}
	stopOnce sync.Once

	// Attempt budget per IP
	every time.Duration
	burst int
}

type ipAuthState struct {
	limiter      *rate.Limiter
	failCount    int
	lastAttempt  time.Time
	blockedUntil time.Time
}

// NewGuard allows 5 attempts per minute per IP with a burst of 3
func NewGuard(logger *log.Logger) *Guard {
	g := &Guard{
		attempts: make(map[string]*ipAuthState),
		logger:   logger,
		done:     make(chan struct{}),
		every:    12 * time.Second,
		burst:    3,
	}
	go g.cleanupLoop()
	return g
}

// Check consumes one attempt for the address
func (g *Guard) Check(remoteAddr string) error {
	ip := hostOf(remoteAddr)
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	state, exists := g.attempts[ip]
	if !exists {
		if len(g.attempts) >= maxTrackedIPs {
			g.evictOldest()
		}
		state = &ipAuthState{
			limiter: rate.NewLimiter(rate.Every(g.every), g.burst),
		}
		g.attempts[ip] = state
	}
	state.lastAttempt = now

	if now.Before(state.blockedUntil) {
		return ErrRateLimited
	}

	if !state.limiter.AllowN(now, 1) {
		state.failCount++
		blockMinutes := 1 << min(state.failCount, 6)
		state.blockedUntil = now.Add(time.Duration(blockMinutes) * time.Minute)

		g.logger.Warn("msg", "Authentication rate exceeded, blocking IP",
			"component", "auth",
			"ip", ip,
			"fail_count", state.failCount,
			"block_duration", time.Duration(blockMinutes)*time.Minute)
		return ErrRateLimited
	}

	return nil
}

// RecordFailure counts a rejected credential
func (g *Guard) RecordFailure(remoteAddr string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if state, ok := g.attempts[hostOf(remoteAddr)]; ok {
		state.failCount++
	}
}

// RecordSuccess clears the failure history of the address
func (g *Guard) RecordSuccess(remoteAddr string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if state, ok := g.attempts[hostOf(remoteAddr)]; ok {
		state.failCount = 0
		state.blockedUntil = time.Time{}
	}
}

// Tracked returns the number of addresses with state
func (g *Guard) Tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.attempts)
}

// Stop ends the cleanup goroutine
func (g *Guard) Stop() {
	g.stopOnce.Do(func() { close(g.done) })
}

// evictOldest drops the stalest of a small sample. Caller holds mu.
func (g *Guard) evictOldest() {
	const sampleSize = 20
	var oldestIP string
	oldestTime := time.Now()

	sampled := 0
	for ip, state := range g.attempts {
		if state.lastAttempt.Before(oldestTime) {
			oldestIP = ip
			oldestTime = state.lastAttempt
		}
		sampled++
		if sampled >= sampleSize {
			break
		}
	}
	if oldestIP != "" {
		delete(g.attempts, oldestIP)
	}
}

func (g *Guard) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-g.done:
			return
		case <-ticker.C:
			g.removeIdle(time.Hour)
		}
	}
}

func (g *Guard) removeIdle(maxIdle time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	for ip, state := range g.attempts {
		if now.Sub(state.lastAttempt) > maxIdle && now.After(state.blockedUntil) {
			delete(g.attempts, ip)
		}
	}
}

func hostOf(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
