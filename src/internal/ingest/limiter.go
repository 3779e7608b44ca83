// FILE: trackwisp/src/internal/ingest/limiter.go
package ingest

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"trackwisp/src/internal/config"

	"golang.org/x/time/rate"
)

// Limiter rate limits invocations per client IP
type Limiter struct {
	clients         sync.Map // map[string]*clientLimiter
	requestsPerSec  float64
	burstSize       int
	cleanupInterval time.Duration
	done            chan struct{}
	stopOnce        sync.Once

	rejected atomic.Uint64
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// NewLimiter starts a limiter. Returns nil when limiting is disabled; a nil
// limiter allows everything.
func NewLimiter(cfg config.RateLimitConfig) *Limiter {
	if !cfg.Enabled {
		return nil
	}

	interval := time.Duration(cfg.CleanupIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	l := &Limiter{
		requestsPerSec:  cfg.RequestsPerSecond,
		burstSize:       int(cfg.BurstSize),
		cleanupInterval: interval,
		done:            make(chan struct{}),
	}

	go l.cleanup()
	return l
}

// Allow reports whether the client may run one more invocation now
func (l *Limiter) Allow(remoteAddr string) bool {
	if l == nil {
		return true
	}
	if l.getLimiter(clientIP(remoteAddr)).Allow() {
		return true
	}
	l.rejected.Add(1)
	return false
}

func (l *Limiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now().UnixNano()
	if val, ok := l.clients.Load(ip); ok {
		client := val.(*clientLimiter)
		client.lastSeen.Store(now)
		return client.limiter
	}

	client := &clientLimiter{
		limiter: rate.NewLimiter(rate.Limit(l.requestsPerSec), l.burstSize),
	}
	client.lastSeen.Store(now)

	actual, _ := l.clients.LoadOrStore(ip, client)
	return actual.(*clientLimiter).limiter
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.removeOldClients()
		}
	}
}

// removeOldClients keeps limiters for 2x the cleanup interval
func (l *Limiter) removeOldClients() {
	threshold := time.Now().Add(-l.cleanupInterval * 2).UnixNano()

	l.clients.Range(func(key, value any) bool {
		if value.(*clientLimiter).lastSeen.Load() < threshold {
			l.clients.Delete(key)
		}
		return true
	})
}

// Stop ends the cleanup goroutine
func (l *Limiter) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() { close(l.done) })
}

// GetStats returns limiter statistics
func (l *Limiter) GetStats() map[string]any {
	if l == nil {
		return map[string]any{"enabled": false}
	}

	count := 0
	l.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return map[string]any{
		"enabled":             true,
		"requests_per_second": l.requestsPerSec,
		"burst_size":          l.burstSize,
		"active_clients":      count,
		"rejected":            l.rejected.Load(),
	}
}

func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
