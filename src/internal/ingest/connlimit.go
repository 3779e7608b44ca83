// FILE: trackwisp/src/internal/ingest/connlimit.go
package ingest

import (
	"sync"
	"sync/atomic"
)

// ConnLimiter caps concurrent TCP connections in total and per client IP
type ConnLimiter struct {
	maxTotal int64
	maxPerIP int64

	mu            sync.Mutex
	total         int64
	ipConnections map[string]int64

	rejected atomic.Uint64
}

// NewConnLimiter returns nil when both caps are 0; a nil limiter accepts
// every connection.
func NewConnLimiter(maxTotal, maxPerIP int64) *ConnLimiter {
	if maxTotal <= 0 && maxPerIP <= 0 {
		return nil
	}
	return &ConnLimiter{
		maxTotal:      maxTotal,
		maxPerIP:      maxPerIP,
		ipConnections: make(map[string]int64),
	}
}

// Acquire reserves a slot for a new connection. Every successful Acquire
// must be paired with one Release.
func (l *ConnLimiter) Acquire(remoteAddr string) bool {
	if l == nil {
		return true
	}
	ip := clientIP(remoteAddr)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxTotal > 0 && l.total >= l.maxTotal {
		l.rejected.Add(1)
		return false
	}
	if l.maxPerIP > 0 && l.ipConnections[ip] >= l.maxPerIP {
		l.rejected.Add(1)
		return false
	}

	l.total++
	l.ipConnections[ip]++
	return true
}

// Release frees the slot taken by Acquire
func (l *ConnLimiter) Release(remoteAddr string) {
	if l == nil {
		return
	}
	ip := clientIP(remoteAddr)

	l.mu.Lock()
	defer l.mu.Unlock()

	count, ok := l.ipConnections[ip]
	if !ok {
		return
	}
	l.total--
	if count <= 1 {
		delete(l.ipConnections, ip)
	} else {
		l.ipConnections[ip] = count - 1
	}
}

// GetStats returns connection limiter statistics
func (l *ConnLimiter) GetStats() map[string]any {
	if l == nil {
		return map[string]any{"enabled": false}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return map[string]any{
		"enabled":         true,
		"max_connections": l.maxTotal,
		"max_per_ip":      l.maxPerIP,
		"connections":     l.total,
		"tracked_ips":     len(l.ipConnections),
		"rejected":        l.rejected.Load(),
	}
}
