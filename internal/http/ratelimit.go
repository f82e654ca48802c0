package http

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// ipLimiter throttles clients to a fixed number of requests per minute,
// counted per remote IP with a rolling one minute window.
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientWindow
	perMinute int
	lastSweep time.Time
}

type clientWindow struct {
	windowStart time.Time
	requests    int
}

func newIPLimiter(perMinute int) *ipLimiter {
	return &ipLimiter{
		clients:   make(map[string]*clientWindow),
		perMinute: perMinute,
		lastSweep: time.Now(),
	}
}

func (l *ipLimiter) allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	client, ok := l.clients[clientIP]
	if !ok || now.Sub(client.windowStart) > time.Minute {
		l.clients[clientIP] = &clientWindow{windowStart: now, requests: 1}
		return true
	}

	client.requests++
	return client.requests <= l.perMinute
}

// sweep drops windows idle for over ten minutes so the map cannot grow
// without bound. Runs at most every five minutes, under l.mu.
func (l *ipLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < 5*time.Minute {
		return
	}
	l.lastSweep = now

	cutoff := now.Add(-10 * time.Minute)
	for ip, client := range l.clients {
		if client.windowStart.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.allow(ip) {
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "Too Many Requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}
