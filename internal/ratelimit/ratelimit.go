// Package ratelimit throttles contact form submissions per client IP.
//
// Two implementations share the Limiter interface: an in-memory fixed window
// for single-instance deployments and a Redis counter for deployments behind
// a load balancer.
package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether another request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type bucket struct {
	count       int
	windowStart time.Time
}

// Memory is an in-process fixed window limiter.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	max     int
	window  time.Duration
	now     func() time.Time
}

// NewMemory allows max requests per key in each window.
func NewMemory(max int, window time.Duration) *Memory {
	return &Memory{
		buckets: make(map[string]*bucket),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

// Allow counts the request and reports whether it is within the limit.
func (m *Memory) Allow(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || now.Sub(b.windowStart) > m.window {
		m.buckets[key] = &bucket{count: 1, windowStart: now}
		m.sweep(now)
		return true, nil
	}
	b.count++
	return b.count <= m.max, nil
}

// sweep drops expired buckets. Called with mu held.
func (m *Memory) sweep(now time.Time) {
	for k, b := range m.buckets {
		if now.Sub(b.windowStart) > m.window {
			delete(m.buckets, k)
		}
	}
}

// Redis is a fixed window limiter shared through Redis.
type Redis struct {
	client *redis.Client
	max    int64
	window time.Duration
	prefix string
}

// NewRedis allows max requests per key in each window.
func NewRedis(client *redis.Client, max int, window time.Duration) *Redis {
	return &Redis{client: client, max: int64(max), window: window, prefix: "bamtech:ratelimit:"}
}

// Allow increments the window counter for key. The counter is created with
// its expiry in the same transaction, so a key can never outlive its window.
func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := r.prefix + key
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, k, 0, r.window)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("count %s: %w", k, err)
	}
	return incr.Val() <= r.max, nil
}

// TrustedProxies lists the peers whose X-Forwarded-For and X-Real-IP headers
// are believed. The zero value trusts nobody.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies reads addresses ("10.0.0.1") and networks
// ("10.0.0.0/8").
func ParseTrustedProxies(values []string) (TrustedProxies, error) {
	var out TrustedProxies
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

func (p TrustedProxies) trusts(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range p {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the client address of r. Forwarding headers are only
// read when the direct peer is a trusted proxy; X-Forwarded-For is walked
// from the right and the first hop that is not a trusted proxy wins.
func (p TrustedProxies) ClientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !p.trusts(peer) {
		return peer
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !p.trusts(hop) || i == 0 {
				return hop
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}
