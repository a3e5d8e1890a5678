package tokend

import (
	"context"
	"sort"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RateLimitConfig defines a token bucket for one method or globally.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustainable rate (tokens added per second).
	RequestsPerSecond float64

	// BurstSize is the maximum number of requests allowed in a burst.
	BurstSize int
}

// GlobalMethod labels the shared bucket in Stats.
const GlobalMethod = "*"

// BucketForRate sizes a bucket at twice its rate, never below one request.
func BucketForRate(rps float64) RateLimitConfig {
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	return RateLimitConfig{RequestsPerSecond: rps, BurstSize: burst}
}

// LimitsForRate derives per-method limits from a base rate. Listing the whole
// table is heavier than resolving one token, so it gets a tenth of the rate.
func LimitsForRate(rps float64) map[string]RateLimitConfig {
	base := BucketForRate(rps)
	list := RateLimitConfig{RequestsPerSecond: rps / 10, BurstSize: base.BurstSize / 10}
	if list.BurstSize < 1 {
		list.BurstSize = 1
	}

	return map[string]RateLimitConfig{
		ResolveMethod:    base,
		ListTokensMethod: list,
		StatusMethod:     base,
	}
}

type tokenBucket struct {
	mu           sync.Mutex
	tokens       float64
	lastUpdate   time.Time
	ratePerSec   float64
	maxTokens    float64
	requestCount int64
	deniedCount  int64
}

func newTokenBucket(cfg RateLimitConfig, now time.Time) *tokenBucket {
	return &tokenBucket{
		tokens:     float64(cfg.BurstSize),
		lastUpdate: now,
		ratePerSec: cfg.RequestsPerSecond,
		maxTokens:  float64(cfg.BurstSize),
	}
}

func (tb *tokenBucket) allow(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.requestCount++
	tb.refill(now)

	if tb.tokens >= 1.0 {
		tb.tokens--
		return true
	}

	tb.deniedCount++
	return false
}

func (tb *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastUpdate).Seconds()
	if elapsed > 0 {
		tb.tokens += elapsed * tb.ratePerSec
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastUpdate = now
	}
}

func (tb *tokenBucket) snapshot(now time.Time) (available float64, requests, denied int64) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	return tb.tokens, tb.requestCount, tb.deniedCount
}

// RateLimiter applies per-method token buckets to incoming RPCs.
type RateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*tokenBucket
	configs map[string]RateLimitConfig
	global  *tokenBucket
	enabled bool
	now     func() time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithMethodLimits sets custom limits for specific methods.
func WithMethodLimits(limits map[string]RateLimitConfig) RateLimiterOption {
	return func(rl *RateLimiter) {
		for method, cfg := range limits {
			rl.configs[method] = cfg
		}
	}
}

// WithGlobalLimit sets a limit shared by every method.
func WithGlobalLimit(cfg RateLimitConfig) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.global = newTokenBucket(cfg, rl.now())
	}
}

// WithEnabled enables or disables rate limiting.
func WithEnabled(enabled bool) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.enabled = enabled
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// NewRateLimiter creates a rate limiter. Methods without a configured limit are not limited.
func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*tokenBucket),
		configs: make(map[string]RateLimitConfig),
		enabled: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Allow reports whether a request to method may proceed, consuming a token if so.
func (rl *RateLimiter) Allow(method string) bool {
	if !rl.IsEnabled() {
		return true
	}

	now := rl.now()
	if rl.global != nil && !rl.global.allow(now) {
		return false
	}

	bucket := rl.bucket(method)
	if bucket == nil {
		return true
	}
	return bucket.allow(now)
}

func (rl *RateLimiter) bucket(method string) *tokenBucket {
	rl.mu.RLock()
	bucket, ok := rl.buckets[method]
	rl.mu.RUnlock()
	if ok {
		return bucket
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if bucket, ok = rl.buckets[method]; ok {
		return bucket
	}
	cfg, ok := rl.configs[method]
	if !ok {
		return nil
	}
	bucket = newTokenBucket(cfg, rl.now())
	rl.buckets[method] = bucket
	return bucket
}

// MethodStats reports bucket usage for one method.
type MethodStats struct {
	Method         string
	Available      float64
	TotalRequests  int64
	DeniedRequests int64
}

// Stats returns usage for every method that has seen traffic, sorted by
// method. The global bucket, when configured, is reported as GlobalMethod.
func (rl *RateLimiter) Stats() []MethodStats {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	now := rl.now()
	stats := make([]MethodStats, 0, len(rl.buckets)+1)
	add := func(method string, bucket *tokenBucket) {
		available, total, denied := bucket.snapshot(now)
		stats = append(stats, MethodStats{
			Method:         method,
			Available:      available,
			TotalRequests:  total,
			DeniedRequests: denied,
		})
	}
	if rl.global != nil {
		add(GlobalMethod, rl.global)
	}
	for method, bucket := range rl.buckets {
		add(method, bucket)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Method < stats[j].Method })
	return stats
}

// IsEnabled reports whether rate limiting is active.
func (rl *RateLimiter) IsEnabled() bool {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.enabled
}

// UnaryServerInterceptor rejects calls over the limit with ResourceExhausted.
func (rl *RateLimiter) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !rl.Allow(info.FullMethod) {
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded for method %s", info.FullMethod)
		}
		return handler(ctx, req)
	}
}
