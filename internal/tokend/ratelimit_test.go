package tokend

import (
	"context"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTokenBucketAllow(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5}, clock.Now())

	for i := 0; i < 5; i++ {
		if !bucket.allow(clock.Now()) {
			t.Errorf("request %d should be allowed (within burst)", i)
		}
	}
	if bucket.allow(clock.Now()) {
		t.Error("request 6 should be denied (burst exhausted)")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	clock := newFakeClock()
	bucket := newTokenBucket(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 1}, clock.Now())

	if !bucket.allow(clock.Now()) {
		t.Fatal("first request should be allowed")
	}
	if bucket.allow(clock.Now()) {
		t.Fatal("second request should be denied")
	}

	clock.Advance(15 * time.Millisecond)
	if !bucket.allow(clock.Now()) {
		t.Error("request after refill should be allowed")
	}

	clock.Advance(time.Hour)
	available, total, denied := bucket.snapshot(clock.Now())
	if available != 1 {
		t.Errorf("available = %v, want capped at burst 1", available)
	}
	if total != 3 || denied != 1 {
		t.Errorf("total/denied = %d/%d, want 3/1", total, denied)
	}
}

func TestRateLimiterPerMethod(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(
		WithClock(clock.Now),
		WithMethodLimits(map[string]RateLimitConfig{
			ResolveMethod: {RequestsPerSecond: 1, BurstSize: 2},
		}),
	)

	if !rl.Allow(ResolveMethod) || !rl.Allow(ResolveMethod) {
		t.Fatal("burst of 2 should be allowed")
	}
	if rl.Allow(ResolveMethod) {
		t.Error("third Resolve should be denied")
	}
	for i := 0; i < 10; i++ {
		if !rl.Allow("/tint.v1.TokenService/Unknown") {
			t.Fatal("methods without a limit should never be denied")
		}
	}

	stats := rl.Stats()
	if len(stats) != 1 || stats[0].Method != ResolveMethod || stats[0].DeniedRequests != 1 {
		t.Errorf("Stats() = %+v, want one Resolve entry with 1 denial", stats)
	}
}

func TestRateLimiterGlobalLimit(t *testing.T) {
	clock := newFakeClock()
	rl := NewRateLimiter(
		WithClock(clock.Now),
		WithGlobalLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1}),
	)

	if !rl.Allow(StatusMethod) {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow(ResolveMethod) {
		t.Error("global limit should apply across methods")
	}

	stats := rl.Stats()
	if len(stats) != 1 || stats[0].Method != GlobalMethod {
		t.Fatalf("Stats() = %+v, want only the global bucket", stats)
	}
	if stats[0].TotalRequests != 2 || stats[0].DeniedRequests != 1 {
		t.Errorf("global stats = %+v, want 2 requests with 1 denial", stats[0])
	}
}

func TestRateLimiterStatsSorted(t *testing.T) {
	rl := NewRateLimiter(
		WithClock(newFakeClock().Now),
		WithMethodLimits(LimitsForRate(10)),
		WithGlobalLimit(BucketForRate(100)),
	)
	rl.Allow(StatusMethod)
	rl.Allow(ResolveMethod)
	rl.Allow(ListTokensMethod)

	stats := rl.Stats()
	want := []string{GlobalMethod, ListTokensMethod, ResolveMethod, StatusMethod}
	if len(stats) != len(want) {
		t.Fatalf("Stats() = %+v", stats)
	}
	for i, method := range want {
		if stats[i].Method != method {
			t.Errorf("stats[%d].Method = %q, want %q", i, stats[i].Method, method)
		}
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(
		WithEnabled(false),
		WithMethodLimits(map[string]RateLimitConfig{
			ResolveMethod: {RequestsPerSecond: 1, BurstSize: 1},
		}),
	)
	for i := 0; i < 5; i++ {
		if !rl.Allow(ResolveMethod) {
			t.Fatal("disabled limiter should allow everything")
		}
	}
	if rl.IsEnabled() {
		t.Error("IsEnabled() = true, want false")
	}
}

func TestLimitsForRate(t *testing.T) {
	limits := LimitsForRate(200)

	if got := limits[ResolveMethod]; got.RequestsPerSecond != 200 || got.BurstSize != 400 {
		t.Errorf("Resolve limit = %+v", got)
	}
	if got := limits[ListTokensMethod]; got.RequestsPerSecond != 20 || got.BurstSize != 40 {
		t.Errorf("ListTokens limit = %+v", got)
	}

	if got := BucketForRate(0.2); got.BurstSize != 1 || got.RequestsPerSecond != 0.2 {
		t.Errorf("BucketForRate(0.2) = %+v", got)
	}

	tiny := LimitsForRate(0.1)
	if tiny[ResolveMethod].BurstSize != 1 || tiny[ListTokensMethod].BurstSize != 1 {
		t.Errorf("bursts should never drop below 1: %+v", tiny)
	}
}

func TestUnaryServerInterceptor(t *testing.T) {
	rl := NewRateLimiter(
		WithClock(newFakeClock().Now),
		WithMethodLimits(map[string]RateLimitConfig{
			ResolveMethod: {RequestsPerSecond: 1, BurstSize: 1},
		}),
	)
	interceptor := rl.UnaryServerInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: ResolveMethod}
	handler := func(ctx context.Context, req any) (any, error) { return "ok", nil }

	resp, err := interceptor(context.Background(), nil, info, handler)
	if err != nil || resp != "ok" {
		t.Fatalf("first call = %v, %v", resp, err)
	}

	_, err = interceptor(context.Background(), nil, info, handler)
	if status.Code(err) != codes.ResourceExhausted {
		t.Errorf("second call code = %v, want ResourceExhausted", status.Code(err))
	}
}
