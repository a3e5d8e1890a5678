package tokend

import (
	"context"
	"testing"
	"time"

	"github.com/opencode-ai/tint/internal/tokens"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	testPalette = `{
  "brand": {
    "primary": {
      "500": {"$type": "color", "$value": "#13BC90"}
    }
  },
  "neutral": {
    "950": {"$type": "color", "$value": "#121212FF"}
  }
}`
	testTokens = `{
  "system": {
    "surface": {
      "background": {"$type": "color", "$value": "{neutral.950}"}
    }
  },
  "brand": {
    "accent": {"$type": "color", "$value": "{brand.primary.500}"}
  }
}`
)

func newTestTokenService(opts ...tokens.Option) *tokens.Service {
	opts = append([]tokens.Option{tokens.WithLogger(zerolog.Nop())}, opts...)
	return tokens.NewService(
		&tokens.BytesSource{SourceName: "palette", Data: []byte(testPalette)},
		&tokens.BytesSource{SourceName: "tokens", Data: []byte(testTokens)},
		opts...,
	)
}

func TestServerResolve(t *testing.T) {
	server := NewServer(newTestTokenService(), zerolog.Nop())

	resp, err := server.Resolve(context.Background(), wrapperspb.String("brand/accent"))
	require.NoError(t, err)

	fields := resp.AsMap()
	require.Equal(t, "brand/accent", fields["token"])
	require.Equal(t, "#13BC90", fields["hex"])
	require.Equal(t, float64(0x13), fields["r"])
	require.Equal(t, float64(0xBC), fields["g"])
	require.Equal(t, float64(0x90), fields["b"])
	require.Equal(t, float64(0xFF), fields["a"])
	require.Equal(t, true, fields["resolved"])
	require.NotContains(t, fields, "error")
}

func TestServerResolveUnresolved(t *testing.T) {
	server := NewServer(newTestTokenService(tokens.WithDiagnosticMode(true)), zerolog.Nop())

	resp, err := server.Resolve(context.Background(), wrapperspb.String("system/missing"))
	require.NoError(t, err)

	fields := resp.AsMap()
	require.Equal(t, tokens.DiagnosticSentinel, fields["hex"])
	require.Equal(t, false, fields["resolved"])
	require.Contains(t, fields["error"], "system/missing")
}

func TestServerResolveEmptyToken(t *testing.T) {
	server := NewServer(newTestTokenService(), zerolog.Nop())

	_, err := server.Resolve(context.Background(), wrapperspb.String("  "))
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestServerResolveStoreUnavailable(t *testing.T) {
	svc := tokens.NewService(
		&tokens.BytesSource{SourceName: "palette"},
		&tokens.BytesSource{SourceName: "tokens", Data: []byte(testTokens)},
		tokens.WithLogger(zerolog.Nop()),
	)
	server := NewServer(svc, zerolog.Nop())

	_, err := server.Resolve(context.Background(), wrapperspb.String("brand/accent"))
	require.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = server.ListTokens(context.Background(), &emptypb.Empty{})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestServerResolveLiteralSkipsStore(t *testing.T) {
	svc := tokens.NewService(
		&tokens.BytesSource{SourceName: "palette"},
		&tokens.BytesSource{SourceName: "tokens"},
		tokens.WithLogger(zerolog.Nop()),
	)
	server := NewServer(svc, zerolog.Nop())

	resp, err := server.Resolve(context.Background(), wrapperspb.String("#FF000080"))
	require.NoError(t, err)
	require.Equal(t, "#FF000080", resp.AsMap()["hex"])
	require.Equal(t, float64(0x80), resp.AsMap()["a"])
}

func TestServerListTokens(t *testing.T) {
	server := NewServer(newTestTokenService(), zerolog.Nop())

	resp, err := server.ListTokens(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)

	table := resp.AsMap()
	require.Equal(t, map[string]any{
		"system/surface/background": "#121212FF",
		"brand/accent":              "#13BC90",
	}, table["tokens"])
	require.Equal(t, map[string]any{
		"brand/primary/500": "#13BC90",
		"neutral/950":       "#121212FF",
	}, table["palette"])
}

func TestServerListTokensShadowedPalette(t *testing.T) {
	svc := tokens.NewService(
		&tokens.BytesSource{SourceName: "palette", Data: []byte(`{"brand": {"$type": "color", "$value": "#111111"}}`)},
		&tokens.BytesSource{SourceName: "tokens", Data: []byte(`{
			"brand": {"$type": "color", "$value": "{x}"},
			"x": {"$type": "color", "$value": "#222222"}
		}`)},
		tokens.WithLogger(zerolog.Nop()),
	)
	server := NewServer(svc, zerolog.Nop())

	resp, err := server.ListTokens(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)

	table := resp.AsMap()
	require.Equal(t, map[string]any{"brand": "#222222", "x": "#222222"}, table["tokens"])
	require.Equal(t, map[string]any{"brand": "#111111"}, table["palette"])
}

func TestServerListTokensCanceled(t *testing.T) {
	server := NewServer(newTestTokenService(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := server.ListTokens(ctx, &emptypb.Empty{})
	require.Equal(t, codes.Canceled, status.Code(err))
}

func TestServerStatusRateLimits(t *testing.T) {
	rl := NewRateLimiter(
		WithClock(newFakeClock().Now),
		WithMethodLimits(map[string]RateLimitConfig{ResolveMethod: {RequestsPerSecond: 1, BurstSize: 1}}),
		WithGlobalLimit(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 10}),
	)
	rl.Allow(ResolveMethod)
	rl.Allow(ResolveMethod)

	server := NewServer(newTestTokenService(), zerolog.Nop(), WithRateLimiter(rl))
	resp, err := server.Status(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)

	fields := resp.AsMap()
	require.Equal(t, true, fields["rate_limited"])
	limits := fields["rate_limits"].(map[string]any)
	require.Equal(t, map[string]any{
		"available":       float64(0),
		"total_requests":  float64(2),
		"denied_requests": float64(1),
	}, limits[ResolveMethod])
	global := limits[GlobalMethod].(map[string]any)
	require.Equal(t, float64(2), global["total_requests"])
	require.Equal(t, float64(0), global["denied_requests"])
}

func TestServerStatus(t *testing.T) {
	svc := newTestTokenService()
	server := NewServer(svc, zerolog.Nop(), WithVersion("test-version"))
	start := server.startedAt
	server.now = func() time.Time { return start.Add(90 * time.Second) }

	resp, err := server.Status(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)

	fields := resp.AsMap()
	require.Equal(t, "test-version", fields["version"])
	require.Equal(t, float64(90), fields["uptime_seconds"])
	require.Equal(t, "uninitialized", fields["store_state"])
	require.Equal(t, false, fields["diagnostic_mode"])
	require.Equal(t, false, fields["rate_limited"])
	require.NotContains(t, fields, "rate_limits")

	require.NoError(t, svc.Init())
	resp, err = server.Status(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	require.Equal(t, "initialized", resp.AsMap()["store_state"])
}
