package tokend

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/opencode-ai/tint/internal/config"
	"github.com/opencode-ai/tint/internal/tokens"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Daemon: config.DaemonConfig{Host: "127.0.0.1", Port: DefaultPort, RateLimit: 200},
	}
}

// startDaemon serves d over an in-memory listener and returns a connected client.
func startDaemon(t *testing.T, d *Daemon) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx, lis) }()

	conn, err := Dial("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("daemon did not stop")
		}
	})
	return conn
}

func TestNewDaemonValidation(t *testing.T) {
	_, err := New(nil, newTestTokenService(), zerolog.Nop(), Options{})
	require.Error(t, err)

	_, err = New(testConfig(t), nil, zerolog.Nop(), Options{})
	require.Error(t, err)
}

func TestNewDaemonDefaults(t *testing.T) {
	cfg := testConfig(t)
	cfg.Daemon.Host = ""
	cfg.Daemon.Port = 0

	d, err := New(cfg, newTestTokenService(), zerolog.Nop(), Options{})
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7419", d.Addr())
	require.True(t, d.RateLimiter().IsEnabled())

	cfg.Daemon.RateLimit = 0
	d, err = New(cfg, newTestTokenService(), zerolog.Nop(), Options{Hostname: "0.0.0.0", Port: 9000})
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", d.Addr())
	require.False(t, d.RateLimiter().IsEnabled())
}

func TestDaemonEndToEnd(t *testing.T) {
	d, err := New(testConfig(t), newTestTokenService(), zerolog.Nop(), Options{Version: "e2e"})
	require.NoError(t, err)
	conn := startDaemon(t, d)
	client := NewClient(conn)
	ctx := context.Background()

	res, err := client.Resolve(ctx, "system/surface/background")
	require.NoError(t, err)
	require.Equal(t, &Resolution{
		Token: "system/surface/background", Hex: "#121212FF",
		R: 0x12, G: 0x12, B: 0x12, A: 0xFF, Resolved: true,
	}, res)

	res, err = client.Resolve(ctx, "nope")
	require.NoError(t, err)
	require.False(t, res.Resolved)
	require.Equal(t, tokens.ReleaseSentinel, res.Hex)
	require.NotEmpty(t, res.Error)

	_, err = client.Resolve(ctx, "")
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	table, err := client.ListTokens(ctx)
	require.NoError(t, err)
	require.Equal(t, "#13BC90", table["tokens"]["brand/accent"])
	require.Equal(t, "#121212FF", table["palette"]["neutral/950"])

	st, err := client.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, "e2e", st["version"])
	require.Equal(t, "initialized", st["store_state"])
}

func TestDaemonHealth(t *testing.T) {
	palette := &tokens.BytesSource{SourceName: "palette"}
	svc := tokens.NewService(
		palette,
		&tokens.BytesSource{SourceName: "tokens", Data: []byte(testTokens)},
		tokens.WithLogger(zerolog.Nop()),
	)
	d, err := New(testConfig(t), svc, zerolog.Nop(), Options{})
	require.NoError(t, err)
	conn := startDaemon(t, d)
	health := healthpb.NewHealthClient(conn)
	ctx := context.Background()

	resp, err := health.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	// The store loads on the next call once the source appears.
	palette.Data = []byte(testPalette)
	_, err = NewClient(conn).Resolve(ctx, "brand/accent")
	require.NoError(t, err)

	resp, err = health.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestDaemonRateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.Daemon.RateLimit = 0.5

	d, err := New(cfg, newTestTokenService(), zerolog.Nop(), Options{})
	require.NoError(t, err)
	conn := startDaemon(t, d)
	client := NewClient(conn)
	ctx := context.Background()

	_, err = client.Resolve(ctx, "brand/accent")
	require.NoError(t, err)
	_, err = client.Resolve(ctx, "brand/accent")
	require.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestDaemonGlobalRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Daemon.RateLimit = 0
	cfg.Daemon.GlobalRateLimit = 1

	d, err := New(cfg, newTestTokenService(), zerolog.Nop(), Options{})
	require.NoError(t, err)
	require.True(t, d.RateLimiter().IsEnabled())
	conn := startDaemon(t, d)
	client := NewClient(conn)
	ctx := context.Background()

	// Burst of two shared by every method.
	_, err = client.Resolve(ctx, "brand/accent")
	require.NoError(t, err)
	st, err := client.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, true, st["rate_limited"])
	limits := st["rate_limits"].(map[string]any)
	require.Contains(t, limits, GlobalMethod)
	require.NotContains(t, limits, ResolveMethod)

	_, err = client.Resolve(ctx, "brand/accent")
	require.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestDaemonRateLimitDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Daemon.RateLimit = 0

	d, err := New(cfg, newTestTokenService(), zerolog.Nop(), Options{})
	require.NoError(t, err)
	require.False(t, d.RateLimiter().IsEnabled())
	require.Empty(t, d.RateLimiter().Stats())
}
