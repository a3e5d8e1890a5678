package tokend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/opencode-ai/tint/internal/config"
	"github.com/opencode-ai/tint/internal/tokens"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultPort is used when the configuration leaves daemon.port unset.
const DefaultPort = 7419

// Options configure the daemon runtime.
type Options struct {
	Hostname string
	Port     int
	Version  string
}

// Daemon serves the token service until its context is canceled.
type Daemon struct {
	cfg    *config.Config
	logger zerolog.Logger
	opts   Options

	tokens      *tokens.Service
	server      *Server
	health      *health.Server
	rateLimiter *RateLimiter
	grpcServer  *grpc.Server
}

// New constructs a daemon serving svc.
func New(cfg *config.Config, svc *tokens.Service, logger zerolog.Logger, opts Options) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if svc == nil {
		return nil, errors.New("token service is required")
	}
	if opts.Hostname == "" {
		opts.Hostname = cfg.Daemon.Host
	}
	if opts.Hostname == "" {
		opts.Hostname = "127.0.0.1"
	}
	if opts.Port == 0 {
		opts.Port = cfg.Daemon.Port
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}

	rateLimiter := newDaemonRateLimiter(cfg.Daemon)

	d := &Daemon{
		cfg:         cfg,
		logger:      logger,
		opts:        opts,
		tokens:      svc,
		server:      NewServer(svc, logger, WithVersion(opts.Version), WithRateLimiter(rateLimiter)),
		health:      health.NewServer(),
		rateLimiter: rateLimiter,
	}

	d.grpcServer = grpc.NewServer(grpc.ChainUnaryInterceptor(
		rateLimiter.UnaryServerInterceptor(),
		d.healthInterceptor,
	))
	RegisterTokenServiceServer(d.grpcServer, d.server)
	healthpb.RegisterHealthServer(d.grpcServer, d.health)

	return d, nil
}

// newDaemonRateLimiter builds per-method buckets from daemon.rate_limit and a
// shared bucket from daemon.global_rate_limit. Limiting is off when both are 0.
func newDaemonRateLimiter(cfg config.DaemonConfig) *RateLimiter {
	var opts []RateLimiterOption
	if cfg.RateLimit > 0 {
		opts = append(opts, WithMethodLimits(LimitsForRate(cfg.RateLimit)))
	}
	if cfg.GlobalRateLimit > 0 {
		opts = append(opts, WithGlobalLimit(BucketForRate(cfg.GlobalRateLimit)))
	}
	opts = append(opts, WithEnabled(cfg.RateLimit > 0 || cfg.GlobalRateLimit > 0))
	return NewRateLimiter(opts...)
}

// Run listens on the configured address and serves until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	bindAddr := d.bindAddr()
	listener, err := net.Listen("tcp", bindAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", bindAddr, err)
	}
	return d.Serve(ctx, listener)
}

// Serve serves on listener until ctx is canceled, then stops gracefully.
func (d *Daemon) Serve(ctx context.Context, listener net.Listener) error {
	// A failed eager load is not fatal; resolution retries it lazily.
	if err := d.tokens.Init(); err != nil {
		d.logger.Warn().Err(err).Msg("token store not loaded, serving sentinels until it is")
	}
	d.refreshHealth()

	d.logger.Info().
		Str("bind", listener.Addr().String()).
		Str("version", d.opts.Version).
		Bool("rate_limited", d.rateLimiter.IsEnabled()).
		Msg("tokend gRPC server starting")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := d.grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		d.logger.Info().Msg("tokend shutting down...")
		d.health.Shutdown()
		d.grpcServer.GracefulStop()
		return nil
	})

	err := g.Wait()
	d.logger.Info().Msg("tokend shutdown complete")
	return err
}

func (d *Daemon) healthInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	d.refreshHealth()
	return resp, err
}

func (d *Daemon) refreshHealth() {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if d.tokens.State() == tokens.StateInitialized {
		status = healthpb.HealthCheckResponse_SERVING
	}
	d.health.SetServingStatus(ServiceName, status)
	d.health.SetServingStatus("", status)
}

func (d *Daemon) bindAddr() string {
	return net.JoinHostPort(d.opts.Hostname, strconv.Itoa(d.opts.Port))
}

// Addr returns the configured bind address.
func (d *Daemon) Addr() string {
	return d.bindAddr()
}

// Server returns the underlying gRPC service implementation.
func (d *Daemon) Server() *Server {
	return d.server
}

// RateLimiter returns the limiter guarding the service.
func (d *Daemon) RateLimiter() *RateLimiter {
	return d.rateLimiter
}
