package tokend

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/opencode-ai/tint/internal/colors"
	"github.com/opencode-ai/tint/internal/tokens"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Server implements TokenServiceServer over a shared token service.
type Server struct {
	logger    zerolog.Logger
	tokens    *tokens.Service
	limiter   *RateLimiter
	startedAt time.Time
	version   string
	now       func() time.Time
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithVersion sets the daemon version.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// WithRateLimiter reports the limiter's usage in Status.
func WithRateLimiter(rl *RateLimiter) ServerOption {
	return func(s *Server) {
		s.limiter = rl
	}
}

// NewServer creates a gRPC server implementation backed by svc.
func NewServer(svc *tokens.Service, logger zerolog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		logger:  logger,
		tokens:  svc,
		version: "dev",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startedAt = s.now()
	return s
}

// Resolve resolves one token. Unresolved tokens are reported in the response
// body with the sentinel color, not as RPC errors.
func (s *Server) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	token := strings.TrimSpace(req.GetValue())
	if token == "" {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}

	hex, err := s.tokens.Resolve(token)
	if err != nil && !isResolutionFailure(err) {
		return nil, status.Errorf(codes.FailedPrecondition, "token store unavailable: %v", err)
	}

	c := colors.HexToColor(hex)
	fields := map[string]any{
		"token":    token,
		"hex":      hex,
		"r":        int(c.R),
		"g":        int(c.G),
		"b":        int(c.B),
		"a":        int(c.A),
		"resolved": err == nil,
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("token", token).Msg("unresolved token")
		fields["error"] = err.Error()
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// ListTokens returns every leaf of both layers with its resolved hex.
func (s *Server) ListTokens(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	store, err := s.tokens.Store()
	if err != nil {
		return nil, status.Errorf(codes.FailedPrecondition, "token store unavailable: %v", err)
	}

	layers := map[string]any{
		string(tokens.LayerTokens):  map[string]any{},
		string(tokens.LayerPalette): map[string]any{},
	}
	err = store.Walk(func(leaf tokens.Leaf) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		hex, _ := s.tokens.ResolveLeaf(leaf)
		layers[string(leaf.Layer)].(map[string]any)[leaf.Path] = hex
		return nil
	})
	if err != nil {
		return nil, status.FromContextError(err).Err()
	}

	out, err := structpb.NewStruct(layers)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// Status reports daemon and store health.
func (s *Server) Status(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	now := s.now()
	fields := map[string]any{
		"version":         s.version,
		"started_at":      s.startedAt.UTC().Format(time.RFC3339),
		"uptime_seconds":  now.Sub(s.startedAt).Seconds(),
		"store_state":     s.tokens.State().String(),
		"diagnostic_mode": s.tokens.Sentinel() == tokens.DiagnosticSentinel,
		"rate_limited":    s.limiter != nil && s.limiter.IsEnabled(),
	}
	if s.limiter != nil {
		limits := make(map[string]any)
		for _, st := range s.limiter.Stats() {
			limits[st.Method] = map[string]any{
				"available":       st.Available,
				"total_requests":  st.TotalRequests,
				"denied_requests": st.DeniedRequests,
			}
		}
		fields["rate_limits"] = limits
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func isResolutionFailure(err error) bool {
	return errors.Is(err, tokens.ErrTokenNotFound) || errors.Is(err, tokens.ErrCyclicAlias)
}
