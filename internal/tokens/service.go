package tokens

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/opencode-ai/tint/internal/colors"
	"github.com/opencode-ai/tint/internal/logging"
	"github.com/rs/zerolog"
)

// Sentinel colors returned when a token cannot be resolved.
const (
	DiagnosticSentinel = "#FF00FFFF"
	ReleaseSentinel    = "#FFFFFFFF"
)

// State is the lifecycle state of a Service.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateInitialized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Service owns a token store and resolves token paths against it. The store
// is loaded lazily on first use; a failed load is retried on the next call.
type Service struct {
	palette Source
	tokens  Source

	logger     zerolog.Logger
	diagnostic bool

	mu    sync.Mutex
	state atomic.Int32
	store atomic.Pointer[Store]
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for load and resolution reports.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDiagnosticMode selects the magenta sentinel instead of opaque white.
func WithDiagnosticMode(enabled bool) Option {
	return func(s *Service) {
		s.diagnostic = enabled
	}
}

// NewService creates a Service reading from the given sources. Nothing is
// loaded until Init or the first resolution.
func NewService(palette, tokens Source, opts ...Option) *Service {
	s := &Service{
		palette: palette,
		tokens:  tokens,
		logger:  logging.Component("tokens"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current lifecycle state.
func (s *Service) State() State {
	return State(s.state.Load())
}

// Sentinel returns the hex color used for unresolved tokens.
func (s *Service) Sentinel() string {
	if s.diagnostic {
		return DiagnosticSentinel
	}
	return ReleaseSentinel
}

// Init loads the store if it is not loaded yet.
func (s *Service) Init() error {
	return s.ensure()
}

// Store returns the loaded store, initializing it if needed.
func (s *Service) Store() (*Store, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	return s.store.Load(), nil
}

func (s *Service) ensure() error {
	if s.State() == StateInitialized {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State() == StateInitialized {
		return nil
	}

	s.state.Store(int32(StateInitializing))
	store, err := s.load()
	if err != nil {
		s.state.Store(int32(StateFailed))
		s.logger.Error().Err(err).Msg("error initializing token store")
		return err
	}

	s.store.Store(store)
	s.state.Store(int32(StateInitialized))

	s.logger.Info().
		Int("palette_entries", store.Count(LayerPalette)).
		Int("token_entries", store.Count(LayerTokens)).
		Msg("token store loaded")
	return nil
}

func (s *Service) load() (*Store, error) {
	if s.palette == nil || s.tokens == nil {
		return nil, fmt.Errorf("%w: palette and tokens sources are required", ErrSourceMissing)
	}

	paletteData, err := s.palette.Read()
	if err != nil {
		return nil, err
	}
	tokensData, err := s.tokens.Read()
	if err != nil {
		return nil, err
	}

	store, err := NewStore(paletteData, tokensData)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// GetHex resolves token to a hex string. It never fails: unresolved tokens
// are logged and the sentinel is returned.
func (s *Service) GetHex(token string) string {
	hex, err := s.Resolve(token)
	if err == nil {
		return hex
	}

	var resolveErr *ResolveError
	if errors.As(err, &resolveErr) {
		s.logger.Error().
			Err(resolveErr.Err).
			Str("token", token).
			Str("path", resolveErr.Path).
			Strs("chain", resolveErr.Chain).
			Msgf("%v: %s", resolveErr.Err, resolveErr.Path)
	}
	return s.Sentinel()
}

// GetColor resolves token to a color. It never fails.
func (s *Service) GetColor(token string) colors.RGBA {
	return colors.HexToColor(s.GetHex(token))
}

// Resolve resolves token to a hex string, returning the sentinel together
// with an error when the store cannot be loaded or the token is unresolved.
// Literal hex input is returned without touching the store.
func (s *Service) Resolve(token string) (string, error) {
	parts := SplitPath(token)
	if colors.IsHex(parts[0]) {
		return parts[0], nil
	}

	store, err := s.Store()
	if err != nil {
		return s.Sentinel(), err
	}

	r := resolver{store: store, logger: s.logger, token: token}
	hex, err := r.resolve(parts)
	if err != nil {
		return s.Sentinel(), err
	}
	return hex, nil
}

// ResolveLeaf resolves a leaf produced by Store.Walk. The first lookup is
// the leaf itself, in its own layer; aliases it carries are then followed
// tokens-first like Resolve.
func (s *Service) ResolveLeaf(leaf Leaf) (string, error) {
	store, err := s.Store()
	if err != nil {
		return s.Sentinel(), err
	}

	r := resolver{store: store, logger: s.logger, token: leaf.Path}
	hex, err := r.resolveLeaf(leaf)
	if err != nil {
		return s.Sentinel(), err
	}
	return hex, nil
}

// ResolveColor is Resolve followed by hex decoding.
func (s *Service) ResolveColor(token string) (colors.RGBA, error) {
	hex, err := s.Resolve(token)
	if err != nil {
		return colors.HexToColor(hex), err
	}
	return colors.ParseHex(hex)
}
