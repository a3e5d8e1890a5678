// Package config loads tint configuration from defaults, a YAML file,
// TINT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencode-ai/tint/internal/logging"
	"github.com/opencode-ai/tint/internal/tokens"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "TINT"
	configName      = "config"
	configType      = "yaml"
	defaultPort     = 7419
	defaultHost     = "127.0.0.1"
	defaultRate     = 200
	defaultDBFile   = "snapshots.db"
	defaultTheme    = "default"
	defaultLogLevel = "warn"
)

// Config is the full tint configuration.
type Config struct {
	Tokens         TokensConfig   `mapstructure:"tokens"`
	DiagnosticMode bool           `mapstructure:"diagnostic_mode"`
	Logging        LoggingConfig  `mapstructure:"logging"`
	Database       DatabaseConfig `mapstructure:"database"`
	Daemon         DaemonConfig   `mapstructure:"daemon"`
	UI             UIConfig       `mapstructure:"ui"`
}

// TokensConfig locates the palette and token documents.
type TokensConfig struct {
	Dir         string `mapstructure:"dir"`
	PaletteFile string `mapstructure:"palette_file"`
	TokensFile  string `mapstructure:"tokens_file"`
	// Builtin uses the sample documents compiled into the binary.
	Builtin bool `mapstructure:"builtin"`
}

// LoggingConfig controls the zerolog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig locates the snapshot database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DaemonConfig configures the gRPC token daemon.
type DaemonConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// RateLimit is the sustained requests per second allowed per method; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit"`
	// GlobalRateLimit caps requests per second across all methods; 0 disables it.
	GlobalRateLimit float64 `mapstructure:"global_rate_limit"`
}

// UIConfig configures the terminal surfaces.
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// KnownThemes lists the theme names accepted by ui.theme.
var KnownThemes = []string{"default", "high-contrast"}

// New returns a viper instance with tint defaults and env binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers default values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tokens.dir", ".")
	v.SetDefault("tokens.palette_file", tokens.DefaultPaletteFile)
	v.SetDefault("tokens.tokens_file", tokens.DefaultTokensFile)
	v.SetDefault("tokens.builtin", false)
	v.SetDefault("diagnostic_mode", false)
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.format", logging.FormatConsole)
	v.SetDefault("database.path", filepath.Join(DataDir(), defaultDBFile))
	v.SetDefault("daemon.host", defaultHost)
	v.SetDefault("daemon.port", defaultPort)
	v.SetDefault("daemon.rate_limit", defaultRate)
	v.SetDefault("daemon.global_rate_limit", 0)
	v.SetDefault("ui.theme", defaultTheme)
}

// Load reads the config file (explicit path, or the first config.yaml found
// in the search paths) and decodes the merged settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		for _, dir := range SearchPaths() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sources returns the token sources described by the config.
func (c *Config) Sources() (palette, tokenSource tokens.Source) {
	if c.Tokens.Builtin {
		return tokens.BuiltinSources()
	}
	return tokens.DirSources(c.Tokens.Dir, c.Tokens.PaletteFile, c.Tokens.TokensFile)
}

// NewTokenService builds the resolver service described by the config.
func (c *Config) NewTokenService() *tokens.Service {
	palette, tokenSource := c.Sources()
	return tokens.NewService(palette, tokenSource,
		tokens.WithLogger(logging.Component("tokens")),
		tokens.WithDiagnosticMode(c.DiagnosticMode),
	)
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if !c.Tokens.Builtin && strings.TrimSpace(c.Tokens.Dir) == "" {
		return errors.New("tokens.dir must not be empty")
	}
	if c.Daemon.Port < 1 || c.Daemon.Port > 65535 {
		return fmt.Errorf("daemon.port must be between 1 and 65535, got %d", c.Daemon.Port)
	}
	if c.Daemon.RateLimit < 0 {
		return fmt.Errorf("daemon.rate_limit must not be negative, got %v", c.Daemon.RateLimit)
	}
	if c.Daemon.GlobalRateLimit < 0 {
		return fmt.Errorf("daemon.global_rate_limit must not be negative, got %v", c.Daemon.GlobalRateLimit)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", logging.FormatConsole, logging.FormatJSON, c.Logging.Format)
	}
	if !isKnownTheme(c.UI.Theme) {
		return fmt.Errorf("ui.theme must be one of %s, got %q", strings.Join(KnownThemes, ", "), c.UI.Theme)
	}
	return nil
}

func isKnownTheme(name string) bool {
	for _, known := range KnownThemes {
		if name == known {
			return true
		}
	}
	return false
}

// SearchPaths returns config directories in precedence order.
func SearchPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		paths = append(paths, filepath.Join(dir, "tint"))
	}
	return paths
}

// DataDir is where tint keeps its snapshot database by default.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "tint")
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "share", "tint")
	}
	return ".tint"
}
