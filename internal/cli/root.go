// Package cli implements the tint command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/opencode-ai/tint/internal/config"
	"github.com/opencode-ai/tint/internal/logging"
	"github.com/opencode-ai/tint/internal/tokens"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	version = "dev"

	cfgFile        string
	jsonOutput     bool
	yamlOutput     bool
	nonInteractive bool
	noProgress     bool

	appConfig *config.Config
	tokenSvc  *tokens.Service
)

// flagKeys maps persistent flags onto config keys.
var flagKeys = map[string]string{
	"tokens-dir": "tokens.dir",
	"builtin":    "tokens.builtin",
	"diagnostic": "diagnostic_mode",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

var rootCmd = &cobra.Command{
	Use:   "tint",
	Short: "Resolve design tokens to colors",
	Long: `tint resolves hierarchical design-token paths such as "brand/primary/accent"
to concrete RGBA colors, following alias references through the token and
palette documents exported by the Figma Design Tokens Manager.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or $XDG_CONFIG_HOME/tint/config.yaml)")
	flags.String("tokens-dir", "", "directory containing the palette and tokens documents")
	flags.Bool("builtin", false, "use the sample documents bundled with tint")
	flags.Bool("diagnostic", false, "return magenta instead of white for unresolved tokens")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&yamlOutput, "yaml", false, "output YAML")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never start interactive surfaces")
	flags.BoolVar(&noProgress, "no-progress", false, "suppress progress output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the CLI and daemon.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func initConfig(cmd *cobra.Command) error {
	if jsonOutput && yamlOutput {
		return errors.New("--json and --yaml are mutually exclusive")
	}

	v := config.New()
	if err := bindFlags(v, cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return &PreflightError{
			Message:  err.Error(),
			Hint:     "Check the config file and TINT_* environment variables",
			NextStep: "tint --help",
		}
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	appConfig = cfg
	tokenSvc = nil
	return nil
}

// bindFlags binds the persistent flags of the running command tree. It must
// not reference rootCmd, whose initializer reaches this function.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

// GetConfig returns the loaded configuration, or nil before initConfig ran.
func GetConfig() *config.Config {
	return appConfig
}

// tokenService returns the token service shared by the current command.
func tokenService() *tokens.Service {
	if tokenSvc == nil {
		tokenSvc = appConfig.NewTokenService()
	}
	return tokenSvc
}

// sourceLabel describes where the token documents come from.
func sourceLabel() string {
	palette, tokenSource := appConfig.Sources()
	return palette.Location() + "," + tokenSource.Location()
}
