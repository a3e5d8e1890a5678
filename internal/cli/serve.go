package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/opencode-ai/tint/internal/logging"
	"github.com/opencode-ai/tint/internal/tokend"
	"github.com/spf13/cobra"
)

var (
	serveHost       string
	servePort       int
	serveRateLimit  float64
	serveGlobalRate float64
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind host (default: daemon.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "bind port (default: daemon.port)")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", -1, "requests per second per method, 0 disables (default: daemon.rate_limit)")
	serveCmd.Flags().Float64Var(&serveGlobalRate, "global-rate-limit", -1, "requests per second across all methods, 0 disables (default: daemon.global_rate_limit)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gRPC token daemon",
	Long: `Serve tint.v1.TokenService over gRPC so out-of-process UI code can resolve
tokens. The daemon stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *appConfig
		if serveRateLimit >= 0 {
			cfg.Daemon.RateLimit = serveRateLimit
		}
		if serveGlobalRate >= 0 {
			cfg.Daemon.GlobalRateLimit = serveGlobalRate
		}

		d, err := tokend.New(&cfg, tokenService(), logging.Component("tokend"), tokend.Options{
			Hostname: serveHost,
			Port:     servePort,
			Version:  version,
		})
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return d.Run(ctx)
	},
}
