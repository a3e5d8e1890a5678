package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/opencode-ai/tint/internal/colors"
	"github.com/opencode-ai/tint/internal/logging"
	"github.com/opencode-ai/tint/internal/tokend"
	"github.com/spf13/cobra"
)

var (
	resolveStrict  bool
	resolveRemote  string
	resolveTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveStrict, "strict", false, "fail when any token is unresolved")
	resolveCmd.Flags().StringVar(&resolveRemote, "remote", "", "resolve through a tokend daemon at host:port")
	resolveCmd.Flags().DurationVar(&resolveTimeout, "timeout", 5*time.Second, "timeout for --remote calls")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve TOKEN...",
	Short: "Resolve token paths to hex colors",
	Long: `Resolve one or more token paths (e.g. "brand/primary/accent") or hex literals.
Unresolved tokens print the sentinel color; --strict turns them into an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			results []*tokend.Resolution
			err     error
		)
		if resolveRemote != "" {
			results, err = resolveRemotely(cmd.Context(), args)
		} else {
			results, err = resolveLocally(args)
		}
		if err != nil {
			return err
		}

		if err := printResolutions(cmd, results); err != nil {
			return err
		}
		if resolveStrict {
			for _, res := range results {
				if !res.Resolved {
					return fmt.Errorf("unresolved token %q: %s", res.Token, res.Error)
				}
			}
		}
		return nil
	},
}

func resolveLocally(tokens []string) ([]*tokend.Resolution, error) {
	svc := tokenService()
	logger := logging.Component("cli")

	results := make([]*tokend.Resolution, 0, len(tokens))
	for _, token := range tokens {
		hex, err := svc.Resolve(token)
		res := newResolution(token, hex, err)
		if err != nil && !resolveStrict {
			logger.Warn().Err(err).Str("token", token).Msg("token unresolved, using sentinel")
		}
		results = append(results, res)
	}
	return results, nil
}

func resolveRemotely(ctx context.Context, tokens []string) ([]*tokend.Resolution, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := tokend.Dial(resolveRemote)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	client := tokend.NewClient(conn)
	results := make([]*tokend.Resolution, 0, len(tokens))
	for _, token := range tokens {
		callCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
		res, err := client.Resolve(callCtx, token)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("resolve %q via %s: %w", token, resolveRemote, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func newResolution(token, hex string, err error) *tokend.Resolution {
	c := colors.HexToColor(hex)
	res := &tokend.Resolution{
		Token:    token,
		Hex:      hex,
		R:        c.R,
		G:        c.G,
		B:        c.B,
		A:        c.A,
		Resolved: err == nil,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func printResolutions(cmd *cobra.Command, results []*tokend.Resolution) error {
	out := cmd.OutOrStdout()
	if IsStructuredOutput() {
		return WriteOutput(out, results)
	}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{
			res.Token,
			res.Hex,
			formatResolution(res.Resolved, ""),
			swatchCell(res.Hex),
		})
	}
	return writeTable(out, []string{"TOKEN", "HEX", "STATUS", ""}, rows)
}
