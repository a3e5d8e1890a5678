package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/opencode-ai/tint/internal/tui/styles"
	"github.com/spf13/cobra"
)

var previewTheme string

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringVar(&previewTheme, "theme", "", "theme to preview ("+strings.Join(styles.Names(), ", ")+")")
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a theme's resolved roles",
	Long:  "Resolve every role of a theme through the token service and render it with lipgloss.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := previewTheme
		if name == "" {
			name = appConfig.UI.Theme
		}
		theme, err := styles.Lookup(name)
		if err != nil {
			return err
		}

		s := styles.BuildStyles(theme, tokenService())
		out := cmd.OutOrStdout()
		if IsStructuredOutput() {
			return WriteOutput(out, struct {
				Theme string        `json:"theme" yaml:"theme"`
				Roles []styles.Role `json:"roles" yaml:"roles"`
			}{Theme: theme.Name, Roles: s.Palette.Ordered()})
		}

		fmt.Fprintln(out, renderPreview(s, terminalWidth(80)))
		return nil
	},
}

func renderPreview(s styles.Styles, width int) string {
	roles := s.Palette.Ordered()
	nameWidth := 0
	for _, role := range roles {
		nameWidth = max(nameWidth, lipgloss.Width(role.Name))
	}

	lines := []string{s.Title.Render("Theme: " + s.Theme.Name), ""}
	for _, role := range roles {
		line := fmt.Sprintf("%-*s  %s  %s  %s",
			nameWidth, role.Name, role.Hex, swatchCell(role.Hex), s.Muted.Render(role.Token))
		lines = append(lines, line)
	}
	lines = append(lines, "",
		s.Success.Render("success")+"  "+s.Warning.Render("warning")+"  "+
			s.Error.Render("error")+"  "+s.Info.Render("info")+"  "+s.Accent.Render("accent"))

	panelWidth := min(width-2, 72)
	return s.Panel.Width(max(panelWidth, 20)).Padding(0, 1).Render(strings.Join(lines, "\n"))
}
