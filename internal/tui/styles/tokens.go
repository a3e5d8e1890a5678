// Package styles binds semantic UI roles to design-token paths and builds
// lipgloss styles from the resolved colors.
package styles

import (
	"fmt"
	"sort"

	"github.com/opencode-ai/tint/internal/colors"
)

// ThemeTokens names the token path backing each semantic color role.
type ThemeTokens struct {
	Background string `json:"background" yaml:"background"`
	Panel      string `json:"panel" yaml:"panel"`
	Text       string `json:"text" yaml:"text"`
	TextMuted  string `json:"text_muted" yaml:"text_muted"`
	Border     string `json:"border" yaml:"border"`
	Accent     string `json:"accent" yaml:"accent"`
	Focus      string `json:"focus" yaml:"focus"`
	Success    string `json:"success" yaml:"success"`
	Warning    string `json:"warning" yaml:"warning"`
	Error      string `json:"error" yaml:"error"`
	Info       string `json:"info" yaml:"info"`
}

// Theme bundles role bindings with a name.
type Theme struct {
	Name   string
	Tokens ThemeTokens
}

// Themes lists available themes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

// Lookup returns the named theme.
func Lookup(name string) (Theme, error) {
	theme, ok := Themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return theme, nil
}

// Names returns the theme names sorted.
func Names() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolver turns a token path into a color. *tokens.Service satisfies it.
type Resolver interface {
	GetColor(token string) colors.RGBA
}

// Role is one resolved semantic color.
type Role struct {
	Name  string      `json:"name" yaml:"name"`
	Token string      `json:"token" yaml:"token"`
	Color colors.RGBA `json:"-" yaml:"-"`
	Hex   string      `json:"hex" yaml:"hex"`
}

// Roles returns the theme's roles in display order.
func (t ThemeTokens) Roles() []Role {
	return []Role{
		{Name: "background", Token: t.Background},
		{Name: "panel", Token: t.Panel},
		{Name: "text", Token: t.Text},
		{Name: "text_muted", Token: t.TextMuted},
		{Name: "border", Token: t.Border},
		{Name: "accent", Token: t.Accent},
		{Name: "focus", Token: t.Focus},
		{Name: "success", Token: t.Success},
		{Name: "warning", Token: t.Warning},
		{Name: "error", Token: t.Error},
		{Name: "info", Token: t.Info},
	}
}

// Palette is a theme with every role resolved.
type Palette struct {
	Theme Theme
	Roles map[string]Role
}

// Resolve resolves every role of the theme.
func Resolve(theme Theme, resolver Resolver) Palette {
	roles := theme.Tokens.Roles()
	palette := Palette{Theme: theme, Roles: make(map[string]Role, len(roles))}
	for _, role := range roles {
		role.Color = resolver.GetColor(role.Token)
		role.Hex = role.Color.Hex()
		palette.Roles[role.Name] = role
	}
	return palette
}

// Ordered returns the resolved roles in display order.
func (p Palette) Ordered() []Role {
	out := make([]Role, 0, len(p.Roles))
	for _, role := range p.Theme.Tokens.Roles() {
		out = append(out, p.Roles[role.Name])
	}
	return out
}

func (p Palette) color(name string) string {
	return p.Roles[name].Color.HexRGB()
}
