// Package tui implements the interactive token browser.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/tint/internal/export"
	"github.com/opencode-ai/tint/internal/models"
	"github.com/opencode-ai/tint/internal/tokens"
	"github.com/opencode-ai/tint/internal/tui/components"
	"github.com/opencode-ai/tint/internal/tui/styles"
)

// Config configures the browser.
type Config struct {
	Service *tokens.Service
	Theme   string
	Source  string
}

// Run launches the token browser.
func Run(cfg Config) error {
	if cfg.Service == nil {
		return fmt.Errorf("token service is required")
	}
	program := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

const (
	minWidth    = 60
	minHeight   = 15
	detailWidth = 44
	chromeLines = 6
)

type layerFilter int

const (
	layerAll layerFilter = iota
	layerTokens
	layerPalette
)

func (f layerFilter) next() layerFilter {
	return (f + 1) % 3
}

func (f layerFilter) String() string {
	switch f {
	case layerTokens:
		return string(tokens.LayerTokens)
	case layerPalette:
		return string(tokens.LayerPalette)
	default:
		return "all"
	}
}

func (f layerFilter) matches(layer string) bool {
	return f == layerAll || f.String() == layer
}

type model struct {
	cfg    Config
	styles styles.Styles
	width  int
	height int

	loading bool
	loadErr error
	entries []models.SnapshotEntry

	visible   []int
	cursor    int
	offset    int
	layer     layerFilter
	filter    string
	filtering bool
}

type loadedMsg struct {
	snapshot *models.Snapshot
	err      error
}

func initialModel(cfg Config) model {
	theme, err := styles.Lookup(cfg.Theme)
	if err != nil {
		theme = styles.DefaultTheme
	}
	return model{
		cfg:     cfg,
		styles:  styles.BuildStyles(theme, cfg.Service),
		loading: true,
	}
}

func (m model) Init() tea.Cmd {
	return loadCmd(m.cfg)
}

func loadCmd(cfg Config) tea.Cmd {
	return func() tea.Msg {
		snap, err := export.Build(cfg.Service, export.Options{Source: cfg.Source})
		return loadedMsg{snapshot: snap, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
	case loadedMsg:
		m.loading = false
		m.loadErr = msg.err
		m.entries = nil
		if msg.err == nil {
			m.entries = msg.snapshot.Entries
		}
		m.refilter()
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg), nil
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.refilter()
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		m.move(-m.pageSize())
	case "pgdown":
		m.move(m.pageSize())
	case "g", "home":
		m.move(-len(m.visible))
	case "G", "end":
		m.move(len(m.visible))
	case "tab":
		m.layer = m.layer.next()
		m.refilter()
	case "/":
		m.filtering = true
	case "r":
		if m.loadErr != nil {
			m.loading = true
			m.loadErr = nil
			return m, loadCmd(m.cfg)
		}
	}
	return m, nil
}

func (m model) updateFilter(msg tea.KeyMsg) model {
	switch msg.Type {
	case tea.KeyEnter:
		m.filtering = false
	case tea.KeyEsc:
		m.filtering = false
		m.filter = ""
	case tea.KeyBackspace:
		if m.filter != "" {
			runes := []rune(m.filter)
			m.filter = string(runes[:len(runes)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.filter += string(msg.Runes)
	}
	m.refilter()
	return m
}

func (m *model) refilter() {
	needle := strings.ToLower(strings.TrimSpace(m.filter))
	m.visible = make([]int, 0, len(m.entries))
	for i, entry := range m.entries {
		if !m.layer.matches(entry.Layer) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(entry.Path), needle) &&
			!strings.Contains(strings.ToLower(entry.Hex), needle) {
			continue
		}
		m.visible = append(m.visible, i)
	}
	m.cursor = 0
	m.offset = 0
}

func (m *model) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.clampOffset()
}

func (m *model) clampOffset() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
}

func (m model) pageSize() int {
	if m.height <= 0 {
		return 20
	}
	return max(m.height-chromeLines, 1)
}

func (m model) selected() (models.SnapshotEntry, bool) {
	if len(m.visible) == 0 {
		return models.SnapshotEntry{}, false
	}
	return m.entries[m.visible[m.cursor]], true
}

func (m model) View() string {
	if m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight) {
		return joinLines(m.smallViewLines()) + "\n"
	}

	lines := []string{m.header(), ""}
	lines = append(lines, m.body())
	lines = append(lines, "", m.footer())
	return joinLines(lines) + "\n"
}

func (m model) header() string {
	title := m.styles.Title.Render("tint token browser")
	counts := fmt.Sprintf("%d/%d entries | layer: %s | theme: %s",
		len(m.visible), len(m.entries), m.layer, m.styles.Theme.Name)
	return title + "  " + m.styles.Muted.Render(counts)
}

func (m model) body() string {
	switch {
	case m.loading:
		return m.styles.Muted.Render("Loading tokens...")
	case m.loadErr != nil:
		return components.LoadFailed(m.loadErr).Render(m.styles)
	case len(m.entries) == 0:
		return components.EmptyTokens().Render(m.styles)
	case len(m.visible) == 0:
		return components.EmptyFiltered(m.filter).Render(m.styles)
	}

	listWidth := m.listWidth()
	end := min(m.offset+m.pageSize(), len(m.visible))
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		entry := m.entries[m.visible[i]]
		rows = append(rows, components.RenderTokenLine(m.styles, entry, i == m.cursor, listWidth))
	}
	list := joinLines(rows)

	entry, _ := m.selected()
	if m.width > 0 && m.width < minWidth+detailWidth {
		return list
	}
	detail := components.RenderTokenDetail(m.styles, entry, detailWidth)
	return joinColumns(list, detail, listWidth)
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 80
	}
	if m.width < minWidth+detailWidth {
		return m.width
	}
	return m.width - detailWidth - 2
}

func (m model) footer() string {
	if m.filtering {
		return m.styles.Focus.Render("/"+m.filter+"_") + m.styles.Muted.Render("  enter apply | esc clear")
	}
	hint := "q quit | j/k move | / filter | tab layer"
	if m.filter != "" {
		hint = fmt.Sprintf("filter: %q | ", m.filter) + hint
	}
	if m.loadErr != nil {
		hint += " | r retry"
	}
	return m.styles.Muted.Render(hint)
}

func (m model) smallViewLines() []string {
	message := fmt.Sprintf("Terminal too small (%dx%d).", m.width, m.height)
	hint := fmt.Sprintf("Resize to at least %dx%d.", minWidth, minHeight)

	return []string{
		m.styles.Warning.Render(message),
		m.styles.Muted.Render(hint),
		m.styles.Muted.Render("Press q to quit."),
	}
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// joinColumns places right beside left, padding left to width.
func joinColumns(left, right string, width int) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(width).Render(left), "  ", right)
}
