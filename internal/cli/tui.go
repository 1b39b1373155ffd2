package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/raggedblocks/pkg/layout"
	"github.com/matzehuels/raggedblocks/pkg/textmetrics"
)

var (
	tuiSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	tuiDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tuiBoxStyle      = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// layoutStats summarizes one layout run for the footer.
type layoutStats struct {
	fragments int
	outlines  int
	width     float64
	height    float64
	duration  time.Duration
	err       error
}

// exploreModel is the bubbletea model for the interactive settings
// explorer. It drives every algorithm through the generic settings
// descriptors, so adding a setting never touches this file.
type exploreModel struct {
	tree     layout.Tree
	measurer textmetrics.Measurer

	names    []string
	algIndex int
	alg      layout.Algorithm
	fields   []layout.SettingField
	cursor   int

	stats layoutStats
}

func newExploreModel(tree layout.Tree, m textmetrics.Measurer) *exploreModel {
	names := layout.Names()
	model := &exploreModel{tree: tree, measurer: m, names: names}
	model.selectAlgorithm(0)
	return model
}

func (m *exploreModel) selectAlgorithm(i int) {
	m.algIndex = (i + len(m.names)) % len(m.names)
	alg, err := layout.New(m.names[m.algIndex])
	if err != nil {
		m.stats = layoutStats{err: err}
		return
	}
	m.alg = alg
	m.fields = alg.ViewSettings()
	if m.cursor >= len(m.fields) {
		m.cursor = 0
	}
	m.rerun()
}

// rerun recomputes the layout with the current settings.
func (m *exploreModel) rerun() {
	start := time.Now()
	res, err := m.alg.Layout(m.tree, layout.WithMeasurer(m.measurer))
	stats := layoutStats{duration: time.Since(start), err: err}
	if err == nil {
		stats.fragments = res.FragmentCount()
		stats.outlines = len(res.Outlines())
		if bb, ok := res.BoundingBox(); ok {
			stats.width, stats.height = bb.Width(), bb.Height()
		}
	}
	m.stats = stats
}

// adjust applies a field edit through its descriptor.
func (m *exploreModel) adjust(delta float64) {
	if len(m.fields) == 0 {
		return
	}
	f := m.fields[m.cursor]
	s := m.alg.Settings()
	switch f.Kind {
	case layout.FieldToggle:
		s = f.SetBool(s, !f.GetBool(s))
	case layout.FieldNumber:
		s = f.SetNumber(s, f.GetNumber(s)+delta)
	}
	m.alg = m.alg.WithSettings(s)
	m.rerun()
}

// Init implements tea.Model.
func (m *exploreModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "tab", "a":
		m.selectAlgorithm(m.algIndex + 1)
	case "shift+tab":
		m.selectAlgorithm(m.algIndex - 1)
	case " ", "enter":
		m.adjust(1)
	case "right", "l", "+":
		m.adjust(1)
	case "left", "h", "-":
		m.adjust(-1)
	}
	return m, nil
}

// View implements tea.Model.
func (m *exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("raggedblocks explorer") + "\n\n")

	var algs []string
	for i, name := range m.names {
		if i == m.algIndex {
			algs = append(algs, tuiSelectedStyle.Render("["+name+"]"))
		} else {
			algs = append(algs, tuiDimStyle.Render(name))
		}
	}
	b.WriteString(strings.Join(algs, " ") + "\n\n")

	if len(m.fields) == 0 {
		b.WriteString(tuiDimStyle.Render("  (no settings)") + "\n")
	}
	s := m.alg.Settings()
	for i, f := range m.fields {
		marker := "  "
		style := tuiNormalStyle
		if i == m.cursor {
			marker = "> "
			style = tuiSelectedStyle
		}
		var value string
		switch f.Kind {
		case layout.FieldToggle:
			value = "off"
			if f.GetBool(s) {
				value = "on"
			}
		case layout.FieldNumber:
			value = fmt.Sprintf("%.1f", f.GetNumber(s))
		}
		line := fmt.Sprintf("%s%-16s %-6s %s", marker, f.Name, value, tuiDimStyle.Render(f.Description))
		b.WriteString(style.Render(line) + "\n")
	}

	b.WriteString("\n" + tuiBoxStyle.Render(m.statsView()) + "\n")
	b.WriteString(tuiDimStyle.Render("tab: algorithm · ↑/↓: field · space/±: edit · q: quit") + "\n")
	return b.String()
}

func (m *exploreModel) statsView() string {
	if m.stats.err != nil {
		return styleIconError.Render(iconError) + " " + m.stats.err.Error()
	}
	return fmt.Sprintf("%d fragments · %d outlines · %.0f×%.0f · %s",
		m.stats.fragments, m.stats.outlines,
		m.stats.width, m.stats.height,
		m.stats.duration.Round(time.Microsecond))
}
