package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/platform-probe/manifest"
	"github.com/wippyai/platform-probe/structgen"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	layoutStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	configStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type structItem struct {
	desc   *structgen.Description
	config string
	name   string
	found  bool
}

type interactiveModel struct {
	err      error
	ctx      context.Context
	prober   manifest.Prober
	path     string
	items    []structItem
	visible  []int
	filter   textinput.Model
	selected int
	loaded   bool
}

type loadedMsg struct {
	err   error
	items []structItem
}

func newInteractiveModel(ctx context.Context, p manifest.Prober, path string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40
	ti.Focus()

	return &interactiveModel{
		ctx:    ctx,
		prober: p,
		path:   path,
		filter: ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.probe, textinput.Blink)
}

func (m *interactiveModel) probe() tea.Msg {
	man, err := manifest.Load(m.path)
	if err != nil {
		return loadedMsg{err: err}
	}
	res, err := manifest.Generate(m.ctx, m.prober, man)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{items: itemsFromResult(man, res)}
}

// itemsFromResult lists every manifest entry in declaration order.
func itemsFromResult(man *manifest.Manifest, res *manifest.Result) []structItem {
	found := make(map[string]*structgen.Description, len(res.Found))
	for _, p := range res.Found {
		found[p.Entry.Config] = p.Description
	}

	items := make([]structItem, 0, len(man.Structs))
	for _, e := range man.Structs {
		it := structItem{config: e.Config, name: e.Name}
		if d, ok := found[e.Config]; ok {
			it.desc = d
			it.found = true
			it.name = d.Name()
		}
		items = append(items, it)
	}
	return items
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil
		}

	case loadedMsg:
		m.loaded = true
		m.err = msg.err
		m.items = msg.items
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	prev := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != prev {
		m.applyFilter()
	}
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for i, it := range m.items {
		if q == "" || strings.Contains(strings.ToLower(it.config), q) || strings.Contains(strings.ToLower(it.name), q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}
	if !m.loaded {
		return "Probing structures..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Struct Probe"))
	b.WriteString(" ")
	b.WriteString(m.path)
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("no matching structures"))
		b.WriteString("\n")
	}
	for row, idx := range m.visible {
		it := m.items[idx]
		line := it.config + "  " + it.name
		switch {
		case row == m.selected:
			b.WriteString(selectedStyle.Render("> " + line))
		case !it.found:
			b.WriteString("  " + missingStyle.Render(line))
		default:
			b.WriteString("  " + nameStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.visible) > 0 {
		b.WriteString("\n")
		b.WriteString(m.details(m.items[m.visible[m.selected]]))
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • esc quit"))
	return b.String()
}

func (m *interactiveModel) details(it structItem) string {
	if !it.found {
		return missingStyle.Render(it.name + " is not available on this platform")
	}
	layout, err := structgen.RenderLayout(it.desc)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	config, err := structgen.RenderConfig(it.desc, it.config)
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	return layoutStyle.Render(layout) + "\n\n" + configStyle.Render(config)
}

func runInteractive(ctx context.Context, p manifest.Prober, path string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	prog := tea.NewProgram(newInteractiveModel(ctx, p, path), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}
