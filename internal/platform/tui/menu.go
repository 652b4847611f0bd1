package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/reaction-arcade/internal/config"
	"github.com/vovakirdan/reaction-arcade/internal/core"
	"github.com/vovakirdan/reaction-arcade/internal/storage"
)

// gameID is the cabinet the menu launches.
const gameID = "reaction"

// MenuItem is one row of the cabinet menu.
type MenuItem struct {
	Preset     config.DifficultyPreset // empty for the scoreboard row
	Title      string
	Detail     string
	Scoreboard bool
}

// MenuModel is the Bubble Tea model for the difficulty picker.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	best      string // best average line, empty without scores
	quitting  bool
	selected  *MenuItem
}

// NewMenuModel creates a new menu model. The cursor starts on the
// preset given in cfg.Difficulty, or normal.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	items := make([]MenuItem, 0, len(config.Presets())+1)
	cursor := 0
	current, err := config.ParsePreset(cfg.Difficulty)
	if err != nil {
		current = config.DifficultyNormal
	}
	for i, p := range config.Presets() {
		if p == current {
			cursor = i
		}
		items = append(items, MenuItem{
			Preset: p,
			Title:  strings.ToUpper(string(p[:1])) + string(p[1:]),
			Detail: p.Description(),
		})
	}
	items = append(items, MenuItem{Title: "High Scores", Detail: "best averages so far", Scoreboard: true})

	m := MenuModel{
		items:     items,
		cursor:    cursor,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}

	if store != nil {
		if sum, err := store.Summary(gameID); err == nil && sum.Sessions > 0 {
			m.best = fmt.Sprintf("Best average %.2fs over %d sessions", sum.Best, sum.Sessions)
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		selected := m.items[m.cursor]
		m.selected = &selected
		if !selected.Scoreboard {
			m.config.Difficulty = string(selected.Preset)
		}
		return m, tea.Quit

	case MenuActionScoreboard:
		selected := m.items[len(m.items)-1]
		m.selected = &selected
		return m, tea.Quit
	}

	return m, nil
}

var (
	menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuCurStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("R E A C T I O N   T I M E R"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Choose a difficulty", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf("  %-12s %s", item.Title, menuDimStyle.Render(item.Detail))
		if i == m.cursor {
			line = menuCurStyle.Render("> "+fmt.Sprintf("%-12s", item.Title)) + " " + item.Detail
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.best != "" {
		b.WriteString("\n")
		b.WriteString(centerText(menuDimStyle.Render(m.best), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the runtime config with size and chosen difficulty applied.
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width, ignoring ANSI styling.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok || m.IsQuitting() || m.Selected() == nil {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	return MenuResult{
		Config:          m.Config(),
		WantsScoreboard: m.Selected().Scoreboard,
	}, nil
}
