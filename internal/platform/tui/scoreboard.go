package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/reaction-arcade/internal/reaction"
	"github.com/vovakirdan/reaction-arcade/internal/storage"
)

const maxScores = 100 // Max sessions to load

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel lists the best sessions with the rounds of the highlighted one.
type ScoreboardModel struct {
	store     *storage.Store
	sessions  []storage.SessionEntry
	summary   storage.Summary
	rounds    map[string][]storage.RoundEntry // cache by session ID
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		store:  store,
		rounds: make(map[string][]storage.RoundEntry),
		keys:   DefaultScoreboardKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

// createTable creates a new table sized to the window.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Average", Width: 8},
		{Title: "Misses", Width: 6},
		{Title: "Games", Width: 6},
		{Title: "Player", Width: 12},
		{Title: "Date", Width: 13},
	}
	if extra := m.width - 68; extra > 0 {
		columns[4].Width += min(extra, 12)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)), // header, rounds panel, help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads sessions and summary from the store.
func (m *ScoreboardModel) load() {
	m.sessions = nil
	m.summary = storage.Summary{}
	if m.store != nil {
		if sessions, err := m.store.BestSessions(gameID, maxScores); err == nil {
			m.sessions = sessions
		}
		if sum, err := m.store.Summary(gameID); err == nil {
			m.summary = sum
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current sessions.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		player := s.Player
		if player == "" {
			player = "-"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%.2fs", s.AverageSeconds),
			fmt.Sprintf("%d", s.TimedOut),
			fmt.Sprintf("%d", s.Games),
			player,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// selectedRounds returns the rounds of the highlighted session.
func (m *ScoreboardModel) selectedRounds() []storage.RoundEntry {
	i := m.table.Cursor()
	if m.store == nil || i < 0 || i >= len(m.sessions) {
		return nil
	}
	id := m.sessions[i].ID
	if r, ok := m.rounds[id]; ok {
		return r
	}
	r, err := m.store.SessionRounds(id)
	if err != nil {
		return nil
	}
	m.rounds[id] = r
	return r
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("BEST AVERAGES - Reaction Timer"), m.width))
	b.WriteString("\n\n")

	if len(m.sessions) == 0 {
		empty := dimStyle.Italic(true).Padding(2, 4).
			Render("No sessions recorded yet.\nPlay three games to set a time!")
		b.WriteString(centerText(boxStyle.Render(empty), m.width))
	} else {
		b.WriteString(boxStyle.Render(m.table.View()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf(" %d sessions  best %.2fs  mean %.2fs",
			m.summary.Sessions, m.summary.Best, m.summary.Mean)))
		b.WriteString("\n")
		b.WriteString(renderRounds(m.selectedRounds()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func renderRounds(rounds []storage.RoundEntry) string {
	if len(rounds) == 0 {
		return ""
	}
	parts := make([]string, len(rounds))
	for i, r := range rounds {
		t := reaction.FormatSeconds(r.ReactionTicks, reaction.DefaultTiming().TicksPerSecond)
		if r.TimedOut {
			t += " (timeout)"
		}
		parts[i] = fmt.Sprintf("G%d %s", r.Game, t)
	}
	return " " + strings.Join(parts, "   ")
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
