package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/reaction-arcade/internal/core"
)

// palette holds the ANSI color for each core.Color. Bright entries render bold
// so the reaction readout stands out on 16-color terminals.
var palette = [...]struct {
	ansi string
	bold bool
}{
	core.ColorDefault:      {"", false},
	core.ColorRed:          {"1", false},
	core.ColorGreen:        {"2", false},
	core.ColorYellow:       {"3", false},
	core.ColorBlue:         {"4", false},
	core.ColorMagenta:      {"5", false},
	core.ColorCyan:         {"6", false},
	core.ColorWhite:        {"7", false},
	core.ColorBrightRed:    {"9", true},
	core.ColorBrightGreen:  {"10", true},
	core.ColorBrightYellow: {"11", true},
	core.ColorGray:         {"245", false},
}

var colorStyles = buildStyles()

func buildStyles() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for i, p := range palette {
		st := lipgloss.NewStyle()
		if p.ansi != "" {
			st = st.Foreground(lipgloss.Color(p.ansi))
		}
		styles[i] = st.Bold(p.bold)
	}
	return styles
}

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(colorStyles) {
		return colorStyles[c]
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Runs of same-colored cells share one style to keep escape sequences short.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			if color == core.ColorDefault {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(color).Render(run.String()))
		}
	}
	return sb.String()
}
