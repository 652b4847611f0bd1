// Package tui provides the Bubble Tea platform for the arcade: the tick loop,
// key mapping, rendering, menus, the scoreboard and the SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger one cabinet tick.
// Loop identifies the tick chain so a model ignores chains it did not start.
type TickMsg struct {
	At   time.Time
	Loop uint64
}

var loopIDs atomic.Uint64

// nextLoop returns a fresh tick chain ID.
func nextLoop() uint64 {
	return loopIDs.Add(1)
}

// tickCmd schedules the next tick. At the default 100 ticks/s one tick is 10ms.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 100
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{At: t, Loop: loop}
	})
}
