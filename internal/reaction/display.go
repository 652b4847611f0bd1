package reaction

import (
	"math"
	"strconv"
)

// Display receives the text the cabinet should show.
// Called on every mode entry that changes the text and on every Running tick.
type Display interface {
	SetDisplay(text string)
}

// MultiDisplay fans one update out to several sinks, in order.
type MultiDisplay []Display

// SetDisplay forwards text to every non-nil sink.
func (m MultiDisplay) SetDisplay(text string) {
	for _, d := range m {
		if d != nil {
			d.SetDisplay(text)
		}
	}
}

// Recorder is a Display that remembers everything it was shown.
type Recorder struct {
	history []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetDisplay appends text to the history.
func (r *Recorder) SetDisplay(text string) {
	r.history = append(r.history, text)
}

// Last returns the most recent text, or "" if nothing was shown yet.
func (r *Recorder) Last() string {
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// History returns a copy of every text shown, oldest first.
func (r *Recorder) History() []string {
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

// Len returns the number of updates received.
func (r *Recorder) Len() int {
	return len(r.history)
}

// Reset forgets the history.
func (r *Recorder) Reset() {
	r.history = r.history[:0]
}

// FormatSeconds renders a tick count as seconds with exactly two decimals.
func FormatSeconds(ticks int, ticksPerSecond float64) string {
	return formatFixed(float64(ticks) / ticksPerSecond)
}

// FormatAverage renders the Result-mode banner for the given average.
func FormatAverage(seconds float64) string {
	return "Average: " + formatFixed(seconds)
}

// formatFixed rounds halves away from zero, so 0.125 shows as 0.13.
func formatFixed(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}
