// Package style provides a functional API for composing and applying lipgloss-based TUI styles.
package style

import (
	"github.com/aurora-stream/aurora/color"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// New returns an empty lipgloss.Style used as a foundation for visual composition.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored initializes a new style with the specified foreground and background colors.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a rendering function that applies the foreground color c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate returns a rendering function that cuts s to max cells, ending with an ellipsis.
// A non-positive max leaves s untouched.
func Truncate(max int) func(string) string {
	return func(s string) string {
		if max <= 0 {
			return s
		}
		return truncate.StringWithTail(s, uint(max), "…")
	}
}

var (
	Faint = func(s string) string { return New().Foreground(FaintColor).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders a screen heading.
var Title = func(s string) string {
	return Colored(color.Night, AccentColor).Bold(true).Padding(0, 1).Render(s)
}

// ErrorTitle renders a heading in error colors.
var ErrorTitle = func(s string) string {
	return Colored(color.Frost, ErrorColor).Bold(true).Padding(0, 1).Render(s)
}

// Badge renders a small label, e.g. the intro marker.
var Badge = func(s string) string {
	return Tag(color.Frost, BadgeColor)(s)
}

// Tag returns a rendering function that encapsulates a string in a colored, padded tag block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(fg, bg).Padding(0, 1).Render(s) }
}
