// Package color provides the palette of the terminal player.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// Standard ANSI colors, used where the terminal theme should win.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
)

// Aurora accents.
var (
	Night   = New("#0b1021")
	Frost   = New("#e6f0ff")
	Haze    = New("#7d8bb0")
	Glow    = New("#5ef2b8")
	Violet  = New("#a77bf3")
	Magenta = New("#f25fc1")
	Ember   = New("#ff6b6b")
	Orange  = New("#ffb703")
)
