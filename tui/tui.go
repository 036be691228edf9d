// Package tui provides the terminal player screen: it renders a playback session and
// maps keys onto its controller.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the player screen.
type Options struct {
	Session Session
	// Exited, when set, closes the screen once the playback engine is gone.
	Exited <-chan struct{}

	SkipSeconds float64
	// VolumeStep is the volume change per key press, in [0, 1].
	VolumeStep float64
}

// Run shows the player until the session is closed. The error of a failed session is returned.
func Run(options *Options) error {
	bubble := newBubble(options)

	if _, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		return err
	}

	if message := bubble.snapshot.Error; message != "" {
		return errors.New(message)
	}
	return nil
}
