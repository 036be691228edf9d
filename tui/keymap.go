package tui

import (
	"github.com/aurora-stream/aurora/color"
	"github.com/aurora-stream/aurora/style"
	"github.com/charmbracelet/bubbles/key"
)

// keymap holds the player bindings. It implements help.KeyMap for the current state.
type keymap struct {
	state state

	quit, forceQuit,
	playPause, mute, fullscreen,
	rewind, forward,
	volumeUp, volumeDown,
	showHelp key.Binding
}

func (k *keymap) setState(s state) {
	k.state = s
}

func newKeymap() *keymap {
	return &keymap{
		quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "close"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "k"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fullscreen"),
		),
		rewind: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "back 10s"),
		),
		forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward 10s"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("up", "+"),
			key.WithHelp("↑", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down", "-"),
			key.WithHelp("↓", "volume down"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *keymap) ShortHelp() []key.Binding {
	switch k.state {
	case playingState:
		return []key.Binding{k.playPause, k.rewind, k.forward, k.mute, k.quit, k.showHelp}
	case errorState:
		return []key.Binding{withDescription(k.quit, "dismiss"), k.forceQuit}
	default:
		return []key.Binding{k.quit, k.forceQuit}
	}
}

func (k *keymap) FullHelp() [][]key.Binding {
	switch k.state {
	case playingState:
		return [][]key.Binding{
			{k.playPause, k.mute, k.fullscreen},
			{k.rewind, k.forward, k.volumeUp, k.volumeDown},
			{k.quit, k.forceQuit, k.showHelp},
		}
	default:
		return [][]key.Binding{k.ShortHelp()}
	}
}

// withDescription copies k with a different help text.
func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
