package tui

import (
	"time"

	"github.com/aurora-stream/aurora/log"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const refreshInterval = 250 * time.Millisecond

type tickMsg time.Time

// exitedMsg reports that the playback engine went away, e.g. its window was closed.
type exitedMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (b *bubble) waitForExit() tea.Cmd {
	if b.exited == nil {
		return nil
	}
	return func() tea.Msg {
		<-b.exited
		return exitedMsg{}
	}
}

func (b *bubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, tick(), b.waitForExit())
}

func (b *bubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case tickMsg:
		b.refresh()
		if b.state == closedState {
			return b, tea.Quit
		}
		return b, tick()
	case exitedMsg:
		return b.close()
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case tea.MouseMsg:
		b.session.Controller().ShowControls()
		return b, nil
	case tea.KeyMsg:
		return b.updateKey(msg)
	}
	return b, nil
}

func (b *bubble) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
		return b.close()
	case key.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
		return b, nil
	}

	if b.state != playingState {
		return b, nil
	}

	c := b.session.Controller()
	c.ShowControls()

	var err error
	switch {
	case key.Matches(msg, b.keymap.playPause):
		err = c.TogglePlay()
	case key.Matches(msg, b.keymap.mute):
		err = c.ToggleMute()
	case key.Matches(msg, b.keymap.fullscreen):
		err = c.ToggleFullscreen()
	case key.Matches(msg, b.keymap.rewind):
		err = c.SkipBy(-b.skip)
	case key.Matches(msg, b.keymap.forward):
		err = c.SkipBy(b.skip)
	case key.Matches(msg, b.keymap.volumeUp):
		err = c.SetVolume(b.snapshot.Volume + b.volumeStep)
	case key.Matches(msg, b.keymap.volumeDown):
		err = c.SetVolume(b.snapshot.Volume - b.volumeStep)
	}
	if err != nil {
		log.Debugf("control failed: %v", err)
	}

	b.refresh()
	return b, nil
}

func (b *bubble) close() (tea.Model, tea.Cmd) {
	b.session.Close()
	b.refresh()
	return b, tea.Quit
}
