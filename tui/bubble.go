package tui

import (
	"github.com/aurora-stream/aurora/playback"
	"github.com/aurora-stream/aurora/style"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
)

// Session is what the player screen drives.
type Session interface {
	State() playback.State
	Controller() *playback.Controller
	Close()
}

// bubble is the player screen model.
type bubble struct {
	state  state
	keymap *keymap

	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model

	session  Session
	snapshot playback.State
	exited   <-chan struct{}

	skip       float64
	volumeStep float64

	width, height int
}

func newBubble(options *Options) *bubble {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = style.New().Foreground(style.AccentColor)

	b := &bubble{
		keymap:     newKeymap(),
		spinnerC:   s,
		progressC:  progress.New(progress.WithGradient(style.BarStartColor, style.BarEndColor), progress.WithoutPercentage()),
		helpC:      help.New(),
		session:    options.Session,
		exited:     options.Exited,
		skip:       options.SkipSeconds,
		volumeStep: options.VolumeStep,
	}
	b.refresh()
	return b
}

// refresh pulls a new snapshot from the session and follows its phase.
func (b *bubble) refresh() {
	b.snapshot = b.session.State()
	b.setState(stateOf(b.snapshot.Phase))
}

func (b *bubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *bubble) resize(width, height int) {
	b.width = width
	b.height = height
	b.helpC.Width = width
	b.progressC.Width = max(width-paddingX*2-len(" 00:00 / 00:00"), 10)
}
