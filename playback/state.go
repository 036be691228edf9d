package playback

import (
	"github.com/aurora-stream/aurora/stream"
	"github.com/aurora-stream/aurora/util"
	"github.com/samber/mo"
)

// State is a point-in-time view of a session for rendering.
type State struct {
	Title    string
	Phase    Phase
	Error    string
	Decision mo.Option[stream.Decision]

	Playing         bool
	Muted           bool
	Fullscreen      bool
	ControlsVisible bool
	Volume          float64
	Current         float64
	Duration        float64
}

// Intro reports whether the intro badge should be shown.
func (s State) Intro() bool {
	return s.Phase.Intro()
}

// LoadingText is the overlay text while an asset loads, empty otherwise.
func (s State) LoadingText() string {
	switch s.Phase {
	case LoadingIntro:
		return loadingIntroText
	case LoadingMain:
		return loadingStreamText
	default:
		return ""
	}
}

// Elapsed renders the current position.
func (s State) Elapsed() string {
	return FormatTime(s.Current)
}

// Total renders the duration.
func (s State) Total() string {
	return FormatTime(s.Duration)
}

// Remaining renders the time left.
func (s State) Remaining() string {
	return FormatTime(util.Max(s.Duration-s.Current, 0))
}

// Progress is the played fraction in [0, 1].
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return util.Clamp(s.Current/s.Duration, 0, 1)
}

// State snapshots the session.
func (s *Session) State() State {
	phase := s.machine.Phase()
	c := s.ctrl.snapshot()

	state := State{
		Title:           s.title,
		Phase:           phase,
		Error:           s.machine.Message(),
		Decision:        s.Decision(),
		Muted:           c.muted,
		Fullscreen:      c.fullscreen,
		ControlsVisible: c.visible,
		Volume:          c.volume,
	}

	if phase.Playing() {
		el := s.opts.Element
		state.Playing = !el.Paused()
		state.Current = util.Finite(el.CurrentTime())
		state.Duration = util.Finite(el.Duration())
	}
	return state
}
