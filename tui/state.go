package tui

import "github.com/aurora-stream/aurora/playback"

type state int

const (
	loadingState state = iota
	playingState
	errorState
	closedState
)

func stateOf(p playback.Phase) state {
	switch p {
	case playback.PlayingIntro, playback.PlayingMain:
		return playingState
	case playback.Errored:
		return errorState
	case playback.Closed:
		return closedState
	default:
		return loadingState
	}
}
