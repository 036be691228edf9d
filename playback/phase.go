package playback

// Phase is the lifecycle position of a session.
type Phase int

const (
	Idle Phase = iota
	LoadingIntro
	PlayingIntro
	LoadingMain
	PlayingMain
	Errored
	Closed
)

var phaseNames = map[Phase]string{
	Idle:         "idle",
	LoadingIntro: "loading-intro",
	PlayingIntro: "playing-intro",
	LoadingMain:  "loading-main",
	PlayingMain:  "playing-main",
	Errored:      "error",
	Closed:       "closed",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == Errored || p == Closed
}

// Playing reports whether an element source is mounted and controllable.
func (p Phase) Playing() bool {
	return p == PlayingIntro || p == PlayingMain
}

// Loading reports whether the session waits for an asset.
func (p Phase) Loading() bool {
	return p == LoadingIntro || p == LoadingMain
}

// Intro reports whether the intro asset owns the element.
func (p Phase) Intro() bool {
	return p == LoadingIntro || p == PlayingIntro
}
