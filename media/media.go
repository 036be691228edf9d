// Package media defines the capability surface of a media element: something that can mount a
// source, play it and report what happens through events. The playback pipeline is written
// against this interface so it can run on mpv or against a scripted fake.
package media

import "sync"

// EventType names an element notification.
type EventType string

const (
	LoadedMetadata EventType = "loadedmetadata"
	Play           EventType = "play"
	Pause          EventType = "pause"
	TimeUpdate     EventType = "timeupdate"
	Ended          EventType = "ended"
	Error          EventType = "error"
)

// Event is delivered to handlers registered with Element.On.
type Event struct {
	Type EventType
	// Time is the playback position in seconds for TimeUpdate.
	Time float64
	// Duration is set for LoadedMetadata.
	Duration float64
	// Err is set for Error.
	Err error
}

// Handler receives element events. Handlers may be called from a backend goroutine.
type Handler func(Event)

// Source describes what to mount.
type Source struct {
	URL      string
	Title    string
	Muted    bool
	Autoplay bool
}

// Element is the media element capability.
type Element interface {
	// Mount replaces the current source. The source is not fetched until Load.
	Mount(src Source) error
	// Load starts fetching the mounted source. LoadedMetadata follows once it is ready.
	Load() error
	Play() error
	Pause() error
	// Seek moves to an absolute position in seconds.
	Seek(seconds float64) error
	// SetVolume takes a level in [0, 1].
	SetVolume(level float64) error
	SetMuted(muted bool) error
	SetFullscreen(fullscreen bool) error

	CurrentTime() float64
	Duration() float64
	Paused() bool

	// On registers a handler and returns a function that removes it.
	On(t EventType, h Handler) (off func())
}

// Once registers h for a single delivery of t. Later deliveries are ignored until off is called.
func Once(el Element, t EventType, h Handler) (off func()) {
	var once sync.Once
	return el.On(t, func(e Event) {
		once.Do(func() { h(e) })
	})
}
