// Package mediatest provides a scripted media.Element for tests.
//
// Element records every call and emitted event in order, so tests can assert on
// sequencing, and lets the test drive events explicitly with Emit. Methods never emit
// events themselves.
package mediatest

import (
	"fmt"
	"sync"

	"github.com/aurora-stream/aurora/media"
)

// Element is a fake media element.
type Element struct {
	media.Handlers

	mu  sync.Mutex
	log []string

	source     media.Source
	mounted    bool
	paused     bool
	current    float64
	duration   float64
	volume     float64
	muted      bool
	fullscreen bool

	// PlayErr, when set, is returned by Play.
	PlayErr error
}

// New returns an unmounted, paused element.
func New() *Element {
	return &Element{
		paused: true,
		volume: 1,
	}
}

func (e *Element) record(format string, args ...any) {
	e.log = append(e.log, fmt.Sprintf(format, args...))
}

// Log returns the recorded call and event sequence, e.g. "mount base.mp4", "event ended".
func (e *Element) Log() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

func (e *Element) Mount(src media.Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("mount %s", src.URL)
	e.source = src
	e.mounted = true
	e.muted = src.Muted
	e.current = 0
	e.duration = 0
	return nil
}

func (e *Element) Load() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("load")
	return nil
}

func (e *Element) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("play")
	if e.PlayErr != nil {
		return e.PlayErr
	}
	e.paused = false
	return nil
}

func (e *Element) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("pause")
	e.paused = true
	return nil
}

func (e *Element) Seek(seconds float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("seek %g", seconds)
	e.current = seconds
	return nil
}

func (e *Element) SetVolume(level float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("volume %g", level)
	e.volume = level
	return nil
}

func (e *Element) SetMuted(muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("muted %t", muted)
	e.muted = muted
	return nil
}

func (e *Element) SetFullscreen(fullscreen bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("fullscreen %t", fullscreen)
	e.fullscreen = fullscreen
	return nil
}

func (e *Element) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Element) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *Element) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Emit delivers ev to the registered handlers in registration order.
// LoadedMetadata and TimeUpdate also update Duration and CurrentTime.
func (e *Element) Emit(ev media.Event) {
	e.mu.Lock()
	e.record("event %s", ev.Type)
	switch ev.Type {
	case media.LoadedMetadata:
		e.duration = ev.Duration
	case media.TimeUpdate:
		e.current = ev.Time
	case media.Play:
		e.paused = false
	case media.Pause, media.Ended:
		e.paused = true
	}
	e.mu.Unlock()

	e.Handlers.Emit(ev)
}

// Source returns the last mounted source.
func (e *Element) Source() media.Source {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

// Volume returns the last level set.
func (e *Element) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// Muted reports the mute flag.
func (e *Element) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

// Fullscreen reports the fullscreen flag.
func (e *Element) Fullscreen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullscreen
}

// SetPosition sets current time and duration without recording an event.
func (e *Element) SetPosition(current, duration float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = current
	e.duration = duration
}

var _ media.Element = (*Element)(nil)
