package playback

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrStale is returned when a transition is attempted from a phase the session has already left.
	ErrStale = errors.New("stale transition")
	// ErrInvalidTransition is returned for edges outside the session graph.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrAlreadyStarted is returned by a second Session.Start.
	ErrAlreadyStarted = errors.New("session already started")
)

// forward lists the regular edges. Errored and Closed are reached through Fail and Close.
var forward = map[Phase]Phase{
	Idle:         LoadingIntro,
	LoadingIntro: PlayingIntro,
	PlayingIntro: LoadingMain,
	LoadingMain:  PlayingMain,
}

// Observer is notified of every phase change. It runs with the machine locked
// and must not call back into the Machine.
type Observer func(from, to Phase)

// Machine owns the phase of one session. It is safe for concurrent use.
type Machine struct {
	mu          sync.Mutex
	phase       Phase
	message     string
	mainEntered bool
	observers   []Observer

	onError func(message string)
	onClose func()
}

// NewMachine returns a machine in Idle. Either callback may be nil.
func NewMachine(onError func(message string), onClose func()) *Machine {
	return &Machine{
		phase:   Idle,
		onError: onError,
		onClose: onClose,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Message returns the error message once the machine has failed.
func (m *Machine) Message() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.message
}

// OnTransition registers an observer.
func (m *Machine) OnTransition(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Transition moves from -> to only if from is still the current phase.
func (m *Machine) Transition(from, to Phase) error {
	if next, ok := forward[from]; !ok || next != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != from {
		return fmt.Errorf("%w: %s -> %s while %s", ErrStale, from, to, m.phase)
	}
	if to == LoadingMain {
		if m.mainEntered {
			return fmt.Errorf("%w: %s entered twice", ErrInvalidTransition, to)
		}
		m.mainEntered = true
	}

	m.set(to)
	return nil
}

// Fail moves to Errored from any non-terminal phase and reports whether it did.
// The error callback runs once, after the machine is unlocked.
func (m *Machine) Fail(message string) bool {
	m.mu.Lock()
	if m.phase.Terminal() {
		m.mu.Unlock()
		return false
	}
	m.message = message
	m.set(Errored)
	m.mu.Unlock()

	if m.onError != nil {
		m.onError(message)
	}
	return true
}

// Close moves to Closed from any non-terminal phase and reports whether it did.
func (m *Machine) Close() bool {
	m.mu.Lock()
	if m.phase.Terminal() {
		m.mu.Unlock()
		return false
	}
	m.set(Closed)
	m.mu.Unlock()

	if m.onClose != nil {
		m.onClose()
	}
	return true
}

// Guard runs fn while phase is current and holds the phase for the duration of fn.
// fn must not call back into the Machine.
func (m *Machine) Guard(phase Phase, fn func()) bool {
	return m.guard(func(p Phase) bool { return p == phase }, fn)
}

// WhilePlaying is Guard for either playing phase.
func (m *Machine) WhilePlaying(fn func()) bool {
	return m.guard(Phase.Playing, fn)
}

func (m *Machine) guard(allowed func(Phase) bool, fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !allowed(m.phase) {
		return false
	}
	fn()
	return true
}

func (m *Machine) set(to Phase) {
	from := m.phase
	m.phase = to
	for _, o := range m.observers {
		o(from, to)
	}
}
