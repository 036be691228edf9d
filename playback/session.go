// Package playback runs a playback session: the intro, the resolution of the main
// stream and the user controls, driven by a media.Element.
package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aurora-stream/aurora/auth"
	"github.com/aurora-stream/aurora/blob"
	"github.com/aurora-stream/aurora/log"
	"github.com/aurora-stream/aurora/media"
	"github.com/aurora-stream/aurora/stream"
	"github.com/samber/mo"
	"github.com/spf13/afero"
)

const (
	loadingIntroText  = "Loading intro..."
	loadingStreamText = "Loading stream..."
)

// Resolver decides and fetches the main stream. *stream.Resolver implements it.
type Resolver interface {
	Resolve(ctx context.Context, req stream.Request) stream.Decision
	RequiresManualFetch(d stream.Decision) bool
	Fetch(ctx context.Context, url string, credential mo.Option[string]) (*stream.Body, error)
}

// Options wires a session to its collaborators. Element, Resolver and IntroURL are required.
type Options struct {
	Element     media.Element
	Resolver    Resolver
	Credentials auth.Accessor
	ProfileID   mo.Option[string]
	// Scheme is reported to the API as the frontend protocol.
	Scheme string
	// Blobs holds manually fetched streams. An in-memory registry is used when nil.
	Blobs    *blob.Registry
	IntroURL string

	ControlsTimeout time.Duration
	// AfterFunc replaces time.AfterFunc for the controls timer.
	AfterFunc AfterFunc

	OnClose func()
	OnError func(message string)
}

// Session plays the intro and then the main stream for one locator.
type Session struct {
	locator string
	title   string
	opts    Options
	machine *Machine
	ctrl    *Controller
	entry   *log.Entry

	mu       sync.Mutex
	started  bool
	cancel   context.CancelFunc
	decision mo.Option[stream.Decision]
	offs     []func()
	released bool

	// blobURL is only touched with the machine locked.
	blobURL string

	loaders sync.WaitGroup
}

// NewSession prepares a session. Nothing happens until Start.
func NewSession(locator, title string, opts Options) *Session {
	if opts.Blobs == nil {
		opts.Blobs = blob.NewRegistry(afero.NewMemMapFs(), "/blobs")
	}
	if opts.ControlsTimeout <= 0 {
		opts.ControlsTimeout = 3 * time.Second
	}

	s := &Session{
		locator: locator,
		title:   title,
		opts:    opts,
		entry:   log.WithField("locator", locator),
	}
	s.machine = NewMachine(opts.OnError, opts.OnClose)
	s.ctrl = newController(opts.Element, s.machine, opts.ControlsTimeout, opts.AfterFunc)
	s.machine.OnTransition(s.observe)
	return s
}

// Start mounts the intro. The main stream is resolved once the intro has ended.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	if err := s.machine.Transition(Idle, LoadingIntro); err != nil {
		s.cancel()
		return err
	}

	el := s.opts.Element
	s.listen(
		el.On(media.Error, s.elementFailed),
		el.On(media.LoadedMetadata, s.metadataLoaded),
		el.On(media.Pause, s.ctrl.paused),
		media.Once(el, media.Ended, func(media.Event) { s.introEnded(ctx) }),
	)

	var err error
	s.machine.Guard(LoadingIntro, func() {
		err = s.mount(media.Source{URL: s.opts.IntroURL, Title: s.title, Muted: true, Autoplay: true})
	})
	if err != nil {
		s.fail(fmt.Sprintf("failed to load video: %v", err))
		return fmt.Errorf("mount intro: %w", err)
	}

	s.entry.Debug("intro mounted")
	return nil
}

// Close tears the session down. Pending work is abandoned and its results discarded.
func (s *Session) Close() {
	s.machine.Close()
}

// Controller returns the user control surface.
func (s *Session) Controller() *Controller {
	return s.ctrl
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.machine.Phase()
}

// OnTransition registers an observer of phase changes. See Observer.
func (s *Session) OnTransition(o Observer) {
	s.machine.OnTransition(o)
}

// Decision returns the resolved transport once the main stream has been resolved.
func (s *Session) Decision() mo.Option[stream.Decision] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decision
}

func (s *Session) listen(offs ...func()) {
	s.mu.Lock()
	if !s.released {
		s.offs = append(s.offs, offs...)
		offs = nil
	}
	s.mu.Unlock()

	for _, off := range offs {
		off()
	}
}

// observe releases session resources once a terminal phase is reached.
// It runs with the machine locked.
func (s *Session) observe(from, to Phase) {
	s.entry.WithFields(log.Fields{"from": from.String(), "to": to.String()}).Debug("phase changed")
	if !to.Terminal() {
		return
	}

	s.mu.Lock()
	cancel, offs := s.cancel, s.offs
	s.offs = nil
	s.released = true
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, off := range offs {
		off()
	}
	s.ctrl.stop()
	s.releaseBlob()
}

func (s *Session) releaseBlob() {
	if s.blobURL == "" {
		return
	}
	if err := s.opts.Blobs.Revoke(s.blobURL); err != nil {
		s.entry.WithField("error", err).Warn("revoke blob")
	}
	s.blobURL = ""
}

// mount replaces the element source. Called with the machine locked.
func (s *Session) mount(src media.Source) error {
	el := s.opts.Element
	if err := el.Mount(src); err != nil {
		return err
	}
	s.ctrl.mounted(src)
	return el.Load()
}

func (s *Session) fail(message string) {
	if s.machine.Fail(message) {
		s.entry.WithField("message", message).Error("session failed")
	}
}

func (s *Session) elementFailed(ev media.Event) {
	message := "failed to play video"
	if ev.Err != nil {
		message = fmt.Sprintf("%s: %v", message, ev.Err)
	}
	s.fail(message)
}

func (s *Session) metadataLoaded(media.Event) {
	_ = s.machine.Transition(LoadingIntro, PlayingIntro)
}

// setDecision records the resolution. Called with the machine locked in LoadingMain.
func (s *Session) setDecision(d stream.Decision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decision = mo.Some(d)
}
