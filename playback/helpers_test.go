package playback

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aurora-stream/aurora/media"
	"github.com/aurora-stream/aurora/media/mediatest"
	"github.com/aurora-stream/aurora/stream"
	"github.com/samber/mo"
)

const introURL = "/assets/base.mp4"

type fakeResolver struct {
	decision stream.Decision
	manual   bool
	body     string
	fetchErr error
	// release, when set, blocks Resolve until closed.
	release chan struct{}

	resolves atomic.Int32
	fetches  atomic.Int32
	lastReq  atomic.Pointer[stream.Request]
}

func (r *fakeResolver) Resolve(_ context.Context, req stream.Request) stream.Decision {
	r.resolves.Add(1)
	r.lastReq.Store(&req)
	if r.release != nil {
		<-r.release
	}
	return r.decision
}

func (r *fakeResolver) RequiresManualFetch(stream.Decision) bool {
	return r.manual
}

func (r *fakeResolver) Fetch(context.Context, string, mo.Option[string]) (*stream.Body, error) {
	r.fetches.Add(1)
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	return &stream.Body{
		ReadCloser:  io.NopCloser(strings.NewReader(r.body)),
		ContentType: "video/mp4",
		Length:      int64(len(r.body)),
	}, nil
}

// reached closes the returned channel once the session enters target.
func reached(s *Session, target Phase) <-chan struct{} {
	ch := make(chan struct{})
	var once sync.Once
	s.OnTransition(func(_, to Phase) {
		if to == target {
			once.Do(func() { close(ch) })
		}
	})
	return ch
}

func await(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func indexOf(log []string, entry string) int {
	for i, e := range log {
		if e == entry {
			return i
		}
	}
	return -1
}

// playIntro starts s and drives the element into playing-intro.
func playIntro(s *Session, el *mediatest.Element, duration float64) error {
	if err := s.Start(context.Background()); err != nil {
		return err
	}
	el.Emit(media.Event{Type: media.LoadedMetadata, Duration: duration})
	return nil
}

type recorder struct {
	mu     sync.Mutex
	errors []string
	closes int
}

func (r *recorder) onError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recorder) onClose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closes++
}

func (r *recorder) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...), r.closes
}

type fakeTimer struct {
	stopped atomic.Bool
}

func (t *fakeTimer) Stop() bool {
	return !t.stopped.Swap(true)
}

type scheduled struct {
	after time.Duration
	fire  func()
	timer *fakeTimer
}

type scheduler struct {
	mu    sync.Mutex
	calls []scheduled
}

func (s *scheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{}
	s.calls = append(s.calls, scheduled{after: d, fire: f, timer: t})
	return t
}

func (s *scheduler) last() scheduled {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[len(s.calls)-1]
}
