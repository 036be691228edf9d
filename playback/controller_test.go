package playback

import (
	"math"
	"testing"
	"time"

	"github.com/aurora-stream/aurora/media"
	"github.com/aurora-stream/aurora/media/mediatest"
	"github.com/aurora-stream/aurora/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func newPlayingSession(sched *scheduler) (*Session, *mediatest.Element) {
	el := mediatest.New()
	s := NewSession("a", "A", Options{
		Element:         el,
		Resolver:        &fakeResolver{decision: stream.Decision{Mode: stream.Direct, URL: "https://cdn.example/a.mp4"}},
		IntroURL:        introURL,
		ControlsTimeout: 3 * time.Second,
		AfterFunc:       sched.AfterFunc,
	})
	return s, el
}

func TestControllerIdle(t *testing.T) {
	Convey("Given a session without a mounted source", t, func() {
		sched := &scheduler{}
		s, el := newPlayingSession(sched)
		c := s.Controller()

		Convey("Every operation should be a no-op", func() {
			So(c.TogglePlay(), ShouldBeNil)
			So(c.ToggleMute(), ShouldBeNil)
			So(c.ToggleFullscreen(), ShouldBeNil)
			So(c.SkipBy(10), ShouldBeNil)
			So(c.SeekTo(5), ShouldBeNil)
			So(c.SetVolume(0.5), ShouldBeNil)
			c.ShowControls()

			So(el.Log(), ShouldBeEmpty)
			So(sched.calls, ShouldBeEmpty)
		})

		Convey("Operations during the intro load should be a no-op", func() {
			So(s.Start(t.Context()), ShouldBeNil)
			So(c.SeekTo(5), ShouldBeNil)
			So(el.Log(), ShouldResemble, []string{"mount " + introURL, "load"})
		})
	})
}

func TestControllerPlaying(t *testing.T) {
	Convey("Given a playing intro of 100 seconds", t, func() {
		sched := &scheduler{}
		s, el := newPlayingSession(sched)
		c := s.Controller()
		So(playIntro(s, el, 100), ShouldBeNil)

		Convey("Skipping should clamp to the asset bounds", func() {
			el.SetPosition(95, 100)
			So(c.SkipBy(10), ShouldBeNil)
			So(el.CurrentTime(), ShouldEqual, 100.0)

			el.SetPosition(5, 100)
			So(c.SkipBy(-10), ShouldBeNil)
			So(el.CurrentTime(), ShouldEqual, 0.0)

			el.SetPosition(40, 100)
			So(c.SkipBy(10), ShouldBeNil)
			So(el.CurrentTime(), ShouldEqual, 50.0)
		})

		Convey("Seeking should clamp to the asset bounds", func() {
			So(c.SeekTo(-5), ShouldBeNil)
			So(el.CurrentTime(), ShouldEqual, 0.0)
			So(c.SeekTo(1000), ShouldBeNil)
			So(el.CurrentTime(), ShouldEqual, 100.0)
			So(c.SeekTo(math.NaN()), ShouldBeNil)
			So(el.CurrentTime(), ShouldEqual, 0.0)
		})

		Convey("Seeking with an unknown duration should only clamp below", func() {
			el.SetPosition(0, math.Inf(1))
			So(c.SeekTo(500), ShouldBeNil)
			So(el.CurrentTime(), ShouldEqual, 500.0)
		})

		Convey("Volume should clamp to [0, 1]", func() {
			So(c.SetVolume(1.5), ShouldBeNil)
			So(el.Volume(), ShouldEqual, 1.0)
			So(c.SetVolume(-0.2), ShouldBeNil)
			So(el.Volume(), ShouldEqual, 0.0)
			So(c.SetVolume(0.4), ShouldBeNil)
			So(s.State().Volume, ShouldEqual, 0.4)
		})

		Convey("Mute should start from the intro's muted source", func() {
			So(s.State().Muted, ShouldBeTrue)
			So(c.ToggleMute(), ShouldBeNil)
			So(el.Muted(), ShouldBeFalse)
			So(s.State().Muted, ShouldBeFalse)
		})

		Convey("Fullscreen should toggle", func() {
			So(c.ToggleFullscreen(), ShouldBeNil)
			So(el.Fullscreen(), ShouldBeTrue)
			So(c.ToggleFullscreen(), ShouldBeNil)
			So(el.Fullscreen(), ShouldBeFalse)
		})

		Convey("Play should toggle against the element state", func() {
			So(c.TogglePlay(), ShouldBeNil)
			So(el.Paused(), ShouldBeFalse)
			So(s.State().Playing, ShouldBeTrue)
			So(c.TogglePlay(), ShouldBeNil)
			So(el.Paused(), ShouldBeTrue)
		})

		Convey("State should report position while playing", func() {
			el.Emit(media.Event{Type: media.TimeUpdate, Time: 65})
			state := s.State()
			So(state.Elapsed(), ShouldEqual, "1:05")
			So(state.Total(), ShouldEqual, "1:40")
		})
	})
}

func TestControlsTimer(t *testing.T) {
	Convey("Given a playing element", t, func() {
		sched := &scheduler{}
		s, el := newPlayingSession(sched)
		c := s.Controller()
		So(playIntro(s, el, 100), ShouldBeNil)
		So(c.TogglePlay(), ShouldBeNil)

		c.ShowControls()
		So(sched.last().after, ShouldEqual, 3*time.Second)
		So(s.State().ControlsVisible, ShouldBeTrue)

		Convey("The timer should hide the controls", func() {
			sched.last().fire()
			So(s.State().ControlsVisible, ShouldBeFalse)
		})

		Convey("Activity should restart the timer", func() {
			first := sched.last()
			c.ShowControls()
			So(first.timer.stopped.Load(), ShouldBeTrue)

			first.fire()
			So(s.State().ControlsVisible, ShouldBeTrue)

			sched.last().fire()
			So(s.State().ControlsVisible, ShouldBeFalse)
		})

		Convey("Controls should never hide while paused", func() {
			So(c.TogglePlay(), ShouldBeNil)
			sched.last().fire()
			So(s.State().ControlsVisible, ShouldBeTrue)
		})

		Convey("A pause event should bring the controls back", func() {
			sched.last().fire()
			el.Emit(media.Event{Type: media.Pause})
			So(s.State().ControlsVisible, ShouldBeTrue)
		})

		Convey("Closing should stop the timer", func() {
			s.Close()
			So(sched.last().timer.stopped.Load(), ShouldBeTrue)
		})
	})
}
