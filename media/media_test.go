package media_test

import (
	"testing"

	"github.com/aurora-stream/aurora/media"
	"github.com/aurora-stream/aurora/media/mediatest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOnce(t *testing.T) {
	Convey("Given a handler registered with Once", t, func() {
		el := mediatest.New()
		calls := 0
		off := media.Once(el, media.Ended, func(media.Event) { calls++ })

		Convey("It should run only for the first delivery", func() {
			el.Emit(media.Event{Type: media.Ended})
			el.Emit(media.Event{Type: media.Ended})
			So(calls, ShouldEqual, 1)
		})

		Convey("It should not run after off", func() {
			off()
			el.Emit(media.Event{Type: media.Ended})
			So(calls, ShouldEqual, 0)
		})

		Convey("Other event types should not trigger it", func() {
			el.Emit(media.Event{Type: media.Pause})
			So(calls, ShouldEqual, 0)
		})
	})
}

func TestFakeElement(t *testing.T) {
	Convey("The fake element should record calls in order", t, func() {
		el := mediatest.New()
		So(el.Mount(media.Source{URL: "base.mp4", Muted: true}), ShouldBeNil)
		So(el.Load(), ShouldBeNil)
		el.Emit(media.Event{Type: media.LoadedMetadata, Duration: 12})

		So(el.Log(), ShouldResemble, []string{"mount base.mp4", "load", "event loadedmetadata"})
		So(el.Duration(), ShouldEqual, 12.0)
		So(el.Muted(), ShouldBeTrue)
	})
}

func TestHandlers(t *testing.T) {
	Convey("Given a zero registry", t, func() {
		var hs media.Handlers
		var order []int

		off := hs.On(media.Play, func(media.Event) { order = append(order, 1) })
		hs.On(media.Play, func(media.Event) { order = append(order, 2) })

		Convey("Handlers should run in registration order", func() {
			hs.Emit(media.Event{Type: media.Play})
			So(order, ShouldResemble, []int{1, 2})
		})

		Convey("Removed handlers should not run", func() {
			off()
			hs.Emit(media.Event{Type: media.Play})
			So(order, ShouldResemble, []int{2})
			So(hs.Len(media.Play), ShouldEqual, 1)
		})

		Convey("A handler should be able to remove itself while running", func() {
			var self func()
			self = hs.On(media.Pause, func(media.Event) { self() })
			hs.Emit(media.Event{Type: media.Pause})
			So(hs.Len(media.Pause), ShouldEqual, 0)
		})
	})
}
