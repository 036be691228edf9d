package playback

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aurora-stream/aurora/auth"
	"github.com/aurora-stream/aurora/blob"
	"github.com/aurora-stream/aurora/media"
	"github.com/aurora-stream/aurora/media/mediatest"
	"github.com/aurora-stream/aurora/stream"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestSessionIntro(t *testing.T) {
	Convey("Given a started session", t, func() {
		el := mediatest.New()
		res := &fakeResolver{decision: stream.Decision{Mode: stream.Direct, URL: "https://cdn.example/a.mp4"}}
		s := NewSession("a", "A", Options{Element: el, Resolver: res, IntroURL: introURL})

		So(s.Start(context.Background()), ShouldBeNil)

		Convey("The intro should be mounted muted and loading", func() {
			So(s.Phase(), ShouldEqual, LoadingIntro)
			So(el.Log(), ShouldResemble, []string{"mount " + introURL, "load"})
			So(el.Source().Muted, ShouldBeTrue)
			So(el.Source().Autoplay, ShouldBeTrue)
			So(s.State().LoadingText(), ShouldEqual, "Loading intro...")
		})

		Convey("Metadata should start the intro", func() {
			el.Emit(media.Event{Type: media.LoadedMetadata, Duration: 5})
			So(s.Phase(), ShouldEqual, PlayingIntro)
			So(s.State().Intro(), ShouldBeTrue)
		})

		Convey("Nothing but the intro's end should reach the main stream", func() {
			el.Emit(media.Event{Type: media.LoadedMetadata, Duration: 5})
			el.Emit(media.Event{Type: media.TimeUpdate, Time: 4.9})
			el.Emit(media.Event{Type: media.Pause})
			el.Emit(media.Event{Type: media.Play})
			So(res.resolves.Load(), ShouldEqual, int32(0))
			So(s.Phase(), ShouldEqual, PlayingIntro)
		})

		Convey("A second start should be refused", func() {
			So(errors.Is(s.Start(context.Background()), ErrAlreadyStarted), ShouldBeTrue)
		})
	})
}

func TestSessionMain(t *testing.T) {
	Convey("Given a session whose intro has played", t, func() {
		el := mediatest.New()
		res := &fakeResolver{decision: stream.Decision{Mode: stream.Direct, URL: "https://cdn.example/a.mp4"}}
		s := NewSession("a", "A", Options{
			Element:     el,
			Resolver:    res,
			Credentials: auth.NewMemory("tok"),
			ProfileID:   mo.Some("p-1"),
			Scheme:      "https:",
			IntroURL:    introURL,
		})
		playing := reached(s, PlayingMain)
		So(playIntro(s, el, 5), ShouldBeNil)

		el.Emit(media.Event{Type: media.Ended})
		So(await(playing), ShouldBeTrue)

		Convey("The resolver should get the session inputs", func() {
			req := res.lastReq.Load()
			So(req.Locator, ShouldEqual, "a")
			So(req.Credential.MustGet(), ShouldEqual, "tok")
			So(req.ProfileID.MustGet(), ShouldEqual, "p-1")
			So(req.Scheme, ShouldEqual, "https:")
		})

		Convey("The main source should be mounted unmuted after the intro ended", func() {
			log := el.Log()
			ended := indexOf(log, "event ended")
			main := indexOf(log, "mount https://cdn.example/a.mp4")
			So(ended, ShouldBeGreaterThan, -1)
			So(main, ShouldBeGreaterThan, ended)
			So(log[main+1:], ShouldResemble, []string{"load", "play"})
			So(el.Source().Muted, ShouldBeFalse)
			So(s.Decision().MustGet().Mode, ShouldEqual, stream.Direct)
		})

		Convey("The end of the main stream should not trigger anything", func() {
			el.Emit(media.Event{Type: media.Ended})
			s.loaders.Wait()
			So(res.resolves.Load(), ShouldEqual, int32(1))
			So(s.Phase(), ShouldEqual, PlayingMain)
		})
	})

	Convey("Given an intro that ends before its metadata", t, func() {
		el := mediatest.New()
		res := &fakeResolver{decision: stream.Decision{Mode: stream.Direct, URL: "https://cdn.example/a.mp4"}}
		s := NewSession("a", "A", Options{Element: el, Resolver: res, IntroURL: introURL})
		playing := reached(s, PlayingMain)

		So(s.Start(context.Background()), ShouldBeNil)
		el.Emit(media.Event{Type: media.Ended})

		Convey("The main stream should still load", func() {
			So(await(playing), ShouldBeTrue)
		})
	})

	Convey("Given an element that refuses to play", t, func() {
		el := mediatest.New()
		el.PlayErr = errors.New("autoplay blocked")
		rec := &recorder{}
		res := &fakeResolver{decision: stream.Decision{Mode: stream.Direct, URL: "https://cdn.example/a.mp4"}}
		s := NewSession("a", "A", Options{Element: el, Resolver: res, IntroURL: introURL, OnError: rec.onError})

		So(playIntro(s, el, 5), ShouldBeNil)
		el.Emit(media.Event{Type: media.Ended})
		s.loaders.Wait()

		Convey("The session should fail", func() {
			errs, _ := rec.snapshot()
			So(s.Phase(), ShouldEqual, Errored)
			So(errs, ShouldResemble, []string{"failed to play main stream: autoplay blocked"})
		})
	})
}

func TestSessionManualFetch(t *testing.T) {
	Convey("Given a proxied decision that needs a manual fetch", t, func() {
		el := mediatest.New()
		blobs := blob.NewRegistry(afero.NewMemMapFs(), "/blobs")
		res := &fakeResolver{
			decision: stream.Decision{Mode: stream.Proxied, URL: "http://api/stream/proxy?url=a&profile-id=default"},
			manual:   true,
			body:     "video-bytes",
		}
		rec := &recorder{}
		s := NewSession("a", "A", Options{
			Element:  el,
			Resolver: res,
			Blobs:    blobs,
			IntroURL: introURL,
			OnError:  rec.onError,
			OnClose:  rec.onClose,
		})
		playing := reached(s, PlayingMain)
		So(playIntro(s, el, 5), ShouldBeNil)
		el.Emit(media.Event{Type: media.Ended})
		So(await(playing), ShouldBeTrue)

		Convey("The element should play a blob holding the body", func() {
			url := el.Source().URL
			So(blob.IsBlob(url), ShouldBeTrue)
			So(res.fetches.Load(), ShouldEqual, int32(1))

			f, err := blobs.Open(url)
			So(err, ShouldBeNil)
			defer f.Close()
			data, _ := io.ReadAll(f)
			So(string(data), ShouldEqual, "video-bytes")
		})

		Convey("Closing should revoke the blob and report once", func() {
			s.Close()
			s.Close()
			_, closes := rec.snapshot()
			So(blobs.Len(), ShouldEqual, 0)
			So(closes, ShouldEqual, 1)
			So(s.Phase(), ShouldEqual, Closed)
		})

		Convey("An element error should revoke the blob and report once", func() {
			el.Emit(media.Event{Type: media.Error, Err: errors.New("decoder")})
			el.Emit(media.Event{Type: media.Error, Err: errors.New("decoder")})
			errs, closes := rec.snapshot()
			So(blobs.Len(), ShouldEqual, 0)
			So(errs, ShouldResemble, []string{"failed to play video: decoder"})
			So(closes, ShouldEqual, 0)
		})
	})

	Convey("Given a manual fetch that is rejected", t, func() {
		el := mediatest.New()
		rec := &recorder{}
		res := &fakeResolver{
			decision: stream.Decision{Mode: stream.Proxied, URL: "http://api/stream/proxy?url=a"},
			manual:   true,
			fetchErr: &stream.StatusError{Code: http.StatusForbidden, Status: "403 Forbidden"},
		}
		s := NewSession("a", "A", Options{Element: el, Resolver: res, IntroURL: introURL, OnError: rec.onError})

		So(playIntro(s, el, 5), ShouldBeNil)
		el.Emit(media.Event{Type: media.Ended})
		s.loaders.Wait()

		Convey("The session should fail without mounting anything else", func() {
			errs, _ := rec.snapshot()
			So(errs, ShouldResemble, []string{"failed to load main stream: HTTP 403: Forbidden"})
			So(s.Phase(), ShouldEqual, Errored)
			So(s.State().Error, ShouldEqual, "failed to load main stream: HTTP 403: Forbidden")
			So(el.Source().URL, ShouldEqual, introURL)
		})
	})
}

func TestSessionStale(t *testing.T) {
	Convey("Given a resolution still in flight", t, func() {
		el := mediatest.New()
		blobs := blob.NewRegistry(afero.NewMemMapFs(), "/blobs")
		res := &fakeResolver{
			decision: stream.Decision{Mode: stream.Proxied, URL: "http://api/stream/proxy?url=a"},
			manual:   true,
			body:     "late",
			release:  make(chan struct{}),
		}
		rec := &recorder{}
		s := NewSession("a", "A", Options{Element: el, Resolver: res, Blobs: blobs, IntroURL: introURL, OnError: rec.onError})

		loading := reached(s, LoadingMain)
		So(playIntro(s, el, 5), ShouldBeNil)
		el.Emit(media.Event{Type: media.Ended})
		So(await(loading), ShouldBeTrue)

		Convey("Closing before it completes should discard the result", func() {
			So(s.State().LoadingText(), ShouldEqual, "Loading stream...")
			s.Close()
			close(res.release)
			s.loaders.Wait()

			errs, _ := rec.snapshot()
			So(s.Phase(), ShouldEqual, Closed)
			So(errs, ShouldBeEmpty)
			So(res.fetches.Load(), ShouldEqual, int32(0))
			So(el.Source().URL, ShouldEqual, introURL)
			So(blobs.Len(), ShouldEqual, 0)
			So(s.Decision().IsPresent(), ShouldBeFalse)
			So(s.State().Decision.IsPresent(), ShouldBeFalse)
		})
	})

	Convey("Given a session closed before it started", t, func() {
		el := mediatest.New()
		s := NewSession("a", "A", Options{Element: el, Resolver: &fakeResolver{}, IntroURL: introURL})
		s.Close()

		Convey("Start should not mount anything", func() {
			So(errors.Is(s.Start(context.Background()), ErrStale), ShouldBeTrue)
			So(el.Log(), ShouldBeEmpty)
		})
	})
}

func TestSessionEndToEnd(t *testing.T) {
	Convey("Given a streaming API that allows direct playback of movie-42", t, func() {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"success":true,"data":{"useProxy":false,"directUrl":"https://cdn.example/movie-42.mp4"}}`)
		}))
		defer api.Close()

		el := mediatest.New()
		resolver := stream.New(stream.Options{Client: api.Client(), DirectEndpoint: api.URL + "/stream/direct"})
		s := NewSession("movie-42", "Movie 42", Options{Element: el, Resolver: resolver, IntroURL: introURL})

		playing := reached(s, PlayingMain)
		So(playIntro(s, el, 5), ShouldBeNil)
		el.Emit(media.Event{Type: media.Ended})
		So(await(playing), ShouldBeTrue)

		Convey("The direct url should be played after the intro", func() {
			So(el.Source().URL, ShouldEqual, "https://cdn.example/movie-42.mp4")
			So(s.Decision().MustGet(), ShouldResemble, stream.Decision{Mode: stream.Direct, URL: "https://cdn.example/movie-42.mp4"})
		})
	})

	Convey("Given an unreachable probe and an authenticated proxy", t, func() {
		dead := httptest.NewServer(http.NotFoundHandler())
		deadURL := dead.URL
		dead.Close()

		var fetches atomic.Int32
		seen := make(chan *http.Request, 4)
		proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fetches.Add(1)
			seen <- r.Clone(context.Background())
			w.Header().Set("Content-Type", "video/mp4")
			w.WriteHeader(http.StatusPartialContent)
			_, _ = io.WriteString(w, "proxied-bytes")
		}))
		defer proxy.Close()

		el := mediatest.New()
		blobs := blob.NewRegistry(afero.NewMemMapFs(), "/blobs")
		resolver := stream.New(stream.Options{
			Client:         proxy.Client(),
			DirectEndpoint: deadURL + "/stream/direct",
			ProxyEndpoint:  proxy.URL + "/stream/proxy",
		})
		s := NewSession("movie-42", "Movie 42", Options{
			Element:     el,
			Resolver:    resolver,
			Credentials: auth.NewMemory("tok"),
			Blobs:       blobs,
			IntroURL:    introURL,
		})

		playing := reached(s, PlayingMain)
		So(playIntro(s, el, 5), ShouldBeNil)
		el.Emit(media.Event{Type: media.Ended})
		So(await(playing), ShouldBeTrue)

		Convey("The proxy should be fetched exactly once with the credential", func() {
			So(fetches.Load(), ShouldEqual, int32(1))
			req := <-seen
			So(req.Header.Get("Authorization"), ShouldEqual, "Bearer tok")
			So(req.Header.Get("Range"), ShouldEqual, "bytes=0-")
			So(req.URL.Query().Get("profile-id"), ShouldEqual, "default")
			So(req.URL.Query().Get("url"), ShouldEqual, "movie-42")
		})

		Convey("The element should play the materialized blob", func() {
			So(s.Decision().MustGet().Mode, ShouldEqual, stream.Proxied)
			So(blob.IsBlob(el.Source().URL), ShouldBeTrue)
			So(blobs.Size(el.Source().URL), ShouldEqual, int64(len("proxied-bytes")))
		})
	})
}
