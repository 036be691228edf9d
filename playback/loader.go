package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/aurora-stream/aurora/blob"
	"github.com/aurora-stream/aurora/log"
	"github.com/aurora-stream/aurora/media"
	"github.com/aurora-stream/aurora/stream"
	"github.com/samber/mo"
)

// introEnded is the only way past the intro.
func (s *Session) introEnded(ctx context.Context) {
	// Some backends end very short files before reporting metadata.
	_ = s.machine.Transition(LoadingIntro, PlayingIntro)

	if err := s.machine.Transition(PlayingIntro, LoadingMain); err != nil {
		s.entry.WithField("error", err).Debug("intro end ignored")
		return
	}

	s.loaders.Add(1)
	go func() {
		defer s.loaders.Done()
		s.loadMain(ctx)
	}()
}

func (s *Session) credential() mo.Option[string] {
	if s.opts.Credentials == nil {
		return mo.None[string]()
	}
	return s.opts.Credentials.Get()
}

// loadMain resolves and mounts the main stream. Every commit is made from
// LoadingMain, so results that arrive after Close or an error are dropped.
func (s *Session) loadMain(ctx context.Context) {
	credential := s.credential()

	decision := s.opts.Resolver.Resolve(ctx, stream.Request{
		Locator:    s.locator,
		Credential: credential,
		ProfileID:  s.opts.ProfileID,
		Scheme:     s.opts.Scheme,
	})
	entry := s.entry.WithFields(log.Fields{"mode": decision.Mode, "url": decision.URL})
	if !s.machine.Guard(LoadingMain, func() { s.setDecision(decision) }) {
		entry.Debug("resolution discarded")
		return
	}

	src := media.Source{URL: decision.URL, Title: s.title, Autoplay: true}
	if s.opts.Resolver.RequiresManualFetch(decision) {
		url, err := s.materialize(ctx, decision.URL, credential)
		if err != nil {
			if errors.Is(err, ErrStale) || ctx.Err() != nil {
				entry.Debug("manual fetch discarded")
				return
			}
			s.fail(fmt.Sprintf("failed to load main stream: %v", err))
			return
		}
		src.URL = url
	}

	var err error
	committed := s.machine.Guard(LoadingMain, func() {
		if blob.IsBlob(src.URL) {
			s.releaseBlob()
			s.blobURL = src.URL
		}
		if err = s.mount(src); err == nil {
			err = s.opts.Element.Play()
		}
	})

	if !committed {
		if blob.IsBlob(src.URL) {
			_ = s.opts.Blobs.Revoke(src.URL)
		}
		entry.Debug("main stream discarded")
		return
	}

	if err != nil {
		s.fail(fmt.Sprintf("failed to play main stream: %v", err))
		return
	}

	if err := s.machine.Transition(LoadingMain, PlayingMain); err == nil {
		entry.Info("main stream playing")
	}
}

// materialize fetches url with the credential and stores the body as a blob.
func (s *Session) materialize(ctx context.Context, url string, credential mo.Option[string]) (string, error) {
	body, err := s.opts.Resolver.Fetch(ctx, url, credential)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if s.machine.Phase() != LoadingMain {
		return "", ErrStale
	}

	blobURL, err := s.opts.Blobs.Create(body, body.ContentType)
	if err != nil {
		return "", err
	}
	return blobURL, nil
}
