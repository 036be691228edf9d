package stream

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aurora-stream/aurora/constant"
	"github.com/aurora-stream/aurora/log"
	"github.com/samber/mo"
)

// StatusError is returned when the stream endpoint answers with an unusable status.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.Code)
	if text == "" {
		text = e.Status
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, text)
}

// Body is the payload of a manual fetch. The caller must close it.
type Body struct {
	io.ReadCloser
	ContentType string
	// Length is -1 when the server did not announce it.
	Length int64
}

// Fetch downloads rawURL with the credential attached, for endpoints the media element
// cannot reach on its own. Any 2xx status counts as success.
func (r *Resolver) Fetch(ctx context.Context, rawURL string, credential mo.Option[string]) (*Body, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build stream request: %w", err)
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Range", "bytes=0-")
	if token, ok := credential.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stream: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		log.WithFields(log.Fields{"status": resp.StatusCode, "url": rawURL}).Warn("manual fetch rejected")
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return &Body{
		ReadCloser:  resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Length:      resp.ContentLength,
	}, nil
}
