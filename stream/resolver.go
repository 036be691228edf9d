package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aurora-stream/aurora/config"
	"github.com/aurora-stream/aurora/constant"
	"github.com/aurora-stream/aurora/key"
	"github.com/aurora-stream/aurora/log"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

var (
	errBreakerOpen = errors.New("probe skipped: resolver breaker is open")
	errRejected    = errors.New("probe rejected")
	errMalformed   = errors.New("probe response has no usable url")
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request carries everything the resolver needs for one session.
type Request struct {
	Locator    string
	Credential mo.Option[string]
	ProfileID  mo.Option[string]
	// Scheme is the frontend protocol reported to the API, e.g. "http:".
	Scheme string
}

// Options configures a Resolver. Zero values select the built-in defaults.
type Options struct {
	Client           Doer
	DirectEndpoint   string
	ProxyEndpoint    string
	ProxyPath        string
	DefaultProfile   string
	FailureThreshold int
	Cooldown         time.Duration
}

// Resolver decides the transport for a locator by probing the streaming API.
// It is safe for concurrent use.
type Resolver struct {
	client         Doer
	directEndpoint string
	proxyEndpoint  string
	proxyPath      string
	defaultProfile string
	breaker        *breaker
}

// New returns a resolver built from opts.
func New(opts Options) *Resolver {
	base := strings.TrimRight(constant.DefaultAPIBaseURL, "/")

	r := &Resolver{
		client:         opts.Client,
		directEndpoint: opts.DirectEndpoint,
		proxyEndpoint:  opts.ProxyEndpoint,
		proxyPath:      opts.ProxyPath,
		defaultProfile: opts.DefaultProfile,
		breaker:        newBreaker(opts.FailureThreshold, opts.Cooldown),
	}

	if r.client == nil {
		r.client = http.DefaultClient
	}
	if r.directEndpoint == "" {
		r.directEndpoint = base + constant.DirectPath
	}
	if r.proxyEndpoint == "" {
		r.proxyEndpoint = base + constant.ProxyPath
	}
	if r.proxyPath == "" {
		r.proxyPath = constant.ProxyPath
	}
	if r.defaultProfile == "" {
		r.defaultProfile = constant.DefaultProfileID
	}

	return r
}

// FromConfig builds a resolver from the global configuration.
func FromConfig(client Doer) *Resolver {
	return New(Options{
		Client:           client,
		DirectEndpoint:   config.URL(key.StreamDirectPath),
		ProxyEndpoint:    config.URL(key.StreamProxyPath),
		ProxyPath:        viper.GetString(key.StreamProxyPath),
		DefaultProfile:   viper.GetString(key.StreamDefaultProfile),
		FailureThreshold: viper.GetInt(key.ResolverFailureThreshold),
		Cooldown:         config.Seconds(key.ResolverCooldown),
	})
}

// Resolve always returns a decision. Probe failures of any kind, including a
// cancelled context, resolve to the local proxy URL.
func (r *Resolver) Resolve(ctx context.Context, req Request) (decision Decision) {
	entry := log.WithFields(log.Fields{
		"locator":       req.Locator,
		"authenticated": req.Credential.IsPresent(),
	})

	defer func() {
		if p := recover(); p != nil {
			decision = r.Fallback(req)
			entry.WithFields(log.Fields{"mode": decision.Mode, "reason": fmt.Sprint(p)}).Error("probe panicked, using proxy")
		}
	}()

	if !r.breaker.allow() {
		decision = r.Fallback(req)
		entry.WithFields(log.Fields{"mode": decision.Mode, "reason": errBreakerOpen.Error()}).Debug("using proxy")
		return decision
	}

	if ctx == nil {
		ctx = context.Background()
	}

	decision, err := r.probe(ctx, req)
	if err != nil {
		// A cancelled session says nothing about the API's health.
		if ctx.Err() == nil {
			r.breaker.failure()
		}
		decision = r.Fallback(req)
		entry.WithFields(log.Fields{
			"mode":    decision.Mode,
			"reason":  err.Error(),
			"breaker": r.breaker.current(),
		}).Warn("probe failed, using proxy")
		return decision
	}

	r.breaker.success()
	entry.WithFields(log.Fields{"mode": decision.Mode, "reason": "probe"}).Info("stream resolved")
	return decision
}

// Fallback is the decision used whenever the probe cannot be trusted.
func (r *Resolver) Fallback(req Request) Decision {
	return Decision{
		Mode: Proxied,
		URL:  r.ProxyURL(req.Locator, req.ProfileID.OrElse(r.defaultProfile)),
	}
}

// ProxyURL builds the local proxy URL for a locator. An empty profile uses the default one.
func (r *Resolver) ProxyURL(locator, profile string) string {
	if profile == "" {
		profile = r.defaultProfile
	}

	sep := "?"
	if strings.Contains(r.proxyEndpoint, "?") {
		sep = "&"
	}

	return r.proxyEndpoint + sep + "url=" + url.QueryEscape(locator) + "&profile-id=" + url.QueryEscape(profile)
}

// RequiresManualFetch reports whether the media element cannot load d.URL itself
// because the proxy needs an Authorization header.
func (r *Resolver) RequiresManualFetch(d Decision) bool {
	return d.Mode == Proxied && strings.Contains(d.URL, r.proxyPath)
}

type probeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		UseProxy  bool   `json:"useProxy"`
		DirectURL string `json:"directUrl"`
		ProxyURL  string `json:"proxyUrl"`
	} `json:"data"`
}

func (r *Resolver) probe(ctx context.Context, req Request) (Decision, error) {
	endpoint, err := url.Parse(r.directEndpoint)
	if err != nil {
		return Decision{}, fmt.Errorf("parse probe endpoint: %w", err)
	}

	query := endpoint.Query()
	query.Set("url", req.Locator)
	endpoint.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Decision{}, fmt.Errorf("build probe request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", constant.UserAgent)
	httpReq.Header.Set(constant.FrontendProtocolHeader, req.Scheme)
	if token, ok := req.Credential.Get(); ok && token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return Decision{}, fmt.Errorf("probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Decision{}, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	var body probeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return Decision{}, fmt.Errorf("decode probe response: %w", err)
	}

	if !body.Success {
		if body.Message != "" {
			return Decision{}, fmt.Errorf("%w: %s", errRejected, body.Message)
		}
		return Decision{}, errRejected
	}

	if body.Data == nil {
		return Decision{}, errMalformed
	}

	if body.Data.UseProxy {
		if body.Data.ProxyURL == "" {
			return Decision{}, errMalformed
		}
		return Decision{Mode: Proxied, URL: body.Data.ProxyURL}, nil
	}

	if body.Data.DirectURL == "" {
		return Decision{}, errMalformed
	}
	return Decision{Mode: Direct, URL: body.Data.DirectURL}, nil
}
