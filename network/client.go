// Package network provides the pre-configured HTTP client shared by the resolver and the manual stream fetch.
package network

import (
	"net/http"
	"time"

	"github.com/aurora-stream/aurora/config"
	"github.com/aurora-stream/aurora/key"
	"github.com/spf13/viper"
)

// New builds a client from the current configuration.
// With network.tls_fingerprint enabled, TLS connections present a Chrome client hello.
func New() *http.Client {
	var transport http.RoundTripper = newTransport()
	if viper.GetBool(key.NetworkTLSFingerprint) {
		transport = newFingerprintTransport()
	}

	return &http.Client{
		Timeout:   config.Seconds(key.NetworkTimeout),
		Transport: transport,
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}
