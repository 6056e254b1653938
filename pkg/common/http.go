package common

import (
	_ "embed"
	"net/http"
	"strings"
	"time"
)

//go:embed VERSION
var version string

// Version returns the build version embedded in the binary.
func Version() string {
	return strings.TrimSpace(version)
}

// headerTransport sets fixed headers on every outgoing request.
type headerTransport struct {
	transport http.RoundTripper
	headers   http.Header
}

// RoundTrip implements http.RoundTripper.
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request so the caller's headers are never modified
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header[k] = v
		}
	}
	return t.transport.RoundTrip(req)
}

// HTTPClient returns an http client that identifies itself as GridMix and
// asks for JSON unless the request says otherwise.
func HTTPClient(timeout time.Duration) *http.Client {
	headers := http.Header{}
	headers.Set("User-Agent", "GridMix/"+Version())
	headers.Set("Accept", "application/json")

	return &http.Client{
		Transport: &headerTransport{
			transport: http.DefaultTransport,
			headers:   headers,
		},
		Timeout: timeout,
	}
}
