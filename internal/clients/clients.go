// Package clients holds the outbound halves of the external-data proxies:
// thin HTTP clients for the ticketing, weather, video and music-metadata
// providers. Every call is bounded by the shared client timeout so a dead
// upstream can never hang a request indefinitely.
package clients

import (
	"fmt"
	"net/http"
	"time"
)

const upstreamTimeout = 10 * time.Second

// UpstreamError carries the status code of a non-2xx upstream response so
// handlers can forward it instead of collapsing everything into a 500.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.Status, e.Body)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: upstreamTimeout}
}
