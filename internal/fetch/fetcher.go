// Package fetch downloads Census PUMS and BLS CE data through a rate-limited
// HTTP client with a persistent response cache.
package fetch

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)
}
