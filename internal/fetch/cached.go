package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/econlink/internal/cache"
)

// Client reads through the response cache: fresh entries are served from the
// store, everything else goes to the fetcher and is written back.
type Client struct {
	fetcher Fetcher
	store   cache.Store
	ttl     time.Duration
	now     func() time.Time
}

// NewClient creates a caching client. Entries older than ttl are refetched.
func NewClient(fetcher Fetcher, store cache.Store, ttl time.Duration) *Client {
	return &Client{fetcher: fetcher, store: store, ttl: ttl, now: time.Now}
}

// CacheKey is the cache key for a URL.
func CacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// FetchBytes returns the body for url, from cache when fresh.
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	key := CacheKey(url)

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry != nil && c.now().Sub(entry.FetchedAt) < c.ttl {
		zap.L().Debug("cache hit", zap.String("url", url))
		return entry.Body, nil
	}

	body, err := c.fetcher.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrapf(err, "read body from %s", url)
	}

	if err := c.store.Put(ctx, cache.Entry{
		Key: key, URL: url, Body: data, FetchedAt: c.now().UTC(),
	}); err != nil {
		return nil, err
	}
	zap.L().Debug("cache fill", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, nil
}

// Table is a rectangular response: a header row and data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// FetchJSONTable fetches a Census-style JSON array-of-arrays response, where
// the first inner array is the header.
func (c *Client) FetchJSONTable(ctx context.Context, url string) (Table, error) {
	data, err := c.FetchBytes(ctx, url)
	if err != nil {
		return Table{}, err
	}

	var raw [][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return Table{}, eris.Wrapf(err, "parse JSON table from %s", url)
	}
	if len(raw) == 0 {
		return Table{}, eris.Errorf("empty JSON table from %s", url)
	}
	return Table{Header: raw[0], Rows: raw[1:]}, nil
}

// Column returns the index of the named header column, or an error.
func (t Table) Column(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return 0, eris.Errorf("column %q not in header %v", name, t.Header)
}

// Stats reports cache contents relative to the client's TTL.
func (c *Client) Stats(ctx context.Context) (cache.Stats, error) {
	return c.store.Stats(ctx, c.now().Add(-c.ttl))
}

// Evict removes entries older than the given age. Returns rows deleted.
func (c *Client) Evict(ctx context.Context, olderThan time.Duration) (int64, error) {
	return c.store.Evict(ctx, c.now().Add(-olderThan))
}
