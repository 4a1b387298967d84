// Package schema fetches the RIF-CS schema modules, composes them into one
// schema document and validates registry documents against it.
package schema

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ands/rifcs/errors"
)

// DefaultMaxSchemaBytes bounds a single fetched schema document.
const DefaultMaxSchemaBytes = 8 << 20

// Default expiry settings for CachingFetcher.
const (
	DefaultCacheExpiration      = 24 * time.Hour
	DefaultCacheCleanupInterval = time.Hour
)

// Fetcher retrieves the raw bytes of a schema document.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// HTTPFetcher fetches schema documents over HTTP.
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// MaxBytes defaults to DefaultMaxSchemaBytes.
	MaxBytes int64
}

// Fetch implements Fetcher. Any status other than 200 is a failure.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	client := http.DefaultClient
	limit := int64(DefaultMaxSchemaBytes)
	if f != nil {
		if f.Client != nil {
			client = f.Client
		}
		if f.MaxBytes > 0 {
			limit = f.MaxBytes
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, errors.SchemaFetch("fetch", location, err)
	}
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, */*;q=0.1")
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.SchemaFetch("fetch", location, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.SchemaFetch("fetch", location, fmt.Errorf("unexpected status %s", resp.Status))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.SchemaFetch("read", location, err)
	}
	if int64(len(data)) > limit {
		return nil, errors.SchemaFetch("read", location, fmt.Errorf("document exceeds %d bytes", limit))
	}
	return data, nil
}

// DirFetcher serves schema documents from a local mirror of a remote base.
// Locations under Base are read from FS at their path relative to Base;
// relative locations are read as is.
type DirFetcher struct {
	FS   fs.FS
	Base string
}

// Fetch implements Fetcher.
func (f DirFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.SchemaFetch("fetch", location, err)
	}
	if f.FS == nil {
		return nil, errors.SchemaFetch("fetch", location, fmt.Errorf("no filesystem configured"))
	}
	name, err := f.name(location)
	if err != nil {
		return nil, errors.SchemaFetch("fetch", location, err)
	}
	data, err := fs.ReadFile(f.FS, name)
	if err != nil {
		return nil, errors.SchemaFetch("read", location, err)
	}
	return data, nil
}

func (f DirFetcher) name(location string) (string, error) {
	name := location
	if f.Base != "" {
		if rest, ok := strings.CutPrefix(location, f.Base); ok {
			name = rest
		} else if isAbsoluteURL(location) {
			return "", fmt.Errorf("location is outside %s: %w", f.Base, fs.ErrNotExist)
		}
	} else if u, err := url.Parse(location); err == nil && u.IsAbs() {
		name = path.Base(u.Path)
	}
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("invalid schema path %q", name)
	}
	return name, nil
}

// CachingFetcher memoizes another Fetcher in memory. It is safe for
// concurrent use. Returned slices are shared and must not be modified.
type CachingFetcher struct {
	next  Fetcher
	cache *gocache.Cache
}

// NewCachingFetcher wraps next with an in-memory cache whose entries expire
// after ttl. A non-positive ttl selects DefaultCacheExpiration.
func NewCachingFetcher(next Fetcher, ttl time.Duration) *CachingFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}
	return &CachingFetcher{
		next:  next,
		cache: gocache.New(ttl, DefaultCacheCleanupInterval),
	}
}

// Fetch implements Fetcher. Failures are not cached.
func (c *CachingFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if value, found := c.cache.Get(location); found {
		if data, ok := value.([]byte); ok {
			return data, nil
		}
	}
	data, err := c.next.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	c.cache.Set(location, data, gocache.DefaultExpiration)
	return data, nil
}

// Len returns the number of cached documents, including expired ones not yet
// cleaned up.
func (c *CachingFetcher) Len() int { return c.cache.ItemCount() }

// Flush drops every cached document.
func (c *CachingFetcher) Flush() { c.cache.Flush() }

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.IsAbs()
}

// resolveLocation resolves ref against base. Absolute URLs resolve as URLs;
// anything else is joined as a slash-separated path.
func resolveLocation(base, ref string) string {
	if ref == "" || isAbsoluteURL(ref) {
		return ref
	}
	if b, err := url.Parse(base); err == nil && b.IsAbs() {
		if r, err := url.Parse(ref); err == nil {
			return b.ResolveReference(r).String()
		}
	}
	if base == "" || strings.HasPrefix(ref, "/") {
		return ref
	}
	return path.Join(path.Dir(base), ref)
}
