// Package httpcache implements a read-through disk cache for HTTP GET responses.
package httpcache

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Transport implements a simple disk cache for HTTP responses.
//
// Entries are keyed by the request and the time bucket the request falls in:
// a response is reused until the end of its bucket (e.g. 5 minutes for quotes,
// a day for names).
type Transport struct {
	Base   http.RoundTripper // http.DefaultTransport if nil
	Bucket time.Duration     // no caching if not positive
	Dir    string            // os.TempDir() if empty
	Log    zerolog.Logger
	now    func() time.Time
}

// key returns the cache key of a request at a given time.
func (c *Transport) key(req *http.Request, at time.Time) string {
	bucket := at.UTC().Truncate(c.Bucket).Unix()
	key := fmt.Sprintf("%d %s %s", bucket, req.Method, req.URL.String())
	return fmt.Sprintf("portfel-%x", sha1.Sum([]byte(key)))
}

func (c *Transport) base() http.RoundTripper {
	if c.Base == nil {
		return http.DefaultTransport
	}
	return c.Base
}

func (c *Transport) dir() string {
	if c.Dir == "" {
		return os.TempDir()
	}
	return c.Dir
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If a fresh cached response is not found, it proceeds
// with the actual HTTP request and caches the new response if it's successful.
func (c *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if c.Bucket <= 0 || req.Method != http.MethodGet {
		return c.base().RoundTrip(req)
	}
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	key := c.key(req, now())

	if cached, err := c.get(key, req); err == nil { // Cache hit
		c.Log.Debug().Str("host", req.URL.Host).Str("path", req.URL.Path).Msg("cache hit")
		return cached, nil
	}

	resp, err := c.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}
	c.Log.Debug().Str("method", req.Method).Str("host", req.URL.Host).Str("path", req.URL.Path).Str("status", resp.Status).Msg("fetched")
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache
	if err := c.put(key, resp); err != nil {
		c.Log.Warn().Err(err).Msg("cache write failed (ignored)")
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *Transport) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk cache. DumpResponse leaves resp.Body readable.
func (c *Transport) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir(), key), content, 0o644)
}

// NewClient returns an http.Client caching GET responses for the given bucket,
// with an overall request timeout (none if not positive).
func NewClient(bucket, timeout time.Duration, log zerolog.Logger) *http.Client {
	return &http.Client{
		Transport: &Transport{Bucket: bucket, Log: log},
		Timeout:   timeout,
	}
}
