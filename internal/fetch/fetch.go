// Package fetch retrieves remote artifacts into local files.
//
// A Fetcher streams the response body straight to disk, so payload size is
// bounded by the filesystem rather than memory. It never retries and never
// removes a partially written destination; callers treat the destination as
// untrusted until they have verified it.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.bug.st/downloader/v2"
)

const (
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "stemsplit-bundle/1.0"
	// maxRedirects bounds the redirect chain of a single fetch
	maxRedirects = 10
)

// afterRun runs between the download completing and the size check.
var afterRun = func(dest string) {}

// Fetcher retrieves the bytes at url and writes them to dest.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) (int64, error)
}

// TransportError reports a failed retrieval: DNS or connection failures,
// broken streams, and non-success HTTP responses.
type TransportError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPFetcher is a Fetcher backed by an HTTP client.
type HTTPFetcher struct {
	client    http.Client
	userAgent string
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient uses client for all requests. Its CheckRedirect and Transport
// are wrapped, not replaced.
func WithClient(client *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = *client
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// NewHTTPFetcher creates a fetcher. No request timeout is applied; the
// transport of the supplied client decides that.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(f)
	}

	if f.client.CheckRedirect == nil {
		f.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		}
	}

	base := f.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	f.client.Transport = &userAgentTransport{base: base, userAgent: f.userAgent}

	return f
}

// Fetch downloads url into dest, creating dest's parent directory if needed.
// It returns the number of bytes written.
func (f *HTTPFetcher) Fetch(ctx context.Context, url, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, fmt.Errorf("create dest dir: %w", err)
	}

	// The downloader resumes into an existing file; every fetch here starts
	// from an empty destination.
	if err := os.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("remove stale destination: %w", err)
	}

	d, err := downloader.DownloadWithConfigAndContext(ctx, dest, url, downloader.Config{
		HttpClient: f.client,
	})
	if err != nil {
		return 0, &TransportError{URL: url, Err: err}
	}

	if code := d.Resp.StatusCode; code < 200 || code > 299 {
		_ = d.Close()
		return 0, &TransportError{URL: url, StatusCode: code, Err: errors.New(http.StatusText(code))}
	}

	if err := d.Run(); err != nil {
		return d.Completed(), &TransportError{URL: url, Err: err}
	}

	// An empty body may complete without the downloader ever opening dest.
	if _, err := os.Stat(dest); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(dest, nil, 0644); err != nil {
			return 0, fmt.Errorf("create empty destination: %w", err)
		}
	}

	afterRun(dest)

	// The downloader ignores write errors, so a full disk or a file size
	// limit only shows up as a destination shorter than the stream.
	completed := d.Completed()
	written, err := writtenSize(dest)
	if err != nil {
		return 0, &TransportError{URL: url, Err: err}
	}
	if written != completed {
		return written, &TransportError{
			URL: url,
			Err: fmt.Errorf("short write: %d of %d bytes reached %s", written, completed, dest),
		}
	}

	return completed, nil
}

func writtenSize(dest string) (int64, error) {
	info, err := os.Stat(dest)
	if err != nil {
		return 0, fmt.Errorf("stat destination: %w", err)
	}
	return info.Size(), nil
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}
