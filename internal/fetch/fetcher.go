// Package fetch streams model assets from the registry's download URLs to
// local storage and records a sidecar for every completed transfer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	cerrors "github.com/airsync/airsync/util/common/errors"
)

// Sentinel errors for asset transfers. Use errors.Is() to check for them.
var (
	// ErrTransport indicates a connection-level failure while downloading.
	ErrTransport = errors.New("fetch: transport failure")

	// ErrUnknownSize indicates the response declared no content length.
	// Progress reporting requires a known total.
	ErrUnknownSize = errors.New("fetch: response did not declare a content length")
)

// DownloadError is returned when the download endpoint answers with a
// non-success HTTP status.
type DownloadError struct {
	Status int
}

func (e *DownloadError) Error() string {
	return "fetch: download failed with status " + strconv.Itoa(e.Status)
}

// Progress receives cumulative bytes written for the named asset after each
// chunk. written increases monotonically up to total.
type Progress func(name string, written, total int64)

// Fetcher performs authenticated asset downloads. It holds a reference to
// the single HTTP client constructed by the orchestrator.
type Fetcher struct {
	http     *http.Client
	token    string
	log      zerolog.Logger
	progress Progress
	now      func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithProgress installs a progress observer.
func WithProgress(p Progress) Option {
	return func(f *Fetcher) { f.progress = p }
}

// withClock overrides the sidecar timestamp source (tests only).
func withClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// New creates a Fetcher. The token is carried opaquely as a bearer
// credential on every download request.
func New(httpClient *http.Client, token string, log zerolog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		http:  httpClient,
		token: token,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Download streams url to dest, overwriting any existing file, and writes
// the sidecar record strictly after the full body is flushed. A failed or
// interrupted transfer never leaves a sidecar claiming success; the
// truncated file is caught as a hash mismatch on the next run.
func (f *Fetcher) Download(ctx context.Context, url, dest, urn string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %v: %w", url, err, ErrTransport)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DownloadError{Status: resp.StatusCode}
	}

	total := resp.ContentLength
	if total < 0 {
		return fmt.Errorf("downloading %s: %w", url, ErrUnknownSize)
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return cerrors.NewFileError(dir, "create_dir", err)
		}
	}

	out, err := os.Create(dest)
	if err != nil {
		return cerrors.NewFileError(dest, "create", err)
	}

	name := filepath.Base(dest)
	f.log.Info().
		Str("url", url).
		Str("dest", dest).
		Int64("size", total).
		Msg("downloading asset")

	counter := &byteCounter{name: name, total: total, report: f.progress}
	if _, err := io.Copy(out, io.TeeReader(resp.Body, counter)); err != nil {
		out.Close()
		return fmt.Errorf("streaming %s: %v: %w", dest, err, ErrTransport)
	}

	// Flush before the sidecar is written so a crash between the two never
	// produces a sidecar for an incomplete asset.
	if err := out.Sync(); err != nil {
		out.Close()
		return cerrors.NewFileError(dest, "sync", err)
	}
	if err := out.Close(); err != nil {
		return cerrors.NewFileError(dest, "close", err)
	}

	if err := WriteSidecar(dest, urn, f.now()); err != nil {
		return err
	}

	f.log.Info().Str("dest", dest).Msg("download complete")
	return nil
}

// byteCounter reports cumulative bytes written after each chunk.
type byteCounter struct {
	name    string
	total   int64
	written int64
	report  Progress
}

func (c *byteCounter) Write(p []byte) (int, error) {
	n := len(p)
	c.written += int64(n)
	if c.report != nil {
		c.report(c.name, c.written, c.total)
	}
	return n, nil
}
