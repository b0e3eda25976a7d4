// Package download streams a release archive to disk with progress
// reporting. The destination path is all-or-nothing: a partial file never
// survives an error.
package download

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mudrikam/image-tea-installer/internal/exitcodes"
)

// ProgressFunc is called as bytes arrive.
// done: bytes written so far
// total: expected size from the response (-1 if unknown)
type ProgressFunc func(done, total int64)

// HTTPDoer interface for HTTP requests (allows mocking in tests).
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client downloads release archives.
type Client struct {
	http HTTPDoer
}

// New creates a download client. No overall timeout: artifacts can be
// large and slow links are fine, but the server must start responding.
func New() *Client {
	return &Client{
		http: &http.Client{
			Timeout: 0,
			Transport: &http.Transport{
				ResponseHeaderTimeout: 30 * time.Second,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
}

// NewWith creates a client with a custom HTTP doer (for testing).
func NewWith(h HTTPDoer) *Client {
	if h == nil {
		return New()
	}
	return &Client{http: h}
}

// Download streams url to dest, invoking progress per chunk. Redirects
// (the "latest" channel resolves through one) are followed by the
// underlying http.Client. On any error the partially written dest is
// removed before the error is returned.
func (c *Client) Download(ctx context.Context, url, dest string, progress ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return exitcodes.NetworkErr("build request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return exitcodes.NetworkErr("download "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return exitcodes.HTTPErrf("unexpected status %s for %s", resp.Status, url)
	}

	out, err := os.Create(dest)
	if err != nil {
		return exitcodes.FilesystemErr("create "+dest, err)
	}

	var reader io.Reader = resp.Body
	if progress != nil {
		reader = &progressReader{
			reader:   resp.Body,
			total:    resp.ContentLength,
			progress: progress,
		}
	}

	// Track write failures separately: a failed io.Copy can mean either a
	// dropped connection (reader side) or a full disk (writer side).
	w := &errTrackWriter{w: out}
	_, copyErr := io.Copy(w, reader)
	closeErr := out.Close()

	if copyErr != nil || closeErr != nil {
		// Partial downloads are never left behind
		_ = os.Remove(dest)
		switch {
		case w.err != nil:
			return exitcodes.FilesystemErr("write "+dest, w.err)
		case copyErr != nil:
			if ctx.Err() != nil {
				return exitcodes.NetworkErr("download interrupted", ctx.Err())
			}
			return exitcodes.NetworkErr("connection lost during download", copyErr)
		default:
			return exitcodes.FilesystemErr("close "+dest, closeErr)
		}
	}

	return nil
}

// errTrackWriter remembers the first write error it sees.
type errTrackWriter struct {
	w   io.Writer
	err error
}

func (t *errTrackWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

// progressReader wraps a reader to report download progress.
type progressReader struct {
	reader   io.Reader
	total    int64
	done     int64
	progress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.done += int64(n)
	if pr.progress != nil && n > 0 {
		pr.progress(pr.done, pr.total)
	}
	return n, err
}
