// Package release resolves the "latest" channel of the application
// repository: the GitHub release API when reachable, a stable download URL
// otherwise.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/mudrikam/image-tea-installer/internal/exitcodes"
)

const (
	// DefaultAPIBase is the GitHub REST API root.
	DefaultAPIBase = "https://api.github.com"

	httpTimeout = 30 * time.Second
	userAgent   = "image-tea-installer"
)

// HTTPDoer interface for HTTP requests (allows mocking in tests).
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client fetches release metadata for one repository.
type Client struct {
	http    HTTPDoer
	apiBase string
}

// NewClient creates a release client against the public GitHub API.
func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		apiBase: DefaultAPIBase,
	}
}

// NewClientWith creates a client with a custom HTTP doer and API base
// (for tests and mirrors). Zero values fall back to defaults.
func NewClientWith(h HTTPDoer, apiBase string) *Client {
	c := NewClient()
	if h != nil {
		c.http = h
	}
	if apiBase != "" {
		c.apiBase = apiBase
	}
	return c
}

// Latest gets the latest release of owner/repo.
func (c *Client) Latest(ctx context.Context, owner, repo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.apiBase, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, exitcodes.NetworkErr("fetch latest release", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, exitcodes.HTTPErrf("no releases found for %s/%s", owner, repo)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, exitcodes.HTTPErrf("GitHub API error: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, exitcodes.HTTPErrf("parse release: %v", err)
	}

	return &rel, nil
}

// AssetNamed finds the release asset with the given filename.
func (r *Release) AssetNamed(name string) (*Asset, error) {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i], nil
		}
	}
	return nil, exitcodes.HTTPErrf("%s not found in release %s assets", name, r.TagName)
}

// StableAssetURL returns the redirecting "latest" download URL for an asset.
// It works without the API and is the fallback when the API is unreachable.
func StableAssetURL(owner, repo, asset string) string {
	return fmt.Sprintf("https://github.com/%s/%s/releases/latest/download/%s", owner, repo, asset)
}

// IsNewer returns true if latest is a newer version than current.
func IsNewer(current, latest string) bool {
	if !strings.HasPrefix(current, "v") {
		current = "v" + current
	}
	if !strings.HasPrefix(latest, "v") {
		latest = "v" + latest
	}

	// Dev builds and unparseable installs always accept an upgrade
	if !semver.IsValid(current) {
		return true
	}
	if !semver.IsValid(latest) {
		return false
	}

	return semver.Compare(latest, current) > 0
}
