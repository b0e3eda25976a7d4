package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mudrikam/image-tea-installer/internal/exitcodes"
)

const releaseJSON = `{
	"tag_name": "v1.4.0",
	"name": "Image Tea 1.4.0",
	"html_url": "https://github.com/mudrikam/Image-Tea-nano/releases/tag/v1.4.0",
	"assets": [
		{"name": "Image-Tea-windows.zip", "browser_download_url": "https://example.com/win.zip", "size": 1000},
		{"name": "Image-Tea-linux.zip", "browser_download_url": "https://example.com/linux.zip", "size": 900}
	]
}`

func TestLatest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/repos/mudrikam/Image-Tea-nano/releases/latest" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("User-Agent"); got != userAgent {
				t.Errorf("User-Agent = %q", got)
			}
			w.Write([]byte(releaseJSON))
		}))
		defer srv.Close()

		c := NewClientWith(nil, srv.URL)
		rel, err := c.Latest(context.Background(), "mudrikam", "Image-Tea-nano")
		if err != nil {
			t.Fatalf("Latest() error = %v", err)
		}
		if rel.TagName != "v1.4.0" {
			t.Errorf("TagName = %q", rel.TagName)
		}
		if len(rel.Assets) != 2 {
			t.Fatalf("len(Assets) = %d", len(rel.Assets))
		}
	})

	t.Run("404 means no releases", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewClientWith(nil, srv.URL)
		_, err := c.Latest(context.Background(), "mudrikam", "Image-Tea-nano")
		if err == nil {
			t.Fatal("expected error")
		}
		if exitcodes.CodeForError(err) != exitcodes.HTTPError {
			t.Errorf("code = %d, want HTTPError", exitcodes.CodeForError(err))
		}
	})

	t.Run("connection refused is a network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // now refuses connections

		c := NewClientWith(nil, srv.URL)
		_, err := c.Latest(context.Background(), "mudrikam", "Image-Tea-nano")
		if err == nil {
			t.Fatal("expected error")
		}
		if exitcodes.CodeForError(err) != exitcodes.NetworkError {
			t.Errorf("code = %d, want NetworkError", exitcodes.CodeForError(err))
		}
	})
}

func TestAssetNamed(t *testing.T) {
	rel := &Release{
		TagName: "v1.4.0",
		Assets: []Asset{
			{Name: "Image-Tea-linux.zip", Size: 900},
			{Name: "Image-Tea-windows.zip", Size: 1000},
		},
	}

	asset, err := rel.AssetNamed("Image-Tea-windows.zip")
	if err != nil {
		t.Fatalf("AssetNamed() error = %v", err)
	}
	if asset.Size != 1000 {
		t.Errorf("Size = %d", asset.Size)
	}

	if _, err := rel.AssetNamed("missing.zip"); err == nil {
		t.Error("expected error for missing asset")
	}
}

func TestStableAssetURL(t *testing.T) {
	got := StableAssetURL("mudrikam", "Image-Tea-nano", "Image-Tea-linux.zip")
	want := "https://github.com/mudrikam/Image-Tea-nano/releases/latest/download/Image-Tea-linux.zip"
	if got != want {
		t.Errorf("StableAssetURL() = %q, want %q", got, want)
	}
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"1.0.0", "1.1.0", true},
		{"v1.1.0", "v1.1.0", false},
		{"2.0.0", "1.9.9", false},
		{"dev", "1.0.0", true},
		{"1.0.0", "garbage", false},
	}
	for _, tt := range tests {
		if got := IsNewer(tt.current, tt.latest); got != tt.want {
			t.Errorf("IsNewer(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
		}
	}
}
