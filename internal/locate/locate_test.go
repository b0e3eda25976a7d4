package locate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFixed(t *testing.T) {
	t.Run("returns pinned path", func(t *testing.T) {
		dir, err := Fixed("/opt/tea").BaseDir()
		if err != nil {
			t.Fatalf("BaseDir() error = %v", err)
		}
		if dir != "/opt/tea" {
			t.Errorf("BaseDir() = %q", dir)
		}
	})

	t.Run("empty is an error", func(t *testing.T) {
		if _, err := Fixed("").BaseDir(); err == nil {
			t.Error("expected error for empty path")
		}
	})
}

func TestAppImageOverride(t *testing.T) {
	t.Setenv("APPIMAGE", "/home/user/Downloads/ImageTea.AppImage")
	dir, err := New().BaseDir()
	if err != nil {
		t.Fatalf("BaseDir() error = %v", err)
	}
	if dir != "/home/user/Downloads" {
		t.Errorf("BaseDir() = %q, want /home/user/Downloads", dir)
	}
}

func TestBundleRoot(t *testing.T) {
	tests := []struct {
		name   string
		dir    string
		want   string
		wantOK bool
	}{
		{
			name:   "app bundle",
			dir:    "/Applications/Image Tea Installer.app/Contents/MacOS",
			want:   "/Applications",
			wantOK: true,
		},
		{
			name:   "nested bundle",
			dir:    "/Users/x/Desktop/Installer.app/Contents/MacOS",
			want:   "/Users/x/Desktop",
			wantOK: true,
		},
		{
			name:   "plain binary dir",
			dir:    "/home/user/bin",
			wantOK: false,
		},
		{
			name:   "MacOS dir without .app parent",
			dir:    "/srv/Contents/MacOS",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := bundleRoot(tt.dir)
			if ok != tt.wantOK {
				t.Fatalf("bundleRoot(%q) ok = %v, want %v", tt.dir, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("bundleRoot(%q) = %q, want %q", tt.dir, got, tt.want)
			}
		})
	}
}

func TestInsideTemp(t *testing.T) {
	if !insideTemp(filepath.Join(os.TempDir(), "mount", "x")) {
		t.Error("path under os.TempDir() should be inside temp")
	}
	if !insideTemp("/tmp/.mount_ImageTxyz") {
		t.Error("/tmp path should be inside temp")
	}
	if insideTemp("/home/user/apps") {
		t.Error("/home path should not be inside temp")
	}
}
