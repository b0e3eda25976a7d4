// Package locate resolves the directory the installer itself lives in.
// All install paths are derived from it, never from a temp directory,
// even when the installer runs from an AppImage mount or a macOS bundle.
package locate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Locator yields the base directory that receives the install tree.
type Locator interface {
	BaseDir() (string, error)
}

// Fixed is a Locator pinned to a known path, for tests and --dir overrides.
type Fixed string

func (f Fixed) BaseDir() (string, error) {
	if f == "" {
		return "", fmt.Errorf("empty base dir")
	}
	return string(f), nil
}

type executableLocator struct{}

// New returns the production locator based on the running executable.
func New() Locator {
	return executableLocator{}
}

// BaseDir resolves the installer's own directory. Resolution order:
//  1. APPIMAGE env: the AppImage file's directory (the binary itself runs
//     from a FUSE mount under /tmp).
//  2. os.Executable with symlinks resolved; a macOS .app bundle resolves to
//     the directory containing the bundle, not Contents/MacOS inside it.
//  3. If the result still lands in a temp directory (self-extracting
//     wrappers), fall back to OWD (set by AppImage runtimes) or the
//     working directory.
func (executableLocator) BaseDir() (string, error) {
	if ai := os.Getenv("APPIMAGE"); ai != "" {
		return filepath.Dir(ai), nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	if real, err := filepath.EvalSymlinks(exe); err == nil {
		exe = real
	}
	dir := filepath.Dir(exe)

	if bundle, ok := bundleRoot(dir); ok {
		dir = bundle
	}

	if insideTemp(dir) {
		if owd := os.Getenv("OWD"); owd != "" {
			return owd, nil
		}
		if wd, err := os.Getwd(); err == nil && !insideTemp(wd) {
			return wd, nil
		}
		return "", fmt.Errorf("installer is running from a temp directory (%s) and no original directory is known", dir)
	}

	return dir, nil
}

// bundleRoot maps <X>.app/Contents/MacOS to the directory containing <X>.app.
func bundleRoot(dir string) (string, bool) {
	suffix := filepath.Join("Contents", "MacOS")
	if !strings.HasSuffix(dir, string(os.PathSeparator)+suffix) {
		return "", false
	}
	bundle := strings.TrimSuffix(dir, string(os.PathSeparator)+suffix)
	if !strings.HasSuffix(bundle, ".app") {
		return "", false
	}
	return filepath.Dir(bundle), true
}

// insideTemp reports whether path is under the system temp directory.
func insideTemp(path string) bool {
	for _, tmp := range []string{os.TempDir(), "/tmp"} {
		if tmp == "" {
			continue
		}
		rel, err := filepath.Rel(filepath.Clean(tmp), filepath.Clean(path))
		if err != nil {
			continue
		}
		if rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)) {
			return true
		}
	}
	return false
}
