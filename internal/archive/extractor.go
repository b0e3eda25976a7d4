// Package archive unpacks release archives into the install directory,
// preserving executable bits so the unpacked launcher runs without a manual
// chmod. Zip is the standard Image Tea packaging; tar.gz and tar.lz4 assets
// are accepted as well.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/flate"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cespare/xxhash/v2"
	"github.com/pierrec/lz4/v4"

	"github.com/mudrikam/image-tea-installer/internal/exitcodes"
)

// ProgressFunc reports extraction progress.
// done: entries extracted so far
// total: total entries in the archive
type ProgressFunc func(done, total int64)

// File describes one extracted regular file.
type File struct {
	Path   string // relative to the destination, slash-separated
	Mode   os.FileMode
	Digest string // xxhash64 of the content, hex
}

// Extractor unpacks archives.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// Extract unpacks archivePath into destDir, creating intermediate
// directories as needed. Existing entries are overwritten, never merged.
// If the archive holds a single top-level directory its children are
// lifted directly into destDir. Returns the extracted regular files.
func (e *Extractor) Extract(archivePath, destDir string, progress ProgressFunc) ([]File, error) {
	if progress == nil {
		progress = func(int64, int64) {}
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, classifyFS("create "+destDir, err)
	}

	switch {
	case strings.HasSuffix(archivePath, ".zip"):
		return extractZip(archivePath, destDir, progress)
	case strings.HasSuffix(archivePath, ".tar.gz"), strings.HasSuffix(archivePath, ".tgz"),
		strings.HasSuffix(archivePath, ".tar.lz4"):
		return extractTar(archivePath, destDir, progress)
	default:
		return nil, exitcodes.ArchiveErrf("unsupported archive format: %s", filepath.Base(archivePath))
	}
}

func extractZip(archivePath, destDir string, progress ProgressFunc) ([]File, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, classifyArchive("open "+archivePath, err)
	}
	defer r.Close()

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	prefix := flattenPrefix(names)
	total := int64(len(r.File))

	var files []File
	var done int64
	for _, f := range r.File {
		rel, skip, err := entryPath(f.Name, prefix, destDir)
		if err != nil {
			return nil, err
		}
		done++
		progress(done, total)
		if skip {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(rel))

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, dirMode(f.Mode())); err != nil {
				return nil, classifyFS("create dir "+rel, err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, classifyArchive("read "+rel, err)
		}
		out, err := writeFile(target, rel, rc, f.Mode())
		rc.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, *out)
	}

	return files, nil
}

func extractTar(archivePath, destDir string, progress ProgressFunc) ([]File, error) {
	// First pass: collect entry names for the total count and the
	// single-top-level-directory flattening decision.
	var names []string
	err := walkTar(archivePath, func(hdr *tar.Header, _ *tar.Reader) error {
		names = append(names, hdr.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	prefix := flattenPrefix(names)
	total := int64(len(names))

	var files []File
	var done int64
	err = walkTar(archivePath, func(hdr *tar.Header, tr *tar.Reader) error {
		rel, skip, err := entryPath(hdr.Name, prefix, destDir)
		if err != nil {
			return err
		}
		done++
		progress(done, total)
		if skip {
			return nil
		}
		target := filepath.Join(destDir, filepath.FromSlash(rel))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, dirMode(os.FileMode(hdr.Mode))); err != nil {
				return classifyFS("create dir "+rel, err)
			}
		case tar.TypeReg:
			out, err := writeFile(target, rel, tr, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			files = append(files, *out)
		case tar.TypeSymlink:
			if filepath.IsAbs(hdr.Linkname) {
				return exitcodes.ArchiveErrf("absolute symlink not allowed: %s -> %s", rel, hdr.Linkname)
			}
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return classifyFS("create symlink "+rel, err)
			}
		default:
			// Skip devices and other special entries
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// walkTar opens the (possibly compressed) tar stream and calls fn per header.
func walkTar(archivePath string, fn func(*tar.Header, *tar.Reader) error) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return classifyFS("open "+archivePath, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(archivePath, ".tar.lz4"):
		r = lz4.NewReader(f)
	default:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return classifyArchive("open "+archivePath, err)
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return classifyArchive("read tar header", err)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}

// entryPath validates one archive entry name and maps it below destDir.
// skip is true for the flattened top-level directory itself and for
// entries that resolve to the destination root.
func entryPath(name, prefix, destDir string) (rel string, skip bool, err error) {
	clean := filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
	if strings.HasPrefix(clean, "..") || strings.HasPrefix(clean, "/") {
		return "", false, exitcodes.ArchiveErrf("invalid path in archive: %s", name)
	}

	rel = strings.TrimPrefix(clean, prefix)
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return "", true, nil
	}

	// Verify the joined path stays within destDir
	target := filepath.Join(destDir, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", false, exitcodes.ArchiveErrf("path traversal detected: %s", name)
	}
	return rel, false, nil
}

// flattenPrefix returns "top/" when every entry lives under a single
// top-level directory, empty otherwise.
func flattenPrefix(names []string) string {
	top := ""
	for _, name := range names {
		clean := strings.Trim(filepath.ToSlash(name), "/")
		if clean == "" || clean == "." {
			continue
		}
		first, rest, found := strings.Cut(clean, "/")
		if top == "" {
			top = first
		}
		if first != top {
			return ""
		}
		if !found && rest == "" && clean == top {
			// the directory entry itself; fine
			continue
		}
	}
	if top == "" {
		return ""
	}
	// Flatten only when the top component actually contains children
	hasChildren := false
	for _, name := range names {
		clean := strings.Trim(filepath.ToSlash(name), "/")
		if strings.HasPrefix(clean, top+"/") {
			hasChildren = true
			break
		}
	}
	if !hasChildren {
		return ""
	}
	return top + "/"
}

// writeFile creates target from r, preserving the executable bit, and
// returns its manifest record with the content digest.
func writeFile(target, rel string, r io.Reader, mode os.FileMode) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, classifyFS("create parent dir for "+rel, err)
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode(mode))
	if err != nil {
		return nil, classifyFS("create file "+rel, err)
	}

	h := xxhash.New()
	_, copyErr := io.Copy(io.MultiWriter(out, h), r)
	closeErr := out.Close()
	if copyErr != nil {
		return nil, classifyWrite("write file "+rel, copyErr)
	}
	if closeErr != nil {
		return nil, classifyFS("close file "+rel, closeErr)
	}

	// Mode at open time is masked by umask; enforce the archive's bits
	if err := os.Chmod(target, fileMode(mode)); err != nil {
		return nil, classifyFS("chmod "+rel, err)
	}

	return &File{
		Path:   rel,
		Mode:   fileMode(mode),
		Digest: fmt.Sprintf("%016x", h.Sum64()),
	}, nil
}

func fileMode(m os.FileMode) os.FileMode {
	perm := m.Perm()
	if perm == 0 {
		perm = 0o644
	}
	return perm
}

func dirMode(m os.FileMode) os.FileMode {
	perm := m.Perm()
	if perm == 0 {
		perm = 0o755
	}
	return perm | 0o700
}

// classifyArchive maps decode failures to the corrupt-archive taxonomy.
func classifyArchive(op string, err error) error {
	if errors.Is(err, syscall.ENOSPC) || os.IsPermission(err) {
		return classifyFS(op, err)
	}
	return exitcodes.ArchiveErr(op, err)
}

// classifyWrite distinguishes truncated archive data from disk failures
// while streaming one entry.
func classifyWrite(op string, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrChecksum) {
		return exitcodes.ArchiveErr(op, err)
	}
	var corrupt flate.CorruptInputError
	if errors.As(err, &corrupt) {
		return exitcodes.ArchiveErr(op, err)
	}
	return classifyFS(op, err)
}

// classifyFS maps filesystem failures to the disk-full/permission taxonomy.
func classifyFS(op string, err error) error {
	switch {
	case errors.Is(err, syscall.ENOSPC):
		return exitcodes.FilesystemErr(op+" (disk full)", err)
	case os.IsPermission(err):
		return exitcodes.FilesystemErr(op+" (permission denied)", err)
	default:
		return exitcodes.FilesystemErr(op, err)
	}
}
