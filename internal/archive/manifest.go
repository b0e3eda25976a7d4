package archive

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestName is written inside the install directory after extraction.
// Its presence (with all listed files intact) marks a valid install.
const ManifestName = ".install-manifest"

// Manifest records what a completed install put on disk.
type Manifest struct {
	Version     string    `yaml:"version"` // release tag that was installed
	InstalledAt time.Time `yaml:"installed_at"`
	Files       []File    `yaml:"files"`
}

// WriteManifest persists the manifest into destDir.
func WriteManifest(destDir, version string, files []File) error {
	m := Manifest{
		Version:     version,
		InstalledAt: time.Now().UTC(),
		Files:       files,
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(destDir, ManifestName), data, 0o644); err != nil {
		return classifyFS("write manifest", err)
	}
	return nil
}

// ReadManifest loads the manifest from destDir.
func ReadManifest(destDir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(destDir, ManifestName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Installed reports whether destDir holds a valid install: a readable
// manifest whose listed files all still exist.
func Installed(destDir string) bool {
	m, err := ReadManifest(destDir)
	if err != nil {
		return false
	}
	for _, f := range m.Files {
		if _, err := os.Stat(filepath.Join(destDir, filepath.FromSlash(f.Path))); err != nil {
			return false
		}
	}
	return true
}

// CleanInstalled removes the files recorded by a previous install so a
// reinstall starts from a clean slate instead of merging with stale
// leftovers. A missing manifest is not an error.
func CleanInstalled(destDir string) error {
	m, err := ReadManifest(destDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		// Unreadable manifest: treat as no prior install metadata
		return nil
	}
	for _, f := range m.Files {
		path := filepath.Join(destDir, filepath.FromSlash(f.Path))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return classifyFS("remove stale "+f.Path, err)
		}
	}
	if err := os.Remove(filepath.Join(destDir, ManifestName)); err != nil && !os.IsNotExist(err) {
		return classifyFS("remove manifest", err)
	}
	return nil
}
