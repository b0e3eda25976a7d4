package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up next to the installer binary. It is optional;
// defaults cover the standard Image Tea distribution.
const ConfigFileName = "installer.yaml"

// Config holds the installer configuration: which repository to install
// from, which release asset to download, and where to unpack it.
type Config struct {
	RepoOwner      string `yaml:"repo_owner"`
	RepoName       string `yaml:"repo_name"`
	AssetName      string `yaml:"asset_name"`       // release asset filename (empty = platform default)
	InstallDirName string `yaml:"install_dir_name"` // directory created under the installer dir
	APIBase        string `yaml:"api_base"`         // GitHub API base (override for mirrors)

	// Runtime-only settings, not read from the config file.
	Yes            bool `yaml:"-"` // assume yes for all prompts
	NonInteractive bool `yaml:"-"` // fail instead of prompting
	NoColor        bool `yaml:"-"`
}

// Defaults returns settings aligned with the Image Tea release layout.
func Defaults() Config {
	return Config{
		RepoOwner:      "mudrikam",
		RepoName:       "Image-Tea-nano",
		AssetName:      defaultAssetName(),
		InstallDirName: "Image-Tea",
		APIBase:        "https://api.github.com",
	}
}

// defaultAssetName picks the release asset for the current platform.
func defaultAssetName() string {
	switch runtime.GOOS {
	case "windows":
		return "Image-Tea-windows.zip"
	case "darwin":
		return "Image-Tea-macos.zip"
	default:
		return "Image-Tea-linux.zip"
	}
}

// RepoURL returns the https URL of the application repository.
func (c Config) RepoURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", c.RepoOwner, c.RepoName)
}

// Load returns defaults merged with an optional installer.yaml found in
// baseDir (the installer's own directory) and environment overrides.
// A missing config file is not an error; a malformed one is.
func Load(baseDir string) (Config, error) {
	cfg := Defaults()

	if baseDir != "" {
		path := filepath.Join(baseDir, ConfigFileName)
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", ConfigFileName, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read %s: %w", ConfigFileName, err)
		}
	}

	// Env overrides for scripted installs
	if v := os.Getenv("IMAGE_TEA_REPO"); v != "" {
		if owner, name, ok := splitRepo(v); ok {
			cfg.RepoOwner, cfg.RepoName = owner, name
		}
	}
	if v := os.Getenv("IMAGE_TEA_ASSET"); v != "" {
		cfg.AssetName = v
	}

	return cfg, nil
}

// splitRepo parses "owner/name" (or a full github URL) into its parts.
func splitRepo(s string) (owner, name string, ok bool) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "/")
	s = strings.TrimPrefix(s, "https://github.com/")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
