// Package installer drives the install / menu / reinstall / uninstall /
// launch lifecycle as a single-threaded state machine. All rendering goes
// through one Screen and all input through one key Reader; collaborators
// are injected so the whole lifecycle is testable with fakes.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mudrikam/image-tea-installer/internal/archive"
	"github.com/mudrikam/image-tea-installer/internal/config"
	"github.com/mudrikam/image-tea-installer/internal/confirm"
	"github.com/mudrikam/image-tea-installer/internal/download"
	"github.com/mudrikam/image-tea-installer/internal/exitcodes"
	"github.com/mudrikam/image-tea-installer/internal/frame"
	"github.com/mudrikam/image-tea-installer/internal/keys"
	"github.com/mudrikam/image-tea-installer/internal/launch"
	"github.com/mudrikam/image-tea-installer/internal/locate"
	"github.com/mudrikam/image-tea-installer/internal/release"
	"github.com/mudrikam/image-tea-installer/internal/ui"
)

// Phase is the current state of the installer lifecycle. The machine is
// its sole owner; every other component is stateless between calls.
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseInstalling
	PhaseMainMenu
	PhaseLaunching
	PhaseReinstalling
	PhaseUninstalling
	PhaseExited
)

func (p Phase) String() string {
	switch p {
	case PhaseWelcome:
		return "welcome"
	case PhaseInstalling:
		return "installing"
	case PhaseMainMenu:
		return "main-menu"
	case PhaseLaunching:
		return "launching"
	case PhaseReinstalling:
		return "reinstalling"
	case PhaseUninstalling:
		return "uninstalling"
	case PhaseExited:
		return "exited"
	default:
		return "unknown"
	}
}

// MenuAction is one of the four top-level commands.
type MenuAction int

const (
	ActionLaunch MenuAction = iota
	ActionReinstall
	ActionUninstall
	ActionExit
)

// actionFor maps a keystroke to its menu action, case-insensitive.
// Unrecognized keys map to nothing: the menu ignores them.
func actionFor(k keys.Key) (MenuAction, bool) {
	if k == keys.KeyCtrlC {
		return ActionExit, true
	}
	switch k.Lower() {
	case 'l':
		return ActionLaunch, true
	case 'r':
		return ActionReinstall, true
	case 'u':
		return ActionUninstall, true
	case 'x':
		return ActionExit, true
	default:
		return 0, false
	}
}

// Screen is what the machine needs from the frame renderer.
type Screen interface {
	Render(frame.Frame)
	RenderProgress(title, phase string, done, total int64)
	RenderSteps(title, phase string, done, total int64)
	Finish()
}

// ReleaseFetcher resolves the latest release of a repository.
type ReleaseFetcher interface {
	Latest(ctx context.Context, owner, repo string) (*release.Release, error)
}

// Downloader streams a URL to a local file.
type Downloader interface {
	Download(ctx context.Context, url, dest string, progress download.ProgressFunc) error
}

// Extractor unpacks an archive into a directory.
type Extractor interface {
	Extract(archivePath, destDir string, progress archive.ProgressFunc) ([]archive.File, error)
}

// Options wires the machine's collaborators. Nil fields get production
// implementations.
type Options struct {
	Config    config.Config
	Locator   locate.Locator
	Screen    Screen
	Keys      keys.Reader
	Releases  ReleaseFetcher
	Download  Downloader
	Extract   Extractor
	Launcher  launch.Launcher
	FreeSpace func(path string) (uint64, error)
}

// Machine runs the installer lifecycle.
type Machine struct {
	cfg       config.Config
	locator   locate.Locator
	screen    Screen
	keys      keys.Reader
	releases  ReleaseFetcher
	dl        Downloader
	ex        Extractor
	launcher  launch.Launcher
	freeSpace func(path string) (uint64, error)

	phase       Phase
	autoInstall bool
	exitCode    int
}

// New builds a machine from opts, filling in production defaults.
func New(opts Options) *Machine {
	m := &Machine{
		cfg:       opts.Config,
		locator:   opts.Locator,
		screen:    opts.Screen,
		keys:      opts.Keys,
		releases:  opts.Releases,
		dl:        opts.Download,
		ex:        opts.Extract,
		launcher:  opts.Launcher,
		freeSpace: opts.FreeSpace,
	}
	if m.locator == nil {
		m.locator = locate.New()
	}
	if m.screen == nil {
		m.screen = frame.NewRenderer(os.Stdout)
	}
	if m.keys == nil {
		m.keys = keys.NewTerminal()
	}
	if m.releases == nil {
		m.releases = release.NewClientWith(nil, m.cfg.APIBase)
	}
	if m.dl == nil {
		m.dl = download.New()
	}
	if m.ex == nil {
		m.ex = archive.New()
	}
	if m.launcher == nil {
		m.launcher = launch.New()
	}
	if m.freeSpace == nil {
		m.freeSpace = diskFree
	}
	return m
}

// Phase returns the machine's current phase.
func (m *Machine) Phase() Phase { return m.phase }

// InstallTarget resolves the install directory under the installer's own
// directory.
func (m *Machine) InstallTarget() (string, error) {
	base, err := m.locator.BaseDir()
	if err != nil {
		return "", exitcodes.FilesystemErr("locate installer directory", err)
	}
	return filepath.Join(base, m.cfg.InstallDirName), nil
}

// Run drives the lifecycle until exit and returns the process exit code.
func (m *Machine) Run(ctx context.Context) int {
	base, err := m.locator.BaseDir()
	if err != nil {
		m.screen.Render(errorFrame("Cannot locate the installer directory", err))
		m.screen.Finish()
		return exitcodes.FilesystemError
	}
	target := filepath.Join(base, m.cfg.InstallDirName)

	if archive.Installed(target) {
		m.phase = PhaseMainMenu
	} else {
		m.phase = PhaseWelcome
		m.autoInstall = true
	}

	for m.phase != PhaseExited {
		switch m.phase {
		case PhaseWelcome:
			m.runWelcome(target)
		case PhaseInstalling:
			m.runInstalling(ctx, base, target)
		case PhaseMainMenu:
			m.runMainMenu()
		case PhaseLaunching:
			m.runLaunching(target)
		case PhaseReinstalling:
			m.runReinstalling(ctx, base, target)
		case PhaseUninstalling:
			m.runUninstalling(target)
		}
	}

	m.screen.Finish()
	return m.exitCode
}

func (m *Machine) runWelcome(target string) {
	m.screen.Render(frame.Frame{
		Title: "IMAGE TEA INSTALLER",
		Body: []string{
			"Application: " + m.cfg.RepoName,
			"Repository:  " + m.cfg.RepoURL(),
			"Install to:  " + target,
		},
		Footer: "X = exit   any other key = install",
	})

	// First run installs without prompting; after an uninstall the
	// welcome screen waits for an explicit choice.
	if m.autoInstall {
		m.autoInstall = false
		m.phase = PhaseInstalling
		return
	}

	k, err := m.keys.ReadKey()
	if err != nil {
		m.exit(exitcodes.GeneralError)
		return
	}
	if k.Lower() == 'x' || k.IsCancel() {
		m.exit(exitcodes.Success)
		return
	}
	m.phase = PhaseInstalling
}

func (m *Machine) runInstalling(ctx context.Context, base, target string) {
	err := m.install(ctx, base, target)
	if err == nil {
		m.phase = PhaseMainMenu
		return
	}

	// No silent fall-through to a broken install: show the error and
	// offer retry-or-exit.
	f := errorFrame("Installation failed", err)
	f.Footer = "R = retry   X = exit"
	for {
		m.screen.Render(f)
		k, kerr := m.keys.ReadKey()
		if kerr != nil {
			m.exit(exitcodes.CodeForError(err))
			return
		}
		switch {
		case k.Lower() == 'r':
			return // phase unchanged: install runs again
		case k.Lower() == 'x' || k.IsCancel():
			m.exit(exitcodes.CodeForError(err))
			return
		}
	}
}

func (m *Machine) runMainMenu() {
	m.screen.Render(frame.Frame{
		Title: "IMAGE TEA",
		Body: []string{
			"[L] Launch " + m.cfg.RepoName,
			"[R] Reinstall (latest release)",
			"[U] Uninstall",
			"[X] Exit",
		},
		Footer: "press a key",
	})

	k, err := m.keys.ReadKey()
	if err != nil {
		m.exit(exitcodes.GeneralError)
		return
	}

	action, ok := actionFor(k)
	if !ok {
		return // ignored: same menu, same phase
	}

	switch action {
	case ActionLaunch:
		m.phase = PhaseLaunching
	case ActionReinstall:
		m.phase = PhaseReinstalling
	case ActionUninstall:
		m.phase = PhaseUninstalling
	case ActionExit:
		m.exit(exitcodes.Success)
	}
}

func (m *Machine) runLaunching(target string) {
	if err := m.launcher.Launch(target); err != nil {
		m.showError("Launch failed", err)
	}
	m.phase = PhaseMainMenu
}

func (m *Machine) runReinstalling(ctx context.Context, base, target string) {
	if err := m.install(ctx, base, target); err != nil {
		// Fatal to the operation, not the process: back to the menu
		m.showError("Reinstall failed", err)
	}
	m.phase = PhaseMainMenu
}

func (m *Machine) runUninstalling(target string) {
	if !confirm.Confirm(m.screen, m.keys, "uninstall "+m.cfg.RepoName+" from this machine", 2) {
		m.phase = PhaseMainMenu
		return
	}

	if err := os.RemoveAll(target); err != nil {
		// A locked file (running instance) keeps the menu usable for retry
		m.showError("Uninstall failed", exitcodes.FilesystemErr("remove "+target, err))
		m.phase = PhaseMainMenu
		return
	}

	m.phase = PhaseWelcome
}

// install performs one download + extract cycle against target.
func (m *Machine) install(ctx context.Context, base, target string) error {
	const title = "INSTALLING"

	assetURL, assetSize, version, err := m.resolveAsset(ctx)
	if err != nil {
		return err
	}

	prevVersion := ""
	if man, merr := archive.ReadManifest(target); merr == nil {
		prevVersion = man.Version
	}

	if assetSize > 0 {
		if free, ferr := m.freeSpace(base); ferr == nil && free < uint64(assetSize)*2 {
			return exitcodes.FilesystemErrf("not enough free space: need %s, have %s",
				ui.FormatBytes(assetSize*2), ui.FormatBytes(int64(free)))
		}
	}

	archivePath := filepath.Join(base, m.cfg.AssetName)
	dlPhase := "Downloading " + m.cfg.AssetName
	m.screen.RenderProgress(title, dlPhase, 0, assetSize)

	start := time.Now()
	var gotBytes, gotTotal int64 = 0, -1
	err = m.dl.Download(ctx, assetURL, archivePath, func(done, total int64) {
		gotBytes, gotTotal = done, total
		phase := dlPhase
		if elapsed := time.Since(start).Seconds(); elapsed > 0 && done > 0 {
			phase = fmt.Sprintf("%s (%s)", dlPhase, ui.FormatSpeed(float64(done)/elapsed))
		}
		m.screen.RenderProgress(title, phase, done, total)
	})
	if err != nil {
		return err
	}
	if gotTotal <= 0 && gotBytes > 0 {
		// With an unknown total no update counts as final, so coalescing
		// can swallow the last byte count. Pin it on screen.
		m.screen.RenderProgress(title, dlPhase, gotBytes, gotBytes)
	}

	// Clean slate: drop files from any previous install before unpacking
	// so a reinstall never merges with stale leftovers.
	if err := archive.CleanInstalled(target); err != nil {
		_ = os.Remove(archivePath)
		return err
	}

	m.screen.RenderSteps(title, "Extracting to "+filepath.Base(target), 0, -1)
	files, err := m.ex.Extract(archivePath, target, func(done, total int64) {
		m.screen.RenderSteps(title, "Extracting to "+filepath.Base(target), done, total)
	})
	if err != nil {
		_ = os.Remove(archivePath)
		return err
	}

	if err := archive.WriteManifest(target, version, files); err != nil {
		_ = os.Remove(archivePath)
		return err
	}

	// The archive is spent; failing to remove it is only cosmetic
	_ = os.Remove(archivePath)

	body := []string{
		"Installation completed!",
		"",
		"Version:  " + version,
		"Location: " + target,
	}
	if prevVersion != "" {
		if release.IsNewer(prevVersion, version) {
			body = append(body, "Upgraded from "+prevVersion)
		} else {
			body = append(body, "Reinstalled (already up to date)")
		}
	}
	m.screen.Render(frame.Frame{Title: title, Body: body})
	return nil
}

// resolveAsset finds the download URL for the configured asset: the
// release API when reachable, the stable "latest" URL otherwise.
func (m *Machine) resolveAsset(ctx context.Context) (url string, size int64, version string, err error) {
	rel, ferr := m.releases.Latest(ctx, m.cfg.RepoOwner, m.cfg.RepoName)
	if ferr == nil {
		asset, aerr := rel.AssetNamed(m.cfg.AssetName)
		if aerr != nil {
			return "", 0, "", aerr
		}
		return asset.BrowserDownloadURL, asset.Size, rel.TagName, nil
	}
	if exitcodes.HasCode(ferr, exitcodes.NetworkError) {
		// API blocked or offline mirror: the redirecting download URL
		// may still work, with an unknown size.
		return release.StableAssetURL(m.cfg.RepoOwner, m.cfg.RepoName, m.cfg.AssetName), -1, "latest", nil
	}
	return "", 0, "", ferr
}

// showError renders err and waits for one keystroke so the message is
// actually readable before the next frame replaces it.
func (m *Machine) showError(headline string, err error) {
	f := errorFrame(headline, err)
	f.Footer = "press any key to continue"
	m.screen.Render(f)
	_, _ = m.keys.ReadKey()
}

func (m *Machine) exit(code int) {
	m.exitCode = code
	m.phase = PhaseExited
}

func errorFrame(headline string, err error) frame.Frame {
	return frame.Frame{
		Title: "ERROR",
		Body: []string{
			headline,
			"",
			fmt.Sprintf("%v", err),
		},
	}
}

// InstallOnce performs a single non-interactive install (used by the
// `install` subcommand).
func (m *Machine) InstallOnce(ctx context.Context) error {
	base, err := m.locator.BaseDir()
	if err != nil {
		return exitcodes.FilesystemErr("locate installer directory", err)
	}
	return m.install(ctx, base, filepath.Join(base, m.cfg.InstallDirName))
}

// UninstallOnce removes the install tree without prompting (the command
// layer owns confirmation).
func (m *Machine) UninstallOnce() error {
	target, err := m.InstallTarget()
	if err != nil {
		return err
	}
	if _, serr := os.Stat(target); os.IsNotExist(serr) {
		return exitcodes.PreconditionError("nothing to uninstall: " + target + " does not exist")
	}
	if err := os.RemoveAll(target); err != nil {
		return exitcodes.FilesystemErr("remove "+target, err)
	}
	return nil
}

// LaunchOnce starts the installed application once.
func (m *Machine) LaunchOnce() error {
	target, err := m.InstallTarget()
	if err != nil {
		return err
	}
	if !archive.Installed(target) {
		return exitcodes.PreconditionError("no valid install found; run install first")
	}
	return m.launcher.Launch(target)
}
