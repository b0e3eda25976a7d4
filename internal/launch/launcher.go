// Package launch starts the installed application as a detached child
// process. The installer never waits on it.
package launch

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mudrikam/image-tea-installer/internal/exitcodes"
)

// LogName is the launcher output file inside the install directory.
const LogName = "launcher.log"

// Launcher spawns the platform entry point inside an install directory.
type Launcher interface {
	Launch(installDir string) error
}

type launcher struct{}

// New returns the production launcher.
func New() Launcher {
	return launcher{}
}

// EntryPoint returns the path of the platform entry point inside
// installDir ("Image Tea.exe" on Windows, "Launcher.sh" elsewhere).
func EntryPoint(installDir string) string {
	return filepath.Join(installDir, entryName)
}

// Launch starts the entry point and returns as soon as the child is
// running. Child output goes to a log file in the install directory so a
// crashing app stays diagnosable without tying up the installer terminal.
func (launcher) Launch(installDir string) error {
	entry := EntryPoint(installDir)
	if _, err := os.Stat(entry); err != nil {
		if os.IsNotExist(err) {
			return exitcodes.PreconditionErrorf("entry point %s not found; reinstall first", entryName)
		}
		return exitcodes.ProcessErr("inspect entry point", err)
	}

	lf, err := os.OpenFile(filepath.Join(installDir, LogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return exitcodes.FilesystemErr("open launcher log", err)
	}

	cmd := command(entry)
	cmd.Dir = installDir
	cmd.Stdout = lf
	cmd.Stderr = lf
	cmd.Stdin = nil
	detach(cmd)

	if err := cmd.Start(); err != nil {
		_ = lf.Close()
		return exitcodes.ProcessErr("start "+entryName, err)
	}

	// Fire and forget: release our handle so the child is never left as a
	// zombie, and keep the log handle open briefly for early output.
	go func(f *os.File) {
		time.Sleep(500 * time.Millisecond)
		_ = f.Sync()
		_ = f.Close()
	}(lf)
	go func() { _ = cmd.Process.Release() }()

	return nil
}
