//go:build !windows

package launch

import (
	"os/exec"
	"syscall"
)

const entryName = "Launcher.sh"

// command runs the launcher script through sh so the exec bit is not a
// hard requirement (users may have transferred the tree without it).
func command(entry string) *exec.Cmd {
	return exec.Command("/bin/sh", entry)
}

// detach puts the child in its own session so closing the installer's
// terminal does not kill the app.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
