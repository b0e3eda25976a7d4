//go:build windows

package launch

import (
	"os/exec"
	"syscall"
)

const entryName = "Image Tea.exe"

func command(entry string) *exec.Cmd {
	return exec.Command(entry)
}

// detach starts the child in its own process group and console so it
// survives the installer exiting.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | 0x00000008, // DETACHED_PROCESS
	}
}
