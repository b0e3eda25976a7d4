package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mudrikam/image-tea-installer/internal/confirm"
	"github.com/mudrikam/image-tea-installer/internal/exitcodes"
	"github.com/mudrikam/image-tea-installer/internal/frame"
	"github.com/mudrikam/image-tea-installer/internal/keys"
	"github.com/mudrikam/image-tea-installer/internal/ui"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the installed application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMachine()
		if err != nil {
			return err
		}
		target, err := m.InstallTarget()
		if err != nil {
			return err
		}

		p := ui.NewPrinter()
		if flagYes {
			p.Warn("removing " + target + " without confirmation")
		} else {
			if flagNonInteractive {
				return exitcodes.NewError(exitcodes.InvalidArgs,
					"uninstall needs --yes when running non-interactively")
			}
			ok := confirm.Confirm(frame.NewRenderer(os.Stdout), keys.NewTerminal(),
				"uninstall Image Tea from "+target, 2)
			if !ok {
				p.Info("uninstall cancelled")
				return nil
			}
		}

		if err := m.UninstallOnce(); err != nil {
			return err
		}
		p.Success("removed " + target)
		return nil
	},
}
