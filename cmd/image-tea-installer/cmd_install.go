package main

import (
	"github.com/spf13/cobra"

	"github.com/mudrikam/image-tea-installer/internal/ui"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download and install the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd)
		defer stop()

		m, err := newMachine()
		if err != nil {
			return err
		}
		if err := m.InstallOnce(ctx); err != nil {
			return err
		}

		p := ui.NewPrinter()
		target, _ := m.InstallTarget()
		p.Success("installed to " + target)
		return nil
	},
}
