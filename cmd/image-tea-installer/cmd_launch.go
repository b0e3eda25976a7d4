package main

import (
	"github.com/spf13/cobra"

	"github.com/mudrikam/image-tea-installer/internal/launch"
	"github.com/mudrikam/image-tea-installer/internal/ui"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Start the installed application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMachine()
		if err != nil {
			return err
		}
		if err := m.LaunchOnce(); err != nil {
			return err
		}

		p := ui.NewPrinter()
		target, _ := m.InstallTarget()
		p.Success("launched; output goes to " + launch.LogName + " in " + target)
		return nil
	},
}
