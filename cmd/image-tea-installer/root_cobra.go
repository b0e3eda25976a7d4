package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mudrikam/image-tea-installer/internal/config"
	"github.com/mudrikam/image-tea-installer/internal/exitcodes"
	"github.com/mudrikam/image-tea-installer/internal/installer"
	"github.com/mudrikam/image-tea-installer/internal/locate"
	"github.com/mudrikam/image-tea-installer/internal/ui"
)

// Version information - set via -ldflags during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// rootCmd wires the CLI surface using Cobra. Running with no subcommand
// starts the interactive installer; install/uninstall/launch exist for
// scripted use.
var rootCmd = &cobra.Command{
	Use:           "image-tea-installer",
	Short:         "Image Tea installer",
	Long:          "Install, launch, reinstall, and uninstall Image Tea from its GitHub releases.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set NO_COLOR env so lipgloss and other libraries respect the flag
		if flagNoColor {
			os.Setenv("NO_COLOR", "1")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		m, err := newMachine()
		if err != nil {
			return err
		}
		code := m.Run(ctx)

		// Restore terminal state and drop type-ahead so stray responses
		// and keystrokes don't leak into the shell
		ui.ResetTerminal()
		if code != exitcodes.Success {
			os.Exit(code)
		}
		return nil
	},
}

var (
	flagDir            string
	flagOutput         string
	flagNoColor        bool
	flagYes            bool
	flagNonInteractive bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Base directory to install under (default: installer's own directory)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format for version: json|yaml|text")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable ANSI colors")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Assume yes for all prompts")
	rootCmd.PersistentFlags().BoolVar(&flagNonInteractive, "non-interactive", false, "Fail instead of prompting")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and maps errors to process exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcodes.CodeForError(err))
	}
}

// locator resolves the base directory: --dir wins, otherwise the
// directory holding the installer binary.
func locator() locate.Locator {
	if flagDir != "" {
		return locate.Fixed(flagDir)
	}
	return locate.New()
}

// loadCfg reads defaults + installer.yaml + env via config.Load and then
// applies overrides from persistent flags.
func loadCfg(loc locate.Locator) (config.Config, error) {
	base, err := loc.BaseDir()
	if err != nil {
		return config.Config{}, exitcodes.FilesystemErr("locate installer directory", err)
	}
	cfg, err := config.Load(base)
	if err != nil {
		return cfg, exitcodes.NewErrorf(exitcodes.InvalidArgs, "%v", err)
	}
	cfg.Yes = flagYes
	cfg.NonInteractive = flagNonInteractive
	cfg.NoColor = flagNoColor
	return cfg, nil
}

func newMachine() (*installer.Machine, error) {
	loc := locator()
	cfg, err := loadCfg(loc)
	if err != nil {
		return nil, err
	}
	return installer.New(installer.Options{Config: cfg, Locator: loc}), nil
}

// signalContext is the shared ctx for one-shot subcommands.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}
