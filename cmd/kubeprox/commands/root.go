// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/imamik/kubeprox/cmd/kubeprox/handlers"
	"github.com/imamik/kubeprox/internal/logging"
)

// Root returns the root command for the kubeprox CLI.
//
// The root command serves as the entry point and parent for all subcommands.
// It owns the logging flags shared by every subcommand.
func Root() *cobra.Command {
	var (
		verbose   bool
		logFormat string
	)

	cmd := &cobra.Command{
		Use:           "kubeprox",
		Short:         "Generate and apply Kubernetes cluster artifacts for Proxmox",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch logFormat {
			case logging.FormatConsole, logging.FormatJSON:
			default:
				return fmt.Errorf("unknown log format %q (expected %s or %s)", logFormat, logging.FormatConsole, logging.FormatJSON)
			}
			handlers.SetLogOptions(logging.Options{
				Verbose: verbose,
				Format:  logFormat,
				Color:   isatty.IsTerminal(os.Stderr.Fd()),
			})
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log state transitions and task events")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatConsole, "Log format: console or json")

	cmd.AddCommand(Init())
	cmd.AddCommand(Plan())
	cmd.AddCommand(Render())
	cmd.AddCommand(Template())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Kubeconfig())
	cmd.AddCommand(Version())

	return cmd
}

// addConfigFlag binds the shared --config flag.
func addConfigFlag(cmd *cobra.Command, configPath *string) {
	cmd.Flags().StringVarP(configPath, "config", "c", "", "Path to configuration file (default: kubeprox.yaml)")
}
