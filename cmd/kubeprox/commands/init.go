package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubeprox/cmd/kubeprox/handlers"
)

// Init returns the command for creating a cluster configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "kubeprox.yaml")
//	--advanced, -a: Show advanced configuration options
//	--non-interactive: Write defaults without prompting
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a cluster configuration",
		Long: `Create a cluster configuration file.

On a terminal this command asks about:

  - Cluster identity (name and DNS domain)
  - Proxmox node, storage, bridges and VM ids
  - Node password and SSH key
  - Master and worker count and size

Use --advanced for network CIDRs and artifact publishing.

Without a terminal, or with --non-interactive, the defaults are written
with a generated password.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "kubeprox.yaml", "Output file path")
	cmd.Flags().BoolVarP(&opts.Advanced, "advanced", "a", false, "Show advanced configuration options")
	cmd.Flags().BoolVar(&opts.NonInteractive, "non-interactive", false, "Write defaults without prompting")

	return cmd
}
