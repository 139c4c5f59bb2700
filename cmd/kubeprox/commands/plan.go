package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubeprox/cmd/kubeprox/handlers"
)

// Plan returns the command for previewing the planned nodes.
func Plan() *cobra.Command {
	var opts handlers.PlanOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compile the configuration and print the node table",
		Long: `Compile the configuration and print every planned node with its id,
VM id, size and address. Nothing is written.

Examples:
  kubeprox plan
  kubeprox plan -c homelab.yaml --offline`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), opts)
		},
	}

	addConfigFlag(cmd, &opts.ConfigPath)
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Skip host lookups and use network.public_ip and network.dns_servers")

	return cmd
}
