package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubeprox/cmd/kubeprox/handlers"
)

// Apply returns the command for rendering and running every VM playbook.
//
// Environment variables:
//
//	KUBEPROX_TIMEOUT_APPLY: bound for the whole ansible-playbook run (default 60m)
func Apply() *cobra.Command {
	var opts handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Render all artifacts and run the VM playbooks",
		Long: `Render all artifacts, then run the VM template playbook and every VM
playbook with ansible-playbook against the Proxmox node.

Targets that fail or are unreachable are listed in the summary and make
the command exit non-zero after the run completes.

Examples:
  kubeprox apply
  kubeprox apply -c homelab.yaml --parallel 4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	addRunFlags(cmd, &opts)

	return cmd
}
