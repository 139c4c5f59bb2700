package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubeprox/cmd/kubeprox/handlers"
)

// Render returns the command for generating all cluster artifacts.
func Render() *cobra.Command {
	var opts handlers.RunOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render scripts, cloud-init data and playbooks for every node",
		Long: `Compile the configuration and render every artifact into the output
directory: per-node cloud-init user and network data, VM playbooks, the VM
template playbook, the Ansible inventory and a plan manifest.

When publish.bucket is set the output directory is uploaded afterwards.

Examples:
  kubeprox render
  kubeprox render --parallel 4 --metrics-file /var/lib/node_exporter/kubeprox.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), opts)
		},
	}

	addRunFlags(cmd, &opts)

	return cmd
}

// addRunFlags binds the flags shared by render and apply.
func addRunFlags(cmd *cobra.Command, opts *handlers.RunOptions) {
	addConfigFlag(cmd, &opts.ConfigPath)
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 1, "Number of nodes rendered concurrently")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	cmd.Flags().BoolVar(&opts.AllowPartial, "allow-partial", false, "Continue when some nodes fail to render")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Skip host lookups and use network.public_ip and network.dns_servers")
}
