package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubeprox/cmd/kubeprox/handlers"
)

// Kubeconfig returns the command for fetching the cluster admin kubeconfig.
func Kubeconfig() *cobra.Command {
	var opts handlers.KubeconfigOptions

	cmd := &cobra.Command{
		Use:   "kubeconfig",
		Short: "Fetch the admin kubeconfig from the first master",
		Long: `Fetch /etc/kubernetes/admin.conf from the MASTER_INIT node over SSH,
using the key pair in <output_dir>/ssh, and write it to
<output_dir>/kubeconfig.

The node is addressed by its DNS name on the cluster domain unless --host
is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Kubeconfig(cmd.Context(), opts)
		},
	}

	addConfigFlag(cmd, &opts.ConfigPath)
	cmd.Flags().StringVar(&opts.Host, "host", "", "MASTER_INIT address (default: its DNS name)")
	cmd.Flags().IntVar(&opts.Port, "port", 22, "SSH port")
	cmd.Flags().StringVar(&opts.KnownHostsFile, "known-hosts", "", "known_hosts file to verify the node host key against")
	cmd.Flags().DurationVar(&opts.Wait, "wait", 0, "Wait up to this long for the Kubernetes API before fetching")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Output path (default: <output_dir>/kubeconfig)")

	return cmd
}
