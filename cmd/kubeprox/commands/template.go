package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubeprox/cmd/kubeprox/handlers"
)

// Template returns the command for the shared VM template playbook.
func Template() *cobra.Command {
	var opts handlers.TemplateOptions

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Render (and optionally run) the VM template playbook",
		Long: `Render the playbook that builds the cloud-image VM template every node
is cloned from. With --apply the playbook is run immediately.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Template(cmd.Context(), opts)
		},
	}

	addConfigFlag(cmd, &opts.ConfigPath)
	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "Run the playbook after rendering it")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Skip host lookups and use network.public_ip and network.dns_servers")

	return cmd
}
