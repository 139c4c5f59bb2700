package topology

import (
	"maps"

	"github.com/imamik/kubeprox/internal/util/naming"
)

// ArtifactPaths are the output files rendered for one node.
type ArtifactPaths struct {
	UserData    string `yaml:"user_data"`
	NetworkData string `yaml:"network_data"`
	Playbook    string `yaml:"playbook"`
}

// NodeInstance is one planned VM. It is fully determined by the
// configuration, its role and its id, and is not modified after Compile.
type NodeInstance struct {
	ID       int    `yaml:"id"`
	VMID     int    `yaml:"vmid"`
	Hostname string `yaml:"hostname"`
	Role     Role   `yaml:"role"`

	Sizing  Sizing   `yaml:"sizing"`
	Bridges []string `yaml:"bridges"`

	// IP is the static address for singleton roles; empty means DHCP.
	IP string `yaml:"ip,omitempty"`

	Artifacts ArtifactPaths `yaml:"artifacts"`
	Templates TemplateSet   `yaml:"-"`

	// vars is the complete substitution map for this node's templates.
	vars map[string]string
}

// Name returns the lower-case DNS-safe form of the hostname.
func (n NodeInstance) Name() string {
	return naming.DNSName(n.Hostname)
}

// Vars returns a copy of the node's template variables.
func (n NodeInstance) Vars() map[string]string {
	return maps.Clone(n.vars)
}

// Static reports whether the node has a fixed address.
func (n NodeInstance) Static() bool {
	return n.IP != ""
}

// Plan is the compiled, ordered node set for one configuration.
type Plan struct {
	ClusterName string         `yaml:"cluster_name"`
	Domain      string         `yaml:"domain"`
	NodeCIDR    string         `yaml:"node_cidr"`
	OutputDir   string         `yaml:"output_dir"`
	Facts       Facts          `yaml:"facts"`
	Nodes       []NodeInstance `yaml:"nodes"`

	// TemplateVars drives the shared VM template playbook.
	TemplateVars map[string]string `yaml:"-"`

	// Warnings collects non-fatal conditions such as lookup fallbacks.
	Warnings []string `yaml:"warnings,omitempty"`
}

// Facts are the host-environment values resolved once per compile.
type Facts struct {
	PublicIP      string `yaml:"public_ip"`
	DNSPrimary    string `yaml:"dns_primary"`
	DNSSecondary  string `yaml:"dns_secondary"`
	RouterIP      string `yaml:"router_ip"`
	VPNIP         string `yaml:"vpn_ip"`
	NFSIP         string `yaml:"nfs_ip"`
	LBIP          string `yaml:"lb_ip"`
	KubernetesAPI string `yaml:"k8s_api"`
}

// CountByRole returns the number of nodes per role.
func (p *Plan) CountByRole() map[Role]int {
	counts := make(map[Role]int, len(Roles))
	for _, n := range p.Nodes {
		counts[n.Role]++
	}
	return counts
}

// Node returns the node with the given hostname.
func (p *Plan) Node(hostname string) (NodeInstance, bool) {
	for _, n := range p.Nodes {
		if n.Hostname == hostname {
			return n, true
		}
	}
	return NodeInstance{}, false
}
