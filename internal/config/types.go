package config

// Config is the declarative description of one Proxmox-hosted cluster.
// It is validated once and then passed by value into the compiler and renderer;
// nothing in this package caches it.
type Config struct {
	ClusterName string `yaml:"cluster_name"`

	Network   NetworkConfig   `yaml:"network"`
	Proxmox   ProxmoxConfig   `yaml:"proxmox"`
	Template  TemplateConfig  `yaml:"template"`
	Master    NodePoolConfig  `yaml:"master"`
	Worker    NodePoolConfig  `yaml:"worker"`
	Expansion ExpansionConfig `yaml:"expansion"`

	// OutputDir is the root directory for every generated artifact.
	// Default: "generated"
	OutputDir string `yaml:"output_dir"`

	Publish PublishConfig `yaml:"publish,omitempty"`
}

// NetworkConfig holds addressing for the node network and the in-cluster ranges.
type NetworkConfig struct {
	Domain      string `yaml:"domain"`
	NodeCIDR    string `yaml:"node_cidr"`
	PodCIDR     string `yaml:"pod_cidr"`
	ServiceCIDR string `yaml:"service_cidr"`
	VPNCIDR     string `yaml:"vpn_cidr"`

	// PublicIP is used when the public IP lookup fails or times out.
	PublicIP string `yaml:"public_ip,omitempty"`

	// DNSServers is used when the host resolver list cannot be read or is empty.
	DNSServers []string `yaml:"dns_servers,omitempty"`
}

// ProxmoxConfig holds the hypervisor-side settings shared by every VM.
type ProxmoxConfig struct {
	// Node is the Proxmox node name the VM playbooks target.
	// Default: "pve"
	Node string `yaml:"node"`

	StorageTarget string `yaml:"storage_target"`

	// NetworkBridge is attached to every VM.
	NetworkBridge string `yaml:"network_bridge"`

	// ExternalBridge is attached to the router only, as its uplink.
	// Default: "vmbr0"
	ExternalBridge string `yaml:"external_bridge"`

	// Password is the single shared password passed through to cloud-init.
	Password string `yaml:"password"`

	// SSHPublicKey is injected into every node. Generated when empty.
	SSHPublicKey string `yaml:"ssh_public_key,omitempty"`

	VMTemplateID int `yaml:"vm_template_id"`
	VMIDStart    int `yaml:"vm_id_start"`
}

// TemplateConfig describes the cloud image the VM template is built from.
type TemplateConfig struct {
	// Default: "ubuntu-cloud"
	Name     string `yaml:"name"`
	ImageURL string `yaml:"image_url"`
}

// NodePoolConfig sizes an elastic role.
type NodePoolConfig struct {
	Count   int `yaml:"count"`
	Cores   int `yaml:"cores"`
	Memory  int `yaml:"memory"`  // MB
	Storage int `yaml:"storage"` // GB
}

// ExpansionConfig controls how elastic counts turn into instances.
type ExpansionConfig struct {
	// WorkerCount is either WorkerCountLegacy or WorkerCountExact.
	// Default: WorkerCountLegacy
	WorkerCount string `yaml:"worker_count"`
}

// PublishConfig points at an S3-compatible bucket for archiving rendered artifacts.
// Publishing is disabled while Bucket is empty. Credentials come from the
// standard AWS environment.
type PublishConfig struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// Enabled reports whether artifacts should be published.
func (p PublishConfig) Enabled() bool {
	return p.Bucket != ""
}
