package config

// Worker count modes for ExpansionConfig.WorkerCount.
const (
	// WorkerCountLegacy expands worker.count-1 workers, matching the first
	// generation of the generator scripts.
	WorkerCountLegacy = "legacy"
	// WorkerCountExact expands exactly worker.count workers.
	WorkerCountExact = "exact"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultConfigFile     = "kubeprox.yaml"
	DefaultClusterName    = "kubeprox"
	DefaultOutputDir      = "generated"
	DefaultProxmoxNode    = "pve"
	DefaultExternalBridge = "vmbr0"
	DefaultTemplateName   = "ubuntu-cloud"
	DefaultImageURL       = "https://cloud-images.ubuntu.com/jammy/current/jammy-server-cloudimg-amd64.img"
)

// minUsableHosts is the smallest number of host addresses a configured network
// may offer. The node network needs the five static role offsets plus at least
// one dynamic address.
const minUsableHosts = 6
