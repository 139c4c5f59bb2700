package wizard

import "github.com/imamik/kubeprox/internal/config"

// BuildConfig creates a Config struct from the wizard result.
func BuildConfig(result *WizardResult) *config.Config {
	cfg := &config.Config{
		ClusterName: result.ClusterName,
		Network: config.NetworkConfig{
			Domain:      result.Domain,
			NodeCIDR:    DefaultNodeCIDR,
			PodCIDR:     DefaultPodCIDR,
			ServiceCIDR: DefaultServiceCIDR,
			VPNCIDR:     DefaultVPNCIDR,
		},
		Proxmox: config.ProxmoxConfig{
			Node:           result.ProxmoxNode,
			StorageTarget:  result.StorageTarget,
			NetworkBridge:  result.NetworkBridge,
			ExternalBridge: result.ExternalBridge,
			Password:       result.Password,
			SSHPublicKey:   result.SSHPublicKey,
			VMTemplateID:   result.TemplateID,
			VMIDStart:      result.VMIDStart,
		},
		Master: buildPool(MasterSizings, result.MasterSizing, result.MasterCount),
		Worker: buildPool(WorkerSizings, result.WorkerSizing, result.WorkerCount),
		Expansion: config.ExpansionConfig{
			WorkerCount: result.WorkerMode,
		},
	}

	if result.AdvancedOptions != nil {
		applyAdvancedOptions(cfg, result.AdvancedOptions)
	}

	cfg.ApplyDefaults()
	return cfg
}

// buildPool sizes a pool from a preset, falling back to the default preset
// for unknown values.
func buildPool(sizings []SizingOption, value string, count int) config.NodePoolConfig {
	sizing, ok := FindSizing(sizings, value)
	if !ok {
		sizing, _ = FindSizing(sizings, DefaultSizing)
	}

	return config.NodePoolConfig{
		Count:   count,
		Cores:   sizing.Cores,
		Memory:  sizing.Memory,
		Storage: sizing.Storage,
	}
}

// applyAdvancedOptions applies advanced configuration to the config.
func applyAdvancedOptions(cfg *config.Config, opts *AdvancedOptions) {
	if opts.NodeCIDR != "" {
		cfg.Network.NodeCIDR = opts.NodeCIDR
	}
	if opts.PodCIDR != "" {
		cfg.Network.PodCIDR = opts.PodCIDR
	}
	if opts.ServiceCIDR != "" {
		cfg.Network.ServiceCIDR = opts.ServiceCIDR
	}
	if opts.VPNCIDR != "" {
		cfg.Network.VPNCIDR = opts.VPNCIDR
	}

	if opts.PublishBucket != "" {
		cfg.Publish.Bucket = opts.PublishBucket
		cfg.Publish.Endpoint = opts.PublishEndpoint
	}
}
