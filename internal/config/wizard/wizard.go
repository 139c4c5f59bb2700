package wizard

import (
	"context"
	"fmt"

	"github.com/imamik/kubeprox/internal/config"
)

// WizardResult holds all the answers from the interactive wizard.
type WizardResult struct {
	// Cluster Identity
	ClusterName string
	Domain      string

	// Proxmox
	ProxmoxNode    string
	StorageTarget  string
	NetworkBridge  string
	ExternalBridge string
	TemplateID     int
	VMIDStart      int

	// Access (SSH key is generated when empty)
	Password     string
	SSHPublicKey string

	// Masters
	MasterCount  int
	MasterSizing string

	// Workers
	WorkerCount  int
	WorkerMode   string
	WorkerSizing string

	// Advanced options (only set in advanced mode)
	AdvancedOptions *AdvancedOptions
}

// AdvancedOptions holds advanced configuration options.
type AdvancedOptions struct {
	NodeCIDR    string
	PodCIDR     string
	ServiceCIDR string
	VPNCIDR     string

	// Publishing
	PublishBucket   string
	PublishEndpoint string
}

// RunWizard runs the interactive configuration wizard.
// If advanced is true, additional configuration options are shown.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context, advanced bool) (*WizardResult, error) {
	result := NewDefaultResult()

	if err := runClusterIdentityGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("cluster identity: %w", err)
	}

	if err := runProxmoxGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("proxmox: %w", err)
	}

	if err := runAccessGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("access: %w", err)
	}

	if err := runMastersGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("masters: %w", err)
	}

	if err := runWorkersGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}

	if advanced {
		advOpts := DefaultAdvancedOptions()

		if err := runNetworkGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("network: %w", err)
		}

		if err := runPublishGroup(ctx, advOpts); err != nil {
			return nil, fmt.Errorf("publish: %w", err)
		}

		result.AdvancedOptions = advOpts
	}

	return result, nil
}

// NewDefaultResult returns the answers used for every question the user
// does not change, and for non-interactive init.
func NewDefaultResult() *WizardResult {
	return &WizardResult{
		ClusterName:    config.DefaultClusterName,
		Domain:         DefaultDomain,
		ProxmoxNode:    config.DefaultProxmoxNode,
		StorageTarget:  DefaultStorageTarget,
		NetworkBridge:  DefaultNetworkBridge,
		ExternalBridge: config.DefaultExternalBridge,
		TemplateID:     DefaultTemplateID,
		VMIDStart:      DefaultVMIDStart,
		MasterCount:    3,
		MasterSizing:   DefaultSizing,
		WorkerCount:    2,
		WorkerMode:     config.WorkerCountExact,
		WorkerSizing:   DefaultSizing,
	}
}

// DefaultAdvancedOptions returns the default address plan.
func DefaultAdvancedOptions() *AdvancedOptions {
	return &AdvancedOptions{
		NodeCIDR:    DefaultNodeCIDR,
		PodCIDR:     DefaultPodCIDR,
		ServiceCIDR: DefaultServiceCIDR,
		VPNCIDR:     DefaultVPNCIDR,
	}
}
