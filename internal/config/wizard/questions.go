package wizard

import (
	"context"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/imamik/kubeprox/internal/config"
)

// clusterNameRegex validates cluster name format: 1-32 lowercase alphanumeric with hyphens.
var clusterNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,30}[a-z0-9])?$`)

// domainRegex validates a dotted DNS name.
var domainRegex = regexp.MustCompile(`^(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// runClusterIdentityGroup prompts for cluster name and domain.
func runClusterIdentityGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cluster Name").
				Description("1-32 lowercase alphanumeric characters or hyphens").
				Placeholder("kubeprox").
				Value(&result.ClusterName).
				Validate(validateClusterName),
			huh.NewInput().
				Title("Domain").
				Description("Internal DNS domain served by the router").
				Placeholder(DefaultDomain).
				Value(&result.Domain).
				Validate(validateDomain),
		).Title("Cluster Identity"),
	).RunWithContext(ctx)
}

// runProxmoxGroup prompts for the hypervisor settings.
func runProxmoxGroup(ctx context.Context, result *WizardResult) error {
	templateID := strconv.Itoa(result.TemplateID)
	vmidStart := strconv.Itoa(result.VMIDStart)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Proxmox Node").
				Description("Node name the VM playbooks run against").
				Value(&result.ProxmoxNode).
				Validate(validateRequired),
			huh.NewInput().
				Title("Storage Target").
				Description("Storage for VM disks and cloud-init snippets").
				Value(&result.StorageTarget).
				Validate(validateRequired),
			huh.NewInput().
				Title("Cluster Bridge").
				Description("Bridge attached to every VM").
				Value(&result.NetworkBridge).
				Validate(validateRequired),
			huh.NewInput().
				Title("Uplink Bridge").
				Description("Bridge attached to the router only").
				Value(&result.ExternalBridge).
				Validate(validateRequired),
			huh.NewInput().
				Title("VM Template ID").
				Value(&templateID).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("First VM ID").
				Description("Node N gets VM ID start+N-1").
				Value(&vmidStart).
				Validate(validatePositiveInt),
		).Title("Proxmox"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.TemplateID, _ = strconv.Atoi(strings.TrimSpace(templateID))
	result.VMIDStart, _ = strconv.Atoi(strings.TrimSpace(vmidStart))
	return nil
}

// runAccessGroup prompts for the shared password and an optional SSH key.
func runAccessGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Node Password").
				Description("Shared password for the node users").
				EchoMode(huh.EchoModePassword).
				Value(&result.Password).
				Validate(validatePassword),
			huh.NewInput().
				Title("SSH Public Key (Optional)").
				Description("Leave empty to generate a key pair in the output directory").
				Placeholder("ssh-ed25519 AAAA...").
				Value(&result.SSHPublicKey),
		).Title("Access"),
	).RunWithContext(ctx)
}

// runMastersGroup prompts for master configuration.
func runMastersGroup(ctx context.Context, result *WizardResult) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Master Count").
				Description("Odd numbers required for etcd quorum (HA)").
				Options(MasterCountOptions...).
				Value(&result.MasterCount),
			huh.NewSelect[string]().
				Title("Master Size").
				Options(SizingsToOptions(MasterSizings)...).
				Value(&result.MasterSizing),
		).Title("Masters"),
	).RunWithContext(ctx)
}

// runWorkersGroup prompts for worker configuration.
func runWorkersGroup(ctx context.Context, result *WizardResult) error {
	count := strconv.Itoa(result.WorkerCount)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Worker Count").
				Value(&count).
				Validate(validateNonNegativeInt),
			huh.NewSelect[string]().
				Title("Worker Count Mode").
				Options(WorkerModeOptions...).
				Value(&result.WorkerMode),
			huh.NewSelect[string]().
				Title("Worker Size").
				Options(SizingsToOptions(WorkerSizings)...).
				Value(&result.WorkerSizing),
		).Title("Workers"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	result.WorkerCount, _ = strconv.Atoi(strings.TrimSpace(count))
	return nil
}

// runNetworkGroup prompts for the address plan.
func runNetworkGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Node Network CIDR").
				Description("Router, VPN, NFS and load balancer take hosts 1-4").
				Value(&opts.NodeCIDR).
				Validate(validateCIDR),
			huh.NewInput().
				Title("Pod CIDR").
				Value(&opts.PodCIDR).
				Validate(validateCIDR),
			huh.NewInput().
				Title("Service CIDR").
				Value(&opts.ServiceCIDR).
				Validate(validateCIDR),
			huh.NewInput().
				Title("VPN CIDR").
				Value(&opts.VPNCIDR).
				Validate(validateCIDR),
		).Title("Network"),
	).RunWithContext(ctx)
}

// runPublishGroup prompts for the optional artifact bucket.
func runPublishGroup(ctx context.Context, opts *AdvancedOptions) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Artifact Bucket (Optional)").
				Description("S3 bucket that receives a copy of every render").
				Value(&opts.PublishBucket),
			huh.NewInput().
				Title("S3 Endpoint (Optional)").
				Description("For MinIO or other S3-compatible stores").
				Placeholder("https://minio.lan:9000").
				Value(&opts.PublishEndpoint),
		).Title("Publishing"),
	).RunWithContext(ctx)
}

// Validation functions

func validateClusterName(s string) error {
	if s == "" {
		return errClusterNameRequired
	}
	if !clusterNameRegex.MatchString(s) {
		return errClusterNameInvalid
	}
	return nil
}

func validateDomain(s string) error {
	if !domainRegex.MatchString(s) {
		return errDomainInvalid
	}
	return nil
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errValueRequired
	}
	return nil
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errPositiveNumber
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errCountInvalid
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return errPasswordTooShort
	}
	if !config.PasswordQuotable(s) {
		return errPasswordChars
	}
	return nil
}

func validateCIDR(s string) error {
	if s == "" {
		return errCIDRRequired
	}
	ip, _, err := net.ParseCIDR(s)
	if err != nil || ip.To4() == nil {
		return errCIDRInvalid
	}
	return nil
}
