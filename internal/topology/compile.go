package topology

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/util/naming"
)

// Lookup resolves facts about the host environment that the router needs.
type Lookup interface {
	PublicIP(ctx context.Context) (string, error)
	Nameservers(ctx context.Context) ([]string, error)
}

var (
	errLookupDisabled      = errors.New("lookups disabled")
	errNoUsableNameservers = errors.New("no usable IPv4 nameservers found")
)

// Compiler turns a validated configuration into a Plan.
type Compiler struct {
	lookup            Lookup
	publicIPTimeout   time.Duration
	nameserverTimeout time.Duration
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLookupTimeouts bounds the public IP and nameserver lookups.
func WithLookupTimeouts(publicIP, nameservers time.Duration) Option {
	return func(c *Compiler) {
		c.publicIPTimeout = publicIP
		c.nameserverTimeout = nameservers
	}
}

// NewCompiler creates a Compiler. A nil lookup disables host lookups so
// that only the configured fallbacks are used.
func NewCompiler(lookup Lookup, opts ...Option) *Compiler {
	c := &Compiler{
		lookup:            lookup,
		publicIPTimeout:   10 * time.Second,
		nameserverTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile expands, sizes and addresses every node of the cluster and
// computes each node's template variables. External lookups run once per
// call. Compile writes nothing; the same configuration and lookup results
// always produce the same Plan.
func (c *Compiler) Compile(ctx context.Context, cfg *config.Config) (*Plan, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	addrs, err := allocateAll(cfg.Network.NodeCIDR)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate role addresses: %w", err)
	}

	plan := &Plan{
		ClusterName:  cfg.ClusterName,
		Domain:       cfg.Network.Domain,
		NodeCIDR:     cfg.Network.NodeCIDR,
		OutputDir:    cfg.OutputDir,
		TemplateVars: templateVars(cfg),
	}

	plan.Facts, plan.Warnings, err = c.resolveFacts(ctx, cfg)
	if err != nil {
		return nil, err
	}
	plan.Facts.RouterIP = addrs.Router
	plan.Facts.VPNIP = addrs.VPN
	plan.Facts.NFSIP = addrs.NFS
	plan.Facts.LBIP = addrs.LB
	plan.Facts.KubernetesAPI = addrs.K8SAPI

	slots, err := Expand(cfg, NewSequence(1))
	if err != nil {
		return nil, err
	}

	var masters []string
	for _, slot := range slots {
		if slot.Role == MasterInit || slot.Role == MasterJoin {
			masters = append(masters, naming.DNSName(slot.Hostname))
		}
	}

	plan.Nodes = make([]NodeInstance, 0, len(slots))
	for _, slot := range slots {
		node, err := buildNode(cfg, addrs, plan.Facts, masters, slot)
		if err != nil {
			return nil, fmt.Errorf("failed to plan %s: %w", slot.Hostname, err)
		}
		plan.Nodes = append(plan.Nodes, node)
	}
	return plan, nil
}

func buildNode(cfg *config.Config, addrs addressBook, facts Facts, masters []string, slot Slot) (NodeInstance, error) {
	spec, err := lookupRole(slot.Role)
	if err != nil {
		return NodeInstance{}, err
	}

	bridges := []string{cfg.Proxmox.NetworkBridge}
	if slot.Role == Router {
		bridges = append(bridges, cfg.Proxmox.ExternalBridge)
	}

	role := string(slot.Role)
	node := NodeInstance{
		ID:       slot.ID,
		VMID:     cfg.Proxmox.VMIDStart + slot.ID - 1,
		Hostname: slot.Hostname,
		Role:     slot.Role,
		Sizing:   spec.sizing(cfg),
		Bridges:  bridges,
		IP:       addrs.fixedIP(slot.Role),
		Artifacts: ArtifactPaths{
			UserData:    naming.UserData(cfg.OutputDir, role, slot.Hostname),
			NetworkData: naming.NetworkData(cfg.OutputDir, role, slot.Hostname),
			Playbook:    naming.VMPlaybook(cfg.OutputDir, slot.Hostname),
		},
		Templates: spec.templates,
	}

	p := &projection{cfg: cfg, addrs: addrs, facts: facts, node: &node, masters: masters}
	vars := make(map[string]string)
	if err := commonVars(p, vars); err != nil {
		return NodeInstance{}, err
	}
	spec.project(p, vars)
	node.vars = vars
	return node, nil
}

func (c *Compiler) resolveFacts(ctx context.Context, cfg *config.Config) (Facts, []string, error) {
	var (
		facts    Facts
		warnings []string
	)

	ip, err := c.publicIP(ctx)
	switch {
	case err == nil:
		facts.PublicIP = ip
	case cfg.Network.PublicIP != "":
		facts.PublicIP = cfg.Network.PublicIP
		warnings = append(warnings, fmt.Sprintf("public IP lookup failed (%v), using network.public_ip %s", err, cfg.Network.PublicIP))
	default:
		return Facts{}, nil, &ExternalLookupError{Lookup: "public IP", Fallback: "network.public_ip", Err: err}
	}

	servers, dropped, err := c.nameservers(ctx)
	for _, d := range dropped {
		warnings = append(warnings, fmt.Sprintf("ignoring unusable nameserver %s", d))
	}
	switch {
	case err == nil:
	case len(cfg.Network.DNSServers) > 0:
		fallback, skipped := usableNameservers(cfg.Network.DNSServers)
		for _, d := range skipped {
			warnings = append(warnings, fmt.Sprintf("ignoring unusable nameserver %s", d))
		}
		if len(fallback) == 0 {
			return Facts{}, nil, &ExternalLookupError{Lookup: "nameserver", Fallback: "network.dns_servers", Err: errNoUsableNameservers}
		}
		servers = fallback
		warnings = append(warnings, fmt.Sprintf("nameserver lookup failed (%v), using network.dns_servers", err))
	default:
		return Facts{}, nil, &ExternalLookupError{Lookup: "nameserver", Fallback: "network.dns_servers", Err: err}
	}

	facts.DNSPrimary = servers[0]
	facts.DNSSecondary = servers[0]
	if len(servers) > 1 {
		facts.DNSSecondary = servers[1]
	} else {
		warnings = append(warnings, fmt.Sprintf("only one upstream nameserver found, using %s as secondary", servers[0]))
	}
	return facts, warnings, nil
}

func (c *Compiler) publicIP(ctx context.Context) (string, error) {
	if c.lookup == nil {
		return "", errLookupDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, c.publicIPTimeout)
	defer cancel()

	ip, err := c.lookup.PublicIP(ctx)
	if err != nil {
		return "", err
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return "", fmt.Errorf("lookup returned invalid IPv4 address %q", ip)
	}
	return addr.String(), nil
}

// nameservers returns usable upstream resolvers. Loopback resolvers such as
// a local stub are unreachable from the router VM and are dropped.
func (c *Compiler) nameservers(ctx context.Context) (usable, dropped []string, err error) {
	if c.lookup == nil {
		return nil, nil, errLookupDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, c.nameserverTimeout)
	defer cancel()

	servers, err := c.lookup.Nameservers(ctx)
	if err != nil {
		return nil, nil, err
	}
	usable, dropped = usableNameservers(servers)
	if len(usable) == 0 {
		return nil, dropped, errNoUsableNameservers
	}
	return usable, dropped, nil
}

// usableNameservers splits servers into IPv4 resolvers the router can reach
// and everything else.
func usableNameservers(servers []string) (usable, dropped []string) {
	for _, s := range servers {
		addr, err := netip.ParseAddr(s)
		if err != nil || !addr.Is4() || addr.IsLoopback() || addr.IsUnspecified() {
			dropped = append(dropped, s)
			continue
		}
		usable = append(usable, addr.String())
	}
	return usable, dropped
}
