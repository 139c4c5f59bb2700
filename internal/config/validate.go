package config

import (
	"fmt"
	"net/netip"
	"strings"
	"unicode"
)

// ValidationError reports the first configuration field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the configuration and returns a *ValidationError naming the
// first offending field. It runs before any address is allocated or file is
// rendered.
func (c *Config) Validate() error {
	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateProxmox(); err != nil {
		return err
	}

	if err := validatePool("master", c.Master, 1); err != nil {
		return err
	}

	if err := validatePool("worker", c.Worker, 0); err != nil {
		return err
	}

	switch c.Expansion.WorkerCount {
	case WorkerCountLegacy, WorkerCountExact:
	default:
		return invalid("expansion.worker_count", "must be %q or %q, got %q",
			WorkerCountLegacy, WorkerCountExact, c.Expansion.WorkerCount)
	}

	return nil
}

func (c *Config) validateNetwork() error {
	if c.Network.Domain == "" {
		return invalid("network.domain", "is required")
	}

	cidrs := []struct {
		field string
		value string
	}{
		{"network.node_cidr", c.Network.NodeCIDR},
		{"network.pod_cidr", c.Network.PodCIDR},
		{"network.service_cidr", c.Network.ServiceCIDR},
		{"network.vpn_cidr", c.Network.VPNCIDR},
	}

	for _, cidr := range cidrs {
		if err := validateIPv4CIDR(cidr.field, cidr.value); err != nil {
			return err
		}
	}

	if c.Network.PublicIP != "" {
		if addr, err := netip.ParseAddr(c.Network.PublicIP); err != nil || !addr.Is4() {
			return invalid("network.public_ip", "%q is not an IPv4 address", c.Network.PublicIP)
		}
	}

	for i, server := range c.Network.DNSServers {
		field := fmt.Sprintf("network.dns_servers[%d]", i)
		addr, err := netip.ParseAddr(server)
		switch {
		case err != nil || !addr.Is4():
			return invalid(field, "%q is not an IPv4 address", server)
		case addr.IsLoopback() || addr.IsUnspecified():
			return invalid(field, "%q is not reachable from the router", server)
		}
	}

	return nil
}

// PasswordQuotable reports whether s can be placed inside a double-quoted
// YAML scalar without escaping.
func PasswordQuotable(s string) bool {
	if strings.ContainsAny(s, `"\`) {
		return false
	}
	return !strings.ContainsFunc(s, unicode.IsControl)
}

func validateIPv4CIDR(field, value string) error {
	if value == "" {
		return invalid(field, "is required")
	}

	prefix, err := netip.ParsePrefix(value)
	if err != nil {
		return invalid(field, "invalid CIDR %q: %v", value, err)
	}

	if !prefix.Addr().Is4() {
		return invalid(field, "only IPv4 networks are supported, got %q", value)
	}

	if usable := UsableHosts(prefix); usable < minUsableHosts {
		return invalid(field, "%q has %d usable host addresses, need at least %d", value, usable, minUsableHosts)
	}

	return nil
}

func (c *Config) validateProxmox() error {
	p := c.Proxmox

	switch {
	case p.StorageTarget == "":
		return invalid("proxmox.storage_target", "is required")
	case p.NetworkBridge == "":
		return invalid("proxmox.network_bridge", "is required")
	case p.Password == "":
		return invalid("proxmox.password", "is required")
	case !PasswordQuotable(p.Password):
		return invalid("proxmox.password", "must not contain double quotes, backslashes or control characters")
	case p.VMTemplateID <= 0:
		return invalid("proxmox.vm_template_id", "must be positive, got %d", p.VMTemplateID)
	case p.VMIDStart <= 0:
		return invalid("proxmox.vm_id_start", "must be positive, got %d", p.VMIDStart)
	}

	if p.NetworkBridge == p.ExternalBridge {
		return invalid("proxmox.external_bridge", "must differ from proxmox.network_bridge (%q)", p.NetworkBridge)
	}

	return nil
}

func validatePool(name string, pool NodePoolConfig, minCount int) error {
	if pool.Count < minCount {
		return invalid(name+".count", "must be at least %d, got %d", minCount, pool.Count)
	}
	if pool.Cores <= 0 {
		return invalid(name+".cores", "must be positive, got %d", pool.Cores)
	}
	if pool.Memory <= 0 {
		return invalid(name+".memory", "must be positive, got %d", pool.Memory)
	}
	if pool.Storage <= 0 {
		return invalid(name+".storage", "must be positive, got %d", pool.Storage)
	}
	return nil
}
