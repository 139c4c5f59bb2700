package netinfo

import (
	"context"
	"fmt"

	"github.com/miekg/dns"
)

// DefaultResolvConf is the host resolver configuration.
const DefaultResolvConf = "/etc/resolv.conf"

// ResolvConf reads nameservers from a resolv.conf file.
type ResolvConf struct {
	Path string
}

// Nameservers returns the nameservers in file order.
func (r ResolvConf) Nameservers(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := r.Path
	if path == "" {
		path = DefaultResolvConf
	}
	cfg, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read nameservers from %s: %w", path, err)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("no nameservers in %s", path)
	}
	return cfg.Servers, nil
}

// Host combines the public IP and nameserver lookups of the local host.
type Host struct {
	*PublicIPResolver
	ResolvConf
}

// NewHost returns lookups against the default endpoints.
func NewHost(publicIP *PublicIPResolver) *Host {
	return &Host{
		PublicIPResolver: publicIP,
		ResolvConf:       ResolvConf{Path: DefaultResolvConf},
	}
}
