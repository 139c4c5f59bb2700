package topology

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/util/naming"
)

// Template variable names shared across roles.
const (
	VarHostname         = "HOSTNAME"
	VarInitScript       = "INIT_SCRIPT_B64"
	VarSSHAuthorizedKey = "SSH_AUTHORIZED_KEY"
)

// projection carries everything a role projection may read.
type projection struct {
	cfg   *config.Config
	addrs addressBook
	facts Facts
	node  *NodeInstance

	// masters are the DNS names of every control plane node, in id order.
	masters []string
}

// commonVars are present for every node.
func commonVars(p *projection, vars map[string]string) error {
	n := p.node
	cfg := p.cfg

	prefixLen, err := prefixLength(cfg.Network.NodeCIDR)
	if err != nil {
		return err
	}

	vars[VarHostname] = n.Name()
	vars["FQDN"] = n.Name() + "." + cfg.Network.Domain
	vars["DOMAIN"] = cfg.Network.Domain
	vars["ROLE"] = string(n.Role)
	vars["NODE_ID"] = strconv.Itoa(n.ID)
	vars["CLUSTER_NAME"] = cfg.ClusterName
	vars["PASSWORD"] = cfg.Proxmox.Password
	vars[VarSSHAuthorizedKey] = cfg.Proxmox.SSHPublicKey
	vars["ROUTER_IP"] = p.addrs.Router
	vars["NETWORK_CIDR"] = cfg.Network.NodeCIDR
	vars["PREFIX_LENGTH"] = strconv.Itoa(prefixLen)
	vars["IP_ADDRESS"] = n.IP

	vars["VMID"] = strconv.Itoa(n.VMID)
	vars["VM_NAME"] = n.Name()
	vars["CORES"] = strconv.Itoa(n.Sizing.Cores)
	vars["MEMORY"] = strconv.Itoa(n.Sizing.Memory)
	vars["STORAGE"] = strconv.Itoa(n.Sizing.Storage)
	vars["STORAGE_TARGET"] = cfg.Proxmox.StorageTarget
	vars["TEMPLATE_ID"] = strconv.Itoa(cfg.Proxmox.VMTemplateID)
	vars["TEMPLATE_NAME"] = cfg.Template.Name
	vars["PROXMOX_NODE"] = cfg.Proxmox.Node
	vars["NET_DEVICES"] = netDevices(n.Bridges)
	vars["USER_DATA_PATH"] = n.Artifacts.UserData
	vars["NETWORK_DATA_PATH"] = n.Artifacts.NetworkData
	vars["USER_DATA_SNIPPET"] = naming.Snippet(n.Hostname, "user-data")
	vars["NETWORK_DATA_SNIPPET"] = naming.Snippet(n.Hostname, "network-data")
	return nil
}

func projectRouter(p *projection, vars map[string]string) {
	cfg := p.cfg
	mask, _ := config.Netmask(cfg.Network.NodeCIDR)
	dhcpStart, _ := config.CIDRHost(cfg.Network.NodeCIDR, dhcpStartOffset)
	dhcpEnd, _ := config.CIDRHost(cfg.Network.NodeCIDR, -2)

	vars["PUBLIC_IP"] = p.facts.PublicIP
	vars["VPN_IP"] = p.addrs.VPN
	vars["NFS_IP"] = p.addrs.NFS
	vars["LB_IP"] = p.addrs.LB
	vars["K8S_API"] = p.addrs.K8SAPI
	vars["VPN_CIDR"] = cfg.Network.VPNCIDR
	vars["NETWORK_MASK"] = mask
	vars["NETWORK_DHCP_START"] = dhcpStart
	vars["NETWORK_DHCP_END"] = dhcpEnd
	vars["NETWORK_DNS_PRIMARY"] = p.facts.DNSPrimary
	vars["NETWORK_DNS_SECONDARY"] = p.facts.DNSSecondary
	vars["EXTERNAL_INTERFACE"] = "eth1"
	vars["INTERNAL_INTERFACE"] = "eth0"
}

func projectVPN(p *projection, vars map[string]string) {
	cfg := p.cfg
	vpnNet, _ := config.NetworkAddress(cfg.Network.VPNCIDR)
	vpnMask, _ := config.Netmask(cfg.Network.VPNCIDR)
	vpnGateway, _ := config.CIDRHost(cfg.Network.VPNCIDR, 1)
	vpnClient, _ := config.CIDRHost(cfg.Network.VPNCIDR, 2)
	vpnPrefix, _ := prefixLength(cfg.Network.VPNCIDR)

	vars["PUBLIC_IP"] = p.facts.PublicIP
	vars["VPN_IP"] = p.addrs.VPN
	vars["VPN_CIDR"] = cfg.Network.VPNCIDR
	vars["VPN_NETWORK"] = vpnNet
	vars["VPN_NETMASK"] = vpnMask
	vars["VPN_GATEWAY"] = vpnGateway
	vars["VPN_CLIENT_IP"] = vpnClient
	vars["VPN_PREFIX_LENGTH"] = strconv.Itoa(vpnPrefix)
	vars["VPN_DNS_PRIMARY"] = p.addrs.Router
	vars["VPN_DNS_SECONDARY"] = p.facts.DNSPrimary
}

func projectNFS(p *projection, vars map[string]string) {
	vars["NFS_IP"] = p.addrs.NFS
	vars["NFS_EXPORT"] = nfsExport
}

func projectLB(p *projection, vars map[string]string) {
	vars["LB_IP"] = p.addrs.LB
	vars["K8S_API"] = p.addrs.K8SAPI
	vars["K8S_API_PORT"] = k8sAPIPort
	vars["MASTER_SERVERS"] = masterServers(p.masters, p.cfg.Network.Domain)
}

// masterServers renders one haproxy server line per control plane node.
func masterServers(masters []string, domain string) string {
	lines := make([]string, 0, len(masters))
	for _, m := range masters {
		lines = append(lines, fmt.Sprintf("    server %s %s.%s:%s check resolvers lan init-addr none", m, m, domain, k8sAPIPort))
	}
	return strings.Join(lines, "\n")
}

func projectMasterInit(p *projection, vars map[string]string) {
	projectJoin(p, vars)
	vars["POD_CIDR"] = p.cfg.Network.PodCIDR
	vars["SERVICE_CIDR"] = p.cfg.Network.ServiceCIDR
}

// projectJoin serves both joining masters and workers.
func projectJoin(p *projection, vars map[string]string) {
	vars["K8S_API"] = p.addrs.K8SAPI
	vars["K8S_API_PORT"] = k8sAPIPort
	vars["LB_IP"] = p.addrs.LB
	vars["NFS_IP"] = p.addrs.NFS
	vars["NFS_EXPORT"] = nfsExport
}

const (
	// dhcpStartOffset is the first dynamic host, right after the K8S_API offset.
	dhcpStartOffset = 6
	k8sAPIPort      = "6443"
	nfsExport       = "/srv/nfs/kubeprox"
)

// templateVars are the variables of the shared VM template playbook.
func templateVars(cfg *config.Config) map[string]string {
	return map[string]string{
		"TEMPLATE_ID":       strconv.Itoa(cfg.Proxmox.VMTemplateID),
		"TEMPLATE_NAME":     cfg.Template.Name,
		"IMAGE_URL":         cfg.Template.ImageURL,
		"STORAGE_TARGET":    cfg.Proxmox.StorageTarget,
		"NETWORK_BRIDGE":    cfg.Proxmox.NetworkBridge,
		"PROXMOX_NODE":      cfg.Proxmox.Node,
		"PASSWORD":          cfg.Proxmox.Password,
		VarSSHAuthorizedKey: cfg.Proxmox.SSHPublicKey,
	}
}

func prefixLength(cidr string) (int, error) {
	p, err := netip.ParsePrefix(cidr)
	if err != nil {
		return 0, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	return p.Bits(), nil
}

// netDevices renders qm network arguments, one virtio NIC per bridge in
// order, e.g. "--net0 virtio,bridge=vmbr1 --net1 virtio,bridge=vmbr0".
func netDevices(bridges []string) string {
	parts := make([]string, 0, len(bridges))
	for i, b := range bridges {
		parts = append(parts, fmt.Sprintf("--net%d virtio,bridge=%s", i, b))
	}
	return strings.Join(parts, " ")
}
