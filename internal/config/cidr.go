package config

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"
)

// CIDRHost calculates a full host IP address for a given network address and host number.
// This mimics the behavior of Terraform's cidrhost function.
//
// Parameters:
//   - prefix: The network prefix (e.g., "10.0.0.0/24")
//   - hostnum: The host number to calculate. Can be negative to count from the end
//
// Note: Only IPv4 addresses are supported. IPv6 addresses will return an error.
func CIDRHost(prefix string, hostnum int) (string, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}

	if network.IP.To4() == nil {
		return "", fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}

	maskSize, totalBits := network.Mask.Size()
	maxHosts := uint64(1) << (totalBits - maskSize)

	var offset uint64
	if hostnum < 0 {
		absHostNum := uint64(-hostnum)
		if absHostNum > maxHosts {
			return "", fmt.Errorf("host number %d exceeds max hosts %d", hostnum, maxHosts)
		}
		offset = maxHosts - absHostNum
	} else {
		offset = uint64(hostnum)
		if offset >= maxHosts {
			return "", fmt.Errorf("host number %d exceeds max hosts %d", hostnum, maxHosts)
		}
	}

	ipInt := uintFromIP(network.IP.To4()) + offset
	return ipFromUint(ipInt).String(), nil
}

// Netmask returns the dotted-quad netmask of an IPv4 prefix, e.g. "255.255.255.0".
func Netmask(prefix string) (string, error) {
	_, network, err := net.ParseCIDR(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if network.IP.To4() == nil {
		return "", fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}
	return net.IP(network.Mask).String(), nil
}

// NetworkAddress returns the masked base address of an IPv4 prefix.
func NetworkAddress(prefix string) (string, error) {
	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return "", fmt.Errorf("invalid CIDR prefix: %w", err)
	}
	if !p.Addr().Is4() {
		return "", fmt.Errorf("only IPv4 addresses are supported, got IPv6: %s", prefix)
	}
	return p.Masked().Addr().String(), nil
}

// UsableHosts returns the number of assignable host addresses in an IPv4
// prefix, excluding the network and broadcast addresses.
func UsableHosts(prefix netip.Prefix) int {
	hostBits := 32 - prefix.Bits()
	if hostBits < 2 {
		return 0
	}
	if hostBits > 30 {
		hostBits = 30
	}
	return (1 << hostBits) - 2
}

// uintFromIP converts a 4-byte IPv4 address to uint64.
func uintFromIP(ip net.IP) uint64 {
	return uint64(binary.BigEndian.Uint32(ip))
}

// ipFromUint converts a uint64 value back to an IPv4 address.
func ipFromUint(val uint64) net.IP {
	ip := make(net.IP, 4)
	// #nosec G115
	binary.BigEndian.PutUint32(ip, uint32(val))
	return ip
}
