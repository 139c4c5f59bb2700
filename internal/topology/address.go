package topology

import (
	"errors"
	"fmt"
	"net/netip"

	sideronet "github.com/siderolabs/net"
)

// addressOffsets maps each role with a fixed address to its host offset in
// the node network.
var addressOffsets = map[Role]int{
	Router: 1,
	VPN:    2,
	NFS:    3,
	LB:     4,
	K8SAPI: 5,
}

// HasFixedAddress reports whether the role owns a static address.
func HasFixedAddress(role Role) bool {
	_, ok := addressOffsets[role]
	return ok
}

// Allocate returns the fixed IPv4 address of a role within cidr: the
// network base address plus the role's offset. Host bits in cidr are
// ignored. Elastic roles have no fixed address and yield InvalidRoleError.
func Allocate(cidr string, role Role) (string, error) {
	offset, ok := addressOffsets[role]
	if !ok {
		return "", &InvalidRoleError{Role: role}
	}

	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return "", &InvalidCIDRError{CIDR: cidr, Err: err}
	}
	if !prefix.Addr().Is4() {
		return "", &InvalidCIDRError{CIDR: cidr, Err: errors.New("only IPv4 networks are supported")}
	}

	// Offsets must land on a host address, never on the broadcast address.
	if hostBits := 32 - prefix.Bits(); hostBits < 63 && offset >= (1<<hostBits)-1 {
		return "", &InvalidCIDRError{
			CIDR: cidr,
			Err:  fmt.Errorf("offset %d for role %s does not fit in /%d", offset, role, prefix.Bits()),
		}
	}

	addr, err := sideronet.NthIPInNetwork(prefix.Masked(), offset)
	if err != nil {
		return "", &InvalidCIDRError{CIDR: cidr, Err: err}
	}
	return addr.String(), nil
}

// addressBook holds every fixed address of one cluster, resolved once.
type addressBook struct {
	Router string
	VPN    string
	NFS    string
	LB     string
	K8SAPI string
}

func allocateAll(cidr string) (addressBook, error) {
	var book addressBook
	targets := []struct {
		role Role
		dst  *string
	}{
		{Router, &book.Router},
		{VPN, &book.VPN},
		{NFS, &book.NFS},
		{LB, &book.LB},
		{K8SAPI, &book.K8SAPI},
	}
	for _, t := range targets {
		ip, err := Allocate(cidr, t.role)
		if err != nil {
			return addressBook{}, err
		}
		*t.dst = ip
	}
	return book, nil
}

// fixedIP returns the static address of a role, or "" for DHCP roles.
func (b addressBook) fixedIP(role Role) string {
	switch role {
	case Router:
		return b.Router
	case VPN:
		return b.VPN
	case NFS:
		return b.NFS
	case LB:
		return b.LB
	default:
		return ""
	}
}
