package topology

import (
	"errors"
	"fmt"
)

// ErrAddressAllocation matches every address allocation failure.
var ErrAddressAllocation = errors.New("address allocation failed")

// InvalidRoleError is returned when a role has no fixed address offset.
type InvalidRoleError struct {
	Role Role
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("role %q has no fixed address offset", e.Role)
}

// Is lets errors.Is match ErrAddressAllocation.
func (e *InvalidRoleError) Is(target error) bool {
	return target == ErrAddressAllocation
}

// InvalidCIDRError is returned when a CIDR cannot be parsed or cannot hold
// the requested offset.
type InvalidCIDRError struct {
	CIDR string
	Err  error
}

func (e *InvalidCIDRError) Error() string {
	return fmt.Sprintf("invalid CIDR %q: %v", e.CIDR, e.Err)
}

func (e *InvalidCIDRError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrAddressAllocation.
func (e *InvalidCIDRError) Is(target error) bool {
	return target == ErrAddressAllocation
}

// ExternalLookupError reports that a host-environment lookup failed and no
// configured fallback was available.
type ExternalLookupError struct {
	Lookup   string
	Fallback string
	Err      error
}

func (e *ExternalLookupError) Error() string {
	return fmt.Sprintf("%s lookup failed and %s is not set: %v", e.Lookup, e.Fallback, e.Err)
}

func (e *ExternalLookupError) Unwrap() error {
	return e.Err
}
