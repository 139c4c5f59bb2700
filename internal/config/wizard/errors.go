package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errClusterNameRequired = errors.New("cluster name is required")
	errClusterNameInvalid  = errors.New("cluster name must be 1-32 lowercase alphanumeric characters or hyphens, starting and ending with alphanumeric")
	errDomainInvalid       = errors.New("domain must be a DNS name such as k8s.lan")
	errCIDRRequired        = errors.New("CIDR is required")
	errCIDRInvalid         = errors.New("invalid CIDR format (expected: x.x.x.x/xx)")
	errValueRequired       = errors.New("value is required")
	errPositiveNumber      = errors.New("must be a positive whole number")
	errCountInvalid        = errors.New("must be zero or a positive whole number")
	errPasswordTooShort    = errors.New("password must be at least 8 characters")
	errPasswordChars       = errors.New("password must not contain double quotes, backslashes or control characters")
)
