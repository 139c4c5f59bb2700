package provisioning

import (
	"fmt"
	"net/netip"
	"os"
	"strings"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/util/prerequisites"
)

// PhaseValidation is the name of the pre-flight phase.
const PhaseValidation = "validation"

// Severity levels of a ValidationError.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a pre-flight error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == SeverityError
}

// ValidationPhase implements the Phase interface for pre-flight validation.
// It runs the configuration schema checks and then the checks that need the
// environment: range overlaps, the output directory and required tools.
type ValidationPhase struct {
	tools []prerequisites.Tool
}

// NewValidationPhase creates a new validation phase. Required tools are
// looked up on PATH; pass prerequisites.ApplyTools() when the run applies.
func NewValidationPhase(tools ...prerequisites.Tool) *ValidationPhase {
	return &ValidationPhase{tools: tools}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return PhaseValidation
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	if err := ctx.Config.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	var errs []string
	for _, ve := range vp.validate(ctx.Config) {
		if ve.IsError() {
			errs = append(errs, ve.Error())
			continue
		}
		LogWarning(ctx.Observer, PhaseValidation, ve.Message)
	}
	if len(errs) > 0 {
		return fmt.Errorf("pre-flight validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// validate runs all environment checks and returns any errors or warnings.
func (vp *ValidationPhase) validate(cfg *config.Config) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateOverlaps(cfg)...)
	errs = append(errs, validatePools(cfg)...)
	errs = append(errs, validateOutputDir(cfg.OutputDir)...)

	if cfg.Proxmox.SSHPublicKey == "" {
		errs = append(errs, ValidationError{
			Field:    "proxmox.ssh_public_key",
			Message:  "no SSH public key configured, nodes will only accept password logins",
			Severity: SeverityWarning,
		})
	}

	if len(vp.tools) > 0 {
		results := prerequisites.Check(vp.tools, false)
		if err := results.Error(); err != nil {
			errs = append(errs, ValidationError{
				Field:    "tools",
				Message:  err.Error(),
				Severity: SeverityError,
			})
		}
		for _, tool := range results.Missing() {
			if !tool.Required {
				errs = append(errs, ValidationError{
					Field:    "tools",
					Message:  fmt.Sprintf("optional tool %s not found in PATH (%s)", tool.Name, tool.Description),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return errs
}

func validateOverlaps(cfg *config.Config) []ValidationError {
	ranges := []struct {
		field string
		cidr  string
	}{
		{"network.node_cidr", cfg.Network.NodeCIDR},
		{"network.pod_cidr", cfg.Network.PodCIDR},
		{"network.service_cidr", cfg.Network.ServiceCIDR},
		{"network.vpn_cidr", cfg.Network.VPNCIDR},
	}

	var errs []ValidationError
	for i := range ranges {
		a, err := netip.ParsePrefix(ranges[i].cidr)
		if err != nil {
			continue
		}
		for j := i + 1; j < len(ranges); j++ {
			b, err := netip.ParsePrefix(ranges[j].cidr)
			if err != nil {
				continue
			}
			if a.Masked().Overlaps(b.Masked()) {
				errs = append(errs, ValidationError{
					Field:    ranges[j].field,
					Message:  fmt.Sprintf("%s overlaps %s (%s)", ranges[j].cidr, ranges[i].field, ranges[i].cidr),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

func validatePools(cfg *config.Config) []ValidationError {
	var errs []ValidationError
	if cfg.Master.Count > 1 && cfg.Master.Count%2 == 0 {
		errs = append(errs, ValidationError{
			Field:    "master.count",
			Message:  fmt.Sprintf("%d masters tolerate no more failures than %d", cfg.Master.Count, cfg.Master.Count-1),
			Severity: SeverityWarning,
		})
	}
	if cfg.Expansion.WorkerCount == config.WorkerCountLegacy && cfg.Worker.Count == 1 {
		errs = append(errs, ValidationError{
			Field:    "worker.count",
			Message:  "worker.count 1 yields no worker nodes with expansion.worker_count legacy",
			Severity: SeverityWarning,
		})
	}
	return errs
}

func validateOutputDir(dir string) []ValidationError {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return []ValidationError{{Field: "output_dir", Message: err.Error(), Severity: SeverityError}}
	case !info.IsDir():
		return []ValidationError{{
			Field:    "output_dir",
			Message:  fmt.Sprintf("%s exists and is not a directory", dir),
			Severity: SeverityError,
		}}
	}
	return nil
}
