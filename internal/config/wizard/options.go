package wizard

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/imamik/kubeprox/internal/config"
)

// SizingOption is a named cores/memory/storage preset for an elastic role.
type SizingOption struct {
	Value       string
	Label       string
	Cores       int
	Memory      int // MB
	Storage     int // GB
	Description string
}

// MasterSizings contains presets for master nodes.
var MasterSizings = []SizingOption{
	{Value: "small", Label: "small", Cores: 2, Memory: 4096, Storage: 32, Description: "2 cores, 4GB RAM, 32GB disk"},
	{Value: "medium", Label: "medium", Cores: 4, Memory: 8192, Storage: 64, Description: "4 cores, 8GB RAM, 64GB disk"},
	{Value: "large", Label: "large", Cores: 8, Memory: 16384, Storage: 128, Description: "8 cores, 16GB RAM, 128GB disk"},
}

// WorkerSizings contains presets for worker nodes.
var WorkerSizings = []SizingOption{
	{Value: "small", Label: "small", Cores: 2, Memory: 4096, Storage: 32, Description: "2 cores, 4GB RAM, 32GB disk"},
	{Value: "medium", Label: "medium", Cores: 4, Memory: 8192, Storage: 64, Description: "4 cores, 8GB RAM, 64GB disk"},
	{Value: "large", Label: "large", Cores: 8, Memory: 16384, Storage: 128, Description: "8 cores, 16GB RAM, 128GB disk"},
	{Value: "xlarge", Label: "xlarge", Cores: 16, Memory: 32768, Storage: 256, Description: "16 cores, 32GB RAM, 256GB disk"},
}

// MasterCountOptions contains valid master counts.
var MasterCountOptions = []huh.Option[int]{
	huh.NewOption("1 (Single master)", 1),
	huh.NewOption("3 (HA - Recommended)", 3),
	huh.NewOption("5 (HA - Large)", 5),
}

// WorkerModeOptions explains the two worker count modes.
var WorkerModeOptions = []huh.Option[string]{
	huh.NewOption("exact - worker.count workers", config.WorkerCountExact),
	huh.NewOption("legacy - worker.count minus one workers", config.WorkerCountLegacy),
}

// Wizard defaults.
const (
	DefaultDomain        = "k8s.lan"
	DefaultNodeCIDR      = "10.0.0.0/24"
	DefaultPodCIDR       = "10.244.0.0/16"
	DefaultServiceCIDR   = "10.96.0.0/12"
	DefaultVPNCIDR       = "10.8.0.0/24"
	DefaultStorageTarget = "local-lvm"
	DefaultNetworkBridge = "vmbr1"
	DefaultTemplateID    = 9000
	DefaultVMIDStart     = 100
	DefaultSizing        = "medium"
)

// SizingsToOptions converts sizing presets to huh options.
func SizingsToOptions(sizings []SizingOption) []huh.Option[string] {
	opts := make([]huh.Option[string], len(sizings))
	for i, s := range sizings {
		opts[i] = huh.NewOption(fmt.Sprintf("%s - %s", s.Label, s.Description), s.Value)
	}
	return opts
}

// FindSizing returns the preset with the given value.
func FindSizing(sizings []SizingOption, value string) (SizingOption, bool) {
	for _, s := range sizings {
		if s.Value == value {
			return s, true
		}
	}
	return SizingOption{}, false
}
