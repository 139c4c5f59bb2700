package topology

import (
	"fmt"

	"github.com/imamik/kubeprox/internal/config"
)

// Role is a fixed category of cluster node.
type Role string

// Node roles, in expansion order.
const (
	Router     Role = "ROUTER"
	VPN        Role = "VPN"
	NFS        Role = "NFS"
	LB         Role = "LB"
	MasterInit Role = "MASTER_INIT"
	MasterJoin Role = "MASTER_JOIN"
	Worker     Role = "WORKER"
)

// K8SAPI is an address-only role: the Kubernetes API virtual IP. It owns an
// offset in the node network but is never expanded into a VM.
const K8SAPI Role = "K8S_API"

// Roles lists every VM role in the fixed expansion order.
var Roles = []Role{Router, VPN, NFS, LB, MasterInit, MasterJoin, Worker}

// Sizing is the virtual hardware of one VM.
type Sizing struct {
	Cores   int `yaml:"cores"`
	Memory  int `yaml:"memory"`  // MB
	Storage int `yaml:"storage"` // GB
}

// TemplateSet names the templates used to render one role's artifacts.
type TemplateSet struct {
	Script      string
	UserData    string
	NetworkData string
	Playbook    string
}

// roleSpec is the single lookup entry that replaces per-role branching.
type roleSpec struct {
	singleton bool
	// count returns how many instances the role expands to.
	count func(cfg *config.Config) int
	// sizing returns the VM size for the role.
	sizing func(cfg *config.Config) Sizing
	// project adds role-specific template variables.
	project   func(p *projection, vars map[string]string)
	templates TemplateSet
}

var (
	networkSizing = Sizing{Cores: 2, Memory: 2048, Storage: 8}
	storageSizing = Sizing{Cores: 2, Memory: 2048, Storage: 32}
)

func fixed(s Sizing) func(*config.Config) Sizing {
	return func(*config.Config) Sizing { return s }
}

func one(*config.Config) int { return 1 }

func poolSizing(pool func(*config.Config) config.NodePoolConfig) func(*config.Config) Sizing {
	return func(cfg *config.Config) Sizing {
		p := pool(cfg)
		return Sizing{Cores: p.Cores, Memory: p.Memory, Storage: p.Storage}
	}
}

func masterPool(cfg *config.Config) config.NodePoolConfig { return cfg.Master }
func workerPool(cfg *config.Config) config.NodePoolConfig { return cfg.Worker }

func masterJoinCount(cfg *config.Config) int {
	return max(cfg.Master.Count-1, 0)
}

func workerCount(cfg *config.Config) int {
	if cfg.Expansion.WorkerCount == config.WorkerCountExact {
		return max(cfg.Worker.Count, 0)
	}
	return max(cfg.Worker.Count-1, 0)
}

// PlaybookVMTemplate is the template for the shared VM template playbook.
const PlaybookVMTemplate = "playbooks/vm-template.yaml"

const (
	playbookVM         = "playbooks/vm.yaml"
	networkDataStatic  = "cloud-init/network-data-static.yaml"
	networkDataDHCP    = "cloud-init/network-data-dhcp.yaml"
	userDataKubernetes = "cloud-init/user-data-k8s.yaml"
)

var roleTable = map[Role]roleSpec{
	Router: {
		singleton: true,
		count:     one,
		sizing:    fixed(networkSizing),
		project:   projectRouter,
		templates: TemplateSet{
			Script:      "scripts/router.sh",
			UserData:    "cloud-init/user-data-router.yaml",
			NetworkData: "cloud-init/network-data-router.yaml",
			Playbook:    playbookVM,
		},
	},
	VPN: {
		singleton: true,
		count:     one,
		sizing:    fixed(networkSizing),
		project:   projectVPN,
		templates: TemplateSet{
			Script:      "scripts/vpn.sh",
			UserData:    "cloud-init/user-data-vpn.yaml",
			NetworkData: networkDataStatic,
			Playbook:    playbookVM,
		},
	},
	NFS: {
		singleton: true,
		count:     one,
		sizing:    fixed(storageSizing),
		project:   projectNFS,
		templates: TemplateSet{
			Script:      "scripts/nfs.sh",
			UserData:    "cloud-init/user-data-nfs.yaml",
			NetworkData: networkDataStatic,
			Playbook:    playbookVM,
		},
	},
	LB: {
		singleton: true,
		count:     one,
		sizing:    fixed(networkSizing),
		project:   projectLB,
		templates: TemplateSet{
			Script:      "scripts/lb.sh",
			UserData:    "cloud-init/user-data-lb.yaml",
			NetworkData: networkDataStatic,
			Playbook:    playbookVM,
		},
	},
	MasterInit: {
		count:   one,
		sizing:  poolSizing(masterPool),
		project: projectMasterInit,
		templates: TemplateSet{
			Script:      "scripts/k8s-master-init.sh",
			UserData:    userDataKubernetes,
			NetworkData: networkDataDHCP,
			Playbook:    playbookVM,
		},
	},
	MasterJoin: {
		count:   masterJoinCount,
		sizing:  poolSizing(masterPool),
		project: projectJoin,
		templates: TemplateSet{
			Script:      "scripts/k8s-master-join.sh",
			UserData:    userDataKubernetes,
			NetworkData: networkDataDHCP,
			Playbook:    playbookVM,
		},
	},
	Worker: {
		count:   workerCount,
		sizing:  poolSizing(workerPool),
		project: projectJoin,
		templates: TemplateSet{
			Script:      "scripts/k8s-worker.sh",
			UserData:    userDataKubernetes,
			NetworkData: networkDataDHCP,
			Playbook:    playbookVM,
		},
	},
}

func lookupRole(role Role) (roleSpec, error) {
	spec, ok := roleTable[role]
	if !ok {
		return roleSpec{}, fmt.Errorf("unknown node role %q", role)
	}
	return spec, nil
}

// Singleton reports whether the role has exactly one instance per cluster.
func (r Role) Singleton() bool {
	return roleTable[r].singleton
}

// Templates returns the template set for the role.
func (r Role) Templates() (TemplateSet, error) {
	spec, err := lookupRole(r)
	if err != nil {
		return TemplateSet{}, err
	}
	return spec.templates, nil
}

// ParseRole converts a string into a known VM role.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if _, err := lookupRole(role); err != nil {
		return "", err
	}
	return role, nil
}
