package render

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/imamik/kubeprox/internal/topology"
	"github.com/imamik/kubeprox/internal/util/naming"
)

// RenderTemplatePlaybook writes the shared VM template playbook and returns
// its path.
func RenderTemplatePlaybook(r *Renderer, plan *topology.Plan) (string, error) {
	path := naming.TemplatePlaybook(plan.OutputDir)
	if err := r.Render(topology.PlaybookVMTemplate, path, plan.TemplateVars); err != nil {
		return "", fmt.Errorf("failed to render VM template playbook: %w", err)
	}
	return path, nil
}

// WriteManifest writes the plan as YAML and returns its path.
func WriteManifest(plan *topology.Plan) (string, error) {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan: %w", err)
	}
	path := naming.PlanManifest(plan.OutputDir)
	if err := WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Inventory is an Ansible YAML inventory.
type Inventory struct {
	All InventoryGroup `yaml:"all"`
}

// InventoryGroup is one inventory group.
type InventoryGroup struct {
	Vars     map[string]string            `yaml:"vars,omitempty"`
	Hosts    map[string]map[string]string `yaml:"hosts,omitempty"`
	Children map[string]InventoryGroup    `yaml:"children,omitempty"`
}

// HypervisorGroup is the group the VM playbooks target.
const HypervisorGroup = "hypervisor"

// BuildInventory groups every planned node by role. VM playbooks run
// against the hypervisor group, which holds the Proxmox node itself.
func BuildInventory(plan *topology.Plan, proxmoxNode string) Inventory {
	inv := Inventory{All: InventoryGroup{
		Vars: map[string]string{
			"cluster_name": plan.ClusterName,
			"domain":       plan.Domain,
			"proxmox_node": proxmoxNode,
		},
		Children: map[string]InventoryGroup{
			HypervisorGroup: {
				Hosts: map[string]map[string]string{
					proxmoxNode: {"ansible_user": "root"},
				},
			},
		},
	}}

	for _, n := range plan.Nodes {
		group := strings.ToLower(string(n.Role))
		g := inv.All.Children[group]
		if g.Hosts == nil {
			g.Hosts = make(map[string]map[string]string)
		}
		host := map[string]string{
			"vmid": fmt.Sprint(n.VMID),
			"role": string(n.Role),
		}
		if n.Static() {
			host["ansible_host"] = n.IP
		} else {
			host["ansible_host"] = n.Name() + "." + plan.Domain
		}
		g.Hosts[n.Name()] = host
		inv.All.Children[group] = g
	}
	return inv
}

// WriteInventory writes the inventory for plan and returns its path.
func WriteInventory(plan *topology.Plan, proxmoxNode string) (string, error) {
	data, err := yaml.Marshal(BuildInventory(plan, proxmoxNode))
	if err != nil {
		return "", fmt.Errorf("failed to marshal inventory: %w", err)
	}
	path := naming.Inventory(plan.OutputDir)
	if err := WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}
