package naming

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Naming functions for planned nodes and their generated artifacts.
// Every path is a pure function of the role and hostname so that re-planning
// the same configuration overwrites the same files.

// Hostname is the identity of a node instance: "{ROLE}-{id}" with the global id.
func Hostname(role string, id int) string {
	return fmt.Sprintf("%s-%d", role, id)
}

// DNSName converts a hostname into a DNS-safe lower-case label,
// e.g. "MASTER_INIT-5" becomes "master-init-5".
func DNSName(hostname string) string {
	return strings.ToLower(strings.ReplaceAll(hostname, "_", "-"))
}

// RoleDir is the directory segment used for a role, e.g. "master-join".
func RoleDir(role string) string {
	return DNSName(role)
}

func CloudInitDir(outDir, role, hostname string) string {
	return filepath.Join(outDir, "cloud-init", RoleDir(role), hostname)
}

func UserData(outDir, role, hostname string) string {
	return filepath.Join(CloudInitDir(outDir, role, hostname), "user-data.yaml")
}

func NetworkData(outDir, role, hostname string) string {
	return filepath.Join(CloudInitDir(outDir, role, hostname), "network-data.yaml")
}

func VMPlaybook(outDir, hostname string) string {
	return filepath.Join(outDir, "playbooks", hostname+".yaml")
}

func TemplatePlaybook(outDir string) string {
	return filepath.Join(outDir, "playbooks", "vm-template.yaml")
}

func Inventory(outDir string) string {
	return filepath.Join(outDir, "inventory.yaml")
}

func PlanManifest(outDir string) string {
	return filepath.Join(outDir, "plan.yaml")
}

func SSHDir(outDir string) string {
	return filepath.Join(outDir, "ssh")
}

// Snippet is the file name a cloud-init artifact gets on Proxmox snippet
// storage, e.g. "worker-9-user-data.yaml".
func Snippet(hostname, kind string) string {
	return fmt.Sprintf("%s-%s.yaml", DNSName(hostname), kind)
}
