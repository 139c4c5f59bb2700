// Package prerequisites checks that the client tools a provisioning run
// shells out to are installed.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Tool is an executable looked up on PATH.
type Tool struct {
	Name        string
	Required    bool
	Description string
	InstallURL  string
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// ApplyTools returns the tools the apply phase runs: ansible-playbook drives
// the VM playbooks and reaches the hypervisor through the OpenSSH client.
func ApplyTools() []Tool {
	return []Tool{
		{
			Name:        "ansible-playbook",
			Required:    true,
			Description: "runs the rendered VM playbooks",
			InstallURL:  "https://docs.ansible.com/ansible/latest/installation_guide/",
		},
		{
			Name:        "ssh",
			Required:    true,
			Description: "transport for ansible connections to the hypervisor",
			InstallURL:  "https://www.openssh.com/portable.html",
		},
		{
			Name:        "kubectl",
			Description: "inspects the cluster with the fetched kubeconfig",
			InstallURL:  "https://kubernetes.io/docs/tasks/tools/",
		},
	}
}

// CheckResult is the outcome for one tool.
type CheckResult struct {
	Tool    Tool
	Path    string
	Version string
}

// Found reports whether the tool was located on PATH.
func (r CheckResult) Found() bool {
	return r.Path != ""
}

// CheckResults holds the outcome for a set of tools, in input order.
type CheckResults struct {
	Results []CheckResult
}

// Missing returns the tools that were not found.
func (r *CheckResults) Missing() []Tool {
	var missing []Tool
	for _, res := range r.Results {
		if !res.Found() {
			missing = append(missing, res.Tool)
		}
	}
	return missing
}

// Error returns one error per missing required tool, or nil.
func (r *CheckResults) Error() error {
	var result *multierror.Error
	for _, tool := range r.Missing() {
		if tool.Required {
			result = multierror.Append(result, fmt.Errorf("%s not found in PATH (%s): install from %s", tool.Name, tool.Description, tool.InstallURL))
		}
	}
	return result.ErrorOrNil()
}

// Check looks up every tool on PATH. Versions are read only when withVersion
// is set since that executes the tool.
func Check(tools []Tool, withVersion bool) *CheckResults {
	results := &CheckResults{Results: make([]CheckResult, 0, len(tools))}
	for _, tool := range tools {
		res := CheckResult{Tool: tool}
		if path, err := lookPath(tool.Name); err == nil {
			res.Path = path
			if withVersion {
				res.Version = toolVersion(path)
			}
		}
		results.Results = append(results.Results, res)
	}
	return results
}

// toolVersion returns the first line of "<tool> --version", or "".
func toolVersion(path string) string {
	// #nosec G204 - path comes from exec.LookPath on a fixed tool name
	output, err := exec.Command(path, "--version").Output()
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(string(output), "\n")
	return strings.TrimSpace(first)
}
