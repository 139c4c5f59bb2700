package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/provisioning"
	"github.com/imamik/kubeprox/internal/topology"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	failStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// painter applies styles only when writing to a terminal.
type painter bool

func (p painter) paint(style lipgloss.Style, text string) string {
	if !p {
		return text
	}
	return style.Render(text)
}

// planColumns are the node table headers.
var planColumns = []string{"ID", "HOSTNAME", "ROLE", "VMID", "CORES", "MEMORY", "DISK", "ADDRESS"}

// renderPlanTable produces the node table printed by plan.
func renderPlanTable(plan *topology.Plan, styled bool) string {
	p := painter(styled)
	rows := make([][]string, 0, len(plan.Nodes))
	for _, n := range plan.Nodes {
		addr := n.IP
		if addr == "" {
			addr = "dhcp"
		}
		rows = append(rows, []string{
			fmt.Sprint(n.ID),
			n.Hostname,
			string(n.Role),
			fmt.Sprint(n.VMID),
			fmt.Sprint(n.Sizing.Cores),
			fmt.Sprintf("%d MB", n.Sizing.Memory),
			fmt.Sprintf("%d GB", n.Sizing.Storage),
			addr,
		})
	}

	widths := make([]int, len(planColumns))
	for i, h := range planColumns {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(p.paint(titleStyle, fmt.Sprintf("  kubeprox plan: %s (%s)", plan.ClusterName, plan.Domain)))
	b.WriteString("\n\n")
	b.WriteString(p.paint(sectionStyle, "  "+formatRow(planColumns, widths)))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("  " + formatRow(row, widths))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.paint(dimStyle, fmt.Sprintf("  Public IP: %s  DNS: %s, %s  Kubernetes API: %s",
		plan.Facts.PublicIP, plan.Facts.DNSPrimary, plan.Facts.DNSSecondary, plan.Facts.KubernetesAPI)))
	b.WriteString("\n")

	for _, w := range plan.Warnings {
		b.WriteString(p.paint(failStyle, "  ! "+w))
		b.WriteString("\n")
	}

	return b.String()
}

func formatRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}

// renderRunSummary produces the summary printed after render and apply.
func renderRunSummary(cfg *config.Config, state *provisioning.State, styled bool) string {
	p := painter(styled)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(p.paint(titleStyle, fmt.Sprintf("  kubeprox: %s", cfg.ClusterName)))
	b.WriteString("\n")
	b.WriteString(p.paint(dimStyle, "  "+strings.Repeat("─", 35)))
	b.WriteString("\n")

	if len(state.Instances) > 0 {
		rendered := len(state.Rendered())
		b.WriteString(fmt.Sprintf("  Rendered:  %d of %d node(s) into %s\n", rendered, len(state.Instances), cfg.OutputDir))
		for _, f := range state.Failed() {
			b.WriteString(p.paint(failStyle, fmt.Sprintf("    ✗ %s: %v", f.Hostname, f.Err)))
			b.WriteString("\n")
		}
	}

	if len(state.Published) > 0 {
		b.WriteString(fmt.Sprintf("  Published: %d object(s) to %s\n", len(state.Published), cfg.Publish.Bucket))
	}

	if r := state.Result; r != nil {
		b.WriteString("\n")
		b.WriteString(p.paint(sectionStyle, "  Targets"))
		b.WriteString(p.paint(dimStyle, fmt.Sprintf("  (run %s, %v)", r.RunID, r.Duration.Round(time.Millisecond))))
		b.WriteString("\n")
		for _, target := range r.OK {
			b.WriteString(p.paint(okStyle, "    ✓ "+target))
			b.WriteString("\n")
		}
		for _, target := range r.FailedOrUnreachable {
			s := r.Targets[target]
			b.WriteString(p.paint(failStyle, fmt.Sprintf("    ✗ %s (failed=%d unreachable=%d)", target, s.Failures, s.Unreachable)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// printRunSummary writes the run summary to stdout.
func printRunSummary(cfg *config.Config, state *provisioning.State) {
	if state.Plan == nil {
		return
	}
	fmt.Print(renderRunSummary(cfg, state, stdoutIsTerminal()))
}
