package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/kubeprox/internal/config"
	"github.com/imamik/kubeprox/internal/metrics"
	"github.com/imamik/kubeprox/internal/provisioning"
	"github.com/imamik/kubeprox/internal/render"
	"github.com/imamik/kubeprox/internal/templates"
	"github.com/imamik/kubeprox/internal/util/naming"
	"github.com/imamik/kubeprox/internal/util/prerequisites"
)

// RunOptions controls render and apply runs.
type RunOptions struct {
	// ConfigPath is the configuration file; empty means kubeprox.yaml.
	ConfigPath string

	// Parallel bounds concurrent node rendering; 0 or 1 renders sequentially.
	Parallel int

	// MetricsFile receives a Prometheus textfile after the run when set.
	MetricsFile string

	// AllowPartial lets a run continue when some, but not all, nodes failed to render.
	AllowPartial bool

	// Offline skips host lookups and uses the configured fallbacks only.
	Offline bool
}

// Render compiles the configuration and renders every artifact into the
// output directory.
//
// This function runs the following phases:
//  1. validation: configuration and pre-flight checks
//  2. compile: node expansion, addressing and template variables
//  3. render: scripts, cloud-init data, VM playbooks, inventory and plan manifest
//  4. publish: upload to the artifact bucket (only when publish.bucket is set)
func Render(ctx context.Context, opts RunOptions) error {
	return run(ctx, opts, false)
}

// Apply renders all artifacts and then runs the VM template playbook and
// every VM playbook through ansible-playbook.
//
// Failed or unreachable targets do not stop the run; they are listed in the
// summary and make Apply return an error afterwards.
func Apply(ctx context.Context, opts RunOptions) error {
	return run(ctx, opts, true)
}

func run(ctx context.Context, opts RunOptions, apply bool) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	observer, err := newObserver()
	if err != nil {
		return err
	}
	observer = observer.WithFields(map[string]string{"cluster": cfg.ClusterName})

	if err := ensureSSHKey(cfg, observer); err != nil {
		return err
	}

	pctx := provisioning.NewContext(ctx, cfg, observer)
	collector := metrics.NewCollector(cfg.ClusterName)
	pctx.Metrics = collector

	phases, err := buildPhases(ctx, pctx, opts, apply)
	if err != nil {
		return err
	}

	runErr := provisioning.NewPipeline(phases...).Run(pctx)

	if opts.MetricsFile != "" {
		if err := collector.WriteTextfile(opts.MetricsFile); err != nil {
			if runErr == nil {
				return err
			}
			observer.Printf("%v", err)
		}
	}

	printRunSummary(cfg, pctx.State)

	if runErr != nil {
		return runErr
	}

	if result := pctx.State.Result; result != nil && len(result.FailedOrUnreachable) > 0 {
		return fmt.Errorf("%d target(s) failed or were unreachable", len(result.FailedOrUnreachable))
	}

	return nil
}

// buildPhases assembles the pipeline for a render or apply run.
func buildPhases(ctx context.Context, pctx *provisioning.Context, opts RunOptions, apply bool) ([]provisioning.Phase, error) {
	cfg := pctx.Config

	var tools []prerequisites.Tool
	if apply {
		tools = applyTools()
	}

	phases := []provisioning.Phase{
		provisioning.NewValidationPhase(tools...),
		provisioning.NewCompilePhase(newCompiler(opts.Offline, pctx.Timeouts)),
		render.NewPhase(render.NewRenderer(templates.FS()), opts.AllowPartial, render.WithParallelism(opts.Parallel)),
	}

	if cfg.Publish.Enabled() {
		publisher, err := newPublisher(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create publisher: %w", err)
		}
		phases = append(phases, provisioning.NewPublishPhase(publisher))
	}

	if apply {
		phases = append(phases, provisioning.NewApplyPhase(newRunner(cfg, pctx)))
	}

	return phases, nil
}

// newRunner creates the runner for the rendered inventory.
func newRunner(cfg *config.Config, pctx *provisioning.Context) *provisioning.Runner {
	return provisioning.NewRunner(newEngine(), pctx.Observer,
		provisioning.WithInventory(naming.Inventory(cfg.OutputDir)),
		provisioning.WithApplyTimeout(pctx.Timeouts.Apply),
		provisioning.WithRecorder(pctx.Metrics),
	)
}
