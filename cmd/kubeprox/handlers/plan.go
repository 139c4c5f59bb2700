package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/kubeprox/internal/provisioning"
)

// PlanOptions controls the plan command.
type PlanOptions struct {
	ConfigPath string
	Offline    bool
}

// Plan compiles the configuration and prints the node table without
// writing any file.
func Plan(ctx context.Context, opts PlanOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	observer, err := newObserver()
	if err != nil {
		return err
	}

	pctx := provisioning.NewContext(ctx, cfg, observer)
	pipeline := provisioning.NewPipeline(
		provisioning.NewValidationPhase(),
		provisioning.NewCompilePhase(newCompiler(opts.Offline, pctx.Timeouts)),
	)
	if err := pipeline.Run(pctx); err != nil {
		return err
	}

	fmt.Print(renderPlanTable(pctx.State.Plan, stdoutIsTerminal()))
	return nil
}
