package provisioning

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TargetStats are the final counters of one provisioning target.
type TargetStats struct {
	OK          int `json:"ok" yaml:"ok"`
	Changed     int `json:"changed" yaml:"changed"`
	Failures    int `json:"failures" yaml:"failures"`
	Unreachable int `json:"unreachable" yaml:"unreachable"`
	Skipped     int `json:"skipped" yaml:"skipped"`
	Rescued     int `json:"rescued" yaml:"rescued"`
	Ignored     int `json:"ignored" yaml:"ignored"`
}

// Add accumulates other into s.
func (s *TargetStats) Add(other TargetStats) {
	s.OK += other.OK
	s.Changed += other.Changed
	s.Failures += other.Failures
	s.Unreachable += other.Unreachable
	s.Skipped += other.Skipped
	s.Rescued += other.Rescued
	s.Ignored += other.Ignored
}

// Succeeded reports whether the target had no failures and was reachable.
func (s TargetStats) Succeeded() bool {
	return s.Failures == 0 && s.Unreachable == 0
}

// TaskEvent is one progress event emitted by an engine.
type TaskEvent struct {
	Kind   string // "task.started" or "task.result"
	Task   string
	Target string
	Status string // ok, changed, failed, unreachable, skipped
	Msg    string
}

// RunRequest describes one engine invocation.
type RunRequest struct {
	ID        string
	Playbooks []string
	Inventory string
}

// Engine executes playbooks against their targets. It returns the final
// per-target statistics; per-target failures are data, not errors.
type Engine interface {
	Name() string
	Run(ctx context.Context, req RunRequest, onEvent func(TaskEvent)) (map[string]TargetStats, error)
}

// EngineError reports that the engine itself could not run or did not
// produce a result.
type EngineError struct {
	Engine string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("provisioning engine %s failed: %v", e.Engine, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one Apply.
type Result struct {
	RunID               string
	Targets             map[string]TargetStats
	OK                  []string
	FailedOrUnreachable []string
	Duration            time.Duration
}

// Runner applies rendered playbooks through an Engine.
type Runner struct {
	engine    Engine
	observer  Observer
	inventory string
	timeout   time.Duration
	metrics   Recorder
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithInventory sets the inventory file passed to the engine.
func WithInventory(path string) RunnerOption {
	return func(r *Runner) { r.inventory = path }
}

// WithApplyTimeout bounds a whole Apply call.
func WithApplyTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.timeout = d }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(m Recorder) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates a Runner.
func NewRunner(engine Engine, observer Observer, opts ...RunnerOption) *Runner {
	r := &Runner{
		engine:   engine,
		observer: observer,
		metrics:  NopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply runs the playbooks and reduces the engine output to per-target
// outcomes. A target that fails or is unreachable is reported in the
// Result and does not produce an error; only engine failures do.
func (r *Runner) Apply(ctx context.Context, playbooks []string) (*Result, error) {
	if len(playbooks) == 0 {
		return nil, errors.New("no playbooks to apply")
	}
	for _, p := range playbooks {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("playbook %s: %w", p, err)
		}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	observer := r.observer.WithFields(map[string]string{
		"run_id": runID,
		"engine": r.engine.Name(),
	})
	observer.Printf("applying %d playbook(s)", len(playbooks))

	start := time.Now()
	stats, err := r.engine.Run(ctx, RunRequest{
		ID:        runID,
		Playbooks: playbooks,
		Inventory: r.inventory,
	}, func(ev TaskEvent) {
		observer.Event(Event{
			Type:     EventType(ev.Kind),
			Phase:    PhaseApply,
			Resource: ev.Target,
			Message:  ev.Task,
			Fields:   taskFields(ev),
		})
	})
	if err != nil {
		var engineErr *EngineError
		if errors.As(err, &engineErr) {
			return nil, err
		}
		return nil, &EngineError{Engine: r.engine.Name(), Err: err}
	}

	result := &Result{
		RunID:    runID,
		Targets:  stats,
		Duration: time.Since(start),
	}
	for _, target := range slices.Sorted(maps.Keys(stats)) {
		s := stats[target]
		if s.Succeeded() {
			result.OK = append(result.OK, target)
		} else {
			result.FailedOrUnreachable = append(result.FailedOrUnreachable, target)
		}
		observer.Event(Event{
			Type:     EventTargetSummary,
			Phase:    PhaseApply,
			Resource: target,
			Message:  targetSummary(s),
		})
	}
	r.metrics.TargetResults(len(result.OK), len(result.FailedOrUnreachable))
	return result, nil
}

func taskFields(ev TaskEvent) map[string]string {
	fields := map[string]string{}
	if ev.Status != "" {
		fields["status"] = ev.Status
	}
	if ev.Msg != "" {
		fields["msg"] = ev.Msg
	}
	return fields
}

func targetSummary(s TargetStats) string {
	return fmt.Sprintf("ok=%d changed=%d failed=%d unreachable=%d skipped=%d rescued=%d ignored=%d",
		s.OK, s.Changed, s.Failures, s.Unreachable, s.Skipped, s.Rescued, s.Ignored)
}
