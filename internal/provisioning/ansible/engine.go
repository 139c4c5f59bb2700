package ansible

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/imamik/kubeprox/internal/provisioning"
)

// DefaultBinary is the playbook runner looked up on PATH.
const DefaultBinary = "ansible-playbook"

// WorkdirEnv names the directory playbooks resolve relative artifact paths against.
const WorkdirEnv = "KUBEPROX_WORKDIR"

const stderrTailLines = 20

// Exit codes of ansible-playbook that still carry a complete stats record.
const (
	exitHostFailed      = 2
	exitHostUnreachable = 3
)

// Engine runs playbooks through the ansible-playbook binary.
type Engine struct {
	// Binary is the ansible-playbook executable. Defaults to DefaultBinary.
	Binary string

	// Workdir is exported as KUBEPROX_WORKDIR. Defaults to the current directory.
	Workdir string

	// ExtraArgs are appended before the playbook paths.
	ExtraArgs []string
}

// NewEngine creates an Engine with default settings.
func NewEngine() *Engine {
	return &Engine{Binary: DefaultBinary}
}

// Name implements provisioning.Engine.
func (e *Engine) Name() string {
	return "ansible"
}

// Run implements provisioning.Engine. All playbooks are passed to a single
// ansible-playbook invocation; stats of every play are summed per host.
func (e *Engine) Run(ctx context.Context, req provisioning.RunRequest, onEvent func(provisioning.TaskEvent)) (map[string]provisioning.TargetStats, error) {
	workdir := e.Workdir
	if workdir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, e.fail(fmt.Errorf("failed to resolve working directory: %w", err))
		}
		workdir = wd
	}

	// #nosec G204 - arguments are paths produced by the render phase
	cmd := exec.CommandContext(ctx, e.binary(), e.args(req)...)
	cmd.Dir = workdir
	cmd.Env = append(os.Environ(),
		"ANSIBLE_STDOUT_CALLBACK=ansible.posix.jsonl",
		"ANSIBLE_CALLBACKS_ENABLED=ansible.posix.jsonl",
		"ANSIBLE_HOST_KEY_CHECKING=False",
		"ANSIBLE_FORCE_COLOR=0",
		WorkdirEnv+"="+workdir,
		"KUBEPROX_RUN_ID="+req.ID,
	)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, e.fail(err)
	}
	stderr := &tailBuffer{max: stderrTailLines}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, e.fail(fmt.Errorf("failed to start %s: %w", e.binary(), err))
	}

	res, parseErr := parseStream(stdout, onEvent)
	// Drain so Wait never blocks on a full pipe after a parse error.
	_, _ = io.Copy(io.Discard, stdout)
	waitErr := cmd.Wait()

	if parseErr != nil {
		return nil, e.fail(parseErr)
	}
	if ctx.Err() != nil {
		return nil, e.fail(fmt.Errorf("interrupted: %w", ctx.Err()))
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, e.fail(waitErr)
		}
		code := exitErr.ExitCode()
		if !res.hasStats || (code != exitHostFailed && code != exitHostUnreachable) {
			return nil, e.fail(fmt.Errorf("exit status %d: %s", code, stderr.String()))
		}
	}
	if !res.hasStats {
		return nil, e.fail(errors.New("no stats record in callback output"))
	}
	return res.stats, nil
}

func (e *Engine) binary() string {
	if e.Binary == "" {
		return DefaultBinary
	}
	return e.Binary
}

func (e *Engine) args(req provisioning.RunRequest) []string {
	var args []string
	if req.Inventory != "" {
		args = append(args, "-i", req.Inventory)
	}
	args = append(args, e.ExtraArgs...)
	return append(args, req.Playbooks...)
}

func (e *Engine) fail(err error) error {
	return &provisioning.EngineError{Engine: e.Name(), Err: err}
}

// tailBuffer keeps the last max lines written to it.
type tailBuffer struct {
	mu      sync.Mutex
	max     int
	lines   []string
	partial string
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	parts := strings.Split(b.partial+string(p), "\n")
	b.partial = parts[len(parts)-1]
	b.lines = append(b.lines, parts[:len(parts)-1]...)
	if over := len(b.lines) - b.max; over > 0 {
		b.lines = b.lines[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := b.lines
	if b.partial != "" {
		lines = append(lines[:len(lines):len(lines)], b.partial)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
