package ansible

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/imamik/kubeprox/internal/provisioning"
)

// Callback event names emitted by the ansible.posix.jsonl stdout callback.
const (
	eventTaskStart   = "v2_playbook_on_task_start"
	eventRunnerOK    = "v2_runner_on_ok"
	eventFailed      = "v2_runner_on_failed"
	eventSkipped     = "v2_runner_on_skipped"
	eventUnreachable = "v2_runner_on_unreachable"
	eventStats       = "v2_playbook_on_stats"
)

const maxLineSize = 4 * 1024 * 1024

type callbackLine struct {
	Event string                              `json:"_event"`
	Task  *callbackTask                       `json:"task,omitempty"`
	Hosts map[string]callbackHostResult       `json:"hosts,omitempty"`
	Stats map[string]provisioning.TargetStats `json:"stats,omitempty"`
}

type callbackTask struct {
	Name string `json:"name"`
}

type callbackHostResult struct {
	Changed bool   `json:"changed"`
	Msg     string `json:"msg"`
	Stderr  string `json:"stderr"`
}

// streamResult is what one playbook run reported.
type streamResult struct {
	stats    map[string]provisioning.TargetStats
	hasStats bool
}

// parseStream reads callback lines from r, forwarding task events to
// onEvent. Lines that are not JSON objects are ignored; ansible prints
// warnings on stdout before the callback takes over.
func parseStream(r io.Reader, onEvent func(provisioning.TaskEvent)) (streamResult, error) {
	res := streamResult{stats: map[string]provisioning.TargetStats{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(raw, "{") {
			continue
		}
		var line callbackLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			continue
		}
		handleLine(line, &res, onEvent)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("failed to read callback output: %w", err)
	}
	return res, nil
}

func handleLine(line callbackLine, res *streamResult, onEvent func(provisioning.TaskEvent)) {
	taskName := ""
	if line.Task != nil {
		taskName = line.Task.Name
	}

	switch line.Event {
	case eventTaskStart:
		emit(onEvent, provisioning.TaskEvent{
			Kind: string(provisioning.EventTaskStarted),
			Task: taskName,
		})
	case eventRunnerOK, eventFailed, eventSkipped, eventUnreachable:
		for host, result := range line.Hosts {
			emit(onEvent, provisioning.TaskEvent{
				Kind:   string(provisioning.EventTaskResult),
				Task:   taskName,
				Target: host,
				Status: runnerStatus(line.Event, result),
				Msg:    resultMessage(result),
			})
		}
	case eventStats:
		res.hasStats = true
		for host, stats := range line.Stats {
			total := res.stats[host]
			total.Add(stats)
			res.stats[host] = total
		}
	}
}

func runnerStatus(event string, result callbackHostResult) string {
	switch event {
	case eventFailed:
		return "failed"
	case eventSkipped:
		return "skipped"
	case eventUnreachable:
		return "unreachable"
	}
	if result.Changed {
		return "changed"
	}
	return "ok"
}

func resultMessage(result callbackHostResult) string {
	if result.Msg != "" {
		return result.Msg
	}
	return strings.TrimSpace(result.Stderr)
}

func emit(onEvent func(provisioning.TaskEvent), ev provisioning.TaskEvent) {
	if onEvent != nil {
		onEvent(ev)
	}
}
