package async

import (
	"context"
	"fmt"
	"sync"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Run executes tasks concurrently, at most limit at a time (limit <= 0 means
// no limit), and waits for all of them. Unlike a first-error group, a failing
// task never stops its siblings: the returned slice has one entry per task, in
// task order, holding that task's error or nil.
//
// Example:
//
//	errs := Run(ctx, []Task{
//	    {Name: "ROUTER-1", Func: renderRouter},
//	    {Name: "VPN-2", Func: renderVPN},
//	}, 4)
func Run(ctx context.Context, tasks []Task, limit int) []error {
	errs := make([]error, len(tasks))
	if len(tasks) == 0 {
		return errs
	}

	if limit <= 0 || limit > len(tasks) {
		limit = len(tasks)
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[i] = fmt.Errorf("%s not started: %w", task.Name, ctx.Err())
				return
			}
			defer func() { <-sem }()

			errs[i] = task.Func(ctx)
		}()
	}
	wg.Wait()

	return errs
}

// RunSequential executes tasks one after another in order with the same
// per-task error semantics as Run.
func RunSequential(ctx context.Context, tasks []Task) []error {
	errs := make([]error, len(tasks))
	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			errs[i] = fmt.Errorf("%s not started: %w", task.Name, err)
			continue
		}
		errs[i] = task.Func(ctx)
	}
	return errs
}
