// Package async provides utilities for parallel task execution with
// per-task error collection.
//
// [Run] fans independent tasks out over a bounded number of goroutines and
// reports every task's outcome in task order, so callers can keep results
// deterministic while rendering node artifacts concurrently.
package async
