// Package retry retries transient failures with capped exponential backoff.
//
// It backs the public IP lookup and the SSH dial; a provisioning run itself
// is never retried.
package retry
