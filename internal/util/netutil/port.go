// Package netutil provides TCP reachability checks for cluster endpoints.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// KubeAPIPort is the port kube-apiserver listens on behind the load balancer.
	KubeAPIPort = 6443

	// KubeAPIWaitTimeout is the default wait for the Kubernetes API to come up.
	KubeAPIWaitTimeout = 10 * time.Minute

	dialTimeout = 2 * time.Second
)

// WaitForPort polls ip:port every interval until a TCP connection succeeds,
// timeout elapses or ctx is done.
func WaitForPort(ctx context.Context, ip string, port int, timeout, interval time.Duration) error {
	address := net.JoinHostPort(ip, strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if dial(ctx, address) {
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("timeout waiting for %s after %s", address, timeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func dial(ctx context.Context, address string) bool {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
