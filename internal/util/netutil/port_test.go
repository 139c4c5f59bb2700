package netutil

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return port
}

func TestWaitForPort_Open(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	err = WaitForPort(context.Background(), "127.0.0.1", port, 2*time.Second, 50*time.Millisecond)
	assert.NoError(t, err)
}

func TestWaitForPort_Timeout(t *testing.T) {
	t.Parallel()
	port := freePort(t)
	start := time.Now()

	err := WaitForPort(context.Background(), "127.0.0.1", port, 200*time.Millisecond, 50*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for 127.0.0.1:"+strconv.Itoa(port))
	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}

func TestWaitForPort_Cancelled(t *testing.T) {
	t.Parallel()
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitForPort(ctx, "127.0.0.1", port, time.Second, 50*time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitForPort_DelayedListener(t *testing.T) {
	t.Parallel()
	port := freePort(t)
	address := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

	done := make(chan struct{})
	go func() {
		time.Sleep(200 * time.Millisecond)
		ln, err := net.Listen("tcp", address)
		if err != nil {
			return
		}
		<-done
		_ = ln.Close()
	}()
	defer close(done)

	err := WaitForPort(context.Background(), "127.0.0.1", port, 3*time.Second, 50*time.Millisecond)
	assert.NoError(t, err)
}
