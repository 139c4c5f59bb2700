package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/imamik/kubeprox/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 30
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// Config holds SSH client configuration. Zero durations and counts take
// the package defaults.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	DialTimeout time.Duration
	MaxRetries  int
	RetryDelay  time.Duration

	// KnownHostsFile pins host keys from an OpenSSH known_hosts file. Without
	// it and without HostKeyCallback any host key is accepted, since nodes get
	// fresh host keys each time they are recreated.
	KnownHostsFile  string
	HostKeyCallback ssh.HostKeyCallback
}

func (c Config) validate() error {
	switch {
	case c.Host == "":
		return errors.New("config host cannot be empty")
	case c.User == "":
		return errors.New("config user cannot be empty")
	case len(c.PrivateKey) == 0:
		return errors.New("config private key cannot be empty")
	}
	return nil
}

func (c Config) withDefaults() (Config, error) {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = defaultDialTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.HostKeyCallback == nil && c.KnownHostsFile != "" {
		cb, err := knownhosts.New(c.KnownHostsFile)
		if err != nil {
			return c, fmt.Errorf("failed to load known hosts: %w", err)
		}
		c.HostKeyCallback = cb
	}
	if c.HostKeyCallback == nil {
		c.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // nodes are re-created with new host keys
	}
	return c, nil
}

// Client runs commands on one node. The key is parsed once; a connection is
// opened per call.
type Client struct {
	config Config
	signer ssh.Signer
}

// NewClient validates cfg and parses its private key. cfg is not modified.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	resolved, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	signer, err := ssh.ParsePrivateKey(resolved.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return &Client{config: resolved, signer: signer}, nil
}

// Execute runs a command on the remote host and returns its stdout.
// Connection attempts are retried; the command itself is not.
func (c *Client) Execute(ctx context.Context, command string) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	return c.runCommand(client, command)
}

// ReadFile returns the content of a remote file, read with sudo.
func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	out, err := c.Execute(ctx, "sudo cat "+shellQuote(path))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func (c *Client) addr() string {
	return net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
}

// connect establishes SSH connection with retry logic.
func (c *Client) connect(ctx context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User: c.config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(c.signer),
		},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := c.addr()
	var client *ssh.Client

	err := retry.Do(ctx, func(ctx context.Context) error {
		var dialErr error
		client, dialErr = dial(ctx, addr, config)
		if dialErr != nil && isPermanent(dialErr) {
			return retry.Fatal(dialErr)
		}
		return dialErr
	},
		retry.WithMaxRetries(c.config.MaxRetries),
		retry.WithInitialDelay(c.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
		retry.WithJitter(0.2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	return client, nil
}

// dial is ssh.Dial with a context-aware TCP connect.
func dial(ctx context.Context, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	d := net.Dialer{Timeout: config.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	_ = conn.SetDeadline(time.Time{})
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// isPermanent reports a rejected key or an unexpected host key; retrying
// will not help.
func isPermanent(err error) bool {
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") || strings.Contains(msg, "knownhosts: key")
}

// runCommand executes a command on an established SSH session.
func (c *Client) runCommand(client *ssh.Client, command string) (string, error) {
	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session on %s: %w", c.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	if err := session.Run(command); err != nil {
		return stdout.String(), fmt.Errorf("command failed on %s: %w\nCommand: %s\nOutput: %s",
			c.config.Host, err, command, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
