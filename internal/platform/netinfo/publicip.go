package netinfo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/imamik/kubeprox/internal/util/retry"
)

// DefaultPublicIPURL answers with the caller's IPv4 address as plain text.
const DefaultPublicIPURL = "https://ipv4.icanhazip.com"

// maxBodySize bounds the response body; an address is a few bytes.
const maxBodySize = 256

// PublicIPResolver fetches the public IPv4 address over HTTP.
type PublicIPResolver struct {
	URL        string
	HTTPClient *http.Client
	Retry      []retry.Option
}

// NewPublicIPResolver creates a resolver against DefaultPublicIPURL.
func NewPublicIPResolver(opts ...retry.Option) *PublicIPResolver {
	return &PublicIPResolver{
		URL:        DefaultPublicIPURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Retry:      opts,
	}
}

// PublicIP returns the host's public IPv4 address. Transport failures and
// 5xx responses are retried; a malformed answer is not.
func (r *PublicIPResolver) PublicIP(ctx context.Context) (string, error) {
	var ip string
	err := retry.Do(ctx, func(ctx context.Context) error {
		var err error
		ip, err = r.fetch(ctx)
		return err
	}, r.Retry...)
	if err != nil {
		return "", fmt.Errorf("public IP lookup via %s: %w", r.URL, err)
	}
	return ip, nil
}

func (r *PublicIPResolver) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return "", retry.Fatal(err)
	}
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return "", retry.Fatal(fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(body))
	addr, err := netip.ParseAddr(text)
	if err != nil || !addr.Is4() {
		return "", retry.Fatal(fmt.Errorf("response %q is not an IPv4 address", text))
	}
	return addr.String(), nil
}
