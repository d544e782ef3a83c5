// Package httpip resolves the host's public IP address by asking an
// external echo endpoint such as https://api.ipify.org.
package httpip

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

const (
	defaultAttempts = 3
	maxBodyBytes    = 256
)

// Resolver implements ports.PublicAddressResolver over HTTP.
type Resolver struct {
	client   ports.HTTPClient
	logger   ports.Logger
	endpoint string
	attempts int
}

// NewResolver creates a resolver querying the given endpoint.
func NewResolver(client ports.HTTPClient, logger ports.Logger, endpoint string) *Resolver {
	return &Resolver{
		client:   client,
		logger:   logger,
		endpoint: endpoint,
		attempts: defaultAttempts,
	}
}

// PublicIP returns the public IP address reported by the endpoint.
// Transient failures are retried with jittered backoff.
func (r *Resolver) PublicIP(ctx context.Context) (string, error) {
	bo := newBackoff(500*time.Millisecond, 5*time.Second)
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if attempt > 1 {
			if err := bo.Sleep(ctx); err != nil {
				return "", err
			}
		}
		ip, err := r.fetch(ctx)
		if err == nil {
			return ip, nil
		}
		lastErr = err
		r.logger.Warn("public IP lookup failed",
			ports.String("endpoint", r.endpoint),
			ports.Int("attempt", attempt),
			ports.Err(err))
	}
	return "", fmt.Errorf("resolve public IP via %s: %w", r.endpoint, lastErr)
}

func (r *Resolver) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("endpoint returned %q, not an IP address", ip)
	}
	return ip, nil
}
