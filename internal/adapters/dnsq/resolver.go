// Package dnsq answers DNS questions against an explicit upstream
// server, bypassing the host's stub resolver and its cache. Pointing
// at a public resolver gives a view of the domain closer to what
// certbot's validation servers will see.
package dnsq

import (
	"context"
	"fmt"
	"time"

	"github.com/miekg/dns"

	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

// Resolver implements ports.DNSResolver using a direct DNS exchange.
type Resolver struct {
	client *dns.Client
	logger ports.Logger
	server string
}

// NewResolver creates a resolver querying server, a host:port address
// such as "8.8.8.8:53".
func NewResolver(logger ports.Logger, server string, timeout time.Duration) *Resolver {
	return &Resolver{
		client: &dns.Client{Timeout: timeout},
		logger: logger,
		server: server,
	}
}

// LookupA returns all A records for domain in answer order.
// A NOERROR reply with no A records yields an empty slice and nil error.
func (r *Resolver) LookupA(ctx context.Context, domain string) ([]string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	msg.RecursionDesired = true

	reply, rtt, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, fmt.Errorf("query %s for %s: %w", r.server, domain, err)
	}
	if reply.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query %s for %s: %s", r.server, domain, dns.RcodeToString[reply.Rcode])
	}

	var ips []string
	for _, rr := range reply.Answer {
		if a, ok := rr.(*dns.A); ok {
			ips = append(ips, a.A.String())
		}
	}
	r.logger.Debug("A record lookup",
		ports.String("domain", domain),
		ports.String("server", r.server),
		ports.Strings("records", ips),
		ports.Duration("rtt", rtt))
	return ips, nil
}
