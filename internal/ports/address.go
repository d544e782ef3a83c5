package ports

import "context"

// PublicAddressResolver discovers the public IPv4 address of this host.
// The real implementation asks an external "what is my IP" endpoint;
// tests return a fixed value. Keeping this behind a port is what makes
// the DNS preflight check testable without network access.
type PublicAddressResolver interface {
	// PublicIP returns the host's public IPv4 address in dotted-quad form.
	PublicIP(ctx context.Context) (string, error)
}

// DNSResolver answers A-record queries through a public DNS server,
// bypassing the host's stub resolver so the check sees what the rest of
// the world sees.
type DNSResolver interface {
	// LookupA returns all A records for the domain, in answer order.
	// An empty, non-error result means the domain has no A records.
	LookupA(ctx context.Context, domain string) ([]string, error)
}
