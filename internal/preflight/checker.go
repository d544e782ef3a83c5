// Package preflight validates that the host can actually serve the
// configured domain before any step mutates the system: the domain's
// A record must point at this server and the ports nginx and n8n need
// must be free.
package preflight

import (
	"context"
	"fmt"

	"github.com/webclasher/n8nwithtele3.0/internal/cliconfig"
	"github.com/webclasher/n8nwithtele3.0/internal/domain"
	"github.com/webclasher/n8nwithtele3.0/internal/ports"
)

// Checker runs the preflight checks. It also satisfies the pipeline
// step contract so an install run can gate on it.
type Checker struct {
	cfg    cliconfig.Config
	dns    ports.DNSResolver
	addr   ports.PublicAddressResolver
	prober ports.PortProber
	logger ports.Logger
}

// NewChecker creates a preflight checker.
func NewChecker(cfg cliconfig.Config, dns ports.DNSResolver, addr ports.PublicAddressResolver, prober ports.PortProber, logger ports.Logger) *Checker {
	return &Checker{
		cfg:    cfg,
		dns:    dns,
		addr:   addr,
		prober: prober,
		logger: logger,
	}
}

// Check runs every preflight check and returns all results, passing
// and failing alike, so callers can present the full picture.
func (c *Checker) Check(ctx context.Context) []domain.CheckResult {
	results := []domain.CheckResult{c.checkDNS(ctx)}
	for _, port := range c.requiredPorts() {
		results = append(results, c.checkPort(port))
	}

	for _, r := range results {
		if r.Status == domain.CheckPass {
			c.logger.Info("preflight check passed", ports.String("check", r.Name))
		} else {
			c.logger.Error("preflight check failed",
				ports.String("check", r.Name),
				ports.String("reason", r.Reason))
		}
	}
	return results
}

// Name implements the pipeline step contract.
func (c *Checker) Name() string { return "preflight" }

// Tolerable implements the pipeline step contract. A preflight failure
// always halts the run.
func (c *Checker) Tolerable() bool { return false }

// Mutating implements the pipeline step contract. Preflight never
// changes the host.
func (c *Checker) Mutating() bool { return false }

// Run executes the checks and fails on the first failing one.
func (c *Checker) Run(ctx context.Context) error {
	results := c.Check(ctx)
	if f := domain.FirstFailure(results); f != nil {
		return domain.PreflightError{Check: f.Name, Reason: f.Reason}
	}
	return nil
}

// checkDNS verifies that at least one A record of the domain matches
// this server's public IP. Extra records (old servers, round robin)
// do not fail the check as long as one record points here.
func (c *Checker) checkDNS(ctx context.Context) domain.CheckResult {
	result := domain.CheckResult{Name: "dns", Status: domain.CheckPass}

	publicIP, err := c.addr.PublicIP(ctx)
	if err != nil {
		result.Status = domain.CheckFail
		result.Reason = fmt.Sprintf("cannot determine public IP: %v", err)
		return result
	}

	records, err := c.dns.LookupA(ctx, c.cfg.Domain)
	if err != nil {
		result.Status = domain.CheckFail
		result.Reason = fmt.Sprintf("cannot resolve %s: %v", c.cfg.Domain, err)
		return result
	}
	if len(records) == 0 {
		result.Status = domain.CheckFail
		result.Reason = fmt.Sprintf("%s has no A records; create one pointing at %s", c.cfg.Domain, publicIP)
		return result
	}

	for _, ip := range records {
		if ip == publicIP {
			return result
		}
	}

	result.Status = domain.CheckFail
	result.Reason = fmt.Sprintf("%s resolves to %v, none of which is this server's public IP %s", c.cfg.Domain, records, publicIP)
	return result
}

// checkPort verifies the port is free to bind.
func (c *Checker) checkPort(port int) domain.CheckResult {
	result := domain.CheckResult{
		Name:   fmt.Sprintf("port-%d", port),
		Status: domain.CheckPass,
	}
	if err := c.prober.Probe(port); err != nil {
		result.Status = domain.CheckFail
		result.Reason = err.Error()
	}
	return result
}

// requiredPorts returns 80, 443 and the n8n port, deduplicated in
// case the n8n port is set to one of the web ports.
func (c *Checker) requiredPorts() []int {
	seen := map[int]bool{}
	var out []int
	for _, p := range []int{80, 443, c.cfg.N8NPort} {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
