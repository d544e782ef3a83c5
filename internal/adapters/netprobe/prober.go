// Package netprobe checks local TCP port availability by attempting a
// bind. A successful bind-and-release proves no other process holds
// the port, which is what nginx and the n8n container will need.
package netprobe

import (
	"fmt"
	"net"
)

// Prober implements ports.PortProber with a TCP bind probe.
type Prober struct{}

// NewProber creates a new bind prober.
func NewProber() *Prober {
	return &Prober{}
}

// Probe returns nil if the port can be bound on all interfaces.
func (p *Prober) Probe(port int) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("port %d is in use: %w", port, err)
	}
	return ln.Close()
}
