package ports

// PortProber detects whether a local TCP port already has a listener.
type PortProber interface {
	// Probe returns nil if the port is free, or an error describing the
	// conflict if something is already listening on it.
	Probe(port int) error
}
