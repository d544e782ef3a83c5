// Package ports defines the interfaces (ports) that connect the
// provisioning pipeline to infrastructure adapters.
//
// Ports are the boundaries between the pipeline core and the host it
// mutates. They define what the pipeline needs from the outside world
// without specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [CommandRunner]: Executes external programs (apt-get, docker, nginx, ...)
//   - [PublicAddressResolver]: Discovers this host's public IP address
//   - [DNSResolver]: Resolves A records through a public DNS server
//   - [PortProber]: Detects whether a local TCP port already has a listener
//   - [BotSourceFetcher]: Obtains the bot source and dependency manifest
//   - [ReportStore]: Persists the provisioning run report
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The pipeline and step packages depend only on these interfaces.
// Concrete implementations live under internal/adapters. This keeps every
// preflight check and provisioning step testable without a network, a
// container runtime, or root privileges.
package ports
