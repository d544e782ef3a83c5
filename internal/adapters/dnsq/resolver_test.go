package dnsq

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webclasher/n8nwithtele3.0/internal/adapters/log"
)

// startServer runs a DNS server on a loopback UDP port and returns its
// address. The handler receives every query.
func startServer(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &dns.Server{PacketConn: conn, Handler: handler}
	go srv.ActivateAndServe()
	t.Cleanup(func() {
		srv.Shutdown()
	})
	return conn.LocalAddr().String()
}

func aRecord(name, ip string) *dns.A {
	return &dns.A{
		Hdr: dns.RR_Header{
			Name:   name,
			Rrtype: dns.TypeA,
			Class:  dns.ClassINET,
			Ttl:    60,
		},
		A: net.ParseIP(ip),
	}
}

func TestLookupAReturnsAllRecords(t *testing.T) {
	addr := startServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		name := req.Question[0].Name
		m.Answer = append(m.Answer, aRecord(name, "203.0.113.7"), aRecord(name, "198.51.100.4"))
		w.WriteMsg(m)
	})

	r := NewResolver(log.NewNoopLogger(), addr, 2*time.Second)
	ips, err := r.LookupA(context.Background(), "n8n.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.7", "198.51.100.4"}, ips)
}

func TestLookupANoRecords(t *testing.T) {
	addr := startServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(req)
		w.WriteMsg(m)
	})

	r := NewResolver(log.NewNoopLogger(), addr, 2*time.Second)
	ips, err := r.LookupA(context.Background(), "n8n.example.com")
	require.NoError(t, err)
	assert.Empty(t, ips)
}

func TestLookupANXDomain(t *testing.T) {
	addr := startServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		m := new(dns.Msg)
		m.SetRcode(req, dns.RcodeNameError)
		w.WriteMsg(m)
	})

	r := NewResolver(log.NewNoopLogger(), addr, 2*time.Second)
	_, err := r.LookupA(context.Background(), "missing.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NXDOMAIN")
}

func TestLookupATimeout(t *testing.T) {
	addr := startServer(t, func(w dns.ResponseWriter, req *dns.Msg) {
		// never reply
	})

	r := NewResolver(log.NewNoopLogger(), addr, 100*time.Millisecond)
	_, err := r.LookupA(context.Background(), "slow.example.com")
	require.Error(t, err)
}
