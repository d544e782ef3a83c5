package httpip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webclasher/n8nwithtele3.0/internal/adapters/log"
)

func TestPublicIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("203.0.113.7\n"))
	}))
	defer srv.Close()

	r := NewResolver(srv.Client(), log.NewNoopLogger(), srv.URL)
	ip, err := r.PublicIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestPublicIPRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("198.51.100.4"))
	}))
	defer srv.Close()

	r := NewResolver(srv.Client(), log.NewNoopLogger(), srv.URL)
	ip, err := r.PublicIP(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.4", ip)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPublicIPRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an ip</html>"))
	}))
	defer srv.Close()

	r := NewResolver(srv.Client(), log.NewNoopLogger(), srv.URL)
	_, err := r.PublicIP(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an IP address")
}

func TestPublicIPGivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	r := NewResolver(srv.Client(), log.NewNoopLogger(), srv.URL)
	r.attempts = 2
	_, err := r.PublicIP(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Contains(t, err.Error(), srv.URL)
}

func TestPublicIPHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	r := NewResolver(srv.Client(), log.NewNoopLogger(), srv.URL)
	r.attempts = 10
	_, err := r.PublicIP(ctx)
	require.Error(t, err)
}
