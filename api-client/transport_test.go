package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sifter/config"
)

func TestHTTPTransport_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	resp, err := NewHTTPTransport(time.Second, 0).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, resp.StatusCode)
	require.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestHTTPTransport_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewHTTPTransport(20*time.Millisecond, 0).Get(context.Background(), srv.URL)
	require.Error(t, err)
}

func TestHTTPTransport_RateLimit(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	transport := NewHTTPTransport(time.Second, 20)
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := transport.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}

	// burst of one: the second and third requests wait 50ms each
	require.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	require.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestHTTPTransport_RateLimitHonoursContext(t *testing.T) {
	transport := NewHTTPTransport(time.Second, 0.001)
	// the first token is available immediately; spend it
	require.True(t, transport.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := transport.Get(ctx, "http://127.0.0.1:1")
	require.Error(t, err)
}

func TestClient_OverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/8217/address/"+testAddress+"/balances_v2/", r.URL.Path)
		require.Equal(t, testKey, r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(fixture(t, "balances.json"))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.ApiKey = testKey
	c, err := NewAPIClient(&cfg)
	require.NoError(t, err)

	env, err := c.GetAddressBalances(context.Background(), GetAddressBalancesReq{Address: testAddress})
	require.NoError(t, err)
	require.Equal(t, testAddress, env.Data.Address)
}
