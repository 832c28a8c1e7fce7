package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticHeaders map[string]string

func (s staticHeaders) AuthHeaders(context.Context) (map[string]string, error) {
	return s, nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, staticHeaders{"Authorization": "Bearer test-token"}, nil)
}

func TestGetSendsAuthHeaderAndDecodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/requests/buyer/b1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"requests":[{"_id":"r1"}]}`))
	})

	out, err := client.Get(context.Background(), "/api/requests/buyer/b1")
	require.NoError(t, err)
	payload, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Len(t, payload["requests"], 1)
}

func TestGetErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "message field", status: http.StatusBadRequest, body: `{"message":"Buyer not found"}`, wantMessage: "Buyer not found"},
		{name: "error field", status: http.StatusConflict, body: `{"error":"already accepted"}`, wantMessage: "already accepted"},
		{name: "non json body", status: http.StatusInternalServerError, body: `<html>oops</html>`, wantMessage: "Request failed (500)"},
		{name: "empty body", status: http.StatusBadGateway, body: ``, wantMessage: "Request failed (502)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Get(context.Background(), "/api/x")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Error())
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestGetRejectsMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"broken":`))
	})
	_, err := client.Get(context.Background(), "/api/x")
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestGetWithFallback(t *testing.T) {
	var (
		mu   sync.Mutex
		hits []string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.RequestURI())
		mu.Unlock()
		switch r.URL.Path {
		case "/api/requests/r1/bids":
			w.Write([]byte(`[{"_id":"b1"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	out, err := client.GetWithFallback(context.Background(), []string{
		"/api/bids/request/r1",
		"/api/requests/r1/bids",
		"/api/bids/by-request/r1",
	})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/api/bids/request/r1", "/api/requests/r1/bids"}, hits)
}

func TestGetWithFallbackReturnsLastError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/last" {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"message":"maintenance"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetWithFallback(context.Background(), []string{"/first", "/last"})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
	assert.Equal(t, "maintenance", err.Error())
}

func TestFirstSuccessStopsOnAuthError(t *testing.T) {
	var calls int32
	_, err := FirstSuccess(context.Background(), []string{"a", "b", "c"}, func(ctx context.Context, c string) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, &APIError{StatusCode: http.StatusUnauthorized, Message: "expired"}
	})
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFirstSuccessNoCandidates(t *testing.T) {
	_, err := FirstSuccess(context.Background(), nil, func(ctx context.Context, c string) (int, error) {
		return 1, nil
	})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestFirstSuccessStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := FirstSuccess(ctx, []string{"a"}, func(ctx context.Context, c string) (int, error) {
		t.Fatal("must not be called")
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPostWithTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := client.PostWithTimeout(context.Background(), "/api/auth/login", map[string]string{"email": "a"}, 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, nil, nil)
	_, err := client.Get(context.Background(), "/api/ping")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBackendUnreachable)
}

func TestPutToleratesNonJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.Write([]byte("OK"))
	})
	out, err := client.Put(context.Background(), "/api/bids/b1/accept", nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/api/bids/request/:id", routeLabel("/api/bids/request/64f0c2a1"))
	assert.Equal(t, "/api/receipts/buyer", routeLabel("/api/receipts/buyer?unviewed=true"))
	assert.Equal(t, "/api/users/profile/:id", routeLabel("/api/users/profile/42"))
}
