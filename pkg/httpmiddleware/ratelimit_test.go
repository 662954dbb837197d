package httpmiddleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func limitedHandler(cfg RateLimitConfig) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RateLimit(cfg)(ok)
}

// hit sends one GET through the limiter from the given remote address.
func hit(h http.Handler, remoteAddr string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req.RemoteAddr = remoteAddr
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestRateLimit_AllowsUpToMax(t *testing.T) {
	h := limitedHandler(RateLimitConfig{Max: 5, Window: time.Minute})

	for i := range 5 {
		w := hit(h, "192.168.1.1:12345", nil)
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}

	w := hit(h, "192.168.1.1:12345", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimit_RejectionBody(t *testing.T) {
	h := limitedHandler(RateLimitConfig{Max: 1, Window: time.Minute})

	require.Equal(t, http.StatusOK, hit(h, "10.0.0.1:9999", nil).Code)
	w := hit(h, "10.0.0.1:9999", nil)

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests, please try again later", body["message"])
}

func TestRateLimit_KeysAreIndependent(t *testing.T) {
	h := limitedHandler(RateLimitConfig{Max: 1, Window: time.Minute})

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1234", nil).Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1234", nil).Code)

	// Same client IP on a new ephemeral port shares the budget.
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:5678", nil).Code)
}

func TestRateLimit_CustomKeyFunc(t *testing.T) {
	h := limitedHandler(RateLimitConfig{
		Max:    1,
		Window: time.Minute,
		KeyFunc: func(r *http.Request) string {
			return r.Header.Get("X-API-Key")
		},
	})

	keyA := http.Header{"X-Api-Key": []string{"key-a"}}
	keyB := http.Header{"X-Api-Key": []string{"key-b"}}

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", keyA).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.9:2", keyA).Code)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:3", keyB).Code)
}

func TestRateLimit_ForwardedForTakesFirstHop(t *testing.T) {
	h := limitedHandler(RateLimitConfig{Max: 1, Window: time.Minute})
	fwd := http.Header{"X-Forwarded-For": []string{"203.0.113.50, 70.41.3.18"}}

	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:4444", fwd).Code)

	// Different proxy address, same original client: still limited.
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.2:5555", fwd).Code)
}
