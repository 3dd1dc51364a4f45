package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/baseytransit/transit-server/internal/service"
	"github.com/baseytransit/transit-server/models"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(2, 50*time.Millisecond)

	ok, _ := rl.allow("10.0.0.1")
	require.True(t, ok)
	ok, _ = rl.allow("10.0.0.1")
	require.True(t, ok)

	ok, retryAfter := rl.allow("10.0.0.1")
	require.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, 50*time.Millisecond)

	// another client is unaffected
	ok, _ = rl.allow("10.0.0.2")
	assert.True(t, ok)

	// the window is fixed, not sliding: waiting it out resets the counter
	time.Sleep(60 * time.Millisecond)
	ok, _ = rl.allow("10.0.0.1")
	assert.True(t, ok)
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := newRateLimiter(5, time.Minute)

	stale := time.Now().Add(-2 * time.Minute)
	rl.hits["10.0.0.1"] = &hitWindow{count: 3, windowStart: stale}
	rl.hits["10.0.0.2"] = &hitWindow{count: 1, windowStart: time.Now()}

	rl.sweep(time.Now())

	assert.NotContains(t, rl.hits, "10.0.0.1")
	assert.Contains(t, rl.hits, "10.0.0.2")
}

func TestLoginRateLimit(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Login(gomock.Any(), "juan", "wrong").
		Return(models.User{}, models.Token{}, service.ErrInvalidCredentials).
		Times(loginRateLimit)

	// httptest gives every request the same RemoteAddr, so they all count
	// against the same window
	for i := 0; i < loginRateLimit; i++ {
		rec := performRequest(h, "POST", "/api/auth/login",
			`{"username":"juan","password":"wrong"}`, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := performRequest(h, "POST", "/api/auth/login",
		`{"username":"juan","password":"wrong"}`, nil)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "too many requests, try again later", decodeMessage(t, rec))
}

func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{
			name:    "forwarded-for list takes the first hop",
			headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"},
			remote:  "192.0.2.9:4321",
			want:    "10.0.0.1",
		},
		{
			name:    "single forwarded-for",
			headers: map[string]string{"X-Forwarded-For": "10.0.0.5"},
			remote:  "192.0.2.9:4321",
			want:    "10.0.0.5",
		},
		{
			name:    "real-ip fallback",
			headers: map[string]string{"X-Real-IP": "10.0.0.7"},
			remote:  "192.0.2.9:4321",
			want:    "10.0.0.7",
		},
		{
			name:   "peer address fallback",
			remote: "192.0.2.9:4321",
			want:   "192.0.2.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/login", nil)
			req.RemoteAddr = tt.remote
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			assert.Equal(t, tt.want, clientIdentifier(req))
		})
	}
}
