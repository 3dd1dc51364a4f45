package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/baseytransit/transit-server/internal/service"
	"github.com/baseytransit/transit-server/models"
)

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := performRequest(h, "GET", "/api/admin/users", "", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.ErrTokenIsExpiredOrInvalid.Error(), decodeMessage(t, rec))
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := performRequest(h, "GET", "/api/admin/users", "",
		map[string]string{"Authorization": "Bearer"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Authenticate(gomock.Any(), "bad-token").
		Return(models.AuthUser{}, service.ErrTokenIsExpiredOrInvalid)

	rec := performRequest(h, "GET", "/api/admin/users", "",
		map[string]string{"Authorization": "Bearer bad-token"})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.ErrTokenIsExpiredOrInvalid.Error(), decodeMessage(t, rec))
}

// A store failure while authenticating must read as a server-side error,
// not as a rejected token; the client should keep the token and retry.
func TestAuthMiddleware_StoreFailureIsInternal(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Authenticate(gomock.Any(), "valid-token").
		Return(models.AuthUser{}, fmt.Errorf("error getting user by id: %w", errors.New("dial tcp: connection refused")))

	rec := performRequest(h, "GET", "/api/admin/users", "",
		map[string]string{"Authorization": "Bearer valid-token"})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), decodeMessage(t, rec))
}

// Roles are flat: an authenticated ENFORCER is still turned away from an
// ADMIN-only route.
func TestRequireRole_NonAdminForbidden(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Authenticate(gomock.Any(), "officer-token").
		Return(models.AuthUser{UserID: 12, Username: "officer1", Role: models.RoleEnforcer, IsActive: true}, nil)

	rec := performRequest(h, "GET", "/api/admin/users", "",
		map[string]string{"Authorization": "Bearer officer-token"})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "insufficient permissions", decodeMessage(t, rec))
}

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "scheme only", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "empty token part", header: "Bearer ", wantErr: ErrEmptyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
