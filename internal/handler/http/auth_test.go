package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/baseytransit/transit-server/internal/service"
	"github.com/baseytransit/transit-server/internal/store"
	"github.com/baseytransit/transit-server/models"
)

func TestLogin_Success(t *testing.T) {
	h, m := newTestHandler(t)

	user := models.User{
		UserID:    7,
		Username:  "juan",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Role:      models.RolePublic,
		IsActive:  true,
	}
	m.auth.EXPECT().
		Login(gomock.Any(), "juan", "secret-pass").
		Return(user, models.Token{SignedString: "signed.jwt.token"}, nil)

	rec := performRequest(h, "POST", "/api/auth/login",
		`{"username":"juan","password":"secret-pass"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var response models.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "signed.jwt.token", response.Token)
	assert.Equal(t, int64(7), response.User.UserID)
	assert.Equal(t, "juan", response.User.Username)
	assert.Equal(t, models.RolePublic, response.User.Role)
}

func TestLogin_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := performRequest(h, "POST", "/api/auth/login", `{"username":`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid JSON was passed", decodeMessage(t, rec))
}

func TestLogin_BadCredentials(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Login(gomock.Any(), "juan", "wrong").
		Return(models.User{}, models.Token{}, service.ErrInvalidCredentials)

	rec := performRequest(h, "POST", "/api/auth/login",
		`{"username":"juan","password":"wrong"}`, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, service.ErrInvalidCredentials.Error(), decodeMessage(t, rec))
}

func TestLogin_LockedAccount(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Login(gomock.Any(), "juan", "whatever").
		Return(models.User{}, models.Token{}, service.ErrAccountLocked)

	rec := performRequest(h, "POST", "/api/auth/login",
		`{"username":"juan","password":"whatever"}`, nil)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, service.ErrAccountLocked.Error(), decodeMessage(t, rec))
}

func TestLogin_PendingApproval(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Login(gomock.Any(), "encoder1", "secret-pass").
		Return(models.User{}, models.Token{}, service.ErrAccountNotApproved)

	rec := performRequest(h, "POST", "/api/auth/login",
		`{"username":"encoder1","password":"secret-pass"}`, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRegister_PublicLogsInImmediately(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(models.User{UserID: 11, Role: models.RolePublic, IsActive: true, IsVerified: true}, nil)

	rec := performRequest(h, "POST", "/api/auth/register",
		`{"username":"juan","password":"secret-pass","firstName":"Juan","lastName":"Dela Cruz","email":"juan@example.com","userType":"PUBLIC"}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response models.RegisterResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, int64(11), response.UserID)
	assert.False(t, response.RequiresApproval)
	assert.True(t, response.CanLoginImmediately)
}

func TestRegister_OfficialRolePendsApproval(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(models.User{UserID: 12, Role: models.RoleEnforcer, IsActive: false}, nil)

	rec := performRequest(h, "POST", "/api/auth/register",
		`{"username":"officer1","password":"secret-pass","firstName":"Maria","lastName":"Santos","email":"maria@example.com","userType":"ENFORCER"}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)

	var response models.RegisterResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.RequiresApproval)
	assert.False(t, response.CanLoginImmediately)
	assert.Contains(t, response.Message, "pending admin approval")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(models.User{}, store.ErrUsernameAlreadyExists)

	rec := performRequest(h, "POST", "/api/auth/register",
		`{"username":"juan","password":"secret-pass","email":"juan@example.com","firstName":"Juan","lastName":"Dela Cruz"}`, nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, store.ErrUsernameAlreadyExists.Error(), decodeMessage(t, rec))
}

func TestRegister_ShortPassword(t *testing.T) {
	h, m := newTestHandler(t)

	m.auth.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(models.User{}, service.ErrPasswordTooShort)

	rec := performRequest(h, "POST", "/api/auth/register",
		`{"username":"juan","password":"short","email":"juan@example.com","firstName":"Juan","lastName":"Dela Cruz"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
