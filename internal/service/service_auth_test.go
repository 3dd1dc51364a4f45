package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/baseytransit/transit-server/internal/config"
	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/mock"
	"github.com/baseytransit/transit-server/internal/store"
	"github.com/baseytransit/transit-server/internal/utils"
	"github.com/baseytransit/transit-server/models"
)

func testAppConfig() config.App {
	return config.App{
		TokenSignKey:       "test-sign-key",
		TokenIssuer:        "transit-server",
		TokenDuration:      time.Hour,
		BcryptCost:         bcrypt.MinCost,
		ResetTokenTTL:      time.Hour,
		AdminResetTokenTTL: 24 * time.Hour,
		OTPTTL:             10 * time.Minute,
		LockoutThreshold:   5,
		LockoutWindow:      15 * time.Minute,
	}
}

func newTestAuthSvc(t *testing.T, ctrl *gomock.Controller) (*authService, *mock.MockUserRepository) {
	t.Helper()
	mockRepo := mock.NewMockUserRepository(ctrl)
	svc := NewAuthService(mockRepo, testAppConfig(), logger.Nop()).(*authService)
	return svc, mockRepo
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	user := models.User{
		UserID:       1,
		Username:     "jdelacruz",
		PasswordHash: hashOf(t, "correct-horse"),
		Role:         models.RolePublic,
		IsActive:     true,
	}

	gomock.InOrder(
		mockRepo.EXPECT().FindUserByUsername(ctx, "jdelacruz").Return(user, nil),
		mockRepo.EXPECT().ResetLoginAttempts(ctx, int64(1)).Return(nil),
	)

	gotUser, token, err := svc.Login(ctx, "jdelacruz", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gotUser.UserID)
	assert.NotEmpty(t, token.SignedString)
	assert.Equal(t, models.RolePublic, token.Role)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().FindUserByUsername(ctx, "ghost").Return(models.User{}, store.ErrNoUserWasFound)

	_, _, err := svc.Login(ctx, "ghost", "whatever-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	user := models.User{UserID: 1, Username: "jdelacruz", PasswordHash: hashOf(t, "correct-horse"), IsActive: true}

	gomock.InOrder(
		mockRepo.EXPECT().FindUserByUsername(ctx, "jdelacruz").Return(user, nil),
		mockRepo.EXPECT().
			RecordFailedLogin(ctx, int64(1), 5, gomock.Any(), gomock.Any()).
			Return(1, nil, nil),
	)

	_, _, err := svc.Login(ctx, "jdelacruz", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPasswordReachesThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	user := models.User{UserID: 1, Username: "jdelacruz", PasswordHash: hashOf(t, "correct-horse"), IsActive: true, LoginAttempts: 4}
	lockedUntil := time.Now().Add(15 * time.Minute)

	gomock.InOrder(
		mockRepo.EXPECT().FindUserByUsername(ctx, "jdelacruz").Return(user, nil),
		mockRepo.EXPECT().
			RecordFailedLogin(ctx, int64(1), 5, gomock.Any(), gomock.Any()).
			Return(5, &lockedUntil, nil),
	)

	// the locking attempt itself still reads as a credential failure
	_, _, err := svc.Login(ctx, "jdelacruz", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_LockedAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	lockedUntil := time.Now().Add(10 * time.Minute)
	user := models.User{
		UserID:       1,
		Username:     "jdelacruz",
		PasswordHash: hashOf(t, "correct-horse"),
		IsActive:     true,
		LockedUntil:  &lockedUntil,
	}

	// no RecordFailedLogin expectation: a locked account must not have its
	// counter touched, even by a correct password
	mockRepo.EXPECT().FindUserByUsername(ctx, "jdelacruz").Return(user, nil)

	_, _, err := svc.Login(ctx, "jdelacruz", "correct-horse")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthService_Login_ExpiredLockAllowsLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	expiredLock := time.Now().Add(-time.Minute)
	user := models.User{
		UserID:        1,
		Username:      "jdelacruz",
		PasswordHash:  hashOf(t, "correct-horse"),
		Role:          models.RolePublic,
		IsActive:      true,
		LoginAttempts: 5,
		LockedUntil:   &expiredLock,
	}

	gomock.InOrder(
		mockRepo.EXPECT().FindUserByUsername(ctx, "jdelacruz").Return(user, nil),
		mockRepo.EXPECT().ResetLoginAttempts(ctx, int64(1)).Return(nil),
	)

	_, token, err := svc.Login(ctx, "jdelacruz", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token.SignedString)
}

func TestAuthService_Login_ConcurrentLockDuringIncrement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	user := models.User{UserID: 1, Username: "jdelacruz", PasswordHash: hashOf(t, "correct-horse"), IsActive: true}

	gomock.InOrder(
		mockRepo.EXPECT().FindUserByUsername(ctx, "jdelacruz").Return(user, nil),
		mockRepo.EXPECT().
			RecordFailedLogin(ctx, int64(1), 5, gomock.Any(), gomock.Any()).
			Return(0, nil, store.ErrNoRowsUpdated),
	)

	_, _, err := svc.Login(ctx, "jdelacruz", "wrong-password")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	user := models.User{UserID: 1, Username: "encoder", PasswordHash: hashOf(t, "correct-horse"), Role: models.RoleDataEncoder, IsActive: false}

	mockRepo.EXPECT().FindUserByUsername(ctx, "encoder").Return(user, nil)

	_, _, err := svc.Login(ctx, "encoder", "correct-horse")
	assert.ErrorIs(t, err, ErrAccountNotApproved)
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	_, _, err := svc.Login(context.Background(), "", "password")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, _, err = svc.Login(context.Background(), "jdelacruz", "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

// ── CreateToken ──────────────────────────────────────────────────────────────

func TestAuthService_CreateToken_MissingSignKeyFailsClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mock.NewMockUserRepository(ctrl)
	cfg := testAppConfig()
	cfg.TokenSignKey = ""
	svc := NewAuthService(mockRepo, cfg, logger.Nop())

	_, err := svc.CreateToken(context.Background(), models.User{UserID: 1, Role: models.RolePublic})
	assert.ErrorIs(t, err, ErrSigningKeyMissing)
}

// ── Authenticate ─────────────────────────────────────────────────────────────

func TestAuthService_Authenticate_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	user := models.User{UserID: 7, Username: "jdelacruz", Role: models.RoleEnforcer, IsActive: true}

	token, err := svc.CreateToken(ctx, user)
	require.NoError(t, err)

	mockRepo.EXPECT().FindUserByID(ctx, int64(7)).Return(user, nil)

	authUser, err := svc.Authenticate(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(7), authUser.UserID)
	assert.Equal(t, models.RoleEnforcer, authUser.Role)
}

func TestAuthService_Authenticate_ExpiredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	expired, err := utils.GenerateJWTToken("transit-server", 7, models.RolePublic, -time.Minute, "test-sign-key")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), expired.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_Authenticate_WrongSignKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	forged, err := utils.GenerateJWTToken("transit-server", 7, models.RolePublic, time.Hour, "some-other-key")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), forged.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_Authenticate_WrongIssuer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	foreign, err := utils.GenerateJWTToken("some-other-service", 7, models.RolePublic, time.Hour, "test-sign-key")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), foreign.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_Authenticate_DeactivatedOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	user := models.User{UserID: 7, Username: "jdelacruz", Role: models.RolePublic, IsActive: true}
	token, err := svc.CreateToken(ctx, user)
	require.NoError(t, err)

	user.IsActive = false
	mockRepo.EXPECT().FindUserByID(ctx, int64(7)).Return(user, nil)

	// a valid token over a deactivated account reads exactly like a bad token
	_, err = svc.Authenticate(ctx, token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_Authenticate_VanishedOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{UserID: 7, Role: models.RolePublic})
	require.NoError(t, err)

	mockRepo.EXPECT().FindUserByID(ctx, int64(7)).Return(models.User{}, store.ErrNoUserWasFound)

	_, err = svc.Authenticate(ctx, token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestAuthService_Register_PublicAutoApproved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	request := models.RegisterRequest{
		Username:  "jdelacruz",
		Password:  "long-enough-password",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Email:     "juan@example.com",
	}

	mockRepo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, models.RolePublic, u.Role)
			assert.True(t, u.IsActive)
			assert.True(t, u.IsVerified)
			assert.NotEqual(t, request.Password, u.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(request.Password)))
			u.UserID = 1
			return u, nil
		},
	)

	user, err := svc.Register(ctx, request)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.UserID)
}

func TestAuthService_Register_OfficialRolePendingApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	request := models.RegisterRequest{
		Username:  "encoder1",
		Password:  "long-enough-password",
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@example.com",
		UserType:  models.RoleDataEncoder,
	}

	mockRepo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			assert.Equal(t, models.RoleDataEncoder, u.Role)
			assert.False(t, u.IsActive)
			assert.False(t, u.IsVerified)
			return u, nil
		},
	)

	_, err := svc.Register(ctx, request)
	require.NoError(t, err)
}

func TestAuthService_Register_AdminRoleRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	request := models.RegisterRequest{
		Username:  "wannabe",
		Password:  "long-enough-password",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Email:     "juan@example.com",
		UserType:  models.RoleAdmin,
	}

	_, err := svc.Register(context.Background(), request)
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	request := models.RegisterRequest{
		Username:  "jdelacruz",
		Password:  "short7c",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Email:     "juan@example.com",
	}

	_, err := svc.Register(context.Background(), request)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo := newTestAuthSvc(t, ctrl)
	ctx := context.Background()

	mockRepo.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrUsernameAlreadyExists)

	_, err := svc.Register(ctx, models.RegisterRequest{
		Username:  "jdelacruz",
		Password:  "long-enough-password",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Email:     "juan@example.com",
	})
	assert.ErrorIs(t, err, store.ErrUsernameAlreadyExists)
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthSvc(t, ctrl)

	_, err := svc.Register(context.Background(), models.RegisterRequest{Username: "only-a-username"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}
