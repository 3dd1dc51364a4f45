// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/baseytransit/transit-server/internal/config"
	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/store"
	"github.com/baseytransit/transit-server/internal/utils"
	"github.com/baseytransit/transit-server/models"
)

// dummyPasswordHash is a valid bcrypt hash compared against when the
// username does not exist, so the unknown-user path costs roughly the same
// as a wrong-password one.
var dummyPasswordHash = []byte("$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW")

// authService is the concrete implementation of [AuthService].
// It handles registration, credential verification with account lockout, and
// the JWT token lifecycle, using a [store.UserRepository] for persistence and
// bcrypt for password hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	// Empty means token issuance fails closed with ErrSigningKeyMissing.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// bcryptCost is the bcrypt cost factor applied when hashing passwords.
	bcryptCost int

	// lockoutThreshold is the failed-attempt count that locks an account.
	lockoutThreshold int

	// lockoutWindow is how long a lock holds once placed.
	lockoutWindow time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to the given repository
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:   userRepository,
		tokenSignKey:     cfg.TokenSignKey,
		tokenIssuer:      cfg.TokenIssuer,
		tokenDuration:    cfg.TokenDuration,
		bcryptCost:       cfg.BcryptCost,
		lockoutThreshold: cfg.LockoutThreshold,
		lockoutWindow:    cfg.LockoutWindow,
		logger:           logger,
	}
}

// Login authenticates an existing user and issues a bearer token.
//
// The order of checks matters:
//  1. An account locked as of now fails with [ErrAccountLocked] before the
//     password is even compared, and without touching the failure counter.
//  2. A wrong password records one failed attempt through the repository's
//     guarded UPDATE, locking the account when the threshold is reached, and
//     fails with [ErrInvalidCredentials].
//  3. A correct password on an unapproved account fails with
//     [ErrAccountNotApproved].
//  4. Success resets the failure counter and clears any stale lock.
//
// Unknown usernames run a bcrypt comparison against a dummy hash and return
// the same [ErrInvalidCredentials] as a wrong password.
func (a *authService) Login(ctx context.Context, username string, password string) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if username == "" || password == "" {
		return models.User{}, models.Token{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return models.User{}, models.Token{}, ErrInvalidCredentials
		}
		log.Err(err).Str("username", username).Msg("user search by username failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by username failed: %w", err)
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		log.Warn().Int64("id", user.UserID).Time("lockedUntil", *user.LockedUntil).Msg("login rejected: account locked")
		return models.User{}, models.Token{}, ErrAccountLocked
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, models.Token{}, a.recordFailedLogin(ctx, user.UserID, now)
	}

	if !user.IsActive {
		log.Warn().Int64("id", user.UserID).Msg("login rejected: account pending approval")
		return models.User{}, models.Token{}, ErrAccountNotApproved
	}

	if err = a.userRepository.ResetLoginAttempts(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("resetting login attempts failed")
		return models.User{}, models.Token{}, fmt.Errorf("resetting login attempts failed: %w", err)
	}

	token, err := a.CreateToken(ctx, user)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	return user, token, nil
}

// recordFailedLogin applies one failed attempt and translates the outcome.
// A guarded-UPDATE miss means another request locked the account first, so
// the caller reports [ErrAccountLocked] instead of extending the lock.
func (a *authService) recordFailedLogin(ctx context.Context, userID int64, now time.Time) error {
	log := logger.FromContext(ctx)

	attempts, lockedUntil, err := a.userRepository.RecordFailedLogin(ctx, userID, a.lockoutThreshold, now.Add(a.lockoutWindow), now)
	if err != nil {
		if errors.Is(err, store.ErrNoRowsUpdated) {
			return ErrAccountLocked
		}
		log.Err(err).Int64("id", userID).Msg("recording failed login attempt failed")
		return fmt.Errorf("recording failed login attempt failed: %w", err)
	}

	event := log.Warn().Int64("id", userID).Int("attempts", attempts)
	if lockedUntil != nil {
		event = event.Time("lockedUntil", *lockedUntil)
	}
	event.Msg("wrong password")

	return ErrInvalidCredentials
}

// Register creates a new user account.
//
// Validation rules:
//   - username, password, first/last name and email are required;
//   - the password must be at least 8 characters;
//   - the requested role must be one of the self-registrable ones, with
//     PUBLIC as the default. Admin accounts cannot be created here.
//
// PUBLIC accounts come out active and verified; official roles start
// inactive and unverified until an admin confirms them.
func (a *authService) Register(ctx context.Context, request models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	if request.Username == "" || request.Password == "" || request.FirstName == "" ||
		request.LastName == "" || request.Email == "" {
		return models.User{}, ErrInvalidDataProvided
	}
	if len(request.Password) < 8 {
		return models.User{}, ErrPasswordTooShort
	}

	role := request.UserType
	if role == "" {
		role = models.RolePublic
	}
	if !role.SelfRegistrable() {
		log.Warn().Str("role", string(role)).Msg("registration rejected: role not self-registrable")
		return models.User{}, ErrInvalidDataProvided
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), a.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	autoApproved := role == models.RolePublic
	user := models.User{
		Username:     request.Username,
		PasswordHash: string(hash),
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		Email:        request.Email,
		Role:         role,
		IsActive:     autoApproved,
		IsVerified:   autoApproved,
	}

	registered, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", request.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registered, nil
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the
// configured tokenIssuer as the "iss" claim and the account role as a custom
// claim, and expires after tokenDuration. An empty signing key fails closed
// with [ErrSigningKeyMissing]: there is deliberately no fallback secret.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	if a.tokenSignKey == "" {
		logger.FromContext(ctx).Error().Msg("token issuance attempted without a signing key")
		return models.Token{}, ErrSigningKeyMissing
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, user.Role, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// Authenticate validates a raw bearer token string and returns the current
// identity of its owner.
//
// Beyond signature, expiry and issuer checks, the owner is re-fetched from
// the store and must still be active: deactivating an account revokes its
// outstanding tokens immediately. Every failure mode, including a vanished
// or deactivated owner, is normalised to [ErrTokenIsExpiredOrInvalid] so
// responses never reveal which check failed; expiry is logged separately for
// diagnostics.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.AuthUser, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug().AnErr("cause", ErrTokenIsExpired).Msg("token rejected")
		}
		return models.AuthUser{}, ErrTokenIsExpiredOrInvalid
	}

	user, err := a.userRepository.FindUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.AuthUser{}, ErrTokenIsExpiredOrInvalid
		}
		log.Err(err).Int64("id", token.UserID).Msg("user search by id failed")
		return models.AuthUser{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if !user.IsActive {
		log.Debug().Int64("id", user.UserID).Msg("token rejected: account deactivated")
		return models.AuthUser{}, ErrTokenIsExpiredOrInvalid
	}

	return user.AuthView(), nil
}
