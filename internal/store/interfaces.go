package store

import (
	"context"
	"time"

	"github.com/baseytransit/transit-server/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/user_repository_mock.go -package=mock

// UserFilter narrows the result set of [UserRepository.ListUsers].
// Nil fields mean "no constraint".
type UserFilter struct {
	Role     *models.Role
	IsActive *bool
}

// UserRepository is the persistence contract for user accounts, credential
// state and recovery artifacts. The login-attempt and reset-by-token
// mutations are single guarded UPDATE statements so concurrent callers
// cannot lose updates or replay consumed tokens.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)

	// FindUserByResetToken matches only records whose reset token equals
	// token and whose expiry is at or after now. An expired token is
	// indistinguishable from an unknown one.
	FindUserByResetToken(ctx context.Context, token string, now time.Time) (models.User, error)

	// FindUserByEmailAndOTP matches on lower(email) and the exact OTP value.
	// Expiry is not part of the predicate: the caller inspects the returned
	// record's OTP expiry to tell an expired code from a wrong one.
	FindUserByEmailAndOTP(ctx context.Context, email string, otp string) (models.User, error)

	// RecordFailedLogin atomically increments login_attempts and, when the
	// new value reaches threshold, sets locked_until to lockUntil. The UPDATE
	// is guarded so it only applies while the account is not currently locked
	// as of now; a concurrent lock surfaces as [ErrNoRowsUpdated]. Returns
	// the post-increment attempt count and the resulting lock expiry.
	RecordFailedLogin(ctx context.Context, userID int64, threshold int, lockUntil time.Time, now time.Time) (int, *time.Time, error)

	// ResetLoginAttempts zeroes the failure counter and clears any lock.
	ResetLoginAttempts(ctx context.Context, userID int64) error

	SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error
	SetResetOTP(ctx context.Context, userID int64, otp string, expiry time.Time) error

	// ResetPasswordByToken sets the password hash and clears the reset token,
	// attempt counter and lock in one UPDATE guarded by the token value and
	// its expiry as of now. A consumed or expired token surfaces as
	// [ErrNoRowsUpdated].
	ResetPasswordByToken(ctx context.Context, token string, passwordHash string, now time.Time) (models.User, error)

	// SetPassword overwrites the password hash for userID and clears all
	// recovery artifacts, the attempt counter and any lock.
	SetPassword(ctx context.Context, userID int64, passwordHash string) error

	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error)
	SetVerified(ctx context.Context, userID int64) (models.User, error)
	ToggleActive(ctx context.Context, userID int64) (models.User, error)

	// PurgeExpiredRecoveryArtifacts clears reset tokens and OTPs whose expiry
	// lies before now and reports how many accounts were touched. Expired
	// artifacts are already unusable; the purge is storage hygiene.
	PurgeExpiredRecoveryArtifacts(ctx context.Context, now time.Time) (int64, error)
}
