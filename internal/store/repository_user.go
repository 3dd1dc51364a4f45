package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookup and all credential-state mutations
// against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser reads one full users-table row, in userColumns order, into user.
func scanUser(s scanner, user *models.User) error {
	return s.Scan(
		&user.UserID,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Role,
		&user.IsActive,
		&user.IsVerified,
		&user.LoginAttempts,
		&user.LockedUntil,
		&user.PasswordResetToken,
		&user.PasswordResetExpiry,
		&user.PasswordResetOTP,
		&user.PasswordResetOTPExpiry,
		&user.CreatedAt,
	)
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrUsernameAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.Username, user.PasswordHash, user.FirstName, user.LastName,
		user.Email, user.Role, user.IsActive, user.IsVerified)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrUsernameAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	var saved models.User
	if err := scanUser(row, &saved); err != nil {
		// the unique violation can also surface at Scan time
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.User{}, ErrUsernameAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return saved, nil
}

// FindUserByID retrieves a user record by its internal identifier.
// An empty result set is reported as [ErrNoUserWasFound].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByID", findUserByID, userID)
}

// FindUserByUsername retrieves a user record by its unique username.
// An empty result set is reported as [ErrNoUserWasFound].
func (r *userRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByUsername", findUserByUsername, username)
}

// FindUserByResetToken retrieves the user whose reset token equals token and
// is unexpired as of now. Wrong and expired tokens both come back as
// [ErrNoUserWasFound]: the predicate conflates them on purpose so callers
// cannot build an expiry oracle.
func (r *userRepository) FindUserByResetToken(ctx context.Context, token string, now time.Time) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByResetToken", findUserByResetToken, token, now)
}

// FindUserByEmailAndOTP retrieves the user matching lower(email) and the
// exact OTP value. Expiry is left to the caller, who needs to distinguish an
// expired code from a wrong one.
func (r *userRepository) FindUserByEmailAndOTP(ctx context.Context, email string, otp string) (models.User, error) {
	return r.findOne(ctx, "*userRepository.FindUserByEmailAndOTP", findUserByEmailAndOTP, email, otp)
}

// findOne runs a single-row SELECT and scans the full users-table column set.
//
// Error handling:
//   - [sql.ErrNoRows] → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) findOne(ctx context.Context, funcName string, query string, args ...any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var found models.User
	if err := scanUser(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.User{}, err
	}

	return found, nil
}

// RecordFailedLogin applies the failed-login CAS described on
// [UserRepository]. Zero matched rows means the account is currently locked,
// reported as [ErrNoRowsUpdated] so the caller keeps the lock untouched.
func (r *userRepository) RecordFailedLogin(ctx context.Context, userID int64, threshold int, lockUntil time.Time, now time.Time) (int, *time.Time, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, recordFailedLogin, userID, threshold, lockUntil, now)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.RecordFailedLogin").Msg("error: row is nil")
		return 0, nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	var attempts int
	var lockedUntil *time.Time
	if err := row.Scan(&attempts, &lockedUntil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, ErrNoRowsUpdated
		}
		log.Err(err).Str("func", "*userRepository.RecordFailedLogin").Msg("error: scanning error")
		return 0, nil, err
	}

	return attempts, lockedUntil, nil
}

// ResetLoginAttempts zeroes the failure counter and clears any lock after a
// successful credential check.
func (r *userRepository) ResetLoginAttempts(ctx context.Context, userID int64) error {
	return r.execOnUser(ctx, "*userRepository.ResetLoginAttempts", resetLoginAttempts, userID)
}

// SetResetToken stores the link-recovery token and its expiry on the account.
func (r *userRepository) SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	return r.execOnUser(ctx, "*userRepository.SetResetToken", setResetToken, userID, token, expiry)
}

// SetResetOTP stores the one-time recovery code and its expiry on the account.
func (r *userRepository) SetResetOTP(ctx context.Context, userID int64, otp string, expiry time.Time) error {
	return r.execOnUser(ctx, "*userRepository.SetResetOTP", setResetOTP, userID, otp, expiry)
}

// SetPassword overwrites the password hash for userID and clears all recovery
// artifacts and lockout state.
func (r *userRepository) SetPassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.execOnUser(ctx, "*userRepository.SetPassword", setPassword, userID, passwordHash)
}

// execOnUser runs a single-user UPDATE keyed by user_id.
// Zero affected rows is reported as [ErrNoUserWasFound].
func (r *userRepository) execOnUser(ctx context.Context, funcName string, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error: executing statement")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error: reading affected rows")
		return fmt.Errorf("unexpected DB error: %w", err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// ResetPasswordByToken performs the guarded reset UPDATE described on
// [UserRepository] and returns the updated account. Zero matched rows means
// the token is unknown, expired or already consumed, reported as
// [ErrNoRowsUpdated].
func (r *userRepository) ResetPasswordByToken(ctx context.Context, token string, passwordHash string, now time.Time) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, resetPasswordByToken, passwordHash, token, now)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.ResetPasswordByToken").Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var updated models.User
	if err := scanUser(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoRowsUpdated
		}
		log.Err(err).Str("func", "*userRepository.ResetPasswordByToken").Msg("error: scanning error")
		return models.User{}, err
	}

	return updated, nil
}

// ListUsers returns all user records matching filter, newest first.
// The query is assembled with squirrel so optional predicates compose
// without manual placeholder bookkeeping.
func (r *userRepository) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, error) {
	log := logger.FromContext(ctx)

	queryBuilder := sq.Select(userColumns).
		From("users").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)
	if filter.Role != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"role": *filter.Role})
	}
	if filter.IsActive != nil {
		queryBuilder = queryBuilder.Where(sq.Eq{"is_active": *filter.IsActive})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error: building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error: executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := scanUser(rows, &user); err != nil {
			log.Err(err).Str("func", "*userRepository.ListUsers").Msg("error: scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return users, nil
}

// SetVerified marks the account's identity documents as confirmed and
// activates it, returning the updated record.
func (r *userRepository) SetVerified(ctx context.Context, userID int64) (models.User, error) {
	return r.updateReturning(ctx, "*userRepository.SetVerified", setVerified, userID)
}

// ToggleActive flips the account's active flag and returns the updated record.
func (r *userRepository) ToggleActive(ctx context.Context, userID int64) (models.User, error) {
	return r.updateReturning(ctx, "*userRepository.ToggleActive", toggleActive, userID)
}

// PurgeExpiredRecoveryArtifacts clears every reset token and OTP whose expiry
// lies before now. Zero affected rows is a normal outcome, not an error.
func (r *userRepository) PurgeExpiredRecoveryArtifacts(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, purgeExpiredRecoveryArtifacts, now)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.PurgeExpiredRecoveryArtifacts").Msg("error: executing statement")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.PurgeExpiredRecoveryArtifacts").Msg("error: reading affected rows")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	return affected, nil
}

// updateReturning runs a single-user UPDATE with a RETURNING clause.
// Zero matched rows is reported as [ErrNoUserWasFound].
func (r *userRepository) updateReturning(ctx context.Context, funcName string, query string, args ...any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", funcName).Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	var updated models.User
	if err := scanUser(row, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", funcName).Msg("error: scanning error")
		return models.User{}, err
	}

	return updated, nil
}
