package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/baseytransit/transit-server/internal/config"
	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/store"
	"github.com/baseytransit/transit-server/internal/utils"
	"github.com/baseytransit/transit-server/models"
)

// otpPattern is the structural gate for recovery codes. Anything that does
// not match is rejected before the store is consulted.
var otpPattern = regexp.MustCompile(`^\d{6}$`)

// recoveryService is the concrete implementation of [RecoveryService].
// It provisions reset artifacts, verifies them, and performs the
// token-guarded password mutation.
type recoveryService struct {
	userRepository store.UserRepository
	mailer         Mailer

	// resetTokenTTL is the lifetime of a self-service link token.
	resetTokenTTL time.Duration

	// otpTTL is the lifetime of an emailed recovery code.
	otpTTL time.Duration

	// bcryptCost is the bcrypt cost factor applied to replacement passwords.
	bcryptCost int

	logger *logger.Logger
}

// NewRecoveryService constructs a [RecoveryService] wired to the given
// repository and mailer, with artifact lifetimes taken from cfg.
func NewRecoveryService(userRepository store.UserRepository, mailer Mailer, cfg config.App, logger *logger.Logger) RecoveryService {
	return &recoveryService{
		userRepository: userRepository,
		mailer:         mailer,
		resetTokenTTL:  cfg.ResetTokenTTL,
		otpTTL:         cfg.OTPTTL,
		bcryptCost:     cfg.BcryptCost,
		logger:         logger,
	}
}

// RequestPasswordReset provisions a fresh link token and recovery code for
// the account and mails both to its owner.
//
// The method is enumeration-safe: an unknown username returns nil exactly
// like a successful request, and mail delivery failures are logged but never
// surfaced. Only store-level failures bubble up.
func (r *recoveryService) RequestPasswordReset(ctx context.Context, username string) error {
	log := logger.FromContext(ctx)

	if username == "" {
		return ErrInvalidDataProvided
	}

	user, err := r.userRepository.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			// same outcome as success
			return nil
		}
		log.Err(err).Msg("user search by username failed")
		return fmt.Errorf("user search by username failed: %w", err)
	}

	now := time.Now()

	token, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("reset token generation failed: %w", err)
	}
	if err = r.userRepository.SetResetToken(ctx, user.UserID, token, now.Add(r.resetTokenTTL)); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("storing reset token failed")
		return fmt.Errorf("storing reset token failed: %w", err)
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("recovery code generation failed: %w", err)
	}
	if err = r.userRepository.SetResetOTP(ctx, user.UserID, otp, now.Add(r.otpTTL)); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("storing recovery code failed")
		return fmt.Errorf("storing recovery code failed: %w", err)
	}

	if err = r.mailer.SendResetLink(ctx, user.Email, user.FirstName, token); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("sending reset link failed")
	}
	if err = r.mailer.SendResetOTP(ctx, user.Email, user.FirstName, otp); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("sending recovery code failed")
	}

	return nil
}

// VerifyResetToken checks that token identifies a live reset artifact and
// returns the owner's identity-confirmation view. The token is not consumed.
//
// Unknown and expired tokens are indistinguishable: both produce
// [ErrResetTokenInvalid].
func (r *recoveryService) VerifyResetToken(ctx context.Context, token string) (models.RecoveryView, error) {
	log := logger.FromContext(ctx)

	if token == "" {
		return models.RecoveryView{}, ErrResetTokenInvalid
	}

	user, err := r.userRepository.FindUserByResetToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.RecoveryView{}, ErrResetTokenInvalid
		}
		log.Err(err).Msg("user search by reset token failed")
		return models.RecoveryView{}, fmt.Errorf("user search by reset token failed: %w", err)
	}

	return user.RecoveryView(), nil
}

// ResetPassword consumes a live link token and installs newPassword.
//
// The token is re-validated inside the repository's guarded UPDATE, so a
// token that expired or was consumed after a successful VerifyResetToken
// still fails here with [ErrResetTokenInvalid]. A completed reset clears the
// failure counter and any lock.
func (r *recoveryService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	log := logger.FromContext(ctx)

	if token == "" {
		return ErrResetTokenInvalid
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), r.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return fmt.Errorf("password hashing failed: %w", err)
	}

	user, err := r.userRepository.ResetPasswordByToken(ctx, token, string(hash), time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNoRowsUpdated) {
			return ErrResetTokenInvalid
		}
		log.Err(err).Msg("password reset by token failed")
		return fmt.Errorf("password reset by token failed: %w", err)
	}

	log.Info().Int64("id", user.UserID).Msg("password reset completed")
	return nil
}

// VerifyOTP checks an emailed recovery code against the account identified
// by email.
//
// A structurally invalid code fails with [ErrOTPFormat] before any store
// access. A code that matches no account fails with [ErrOTPMismatch]; a
// matching but stale code fails with [ErrOTPExpired]. The code is not
// consumed.
func (r *recoveryService) VerifyOTP(ctx context.Context, email string, code string) (models.RecoveryView, error) {
	log := logger.FromContext(ctx)

	if email == "" {
		return models.RecoveryView{}, ErrInvalidDataProvided
	}
	if !otpPattern.MatchString(code) {
		return models.RecoveryView{}, ErrOTPFormat
	}

	user, err := r.userRepository.FindUserByEmailAndOTP(ctx, email, code)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.RecoveryView{}, ErrOTPMismatch
		}
		log.Err(err).Msg("user search by email and recovery code failed")
		return models.RecoveryView{}, fmt.Errorf("user search by email and recovery code failed: %w", err)
	}

	if user.PasswordResetOTPExpiry == nil || time.Now().After(*user.PasswordResetOTPExpiry) {
		return models.RecoveryView{}, ErrOTPExpired
	}

	return user.RecoveryView(), nil
}
