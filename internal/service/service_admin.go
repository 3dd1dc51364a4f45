package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/baseytransit/transit-server/internal/config"
	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/store"
	"github.com/baseytransit/transit-server/internal/utils"
	"github.com/baseytransit/transit-server/models"
)

// adminService is the concrete implementation of [AdminService].
// Store-level not-found errors pass through unmapped: unlike the public
// recovery flows, administrators are allowed to learn that a target account
// does not exist.
type adminService struct {
	userRepository store.UserRepository

	// adminResetTokenTTL is the lifetime of an admin-generated reset token.
	// Longer than the self-service one because the token travels out of band.
	adminResetTokenTTL time.Duration

	// bcryptCost is the bcrypt cost factor applied to replacement passwords.
	bcryptCost int

	logger *logger.Logger
}

// NewAdminService constructs an [AdminService] wired to the given repository.
func NewAdminService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AdminService {
	return &adminService{
		userRepository:     userRepository,
		adminResetTokenTTL: cfg.AdminResetTokenTTL,
		bcryptCost:         cfg.BcryptCost,
		logger:             logger,
	}
}

// GenerateResetToken provisions a reset token for the target account and
// returns it together with its expiry and the owner's identity view. The
// token follows the same format and verification path as the self-service
// one; only the lifetime differs.
func (s *adminService) GenerateResetToken(ctx context.Context, userID int64) (string, time.Time, models.RecoveryView, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("user search by id failed")
		return "", time.Time{}, models.RecoveryView{}, fmt.Errorf("user search by id failed: %w", err)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return "", time.Time{}, models.RecoveryView{}, fmt.Errorf("reset token generation failed: %w", err)
	}

	expiresAt := time.Now().Add(s.adminResetTokenTTL)
	if err = s.userRepository.SetResetToken(ctx, userID, token, expiresAt); err != nil {
		log.Err(err).Int64("id", userID).Msg("storing reset token failed")
		return "", time.Time{}, models.RecoveryView{}, fmt.Errorf("storing reset token failed: %w", err)
	}

	log.Info().Int64("id", userID).Time("expiresAt", expiresAt).Msg("admin reset token generated")
	return token, expiresAt, user.RecoveryView(), nil
}

// SetPassword overwrites the target account's password and clears every
// recovery artifact along with the lockout state.
func (s *adminService) SetPassword(ctx context.Context, userID int64, newPassword string) error {
	log := logger.FromContext(ctx)

	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return fmt.Errorf("password hashing failed: %w", err)
	}

	if err = s.userRepository.SetPassword(ctx, userID, string(hash)); err != nil {
		log.Err(err).Int64("id", userID).Msg("setting password failed")
		return fmt.Errorf("setting password failed: %w", err)
	}

	log.Info().Int64("id", userID).Msg("admin password override completed")
	return nil
}

// ListUsers returns the accounts matching filter, newest first.
func (s *adminService) ListUsers(ctx context.Context, filter store.UserFilter) ([]models.User, error) {
	users, err := s.userRepository.ListUsers(ctx, filter)
	if err != nil {
		logger.FromContext(ctx).Err(err).Msg("listing users failed")
		return nil, fmt.Errorf("listing users failed: %w", err)
	}

	return users, nil
}

// VerifyUser confirms the target account's identity documents and activates
// it, returning the updated record.
func (s *adminService) VerifyUser(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.userRepository.SetVerified(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("id", userID).Msg("verifying user failed")
		return models.User{}, fmt.Errorf("verifying user failed: %w", err)
	}

	return user, nil
}

// ToggleUserStatus flips the target account's active flag and returns the
// updated record. Deactivation revokes outstanding tokens on the next
// authenticated request.
func (s *adminService) ToggleUserStatus(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.userRepository.ToggleActive(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("id", userID).Msg("toggling user status failed")
		return models.User{}, fmt.Errorf("toggling user status failed: %w", err)
	}

	return user, nil
}
