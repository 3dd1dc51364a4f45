package http

import (
	"encoding/json"
	"net/http"

	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/utils"
	"github.com/baseytransit/transit-server/models"
)

// recoveryRequestedMessage is returned by request-reset for known and
// unknown usernames alike.
const recoveryRequestedMessage = "If the account exists, recovery instructions have been sent."

func (h *Handler) requestReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RequestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteMessage(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.RecoveryService.RequestPasswordReset(ctx, request.Username); err != nil {
		h.handleError(w, r, err)
		return
	}

	utils.WriteMessage(w, recoveryRequestedMessage, http.StatusOK)
}

func (h *Handler) verifyResetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.VerifyResetTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteMessage(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	view, err := h.services.RecoveryService.VerifyResetToken(ctx, request.Token)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.RecoveryVerifyResponse{Valid: true, User: view}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteMessage(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.RecoveryService.ResetPassword(ctx, request.Token, request.NewPassword); err != nil {
		h.handleError(w, r, err)
		return
	}

	utils.WriteMessage(w, "Password has been reset successfully.", http.StatusOK)
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteMessage(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	view, err := h.services.RecoveryService.VerifyOTP(ctx, request.Email, request.OTP)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.RecoveryVerifyResponse{Valid: true, User: view}, http.StatusOK)
}
