package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/store"
	"github.com/baseytransit/transit-server/internal/utils"
	"github.com/baseytransit/transit-server/models"
)

// adminResetPassword dispatches on the action field: "generate-token" hands a
// long-lived reset token to the administrator, "set-password" overwrites the
// account's password directly.
func (h *Handler) adminResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.AdminResetRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteMessage(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	switch request.Action {
	case "generate-token":
		token, expiresAt, view, err := h.services.AdminService.GenerateResetToken(ctx, request.UserID)
		if err != nil {
			h.handleError(w, r, err)
			return
		}

		log.Info().Int64("id", request.UserID).Msg("admin generated reset token")

		utils.WriteJSON(w, models.AdminResetTokenResponse{
			Message:   "Reset token generated.",
			Token:     token,
			ExpiresAt: expiresAt,
			User:      view,
		}, http.StatusOK)

	case "set-password":
		if err := h.services.AdminService.SetPassword(ctx, request.UserID, request.NewPassword); err != nil {
			h.handleError(w, r, err)
			return
		}

		log.Info().Int64("id", request.UserID).Msg("admin set user password")

		utils.WriteMessage(w, "Password has been updated.", http.StatusOK)

	default:
		utils.WriteMessage(w, "unknown action", http.StatusBadRequest)
	}
}

// listUsers supports optional ?role= and ?isActive= filters.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filter store.UserFilter

	if roleParam := r.URL.Query().Get("role"); roleParam != "" {
		role := models.Role(roleParam)
		if !role.Valid() {
			utils.WriteMessage(w, "unknown role filter", http.StatusBadRequest)
			return
		}
		filter.Role = &role
	}

	if activeParam := r.URL.Query().Get("isActive"); activeParam != "" {
		isActive, err := strconv.ParseBool(activeParam)
		if err != nil {
			utils.WriteMessage(w, "isActive must be a boolean", http.StatusBadRequest)
			return
		}
		filter.IsActive = &isActive
	}

	users, err := h.services.AdminService.ListUsers(ctx, filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.UserListResponse{
		Users: users,
		Total: len(users),
	}, http.StatusOK)
}

func (h *Handler) verifyUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.AdminUserActionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteMessage(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.AdminService.VerifyUser(ctx, request.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	log.Info().Int64("id", user.UserID).Msg("user verified by admin")

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) toggleUserStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.AdminUserActionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteMessage(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.AdminService.ToggleUserStatus(ctx, request.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	log.Info().Int64("id", user.UserID).Bool("isActive", user.IsActive).Msg("user status toggled")

	utils.WriteJSON(w, user, http.StatusOK)
}
