package http

import (
	"encoding/json"
	"net/http"

	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/utils"
	"github.com/baseytransit/transit-server/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteMessage(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, token, err := h.services.AuthService.Login(ctx, request.Username, request.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	log.Debug().Int64("id", user.UserID).Msg("user successfully logged in")

	utils.WriteJSON(w, models.LoginResponse{
		User:  user.AuthView(),
		Token: token.SignedString,
	}, http.StatusOK)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteMessage(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.AuthService.Register(ctx, request)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	log.Debug().Int64("id", user.UserID).Str("role", string(user.Role)).Msg("user registered")

	message := "Registration successful. You can now log in."
	if !user.IsActive {
		message = "Registration successful. Your account is pending admin approval."
	}

	utils.WriteJSON(w, models.RegisterResponse{
		Message:             message,
		UserID:              user.UserID,
		RequiresApproval:    !user.IsActive,
		CanLoginImmediately: user.IsActive,
	}, http.StatusCreated)
}
