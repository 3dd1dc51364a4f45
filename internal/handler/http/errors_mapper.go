package http

import (
	"errors"
	"net/http"

	"github.com/baseytransit/transit-server/internal/logger"
	"github.com/baseytransit/transit-server/internal/service"
	"github.com/baseytransit/transit-server/internal/store"
	"github.com/baseytransit/transit-server/internal/utils"
)

// errorStatusMap is the single translation table from service and store
// sentinels to HTTP status codes. Handlers never pick status codes ad hoc
// and never inspect error strings.
var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrPasswordTooShort:    http.StatusBadRequest,
	service.ErrResetTokenInvalid:   http.StatusBadRequest,
	service.ErrOTPFormat:           http.StatusBadRequest,
	service.ErrOTPExpired:          http.StatusBadRequest,
	service.ErrOTPMismatch:         http.StatusBadRequest,

	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrTokenIsExpired:          http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,

	service.ErrAccountLocked:      http.StatusForbidden,
	service.ErrAccountNotApproved: http.StatusForbidden,

	store.ErrNoUserWasFound:        http.StatusNotFound,
	store.ErrUsernameAlreadyExists: http.StatusConflict,

	service.ErrSigningKeyMissing:   http.StatusInternalServerError,
	service.ErrTokenCreationFailed: http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:      http.StatusInternalServerError,
	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrScanningRows:          http.StatusInternalServerError,
}

// handleError resolves err against errorStatusMap and writes the JSON
// failure envelope. Mapped client errors expose the sentinel's own message;
// everything resolving to 500, mapped or not, is reduced to the bare status
// text so internals never leak.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			log.Err(err).Int("status", status).Msg("request failed")
			if status == http.StatusInternalServerError {
				utils.WriteMessage(w, http.StatusText(status), status)
				return
			}
			utils.WriteMessage(w, target.Error(), status)
			return
		}
	}

	log.Err(err).Msg("unexpected error")
	utils.WriteMessage(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
