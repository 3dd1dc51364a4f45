package http

import (
	"net/http"

	"github.com/baseytransit/transit-server/internal/utils"
)

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"version": h.version}, http.StatusOK)
}
