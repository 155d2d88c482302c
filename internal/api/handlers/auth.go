// auth.go — вход (Basic) и выход (X-Token).
package handlers

import (
	"net/http"

	apierrors "github.com/bigkaa/goartstore/files-module/internal/api/errors"
	"github.com/bigkaa/goartstore/files-module/internal/api/middleware"
)

type tokenResponse struct {
	Token string `json:"token"`
}

// Connect — GET /connect с Authorization: Basic base64(email:password).
func (h *APIHandler) Connect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		apierrors.Unauthorized(w)
		return
	}

	token, err := h.auth.Connect(r.Context(), email, password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Disconnect — GET /disconnect. Удаляет сессию текущего токена.
func (h *APIHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Disconnect(r.Context(), middleware.TokenFromRequest(r)); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
