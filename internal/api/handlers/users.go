// users.go — регистрация и профиль пользователя.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/files-module/internal/api/errors"
	"github.com/bigkaa/goartstore/files-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/files-module/internal/domain/model"
	"github.com/bigkaa/goartstore/files-module/internal/service"
)

// maxUserBodySize — предел тела POST /users.
const maxUserBodySize = 64 << 10

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse — пользователь без хэша пароля.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID.String(), Email: u.Email}
}

// CreateUser — POST /users.
func (h *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	body := http.MaxBytesReader(w, r.Body, maxUserBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		apierrors.ValidationError(w, apierrors.MsgInvalidBody)
		return
	}

	user, err := h.users.Create(r.Context(), service.CreateUserParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// GetMe — GET /users/me.
func (h *APIHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
