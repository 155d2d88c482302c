// handler.go — основной обработчик API Files Module.
// Объединяет доменные обработчики, регистрирует маршруты
// и делегирует запросы в сервисный слой.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/goartstore/files-module/internal/api/errors"
	"github.com/bigkaa/goartstore/files-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/files-module/internal/api/openapi"
	"github.com/bigkaa/goartstore/files-module/internal/service"
)

// APIHandler — основной обработчик API Files Module.
type APIHandler struct {
	health        *HealthHandler
	files         *service.FileService
	users         *service.UserService
	auth          *service.AuthService
	app           *service.AppService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// maxUploadSize — предел тела POST /files в байтах (FM_MAX_UPLOAD_SIZE).
func NewAPIHandler(
	health *HealthHandler,
	files *service.FileService,
	users *service.UserService,
	auth *service.AuthService,
	app *service.AppService,
	maxUploadSize int64,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:        health,
		files:         files,
		users:         users,
		auth:          auth,
		app:           app,
		maxUploadSize: maxUploadSize,
		logger:        logger.With(slog.String("component", "api_handler")),
	}
}

// Routes регистрирует все маршруты API на router.
// Ожидает, что выше по цепочке установлен middleware.SessionAuth.
func (h *APIHandler) Routes(r chi.Router) {
	// Служебные endpoints
	r.Get("/health/live", h.health.HealthLive)
	r.Get("/health/ready", h.health.HealthReady)
	r.Get("/metrics", h.health.GetMetrics)
	r.Method(http.MethodGet, "/openapi.yaml", openapi.Handler())

	// Без сессии
	r.Get("/status", h.GetStatus)
	r.Get("/stats", h.GetStats)
	r.Post("/users", h.CreateUser)
	r.Get("/connect", h.Connect)
	r.Get("/disconnect", h.Disconnect)

	// Сессия необязательна: публичное содержимое доступно анонимно
	r.Get("/files/{id}/data", h.GetEntryData)

	// Только с сессией
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)

		r.Get("/users/me", h.GetMe)
		r.Post("/files", h.CreateEntry)
		r.Get("/files", h.ListEntries)
		r.Get("/files/{id}", h.GetEntry)
		r.Put("/files/{id}/publish", h.PublishEntry)
		r.Put("/files/{id}/unpublish", h.UnpublishEntry)
	})
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// handleServiceError преобразует ошибку сервисного слоя в HTTP-ответ.
func (h *APIHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		apierrors.ValidationError(w, vErr.Message)
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w)
	case errors.Is(err, service.ErrUnauthorized):
		apierrors.Unauthorized(w)
	case errors.Is(err, service.ErrFolderContent):
		apierrors.ValidationError(w, apierrors.MsgFolderContent)
	default:
		h.logger.Error("Внутренняя ошибка",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		apierrors.InternalError(w)
	}
}
