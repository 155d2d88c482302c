// files.go — обработчики дерева файлов: загрузка, листинг, просмотр,
// публикация и выдача содержимого.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	apierrors "github.com/bigkaa/goartstore/files-module/internal/api/errors"
	"github.com/bigkaa/goartstore/files-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/files-module/internal/domain/model"
	"github.com/bigkaa/goartstore/files-module/internal/service"
)

// createEntryRequest — тело POST /files.
// parentId принимается числом (0 — корень) или строкой.
type createEntryRequest struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	ParentID json.RawMessage `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// fileResponse — представление записи для клиента.
// localPath не сериализуется никогда.
type fileResponse struct {
	ID       string         `json:"id"`
	UserID   string         `json:"userId"`
	Name     string         `json:"name"`
	Type     model.FileType `json:"type"`
	IsPublic bool           `json:"isPublic"`
	// ParentID — число 0 для корня, иначе строковый UUID
	ParentID any `json:"parentId"`
}

func toFileResponse(f *model.FileRecord) fileResponse {
	var parent any = 0
	if !f.IsRoot() {
		parent = f.ParentID.String()
	}
	return fileResponse{
		ID:       f.ID.String(),
		UserID:   f.UserID.String(),
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: parent,
	}
}

// parentRef приводит сырой parentId к строке: отсутствие, null и false —
// корень (как и 0). Остальные значения передаются сервису как есть.
func parentRef(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("false")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// CreateEntry — POST /files.
func (h *APIHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req createEntryRequest
	body := http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.FileTooLarge(w)
			return
		}
		apierrors.ValidationError(w, apierrors.MsgInvalidBody)
		return
	}

	record, err := h.files.CreateEntry(r.Context(), userID, service.CreateEntryParams{
		Name:     req.Name,
		Type:     req.Type,
		Data:     req.Data,
		ParentID: parentRef(req.ParentID),
		IsPublic: req.IsPublic,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFileResponse(record))
}

// ListEntries — GET /files?parentId=&page=.
// Пустой parentId равнозначен отсутствующему.
func (h *APIHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	query := r.URL.Query()

	var parentID *string
	if v := query.Get("parentId"); v != "" {
		parentID = &v
	}

	records, err := h.files.ListEntries(r.Context(), userID, parentID, parsePage(query.Get("page")))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	items := make([]fileResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, toFileResponse(rec))
	}
	writeJSON(w, http.StatusOK, items)
}

// parsePage разбирает номер страницы. Нечисловое значение — нулевая
// страница. Число вне диапазона int насыщается до math.MaxInt или
// math.MinInt: слишком большая страница остаётся пустой, отрицательная
// считается нулевой.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err == nil {
		return page
	}
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	return 0
}

// GetEntry — GET /files/{id}.
func (h *APIHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := bindFileID(r)
	if !ok {
		apierrors.NotFound(w)
		return
	}

	record, err := h.files.GetEntry(r.Context(), middleware.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(record))
}

// PublishEntry — PUT /files/{id}/publish.
func (h *APIHandler) PublishEntry(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// UnpublishEntry — PUT /files/{id}/unpublish.
func (h *APIHandler) UnpublishEntry(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *APIHandler) setVisibility(w http.ResponseWriter, r *http.Request, public bool) {
	id, ok := bindFileID(r)
	if !ok {
		apierrors.NotFound(w)
		return
	}

	record, err := h.files.SetVisibility(r.Context(), middleware.UserIDFromContext(r.Context()), id, public)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFileResponse(record))
}

// GetEntryData — GET /files/{id}/data.
// Без сессии зритель анонимен: доступно только публичное содержимое.
// Поддерживает Range и условные запросы через http.ServeContent.
func (h *APIHandler) GetEntryData(w http.ResponseWriter, r *http.Request) {
	id, ok := bindFileID(r)
	if !ok {
		apierrors.NotFound(w)
		return
	}

	content, err := h.files.ReadContent(r.Context(), middleware.UserIDFromContext(r.Context()), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	defer content.Body.Close()

	w.Header().Set("Content-Type", content.ContentType)
	http.ServeContent(w, r, content.Name, content.ModTime, content.Body)
}
