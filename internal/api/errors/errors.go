// Пакет errors — ответы с ошибками в формате Files Module.
// Единый формат: {"error": "<message>"}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors //nolint:revive // пакет именуется по аналогии с остальными модулями

import (
	"encoding/json"
	"net/http"
)

// Сообщения, возвращаемые клиенту.
const (
	MsgUnauthorized     = "Unauthorized"
	MsgNotFound         = "Not found"
	MsgFolderContent    = "A folder doesn't have content"
	MsgFileTooLarge     = "File too large"
	MsgInvalidBody      = "Invalid body"
	MsgInternalError    = "Internal server error"
	MsgMethodNotAllowed = "Method not allowed"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError записывает ответ ошибки в стандартном формате.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// NotFound — 404 ресурс не найден (в том числе чужой).
func NotFound(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, MsgNotFound)
}

// Unauthorized — 401 нет действующей сессии.
func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, MsgUnauthorized)
}

// FileTooLarge — 413 тело запроса превышает FM_MAX_UPLOAD_SIZE.
func FileTooLarge(w http.ResponseWriter) {
	WriteError(w, http.StatusRequestEntityTooLarge, MsgFileTooLarge)
}

// MethodNotAllowed — 405 метод не поддерживается маршрутом.
func MethodNotAllowed(w http.ResponseWriter) {
	WriteError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
}

// InternalError — 500 внутренняя ошибка. Детали клиенту не раскрываются.
func InternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, MsgInternalError)
}
