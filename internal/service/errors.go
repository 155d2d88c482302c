// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден (в том числе чужой или без содержимого на диске).
	ErrNotFound = errors.New("ресурс не найден")
	// ErrUnauthorized — нет действующей сессии.
	ErrUnauthorized = errors.New("сессия отсутствует или недействительна")
	// ErrFolderContent — запрошено содержимое папки.
	ErrFolderContent = errors.New("у папки нет содержимого")
)

// Сообщения ошибок валидации, возвращаемые клиенту как есть.
const (
	MsgMissingName       = "Missing name"
	MsgMissingType       = "Missing type"
	MsgMissingData       = "Missing data"
	MsgInvalidData       = "Invalid data"
	MsgParentNotFound    = "Parent not found"
	MsgParentNotFolder   = "Parent is not a folder"
	MsgMissingEmail      = "Missing email"
	MsgMissingPassword   = "Missing password"
	MsgPasswordTooLong   = "Password too long"
	MsgUserAlreadyExists = "Already exist"
)

// ValidationError — ошибка валидации входных данных.
// Message уходит клиенту без изменений.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "ошибка валидации: " + e.Message
}

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
