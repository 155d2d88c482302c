package model

import (
	"time"

	"github.com/google/uuid"
)

// User — зарегистрированный пользователь.
type User struct {
	ID uuid.UUID
	// Email — уникальный логин
	Email string
	// PasswordHash — bcrypt-хэш пароля
	PasswordHash string
	CreatedAt    time.Time
}
