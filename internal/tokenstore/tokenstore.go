// Пакет tokenstore — хранилище сессий: непрозрачный токен → ID пользователя.
//
// Ключ сессии — "auth_<token>". Значение — строковый UUID пользователя,
// запись живёт до истечения TTL или явного удаления (disconnect).
package tokenstore

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession — сессия не найдена или истекла.
var ErrNoSession = errors.New("сессия не найдена")

// keyPrefix — пространство имён ключей сессий.
const keyPrefix = "auth_"

// Store — хранилище сессий.
type Store interface {
	// Get возвращает ID пользователя по токену или ErrNoSession.
	Get(ctx context.Context, token string) (string, error)
	// Set сохраняет сессию на время ttl.
	Set(ctx context.Context, token, userID string, ttl time.Duration) error
	// Delete удаляет сессию. Отсутствие сессии — не ошибка.
	Delete(ctx context.Context, token string) error
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}

// sessionKey возвращает ключ сессии для токена.
func sessionKey(token string) string {
	return keyPrefix + token
}
