// session.go — разрешение токена сессии в ID пользователя.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/files-module/internal/tokenstore"
)

// SessionService — разрешение токена X-Token в пользователя.
type SessionService struct {
	tokens tokenstore.Store
	logger *slog.Logger
}

// NewSessionService создаёт сервис сессий.
func NewSessionService(tokens tokenstore.Store, logger *slog.Logger) *SessionService {
	return &SessionService{
		tokens: tokens,
		logger: logger.With(slog.String("component", "session_service")),
	}
}

// ResolveSession возвращает ID пользователя по токену.
// Пустой, неизвестный или истёкший токен — ErrUnauthorized.
// Ошибка хранилища сессий логируется и тоже считается отсутствием сессии.
func (s *SessionService) ResolveSession(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrUnauthorized
	}

	raw, err := s.tokens.Get(ctx, token)
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNoSession) {
			s.logger.Warn("Ошибка чтения сессии",
				slog.String("error", err.Error()),
			)
		}
		return uuid.Nil, ErrUnauthorized
	}

	userID, err := uuid.Parse(raw)
	if err != nil || userID == uuid.Nil {
		s.logger.Warn("Сессия содержит некорректный ID пользователя",
			slog.String("user_id", raw),
		)
		return uuid.Nil, ErrUnauthorized
	}
	return userID, nil
}
