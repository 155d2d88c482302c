// auth.go — выдача и отзыв токенов сессий (connect / disconnect).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/goartstore/files-module/internal/repository"
	"github.com/bigkaa/goartstore/files-module/internal/tokenstore"
)

// AuthService — вход по email/паролю и выход.
type AuthService struct {
	users    repository.UserRepository
	tokens   tokenstore.Store
	sessions *SessionService
	ttl      time.Duration
	logger   *slog.Logger
}

// NewAuthService создаёт сервис аутентификации. ttl — время жизни сессии.
func NewAuthService(
	users repository.UserRepository,
	tokens tokenstore.Store,
	sessions *SessionService,
	ttl time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Connect проверяет email и пароль и выдаёт новый токен.
// Неизвестный email и неверный пароль неразличимы: ErrUnauthorized.
func (s *AuthService) Connect(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("поиск пользователя: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrUnauthorized
	}

	token := uuid.NewString()
	if err := s.tokens.Set(ctx, token, user.ID.String(), s.ttl); err != nil {
		return "", fmt.Errorf("сохранение сессии: %w", err)
	}

	s.logger.Info("Сессия открыта",
		slog.String("user_id", user.ID.String()),
	)
	return token, nil
}

// Disconnect удаляет сессию. Нет действующей сессии — ErrUnauthorized.
func (s *AuthService) Disconnect(ctx context.Context, token string) error {
	userID, err := s.sessions.ResolveSession(ctx, token)
	if err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, token); err != nil {
		return fmt.Errorf("удаление сессии: %w", err)
	}

	s.logger.Info("Сессия закрыта",
		slog.String("user_id", userID.String()),
	)
	return nil
}
