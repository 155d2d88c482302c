// users.go — регистрация пользователей и профиль текущего пользователя.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/goartstore/files-module/internal/domain/model"
	"github.com/bigkaa/goartstore/files-module/internal/repository"
)

// CreateUserParams — входные данные регистрации.
type CreateUserParams struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

var createUserMessages = map[string]string{
	"Email":    MsgMissingEmail,
	"Password": MsgMissingPassword,
}

// UserService — сервис пользователей.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:      users,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger.With(slog.String("component", "user_service")),
	}
}

// Create регистрирует пользователя. Пароль хранится как bcrypt-хэш.
// Занятый email — ValidationError "Already exist".
func (s *UserService) Create(ctx context.Context, params CreateUserParams) (*model.User, error) {
	if err := firstViolation(params, createUserMessages); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, newValidationError(MsgPasswordTooLong)
		}
		return nil, fmt.Errorf("хэширование пароля: %w", err)
	}

	user := &model.User{Email: params.Email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, newValidationError(MsgUserAlreadyExists)
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	s.logger.Info("Пользователь зарегистрирован",
		slog.String("user_id", user.ID.String()),
	)
	return user, nil
}

// Get возвращает пользователя сессии. Удалённый пользователь — ErrUnauthorized.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return user, nil
}
