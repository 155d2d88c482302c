// app.go — состояние хранилищ и счётчики для /status и /stats.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bigkaa/goartstore/files-module/internal/repository"
)

// Pinger — зависимость с проверкой доступности.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status — доступность хранилищ.
type Status struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// Stats — количество пользователей и записей.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// AppService — сводка о состоянии сервиса.
type AppService struct {
	tokens Pinger
	db     Pinger
	users  repository.UserRepository
	files  repository.FileRepository
}

// NewAppService создаёт сервис сводки.
func NewAppService(tokens, db Pinger, users repository.UserRepository, files repository.FileRepository) *AppService {
	return &AppService{tokens: tokens, db: db, users: users, files: files}
}

// pingTimeout — предел ожидания одной проверки.
const pingTimeout = 2 * time.Second

// Status проверяет хранилище сессий и хранилище метаданных.
func (s *AppService) Status(ctx context.Context) Status {
	return Status{
		Redis: ping(ctx, s.tokens),
		DB:    ping(ctx, s.db),
	}
}

// Stats возвращает количество пользователей и записей.
func (s *AppService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("подсчёт пользователей: %w", err)
	}
	files, err := s.files.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("подсчёт записей: %w", err)
	}
	return &Stats{Users: users, Files: files}, nil
}

func ping(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return p.Ping(ctx) == nil
}
