// Пакет repository — слой доступа к метаданным Files Module.
// Интерфейсы хранилищ и их реализация на PostgreSQL.
// Все запросы — чистый SQL через pgx, без ORM.
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bigkaa/goartstore/files-module/internal/domain/model"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrConflict — конфликт уникальности (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — запись уже существует")
)

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ListFilter — параметры постраничного листинга записей.
type ListFilter struct {
	// UserID — владелец (обязательный фильтр)
	UserID uuid.UUID
	// ParentID — nil: все записи владельца; model.RootID: только корень
	ParentID *uuid.UUID
	// Limit — размер страницы
	Limit int
	// Offset — смещение
	Offset int
}

// FileRepository — хранилище метаданных файлов и папок.
type FileRepository interface {
	// Create вставляет запись и заполняет ID и CreatedAt.
	Create(ctx context.Context, f *model.FileRecord) error
	// GetByID возвращает запись по UUID без учёта владельца.
	GetByID(ctx context.Context, id uuid.UUID) (*model.FileRecord, error)
	// GetByIDAndOwner возвращает запись, только если она принадлежит userID.
	GetByIDAndOwner(ctx context.Context, id, userID uuid.UUID) (*model.FileRecord, error)
	// List возвращает страницу записей в порядке вставки.
	List(ctx context.Context, filter ListFilter) ([]*model.FileRecord, error)
	// SetPublic записывает флаг is_public и возвращает обновлённую запись.
	SetPublic(ctx context.Context, id, userID uuid.UUID, public bool) (*model.FileRecord, error)
	// Count возвращает общее количество записей.
	Count(ctx context.Context) (int64, error)
}

// UserRepository — хранилище пользователей.
type UserRepository interface {
	// Create вставляет пользователя, ErrConflict при занятом email.
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Count(ctx context.Context) (int64, error)
}

// isUniqueViolation проверяет, является ли ошибка нарушением уникальности PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
