package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/goartstore/files-module/internal/domain/model"
)

// fileColumns — список столбцов таблицы files для SELECT-запросов.
const fileColumns = `id, user_id, name, type, parent_id, is_public, local_path, created_at`

// fileRepo — реализация FileRepository через pgx.
type fileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий файлов.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepo{db: db}
}

// Create вставляет запись. ID и created_at генерирует PostgreSQL.
func (r *fileRepo) Create(ctx context.Context, f *model.FileRecord) error {
	query := `
		INSERT INTO files (user_id, name, type, parent_id, is_public, local_path)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		f.UserID, f.Name, string(f.Type), parentArg(f.ParentID), f.IsPublic, localPathArg(f.LocalPath),
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания записи файла: %w", err)
	}
	return nil
}

// GetByID возвращает запись по UUID или ErrNotFound.
func (r *fileRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла: %w", err)
	}
	return f, nil
}

// GetByIDAndOwner возвращает запись по UUID и владельцу или ErrNotFound.
func (r *fileRepo) GetByIDAndOwner(ctx context.Context, id, userID uuid.UUID) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1 AND user_id = $2`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла: %w", err)
	}
	return f, nil
}

// List возвращает страницу записей владельца.
func (r *fileRepo) List(ctx context.Context, filter ListFilter) ([]*model.FileRecord, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка листинга файлов: %w", err)
	}
	defer rows.Close()

	result := make([]*model.FileRecord, 0, filter.Limit)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования файла: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}
	return result, nil
}

// SetPublic обновляет is_public одним UPDATE ... RETURNING.
// Запись чужого владельца неотличима от отсутствующей.
func (r *fileRepo) SetPublic(ctx context.Context, id, userID uuid.UUID, public bool) (*model.FileRecord, error) {
	query := fmt.Sprintf(`
		UPDATE files SET is_public = $3
		WHERE id = $1 AND user_id = $2
		RETURNING %s`, fileColumns)

	f, err := scanFile(r.db.QueryRow(ctx, query, id, userID, public))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления видимости файла: %w", err)
	}
	return f, nil
}

// Count возвращает количество записей в таблице files.
func (r *fileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта файлов: %w", err)
	}
	return n, nil
}

// buildListQuery строит SELECT для листинга с фильтром по владельцу и родителю.
// Сортировка (created_at, id) стабильна, поэтому соседние страницы не пересекаются.
func buildListQuery(filter ListFilter) (query string, args []any) {
	conditions := []string{"user_id = $1"}
	args = []any{filter.UserID}

	if filter.ParentID != nil {
		if *filter.ParentID == model.RootID {
			conditions = append(conditions, "parent_id IS NULL")
		} else {
			args = append(args, *filter.ParentID)
			conditions = append(conditions, fmt.Sprintf("parent_id = $%d", len(args)))
		}
	}

	argNum := len(args) + 1
	query = fmt.Sprintf(
		`SELECT %s FROM files WHERE %s ORDER BY created_at ASC, id ASC LIMIT $%d OFFSET $%d`,
		fileColumns, strings.Join(conditions, " AND "), argNum, argNum+1,
	)
	args = append(args, filter.Limit, filter.Offset)
	return query, args
}

// scanFile сканирует строку в FileRecord (порядок столбцов — fileColumns).
func scanFile(row pgx.Row) (*model.FileRecord, error) {
	var (
		f         model.FileRecord
		fileType  string
		parentID  *uuid.UUID
		localPath *string
	)
	if err := row.Scan(
		&f.ID, &f.UserID, &f.Name, &fileType, &parentID, &f.IsPublic, &localPath, &f.CreatedAt,
	); err != nil {
		return nil, err
	}

	f.Type = model.FileType(fileType)
	if parentID != nil {
		f.ParentID = *parentID
	}
	if localPath != nil {
		f.LocalPath = *localPath
	}
	return &f, nil
}

// parentArg возвращает NULL для корня.
func parentArg(id uuid.UUID) any {
	if id == model.RootID {
		return nil
	}
	return id
}

// localPathArg возвращает NULL для папок.
func localPathArg(p string) any {
	if p == "" {
		return nil
	}
	return p
}
