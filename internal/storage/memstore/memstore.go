// Пакет memstore — потокобезопасное in-memory хранилище метаданных.
//
// Реализует repository.FileRepository и repository.UserRepository
// без внешних зависимостей. Используется при FM_METADATA_BACKEND=memory
// (локальный запуск) и в тестах сервисного слоя.
//
// Не персистентное: при рестарте данные теряются.
package memstore

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/goartstore/files-module/internal/domain/model"
	"github.com/bigkaa/goartstore/files-module/internal/repository"
)

// fileEntry — запись с порядковым номером вставки.
type fileEntry struct {
	seq    uint64
	record *model.FileRecord
}

// Files — in-memory реализация repository.FileRepository.
// sync.RWMutex: конкурентное чтение, эксклюзивная запись.
type Files struct {
	mu     sync.RWMutex
	files  map[uuid.UUID]*fileEntry
	seq    uint64
	logger *slog.Logger
}

// NewFiles создаёт пустое хранилище записей.
func NewFiles(logger *slog.Logger) *Files {
	return &Files{
		files:  make(map[uuid.UUID]*fileEntry),
		logger: logger.With(slog.String("component", "memstore_files")),
	}
}

var _ repository.FileRepository = (*Files)(nil)

// Create сохраняет копию записи, назначая ID и CreatedAt.
func (s *Files) Create(_ context.Context, f *model.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.ID = uuid.New()
	f.CreatedAt = time.Now().UTC()
	s.seq++
	s.files[f.ID] = &fileEntry{seq: s.seq, record: f.Clone()}

	s.logger.Debug("Запись добавлена",
		slog.String("file_id", f.ID.String()),
		slog.String("type", string(f.Type)),
	)
	return nil
}

// GetByID возвращает копию записи или repository.ErrNotFound.
func (s *Files) GetByID(_ context.Context, id uuid.UUID) (*model.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e.record.Clone(), nil
}

// GetByIDAndOwner возвращает копию записи владельца или repository.ErrNotFound.
func (s *Files) GetByIDAndOwner(ctx context.Context, id, userID uuid.UUID) (*model.FileRecord, error) {
	f, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return f, nil
}

// List возвращает страницу записей в порядке вставки.
// Смещение за пределами выборки даёт пустой срез.
func (s *Files) List(_ context.Context, filter repository.ListFilter) ([]*model.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var filtered []*fileEntry
	for _, e := range s.files {
		if e.record.UserID != filter.UserID {
			continue
		}
		if filter.ParentID != nil && e.record.ParentID != *filter.ParentID {
			continue
		}
		filtered = append(filtered, e)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].seq < filtered[j].seq
	})

	result := make([]*model.FileRecord, 0, filter.Limit)
	if filter.Offset >= len(filtered) {
		return result, nil
	}
	end := len(filtered)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	for _, e := range filtered[filter.Offset:end] {
		result = append(result, e.record.Clone())
	}
	return result, nil
}

// SetPublic обновляет флаг видимости записи владельца.
func (s *Files) SetPublic(_ context.Context, id, userID uuid.UUID, public bool) (*model.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.files[id]
	if !ok || e.record.UserID != userID {
		return nil, repository.ErrNotFound
	}
	e.record.IsPublic = public
	return e.record.Clone(), nil
}

// Count возвращает количество записей.
func (s *Files) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.files)), nil
}

// Ping всегда успешен — хранилище в памяти процесса.
func (s *Files) Ping(_ context.Context) error {
	return nil
}

// Users — in-memory реализация repository.UserRepository.
type Users struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*model.User
	byEmail map[string]uuid.UUID
}

// NewUsers создаёт пустое хранилище пользователей.
func NewUsers() *Users {
	return &Users{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

var _ repository.UserRepository = (*Users)(nil)

// Create сохраняет пользователя. При занятом email — repository.ErrConflict.
func (s *Users) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return repository.ErrConflict
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()

	copied := *u
	s.byID[u.ID] = &copied
	s.byEmail[u.Email] = u.ID
	return nil
}

// GetByID возвращает копию пользователя или repository.ErrNotFound.
func (s *Users) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

// GetByEmail возвращает копию пользователя или repository.ErrNotFound.
func (s *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	id, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Count возвращает количество пользователей.
func (s *Users) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byID)), nil
}
