// files.go — сервис дерева файлов: загрузка, листинг, просмотр,
// переключение видимости и выдача содержимого.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/files-module/internal/domain/model"
	"github.com/bigkaa/goartstore/files-module/internal/repository"
	"github.com/bigkaa/goartstore/files-module/internal/storage/blobstore"
)

// PageSize — фиксированный размер страницы листинга.
const PageSize = 20

// defaultContentType — MIME-тип для имён без известного расширения.
const defaultContentType = "application/octet-stream"

// Prometheus-метрики сервиса файлов.
var (
	entriesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fm_entries_created_total",
			Help: "Общее количество созданных записей по типу.",
		},
		[]string{"type"},
	)
	contentReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fm_content_reads_total",
			Help: "Общее количество запросов содержимого по результату.",
		},
		[]string{"result"},
	)
	uploadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_uploaded_bytes_total",
		Help: "Общий объём сохранённого содержимого в байтах.",
	})
)

// BlobStore — хранилище содержимого файлов.
type BlobStore interface {
	Save(data []byte) (*blobstore.SaveResult, error)
	Exists(localPath string) (bool, error)
	Open(localPath string) (*os.File, error)
}

// CreateEntryParams — входные данные загрузки.
// Порядок полей задаёт порядок проверок: name → type → data.
type CreateEntryParams struct {
	Name string `validate:"required"`
	Type string `validate:"required,oneof=folder file image"`
	Data string `validate:"required_unless=Type folder"`
	// ParentID — "" или "0" для корня, иначе UUID папки
	ParentID string
	IsPublic bool
}

// createEntryMessages — сообщения для нарушенных правил CreateEntryParams.
var createEntryMessages = map[string]string{
	"Name": MsgMissingName,
	"Type": MsgMissingType,
	"Data": MsgMissingData,
}

// Content — содержимое файла для отдачи клиенту.
type Content struct {
	// Name — имя записи (для определения типа)
	Name string
	// ContentType — MIME-тип по расширению имени
	ContentType string
	// Size — размер содержимого в байтах
	Size int64
	// ModTime — время изменения blob
	ModTime time.Time
	// Body — поток содержимого. Вызывающий код обязан закрыть.
	Body io.ReadSeekCloser
}

// FileService — сервис дерева файлов.
type FileService struct {
	files  repository.FileRepository
	blobs  BlobStore
	cache  *CacheService
	logger *slog.Logger
}

// NewFileService создаёт сервис файлов. cache может быть nil.
func NewFileService(
	files repository.FileRepository,
	blobs BlobStore,
	cache *CacheService,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		files:  files,
		blobs:  blobs,
		cache:  cache,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// CreateEntry создаёт папку или файл владельца userID.
//
// Проверки (первое нарушение — результат): name, type, data (кроме папок),
// существование родителя, родитель — папка. Для файлов содержимое
// записывается в blob store до вставки метаданных: сбой между шагами
// оставляет blob без записи.
func (s *FileService) CreateEntry(ctx context.Context, userID uuid.UUID, params CreateEntryParams) (*model.FileRecord, error) {
	if err := firstViolation(params, createEntryMessages); err != nil {
		return nil, err
	}

	parentID, err := s.resolveParent(ctx, params.ParentID)
	if err != nil {
		return nil, err
	}

	record := &model.FileRecord{
		UserID:   userID,
		Name:     params.Name,
		Type:     model.FileType(params.Type),
		ParentID: parentID,
		IsPublic: params.IsPublic,
	}

	if !record.Type.IsFolder() {
		data, err := decodeData(params.Data)
		if err != nil {
			return nil, newValidationError(MsgInvalidData)
		}
		saved, err := s.blobs.Save(data)
		if err != nil {
			return nil, fmt.Errorf("сохранение содержимого: %w", err)
		}
		record.LocalPath = saved.LocalPath
		uploadedBytesTotal.Add(float64(saved.Size))

		s.logger.Debug("Содержимое сохранено",
			slog.String("local_path", saved.LocalPath),
			slog.Int64("size", saved.Size),
			slog.String("checksum", saved.Checksum),
		)
	}

	if err := s.files.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("создание записи: %w", err)
	}
	s.cache.Set(record)
	entriesCreatedTotal.WithLabelValues(string(record.Type)).Inc()

	s.logger.Info("Запись создана",
		slog.String("file_id", record.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("type", string(record.Type)),
	)
	return record, nil
}

// resolveParent проверяет родителя. Пустая строка и "0" — корень.
// Некорректный UUID неотличим от отсутствующей записи.
// Тип записи неизменяем, поэтому родитель ищется сначала в кэше.
func (s *FileService) resolveParent(ctx context.Context, raw string) (uuid.UUID, error) {
	if isRootRef(raw) {
		return model.RootID, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, newValidationError(MsgParentNotFound)
	}

	parent, ok := s.cache.Get(id)
	if !ok {
		record, err := s.files.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return uuid.Nil, newValidationError(MsgParentNotFound)
			}
			return uuid.Nil, fmt.Errorf("получение родителя: %w", err)
		}
		s.cache.Set(record)
		parent = FactsOf(record)
	}
	if !parent.Type.IsFolder() {
		return uuid.Nil, newValidationError(MsgParentNotFolder)
	}
	return parent.ID, nil
}

// ListEntries возвращает страницу записей владельца.
//
// parentID == nil — все записи владельца; "0" — корень; UUID — содержимое папки.
// Родитель не проверяется на принадлежность: чужая или несуществующая
// папка (как и некорректный UUID) даёт пустую страницу.
// Отрицательная страница считается нулевой.
func (s *FileService) ListEntries(ctx context.Context, userID uuid.UUID, parentID *string, page int) ([]*model.FileRecord, error) {
	empty := []*model.FileRecord{}

	if page < 0 {
		page = 0
	}
	if page > math.MaxInt/PageSize {
		return empty, nil
	}

	filter := repository.ListFilter{
		UserID: userID,
		Limit:  PageSize,
		Offset: page * PageSize,
	}

	if parentID != nil {
		pid := model.RootID
		if !isRootRef(*parentID) {
			id, err := uuid.Parse(*parentID)
			if err != nil {
				return empty, nil
			}
			pid = id
		}
		filter.ParentID = &pid
	}

	items, err := s.files.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("листинг записей: %w", err)
	}
	if items == nil {
		return empty, nil
	}
	return items, nil
}

// GetEntry возвращает запись владельца.
// Чужая и отсутствующая запись неразличимы: ErrNotFound.
func (s *FileService) GetEntry(ctx context.Context, userID, id uuid.UUID) (*model.FileRecord, error) {
	record, err := s.files.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение записи: %w", err)
	}
	return record, nil
}

// SetVisibility записывает флаг isPublic записи владельца и возвращает
// сохранённое состояние.
func (s *FileService) SetVisibility(ctx context.Context, userID, id uuid.UUID, public bool) (*model.FileRecord, error) {
	record, err := s.files.SetPublic(ctx, id, userID, public)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("изменение видимости: %w", err)
	}

	s.logger.Info("Видимость записи изменена",
		slog.String("file_id", id.String()),
		slog.Bool("is_public", public),
	)
	return record, nil
}

// ReadContent открывает содержимое файла для зрителя viewer
// (uuid.Nil — анонимный запрос).
//
// Порядок: чтение записи из хранилища без учёта владельца (видимость
// никогда не берётся из кэша), проверка видимости
// (приватное — только владельцу), папка — ErrFolderContent,
// проверка наличия blob на диске, открытие. Ошибки хранилища
// метаданных и отсутствие blob сводятся к ErrNotFound.
func (s *FileService) ReadContent(ctx context.Context, viewer, id uuid.UUID) (*Content, error) {
	record, err := s.lookup(ctx, id)
	if err != nil {
		contentReadsTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}

	if !record.IsPublic && !record.OwnedBy(viewer) {
		contentReadsTotal.WithLabelValues("not_found").Inc()
		return nil, ErrNotFound
	}

	if record.Type.IsFolder() {
		contentReadsTotal.WithLabelValues("folder").Inc()
		return nil, ErrFolderContent
	}

	exists, err := s.blobs.Exists(record.LocalPath)
	if err != nil || !exists {
		s.logger.Warn("Содержимое отсутствует на диске",
			slog.String("file_id", id.String()),
			slog.String("local_path", record.LocalPath),
			slog.Any("error", err),
		)
		contentReadsTotal.WithLabelValues("blob_missing").Inc()
		return nil, ErrNotFound
	}

	f, err := s.blobs.Open(record.LocalPath)
	if err != nil {
		s.logger.Warn("Ошибка открытия содержимого",
			slog.String("file_id", id.String()),
			slog.String("error", err.Error()),
		)
		contentReadsTotal.WithLabelValues("blob_missing").Inc()
		return nil, ErrNotFound
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat содержимого: %w", err)
	}

	contentReadsTotal.WithLabelValues("ok").Inc()
	return &Content{
		Name:        record.Name,
		ContentType: ContentTypeByName(record.Name),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		Body:        f,
	}, nil
}

// lookup читает актуальную запись по ID из хранилища метаданных.
// Ошибка хранилища неотличима от отсутствующей записи.
func (s *FileService) lookup(ctx context.Context, id uuid.UUID) (*model.FileRecord, error) {
	record, err := s.files.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("Ошибка получения записи",
				slog.String("file_id", id.String()),
				slog.String("error", err.Error()),
			)
		}
		return nil, ErrNotFound
	}
	return record, nil
}

// ContentTypeByName определяет MIME-тип по расширению имени.
func ContentTypeByName(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}

// isRootRef сообщает, обозначает ли строка корень: только "" и "0".
func isRootRef(raw string) bool {
	return raw == "" || raw == "0"
}

// decodeData декодирует base64 (с выравниванием или без).
func decodeData(data string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(data)
}
