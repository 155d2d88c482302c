// Пакет blobstore — хранение содержимого файлов на локальном диске.
// Каждый blob сохраняется под случайным UUID-именем в корневом каталоге.
package blobstore

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrNotFound — blob отсутствует на диске.
var ErrNotFound = errors.New("blob не найден")

// Store — управление blob-файлами на диске.
type Store struct {
	// root — корневой каталог (FM_FOLDER_PATH)
	root string
}

// SaveResult — результат сохранения blob.
type SaveResult struct {
	// LocalPath — абсолютный путь blob на диске
	LocalPath string
	// Size — размер записанных данных в байтах
	Size int64
	// Checksum — SHA-256 содержимого
	Checksum string
}

// New создаёт Store и каталог root, если его нет.
func New(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("некорректный путь хранилища %s: %w", root, err)
	}
	s := &Store{root: abs}
	if err := s.ensureRoot(); err != nil {
		return nil, err
	}
	return s, nil
}

// Root возвращает корневой каталог хранилища.
func (s *Store) Root() string {
	return s.root
}

// Save записывает data в новый blob.
//
// Каталог создаётся при каждой записи (MkdirAll не падает, если он уже есть).
// Паттерн: temp файл → запись + SHA-256 → fsync → atomic rename.
// При ошибке temp файл удаляется.
func (s *Store) Save(data []byte) (*SaveResult, error) {
	if err := s.ensureRoot(); err != nil {
		return nil, err
	}

	name := uuid.NewString()
	fullPath := filepath.Join(s.root, name)

	f, err := os.CreateTemp(s.root, name+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpPath := f.Name()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, hasher), bytes.NewReader(data))
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка записи данных: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return &SaveResult{
		LocalPath: fullPath,
		Size:      size,
		Checksum:  hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Exists проверяет наличие blob по сохранённому пути.
// Отсутствие файла — (false, nil), прочие ошибки stat возвращаются.
func (s *Store) Exists(localPath string) (bool, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки blob %s: %w", localPath, err)
	}
	return !info.IsDir(), nil
}

// Open открывает blob для чтения. Вызывающий код обязан закрыть файл.
func (s *Store) Open(localPath string) (*os.File, error) {
	f, err := os.Open(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка открытия blob %s: %w", localPath, err)
	}
	return f, nil
}

// ReadAll читает blob целиком.
func (s *Store) ReadAll(localPath string) ([]byte, error) {
	f, err := s.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// ensureRoot создаёт корневой каталог, если его нет.
func (s *Store) ensureRoot() error {
	if err := os.MkdirAll(s.root, 0o750); err != nil {
		return fmt.Errorf("не удалось создать каталог хранилища %s: %w", s.root, err)
	}
	return nil
}
