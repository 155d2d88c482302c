// Пакет model — доменные модели Files Module.
package model

import (
	"time"

	"github.com/google/uuid"
)

// FileType — тип записи в дереве файлов.
type FileType string

// Допустимые типы записей.
const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

// Valid сообщает, является ли тип одним из трёх допустимых.
func (t FileType) Valid() bool {
	switch t {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	}
	return false
}

// IsFolder сообщает, является ли запись папкой.
func (t FileType) IsFolder() bool {
	return t == FileTypeFolder
}

// RootID — родитель записей верхнего уровня.
var RootID = uuid.Nil

// FileRecord — запись о файле или папке.
type FileRecord struct {
	// ID — UUID записи, назначается хранилищем при вставке
	ID uuid.UUID
	// UserID — владелец, неизменяем после создания
	UserID uuid.UUID
	// Name — имя записи (непустое)
	Name string
	// Type — folder, file или image
	Type FileType
	// ParentID — UUID родительской папки, RootID для корня
	ParentID uuid.UUID
	// IsPublic — доступность содержимого без сессии
	IsPublic bool
	// LocalPath — расположение содержимого в blob store.
	// Пустой для папок, клиентам не отдаётся.
	LocalPath string
	// CreatedAt — время создания записи
	CreatedAt time.Time
}

// IsRoot сообщает, лежит ли запись в корне.
func (f *FileRecord) IsRoot() bool {
	return f.ParentID == RootID
}

// OwnedBy сообщает, принадлежит ли запись пользователю.
func (f *FileRecord) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && f.UserID == userID
}

// Clone возвращает копию записи.
func (f *FileRecord) Clone() *FileRecord {
	c := *f
	return &c
}
