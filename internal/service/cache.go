// cache.go — LRU-кэш метаданных файлов с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/files-module/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш метаданных.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fm_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша метаданных.",
	})
)

// EntryFacts — поля записи, неизменяемые после создания.
// isPublic сюда не входит: видимость читается из хранилища при каждом запросе.
type EntryFacts struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      model.FileType
	LocalPath string
}

// FactsOf извлекает неизменяемые поля записи.
func FactsOf(record *model.FileRecord) EntryFacts {
	return EntryFacts{
		ID:        record.ID,
		UserID:    record.UserID,
		Name:      record.Name,
		Type:      record.Type,
		LocalPath: record.LocalPath,
	}
}

// CacheService — LRU-кэш неизменяемых полей записей по ID.
// Записи не удаляются и не меняют тип, владельца и имя, поэтому
// кэш не требует инвалидации между экземплярами.
// Нулевой указатель — отключённый кэш (все методы безопасны).
type CacheService struct {
	cache *expirable.LRU[uuid.UUID, EntryFacts]
}

// NewCacheService создаёт LRU-кэш с указанным максимальным размером и TTL.
// При maxSize <= 0 возвращает nil — кэш отключён.
func NewCacheService(maxSize int, ttl time.Duration) *CacheService {
	if maxSize <= 0 {
		return nil
	}
	return &CacheService{
		cache: expirable.NewLRU[uuid.UUID, EntryFacts](maxSize, nil, ttl),
	}
}

// Get возвращает поля записи из кэша.
// Обновляет Prometheus-метрики hit/miss.
func (c *CacheService) Get(id uuid.UUID) (EntryFacts, bool) {
	if c == nil {
		return EntryFacts{}, false
	}
	val, ok := c.cache.Get(id)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return EntryFacts{}, false
}

// Set добавляет или заменяет поля записи в кэше.
func (c *CacheService) Set(record *model.FileRecord) {
	if c == nil {
		return
	}
	c.cache.Add(record.ID, FactsOf(record))
}

// Delete удаляет запись из кэша.
func (c *CacheService) Delete(id uuid.UUID) {
	if c == nil {
		return
	}
	c.cache.Remove(id)
}

// Len возвращает количество записей в кэше.
func (c *CacheService) Len() int {
	if c == nil {
		return 0
	}
	return c.cache.Len()
}
