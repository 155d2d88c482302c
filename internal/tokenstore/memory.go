package tokenstore

import (
	"context"
	"sync"
	"time"
)

// memoryEntry — сессия с моментом истечения.
type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore — in-memory хранилище сессий (тесты, локальный запуск).
// Истёкшие записи удаляются лениво при чтении.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

// Get возвращает ID пользователя, если сессия не истекла.
func (s *MemoryStore) Get(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(token)
	e, ok := s.sessions[key]
	if !ok {
		return "", ErrNoSession
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, key)
		return "", ErrNoSession
	}
	return e.userID, nil
}

// Set сохраняет сессию на ttl.
func (s *MemoryStore) Set(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionKey(token)] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

// Delete удаляет сессию.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionKey(token))
	return nil
}

// Ping всегда успешен.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
