package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/GoArmGo/registro/internal/core/ports"
	"github.com/GoArmGo/registro/internal/domain"
)

// MemoryAccountStorage хранит учётные записи в памяти с тем же
// ограничением уникальности email, что и таблица clientes.
type MemoryAccountStorage struct {
	mu       sync.Mutex
	accounts []domain.Account
	byEmail  map[string]struct{}
	open     int
}

func NewMemoryAccountStorage() *MemoryAccountStorage {
	return &MemoryAccountStorage{byEmail: make(map[string]struct{})}
}

func (m *MemoryAccountStorage) Open(context.Context) (ports.AccountSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open++
	return &memorySession{store: m}, nil
}

// Accounts возвращает копию сохранённых записей.
func (m *MemoryAccountStorage) Accounts() []domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Account, len(m.accounts))
	copy(out, m.accounts)
	return out
}

// OpenSessions — число сессий, которые ещё не закрыты.
func (m *MemoryAccountStorage) OpenSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *MemoryAccountStorage) insert(account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[account.Email]; ok {
		return fmt.Errorf("%w: clientes_email_key", domain.ErrDuplicateKey)
	}
	m.byEmail[account.Email] = struct{}{}
	m.accounts = append(m.accounts, account)
	return nil
}

type memorySession struct {
	store  *MemoryAccountStorage
	closed bool
}

func (s *memorySession) InsertAccount(_ context.Context, account domain.Account) error {
	if s.closed {
		return fmt.Errorf("%w: session is closed", domain.ErrStorageFailure)
	}
	return s.store.insert(account)
}

func (s *memorySession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.store.mu.Lock()
	s.store.open--
	s.store.mu.Unlock()
	return nil
}
