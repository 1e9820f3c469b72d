package store

import (
	"context"
	"sort"
	"sync"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"
)

// DirectorStore описывает хранилище режиссеров. Удаление режиссера,
// прикрепленного хотя бы к одному фильму, отклоняется.
type DirectorStore interface {
	Create(ctx context.Context, director *domain.Director) error
	GetBySlug(ctx context.Context, slug string) (*domain.Director, error)
	List(ctx context.Context) ([]*domain.Director, error)
	Delete(ctx context.Context, id int64) error
}

// MockDirectorStore — in-memory хранилище режиссеров для тестов.
// Protected содержит идентификаторы режиссеров, прикрепленных к фильмам.
type MockDirectorStore struct {
	mu        sync.RWMutex
	nextID    int64
	directors map[string]*domain.Director // ключ — slug
	Protected map[int64]bool
}

func NewMockDirectorStore() *MockDirectorStore {
	return &MockDirectorStore{
		directors: make(map[string]*domain.Director),
		Protected: make(map[int64]bool),
	}
}

func (m *MockDirectorStore) Create(ctx context.Context, director *domain.Director) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.directors[director.Slug]; exists {
		return ErrLookupAlreadyExists
	}
	m.nextID++
	director.ID = m.nextID
	directorCopy := *director
	m.directors[director.Slug] = &directorCopy
	return nil
}

func (m *MockDirectorStore) GetBySlug(ctx context.Context, slug string) (*domain.Director, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	director, ok := m.directors[slug]
	if !ok {
		return nil, ErrDirectorNotFound
	}
	directorCopy := *director
	return &directorCopy, nil
}

func (m *MockDirectorStore) List(ctx context.Context) ([]*domain.Director, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Director, 0, len(m.directors))
	for _, d := range m.directors {
		directorCopy := *d
		result = append(result, &directorCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return result, nil
}

func (m *MockDirectorStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Protected[id] {
		return ErrStillReferenced
	}
	for slug, d := range m.directors {
		if d.ID == id {
			delete(m.directors, slug)
			return nil
		}
	}
	return ErrDirectorNotFound
}
