package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"
)

var (
	ErrLookupNotFound      = errors.New("lookup record not found")
	ErrLookupAlreadyExists = errors.New("lookup record with this slug already exists")
)

// LookupStore описывает хранилище справочных сущностей каталога:
// категорий, стран, тегов и адаптированных названий. Удаление записи,
// на которую ссылается хотя бы один фильм, отклоняется.
type LookupStore interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	ListCountries(ctx context.Context) ([]*domain.Country, error)
	CreateCountry(ctx context.Context, country *domain.Country) error
	DeleteCountry(ctx context.Context, id int64) error

	ListTags(ctx context.Context) ([]*domain.MovieTag, error)
	CreateTag(ctx context.Context, tag *domain.MovieTag) error
	DeleteTag(ctx context.Context, id int64) error

	ListAdaptedTitles(ctx context.Context) ([]*domain.AdaptedTitle, error)
	CreateAdaptedTitle(ctx context.Context, title *domain.AdaptedTitle) error
	DeleteAdaptedTitle(ctx context.Context, id int64) error
}

// MockLookupStore — in-memory хранилище справочников для тестов.
// Protected содержит идентификаторы, "на которые ссылаются фильмы":
// их удаление возвращает ErrStillReferenced.
type MockLookupStore struct {
	mu     sync.RWMutex
	nextID int64

	categories    map[int64]*domain.Category
	countries     map[int64]*domain.Country
	tags          map[int64]*domain.MovieTag
	adaptedTitles map[int64]*domain.AdaptedTitle

	Protected map[int64]bool
}

func NewMockLookupStore() *MockLookupStore {
	return &MockLookupStore{
		categories:    make(map[int64]*domain.Category),
		countries:     make(map[int64]*domain.Country),
		tags:          make(map[int64]*domain.MovieTag),
		adaptedTitles: make(map[int64]*domain.AdaptedTitle),
		Protected:     make(map[int64]bool),
	}
}

func (m *MockLookupStore) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categoryCopy := *c
		result = append(result, &categoryCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockLookupStore) CreateCategory(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == category.Slug {
			return ErrLookupAlreadyExists
		}
	}
	m.nextID++
	category.ID = m.nextID
	categoryCopy := *category
	m.categories[category.ID] = &categoryCopy
	return nil
}

func (m *MockLookupStore) DeleteCategory(ctx context.Context, id int64) error {
	return m.deleteByID(id, func() bool { _, ok := m.categories[id]; return ok }, func() { delete(m.categories, id) })
}

func (m *MockLookupStore) ListCountries(ctx context.Context) ([]*domain.Country, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Country, 0, len(m.countries))
	for _, c := range m.countries {
		countryCopy := *c
		result = append(result, &countryCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockLookupStore) CreateCountry(ctx context.Context, country *domain.Country) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	country.ID = m.nextID
	countryCopy := *country
	m.countries[country.ID] = &countryCopy
	return nil
}

func (m *MockLookupStore) DeleteCountry(ctx context.Context, id int64) error {
	return m.deleteByID(id, func() bool { _, ok := m.countries[id]; return ok }, func() { delete(m.countries, id) })
}

func (m *MockLookupStore) ListTags(ctx context.Context) ([]*domain.MovieTag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.MovieTag, 0, len(m.tags))
	for _, t := range m.tags {
		tagCopy := *t
		result = append(result, &tagCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Tag < result[j].Tag })
	return result, nil
}

func (m *MockLookupStore) CreateTag(ctx context.Context, tag *domain.MovieTag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.Slug == tag.Slug {
			return ErrLookupAlreadyExists
		}
	}
	m.nextID++
	tag.ID = m.nextID
	tagCopy := *tag
	m.tags[tag.ID] = &tagCopy
	return nil
}

func (m *MockLookupStore) DeleteTag(ctx context.Context, id int64) error {
	return m.deleteByID(id, func() bool { _, ok := m.tags[id]; return ok }, func() { delete(m.tags, id) })
}

func (m *MockLookupStore) ListAdaptedTitles(ctx context.Context) ([]*domain.AdaptedTitle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.AdaptedTitle, 0, len(m.adaptedTitles))
	for _, t := range m.adaptedTitles {
		titleCopy := *t
		result = append(result, &titleCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *MockLookupStore) CreateAdaptedTitle(ctx context.Context, title *domain.AdaptedTitle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if title.Language == "" {
		title.Language = "ru"
	}
	m.nextID++
	title.ID = m.nextID
	titleCopy := *title
	m.adaptedTitles[title.ID] = &titleCopy
	return nil
}

func (m *MockLookupStore) DeleteAdaptedTitle(ctx context.Context, id int64) error {
	return m.deleteByID(id, func() bool { _, ok := m.adaptedTitles[id]; return ok }, func() { delete(m.adaptedTitles, id) })
}

func (m *MockLookupStore) deleteByID(id int64, exists func() bool, remove func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !exists() {
		return ErrLookupNotFound
	}
	if m.Protected[id] {
		return ErrStillReferenced
	}
	remove()
	return nil
}
