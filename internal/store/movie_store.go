package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"
)

var (
	ErrMovieNotFound           = errors.New("movie not found")
	ErrMovieAlreadyExists      = errors.New("movie with this slug already exists")
	ErrDirectorNotFound        = errors.New("director not found")
	ErrDirectorAlreadyAttached = errors.New("director is already attached to this movie")
	ErrStillReferenced         = errors.New("record is still referenced by another record")
)

// Scope определяет именованную область выборки фильмов.
type Scope int

const (
	// ScopeAll — все записи без ограничений.
	ScopeAll Scope = iota
	// ScopePublished — только опубликованные записи.
	ScopePublished
)

// MovieListParams задает параметры выборки списка фильмов.
// Page/PageSize равные нулю означают выборку без пагинации.
type MovieListParams struct {
	Scope      Scope
	Page       int
	PageSize   int
	Search     string
	CategoryID int64
	Status     *domain.Status
	// Year фильтрует по году создания записи; 0 — без фильтра.
	Year int
}

// MovieStore описывает хранилище фильмов. Обе коллекции API и
// админ-консоль работают через один и тот же интерфейс, различаясь
// только областью выборки.
type MovieStore interface {
	Create(ctx context.Context, movie *domain.Movie) error
	GetBySlug(ctx context.Context, scope Scope, slug string) (*domain.Movie, error)
	Update(ctx context.Context, scope Scope, movie *domain.Movie) error
	Delete(ctx context.Context, scope Scope, slug string) error
	List(ctx context.Context, params MovieListParams) ([]*domain.Movie, int, error)
	// SetStatus выполняет массовую смену статуса одним set-based
	// обновлением и возвращает количество затронутых записей.
	SetStatus(ctx context.Context, slugs []string, status domain.Status) (int64, error)
	SetPoster(ctx context.Context, slug string, posterPath string) error
	AttachDirector(ctx context.Context, movieSlug, directorSlug string, dateJoined time.Time, inviteReason string) error
	DetachDirector(ctx context.Context, movieSlug, directorSlug string) error
}

// MockMovieStore — потокобезопасное in-memory хранилище для тестов
// обработчиков. Повторяет семантику PostgresMovieStore: уникальный slug,
// сортировка по умолчанию, области выборки, уникальность пары
// (movie, director).
type MockMovieStore struct {
	mu       sync.RWMutex
	nextID   int64
	movies   map[string]*domain.Movie         // ключ — slug
	attached map[string]map[string]time.Time  // movieSlug -> directorSlug -> date_joined
	reasons  map[string]map[string]string     // movieSlug -> directorSlug -> invite_reason
	// Directors, известные моку; AttachDirector требует существующего slug.
	Directors map[string]int64 // directorSlug -> id
}

func NewMockMovieStore() *MockMovieStore {
	return &MockMovieStore{
		movies:    make(map[string]*domain.Movie),
		attached:  make(map[string]map[string]time.Time),
		reasons:   make(map[string]map[string]string),
		Directors: make(map[string]int64),
	}
}

func (m *MockMovieStore) inScope(movie *domain.Movie, scope Scope) bool {
	return scope == ScopeAll || movie.IsPublished
}

func (m *MockMovieStore) Create(ctx context.Context, movie *domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.movies[movie.Slug]; exists {
		return ErrMovieAlreadyExists
	}
	m.nextID++
	movie.ID = m.nextID
	now := time.Now().UTC()
	movie.TimeCreated = now
	movie.TimeUpdated = now
	movieCopy := *movie
	m.movies[movie.Slug] = &movieCopy
	return nil
}

func (m *MockMovieStore) GetBySlug(ctx context.Context, scope Scope, slug string) (*domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	movie, ok := m.movies[slug]
	if !ok || !m.inScope(movie, scope) {
		return nil, ErrMovieNotFound
	}
	movieCopy := *movie
	return &movieCopy, nil
}

func (m *MockMovieStore) Update(ctx context.Context, scope Scope, movie *domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.movies[movie.Slug]
	if !ok || !m.inScope(existing, scope) {
		return ErrMovieNotFound
	}
	movie.ID = existing.ID
	movie.TimeCreated = existing.TimeCreated
	movie.TimeUpdated = time.Now().UTC()
	movieCopy := *movie
	m.movies[movie.Slug] = &movieCopy
	return nil
}

func (m *MockMovieStore) Delete(ctx context.Context, scope Scope, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[slug]
	if !ok || !m.inScope(movie, scope) {
		return ErrMovieNotFound
	}
	delete(m.movies, slug)
	delete(m.attached, slug)
	delete(m.reasons, slug)
	return nil
}

func (m *MockMovieStore) List(ctx context.Context, params MovieListParams) ([]*domain.Movie, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var filtered []domain.Movie
	for _, movie := range m.movies {
		if !m.inScope(movie, params.Scope) {
			continue
		}
		if params.Status != nil && movie.IsPublished != params.Status.Bool() {
			continue
		}
		if params.CategoryID != 0 && (movie.CategoryID == nil || *movie.CategoryID != params.CategoryID) {
			continue
		}
		if params.Year != 0 && movie.TimeCreated.Year() != params.Year {
			continue
		}
		if params.Search != "" {
			q := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(movie.OriginalTitle), q) &&
				!strings.Contains(strings.ToLower(movie.Description), q) {
				continue
			}
		}
		filtered = append(filtered, *movie)
	}

	// Сортировка по умолчанию: time_created DESC, original_title ASC.
	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].TimeCreated.Equal(filtered[j].TimeCreated) {
			return filtered[i].TimeCreated.After(filtered[j].TimeCreated)
		}
		return filtered[i].OriginalTitle < filtered[j].OriginalTitle
	})

	totalCount := len(filtered)

	if params.Page > 0 && params.PageSize > 0 {
		start := (params.Page - 1) * params.PageSize
		if start >= totalCount {
			return []*domain.Movie{}, totalCount, nil
		}
		end := start + params.PageSize
		if end > totalCount {
			end = totalCount
		}
		filtered = filtered[start:end]
	}

	result := make([]*domain.Movie, len(filtered))
	for i := range filtered {
		movieCopy := filtered[i]
		result[i] = &movieCopy
	}
	return result, totalCount, nil
}

func (m *MockMovieStore) SetStatus(ctx context.Context, slugs []string, status domain.Status) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, slug := range slugs {
		if movie, ok := m.movies[slug]; ok {
			movie.IsPublished = status.Bool()
			movie.TimeUpdated = time.Now().UTC()
			count++
		}
	}
	return count, nil
}

func (m *MockMovieStore) SetPoster(ctx context.Context, slug string, posterPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[slug]
	if !ok {
		return ErrMovieNotFound
	}
	movie.Poster = &posterPath
	movie.TimeUpdated = time.Now().UTC()
	return nil
}

func (m *MockMovieStore) AttachDirector(ctx context.Context, movieSlug, directorSlug string, dateJoined time.Time, inviteReason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[movieSlug]
	if !ok {
		return ErrMovieNotFound
	}
	directorID, ok := m.Directors[directorSlug]
	if !ok {
		return ErrDirectorNotFound
	}
	if m.attached[movieSlug] == nil {
		m.attached[movieSlug] = make(map[string]time.Time)
		m.reasons[movieSlug] = make(map[string]string)
	}
	if _, exists := m.attached[movieSlug][directorSlug]; exists {
		return ErrDirectorAlreadyAttached
	}
	m.attached[movieSlug][directorSlug] = dateJoined
	m.reasons[movieSlug][directorSlug] = inviteReason
	movie.Directors = append(movie.Directors, directorID)
	return nil
}

func (m *MockMovieStore) DetachDirector(ctx context.Context, movieSlug, directorSlug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.movies[movieSlug]; !ok {
		return ErrMovieNotFound
	}
	if _, exists := m.attached[movieSlug][directorSlug]; !exists {
		return ErrDirectorNotFound
	}
	delete(m.attached[movieSlug], directorSlug)
	delete(m.reasons[movieSlug], directorSlug)
	return nil
}
