package domain

import (
	"time"

	"github.com/lib/pq"
)

// Status определяет статус публикации фильма.
// Хранится в БД как boolean колонка is_published.
type Status int

const (
	StatusDraft     Status = 0
	StatusPublished Status = 1
)

// Bool преобразует статус в значение для колонки is_published.
func (s Status) Bool() bool {
	return s == StatusPublished
}

// StatusFromBool преобразует значение is_published обратно в статус.
func StatusFromBool(published bool) Status {
	if published {
		return StatusPublished
	}
	return StatusDraft
}

// Movie представляет основную доменную модель фильма, таблица movies.
// Countries, Tags и Directors — агрегированные списки идентификаторов из
// связующих таблиц (m2m), Directors доступен только для чтения:
// связь управляется через отдельные эндпоинты с атрибутами.
type Movie struct {
	ID             int64         `json:"id" db:"id"`
	OriginalTitle  string        `json:"original_title" db:"original_title"`
	AdaptedTitleID *int64        `json:"adapted_title" db:"adapted_title_id"`
	Description    string        `json:"description" db:"description"`
	Poster         *string       `json:"poster" db:"poster"`
	CategoryID     *int64        `json:"category" db:"category_id"`
	Countries      pq.Int64Array `json:"countries" db:"countries"`
	Tags           pq.Int64Array `json:"tags" db:"tags"`
	Directors      pq.Int64Array `json:"directors" db:"directors"`
	TimeCreated    time.Time     `json:"time_created" db:"time_created"`
	TimeUpdated    time.Time     `json:"time_updated" db:"time_updated"`
	IsPublished    bool          `json:"is_published" db:"is_published"`
	UserID         string        `json:"user" db:"user_id"`
	Slug           string        `json:"slug" db:"slug"`
}

// Status возвращает статус публикации фильма как enum.
func (m *Movie) Status() Status {
	return StatusFromBool(m.IsPublished)
}

// CreateMovieRequest определяет тело запроса для создания нового фильма.
// Поле владельца (user) в теле запроса не принимается: владельцем всегда
// становится аутентифицированный вызывающий.
type CreateMovieRequest struct {
	OriginalTitle  string  `json:"original_title" validate:"required,min=1,max=100"`
	AdaptedTitleID *int64  `json:"adapted_title" validate:"omitempty,gt=0"`
	Description    string  `json:"description" validate:"max=255"`
	CategoryID     *int64  `json:"category" validate:"omitempty,gt=0"`
	Countries      []int64 `json:"countries" validate:"omitempty,dive,gt=0"`
	Tags           []int64 `json:"tags" validate:"omitempty,dive,gt=0"`
	IsPublished    bool    `json:"is_published"`
	Slug           string  `json:"slug" validate:"omitempty,max=255"`
}

// UpdateMovieRequest определяет тело запроса для обновления фильма.
// Slug — внешний идентификатор и не изменяется через это тело.
type UpdateMovieRequest struct {
	OriginalTitle  *string `json:"original_title,omitempty" validate:"omitempty,min=1,max=100"`
	AdaptedTitleID *int64  `json:"adapted_title,omitempty" validate:"omitempty,gt=0"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=255"`
	CategoryID     *int64  `json:"category,omitempty" validate:"omitempty,gt=0"`
	Countries      []int64 `json:"countries,omitempty" validate:"omitempty,dive,gt=0"`
	Tags           []int64 `json:"tags,omitempty" validate:"omitempty,dive,gt=0"`
	IsPublished    *bool   `json:"is_published,omitempty"`
}

// BulkStatusRequest определяет тело запроса для массовой смены статуса.
type BulkStatusRequest struct {
	Slugs []string `json:"slugs" validate:"required,min=1,dive,required"`
}
