package domain

import "time"

// Director представляет режиссера, таблица directors.
type Director struct {
	ID          int64     `json:"id" db:"id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	SecondName  string    `json:"second_name" db:"second_name"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
	Slug        string    `json:"slug" db:"slug"`
}

// MovieDirector представляет связь фильм-режиссер с атрибутами,
// таблица movie_directors. Пара (movie_id, director_id) уникальна.
type MovieDirector struct {
	ID           int64     `json:"id" db:"id"`
	MovieID      int64     `json:"movie_id" db:"movie_id"`
	DirectorID   int64     `json:"director_id" db:"director_id"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`
	InviteReason string    `json:"invite_reason" db:"invite_reason"`
}

// CreateDirectorRequest определяет тело запроса для создания режиссера.
// DateOfBirth принимается строкой в формате YYYY-MM-DD.
type CreateDirectorRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=1,max=100"`
	SecondName  string `json:"second_name" validate:"required,min=1,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Slug        string `json:"slug" validate:"omitempty,max=255"`
}

// AttachDirectorRequest определяет тело запроса для прикрепления
// режиссера к фильму.
type AttachDirectorRequest struct {
	DirectorSlug string `json:"director_slug" validate:"required"`
	DateJoined   string `json:"date_joined" validate:"required,datetime=2006-01-02"`
	InviteReason string `json:"invite_reason" validate:"max=100"`
}
