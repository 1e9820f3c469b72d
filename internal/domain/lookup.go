package domain

// Справочные сущности каталога. Category и MovieTag имеют уникальные
// slug, Country — нет.

// AdaptedTitle представляет локализованное название фильма,
// таблица adapted_titles.
type AdaptedTitle struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Language string `json:"language" db:"language"`
}

// Category представляет категорию фильма, таблица categories.
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Country представляет страну производства, таблица countries.
type Country struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// MovieTag представляет тег фильма, таблица movie_tags.
type MovieTag struct {
	ID   int64  `json:"id" db:"id"`
	Tag  string `json:"tag" db:"tag"`
	Slug string `json:"slug" db:"slug"`
}

// CreateAdaptedTitleRequest — язык ограничен фиксированным набором,
// по умолчанию ru.
type CreateAdaptedTitleRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Language string `json:"language" validate:"omitempty,oneof=en ru de fr"`
}

// CreateCategoryRequest — slug выводится из имени, если не задан.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=255"`
}

// CreateCountryRequest определяет тело запроса для создания страны.
type CreateCountryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CreateMovieTagRequest — slug выводится из тега, если не задан.
type CreateMovieTagRequest struct {
	Tag  string `json:"tag" validate:"required,min=1,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=255"`
}
