package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresLookupStore реализует LookupStore для PostgreSQL.
// Ссылочная защита обеспечивается ограничениями внешних ключей
// (ON DELETE RESTRICT): нарушение транслируется в ErrStillReferenced.
type PostgresLookupStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresLookupStore создает новый экземпляр PostgresLookupStore.
func NewPostgresLookupStore(db *sqlx.DB, logger *slog.Logger) (*PostgresLookupStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresLookupStore{db: db, logger: logger}, nil
}

// mapLookupError переводит коды ошибок PostgreSQL для справочников.
func mapLookupError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch pqErr.Code {
	case "23505":
		return ErrLookupAlreadyExists
	case "23503":
		return ErrStillReferenced
	}
	return nil
}

func (s *PostgresLookupStore) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	if err := s.db.SelectContext(ctx, &categories, `SELECT id, name, slug FROM categories ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *PostgresLookupStore) CreateCategory(ctx context.Context, category *domain.Category) error {
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`,
		category.Name, category.Slug,
	).Scan(&category.ID)
	if err != nil {
		if mapped := mapLookupError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	s.logger.InfoContext(ctx, "Category created in DB", slog.Int64("id", category.ID), slog.String("slug", category.Slug))
	return nil
}

func (s *PostgresLookupStore) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, `DELETE FROM categories WHERE id = $1`, id, "category")
}

func (s *PostgresLookupStore) ListCountries(ctx context.Context) ([]*domain.Country, error) {
	var countries []*domain.Country
	if err := s.db.SelectContext(ctx, &countries, `SELECT id, name FROM countries ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	return countries, nil
}

func (s *PostgresLookupStore) CreateCountry(ctx context.Context, country *domain.Country) error {
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO countries (name) VALUES ($1) RETURNING id`,
		country.Name,
	).Scan(&country.ID)
	if err != nil {
		return fmt.Errorf("failed to create country: %w", err)
	}
	return nil
}

func (s *PostgresLookupStore) DeleteCountry(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, `DELETE FROM countries WHERE id = $1`, id, "country")
}

func (s *PostgresLookupStore) ListTags(ctx context.Context) ([]*domain.MovieTag, error) {
	var tags []*domain.MovieTag
	if err := s.db.SelectContext(ctx, &tags, `SELECT id, tag, slug FROM movie_tags ORDER BY tag`); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *PostgresLookupStore) CreateTag(ctx context.Context, tag *domain.MovieTag) error {
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO movie_tags (tag, slug) VALUES ($1, $2) RETURNING id`,
		tag.Tag, tag.Slug,
	).Scan(&tag.ID)
	if err != nil {
		if mapped := mapLookupError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return nil
}

func (s *PostgresLookupStore) DeleteTag(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, `DELETE FROM movie_tags WHERE id = $1`, id, "tag")
}

func (s *PostgresLookupStore) ListAdaptedTitles(ctx context.Context) ([]*domain.AdaptedTitle, error) {
	var titles []*domain.AdaptedTitle
	if err := s.db.SelectContext(ctx, &titles, `SELECT id, name, language FROM adapted_titles ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list adapted titles: %w", err)
	}
	return titles, nil
}

func (s *PostgresLookupStore) CreateAdaptedTitle(ctx context.Context, title *domain.AdaptedTitle) error {
	if title.Language == "" {
		title.Language = "ru"
	}
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO adapted_titles (name, language) VALUES ($1, $2) RETURNING id`,
		title.Name, title.Language,
	).Scan(&title.ID)
	if err != nil {
		return fmt.Errorf("failed to create adapted title: %w", err)
	}
	return nil
}

func (s *PostgresLookupStore) DeleteAdaptedTitle(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, `DELETE FROM adapted_titles WHERE id = $1`, id, "adapted title")
}

func (s *PostgresLookupStore) deleteRow(ctx context.Context, query string, id int64, kind string) error {
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		if mapped := mapLookupError(err); mapped != nil {
			s.logger.WarnContext(ctx, "Lookup delete blocked or conflicted",
				slog.String("kind", kind), slog.Int64("id", id), slog.String("error", err.Error()))
			return mapped
		}
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrLookupNotFound
	}
	s.logger.InfoContext(ctx, "Lookup record deleted from DB", slog.String("kind", kind), slog.Int64("id", id))
	return nil
}
