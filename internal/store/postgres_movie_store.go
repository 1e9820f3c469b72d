package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // Для обработки ошибок PostgreSQL и массивов
)

// Колонки выборки фильма: агрегаты по связующим таблицам собираются
// подзапросами, чтобы выборка оставалась одним запросом.
const movieSelectColumns = `m.id, m.original_title, m.adapted_title_id, m.description, m.poster,
       m.category_id, m.time_created, m.time_updated, m.is_published, m.user_id, m.slug,
       COALESCE((SELECT array_agg(mc.country_id ORDER BY mc.country_id) FROM movie_countries mc WHERE mc.movie_id = m.id), '{}') AS countries,
       COALESCE((SELECT array_agg(mt.tag_id ORDER BY mt.tag_id) FROM movie_tag_links mt WHERE mt.movie_id = m.id), '{}') AS tags,
       COALESCE((SELECT array_agg(md.director_id ORDER BY md.director_id) FROM movie_directors md WHERE md.movie_id = m.id), '{}') AS directors`

// Сортировка по умолчанию для всех выборок фильмов.
const movieDefaultOrder = "m.time_created DESC, m.original_title ASC"

// PostgresMovieStore реализует MovieStore для PostgreSQL.
type PostgresMovieStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresMovieStore создает новый экземпляр PostgresMovieStore.
func NewPostgresMovieStore(db *sqlx.DB, logger *slog.Logger) (*PostgresMovieStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresMovieStore{db: db, logger: logger}, nil
}

func scopeCondition(scope Scope) string {
	if scope == ScopePublished {
		return " AND m.is_published = true"
	}
	return ""
}

// mapConstraintError переводит коды ошибок PostgreSQL в ошибки хранилища:
// 23505 — нарушение уникальности, 23503 — нарушение внешнего ключа.
func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch pqErr.Code {
	case "23505":
		if strings.Contains(pqErr.Constraint, "movie_directors") {
			return ErrDirectorAlreadyAttached
		}
		return ErrMovieAlreadyExists
	case "23503":
		return ErrStillReferenced
	}
	return nil
}

// Create создает фильм и его m2m связи в одной транзакции.
func (s *PostgresMovieStore) Create(ctx context.Context, movie *domain.Movie) error {
	now := time.Now().UTC()
	movie.TimeCreated = now
	movie.TimeUpdated = now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO movies (original_title, adapted_title_id, description, poster, category_id, time_created, time_updated, is_published, user_id, slug)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
              RETURNING id`

	s.logger.DebugContext(ctx, "Executing Create movie query", slog.String("slug", movie.Slug), slog.String("title", movie.OriginalTitle))
	err = tx.QueryRowxContext(ctx, query,
		movie.OriginalTitle, movie.AdaptedTitleID, movie.Description, movie.Poster,
		movie.CategoryID, movie.TimeCreated, movie.TimeUpdated, movie.IsPublished,
		movie.UserID, movie.Slug,
	).Scan(&movie.ID)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			s.logger.WarnContext(ctx, "Movie create violated a constraint", slog.String("slug", movie.Slug), slog.String("error", err.Error()))
			return mapped
		}
		s.logger.ErrorContext(ctx, "Failed to create movie in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create movie: %w", err)
	}

	if err := s.replaceLinks(ctx, tx, movie.ID, movie.Countries, movie.Tags, false); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit movie create: %w", err)
	}
	s.logger.InfoContext(ctx, "Movie created successfully in DB", slog.Int64("movieID", movie.ID), slog.String("slug", movie.Slug))
	return nil
}

// replaceLinks перезаписывает строки связующих таблиц стран и тегов.
func (s *PostgresMovieStore) replaceLinks(ctx context.Context, tx *sqlx.Tx, movieID int64, countries, tags []int64, clearFirst bool) error {
	if clearFirst {
		if _, err := tx.ExecContext(ctx, `DELETE FROM movie_countries WHERE movie_id = $1`, movieID); err != nil {
			return fmt.Errorf("failed to clear movie countries: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM movie_tag_links WHERE movie_id = $1`, movieID); err != nil {
			return fmt.Errorf("failed to clear movie tags: %w", err)
		}
	}
	for _, countryID := range countries {
		if _, err := tx.ExecContext(ctx, `INSERT INTO movie_countries (movie_id, country_id) VALUES ($1, $2)`, movieID, countryID); err != nil {
			if mapped := mapConstraintError(err); mapped != nil {
				return mapped
			}
			return fmt.Errorf("failed to link country %d: %w", countryID, err)
		}
	}
	for _, tagID := range tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO movie_tag_links (movie_id, tag_id) VALUES ($1, $2)`, movieID, tagID); err != nil {
			if mapped := mapConstraintError(err); mapped != nil {
				return mapped
			}
			return fmt.Errorf("failed to link tag %d: %w", tagID, err)
		}
	}
	return nil
}

// GetBySlug находит фильм по slug в заданной области выборки.
func (s *PostgresMovieStore) GetBySlug(ctx context.Context, scope Scope, slug string) (*domain.Movie, error) {
	query := `SELECT ` + movieSelectColumns + ` FROM movies m WHERE m.slug = $1` + scopeCondition(scope)

	var movie domain.Movie
	s.logger.DebugContext(ctx, "Executing GetBySlug query", slog.String("slug", slug))
	err := s.db.GetContext(ctx, &movie, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Movie not found by slug in DB", slog.String("slug", slug))
			return nil, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get movie by slug from DB", slog.String("slug", slug), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get movie by slug: %w", err)
	}
	return &movie, nil
}

// Update обновляет фильм (по slug) и перезаписывает его m2m связи
// в одной транзакции. time_updated обновляется автоматически.
func (s *PostgresMovieStore) Update(ctx context.Context, scope Scope, movie *domain.Movie) error {
	movie.TimeUpdated = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE movies m SET original_title = $1, adapted_title_id = $2, description = $3,
              category_id = $4, is_published = $5, time_updated = $6
              WHERE m.slug = $7` + scopeCondition(scope) + ` RETURNING id`

	s.logger.DebugContext(ctx, "Executing Update movie query", slog.String("slug", movie.Slug))
	err = tx.QueryRowxContext(ctx, query,
		movie.OriginalTitle, movie.AdaptedTitleID, movie.Description,
		movie.CategoryID, movie.IsPublished, movie.TimeUpdated, movie.Slug,
	).Scan(&movie.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		s.logger.ErrorContext(ctx, "Failed to update movie in DB", slog.String("slug", movie.Slug), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if err := s.replaceLinks(ctx, tx, movie.ID, movie.Countries, movie.Tags, true); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit movie update: %w", err)
	}
	s.logger.InfoContext(ctx, "Movie updated successfully in DB", slog.String("slug", movie.Slug))
	return nil
}

// Delete удаляет фильм по slug; строки связующих таблиц удаляются
// каскадно на уровне схемы.
func (s *PostgresMovieStore) Delete(ctx context.Context, scope Scope, slug string) error {
	query := `DELETE FROM movies m WHERE m.slug = $1` + scopeCondition(scope)

	s.logger.DebugContext(ctx, "Executing Delete movie query", slog.String("slug", slug))
	result, err := s.db.ExecContext(ctx, query, slug)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		s.logger.ErrorContext(ctx, "Failed to delete movie from DB", slog.String("slug", slug), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrMovieNotFound
	}
	s.logger.InfoContext(ctx, "Movie deleted from DB", slog.String("slug", slug))
	return nil
}

// List возвращает страницу фильмов и общее количество записей,
// удовлетворяющих параметрам.
func (s *PostgresMovieStore) List(ctx context.Context, params MovieListParams) ([]*domain.Movie, int, error) {
	countQuery := `SELECT COUNT(*) FROM movies m WHERE 1=1`
	selectQuery := `SELECT ` + movieSelectColumns + ` FROM movies m WHERE 1=1`

	var args []interface{}
	var conditions []string
	argID := 1

	if params.Scope == ScopePublished {
		conditions = append(conditions, "m.is_published = true")
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("m.is_published = $%d", argID))
		args = append(args, params.Status.Bool())
		argID++
	}
	if params.CategoryID != 0 {
		conditions = append(conditions, fmt.Sprintf("m.category_id = $%d", argID))
		args = append(args, params.CategoryID)
		argID++
	}
	if params.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM m.time_created) = $%d", argID))
		args = append(args, params.Year)
		argID++
	}
	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(m.original_title) LIKE LOWER($%d) OR LOWER(m.description) LIKE LOWER($%d))", argID, argID))
		args = append(args, "%"+params.Search+"%")
		argID++
	}

	if len(conditions) > 0 {
		conditionStr := " AND " + strings.Join(conditions, " AND ")
		countQuery += conditionStr
		selectQuery += conditionStr
	}

	var totalCount int
	s.logger.DebugContext(ctx, "Executing List movies count query", slog.String("query", countQuery))
	if err := s.db.GetContext(ctx, &totalCount, countQuery, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to count movies in DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	if totalCount == 0 {
		return []*domain.Movie{}, 0, nil
	}

	selectQuery += " ORDER BY " + movieDefaultOrder

	if params.Page > 0 && params.PageSize > 0 {
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
		args = append(args, params.PageSize, (params.Page-1)*params.PageSize)
	}

	var movies []*domain.Movie
	s.logger.DebugContext(ctx, "Executing List movies select query", slog.String("query", selectQuery))
	if err := s.db.SelectContext(ctx, &movies, selectQuery, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list movies from DB", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}

	return movies, totalCount, nil
}

// SetStatus меняет статус набора фильмов одним запросом и возвращает
// количество затронутых строк. Повторная публикация уже опубликованной
// записи — no-op, но строка попадает в счетчик.
func (s *PostgresMovieStore) SetStatus(ctx context.Context, slugs []string, status domain.Status) (int64, error) {
	query := `UPDATE movies SET is_published = $1, time_updated = $2 WHERE slug = ANY($3)`

	s.logger.DebugContext(ctx, "Executing SetStatus query", slog.Int("slugs", len(slugs)), slog.Bool("published", status.Bool()))
	result, err := s.db.ExecContext(ctx, query, status.Bool(), time.Now().UTC(), pq.Array(slugs))
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to set movie status in DB", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to set movie status: %w", err)
	}
	count, _ := result.RowsAffected()
	s.logger.InfoContext(ctx, "Movie status updated in DB", slog.Int64("count", count), slog.Bool("published", status.Bool()))
	return count, nil
}

// SetPoster сохраняет путь к файлу постера.
func (s *PostgresMovieStore) SetPoster(ctx context.Context, slug string, posterPath string) error {
	query := `UPDATE movies SET poster = $1, time_updated = $2 WHERE slug = $3`

	result, err := s.db.ExecContext(ctx, query, posterPath, time.Now().UTC(), slug)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to set movie poster in DB", slog.String("slug", slug), slog.String("error", err.Error()))
		return fmt.Errorf("failed to set movie poster: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// AttachDirector прикрепляет режиссера к фильму с атрибутами связи.
// Уникальность пары (movie, director) гарантирует ограничение схемы.
func (s *PostgresMovieStore) AttachDirector(ctx context.Context, movieSlug, directorSlug string, dateJoined time.Time, inviteReason string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var movieID int64
	if err := tx.GetContext(ctx, &movieID, `SELECT id FROM movies WHERE slug = $1`, movieSlug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMovieNotFound
		}
		return fmt.Errorf("failed to resolve movie slug: %w", err)
	}

	var directorID int64
	if err := tx.GetContext(ctx, &directorID, `SELECT id FROM directors WHERE slug = $1`, directorSlug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDirectorNotFound
		}
		return fmt.Errorf("failed to resolve director slug: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO movie_directors (movie_id, director_id, date_joined, invite_reason) VALUES ($1, $2, $3, $4)`,
		movieID, directorID, dateJoined, inviteReason,
	)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			s.logger.WarnContext(ctx, "Director attach violated a constraint",
				slog.String("movie", movieSlug), slog.String("director", directorSlug), slog.String("error", err.Error()))
			return mapped
		}
		return fmt.Errorf("failed to attach director: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit director attach: %w", err)
	}
	s.logger.InfoContext(ctx, "Director attached to movie", slog.String("movie", movieSlug), slog.String("director", directorSlug))
	return nil
}

// DetachDirector удаляет связь фильм-режиссер.
func (s *PostgresMovieStore) DetachDirector(ctx context.Context, movieSlug, directorSlug string) error {
	query := `DELETE FROM movie_directors md
              USING movies m, directors d
              WHERE md.movie_id = m.id AND md.director_id = d.id AND m.slug = $1 AND d.slug = $2`

	result, err := s.db.ExecContext(ctx, query, movieSlug, directorSlug)
	if err != nil {
		return fmt.Errorf("failed to detach director: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrDirectorNotFound
	}
	s.logger.InfoContext(ctx, "Director detached from movie", slog.String("movie", movieSlug), slog.String("director", directorSlug))
	return nil
}
