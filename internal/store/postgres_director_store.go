package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresDirectorStore реализует DirectorStore для PostgreSQL.
type PostgresDirectorStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresDirectorStore создает новый экземпляр PostgresDirectorStore.
func NewPostgresDirectorStore(db *sqlx.DB, logger *slog.Logger) (*PostgresDirectorStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresDirectorStore{db: db, logger: logger}, nil
}

func (s *PostgresDirectorStore) Create(ctx context.Context, director *domain.Director) error {
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO directors (first_name, second_name, date_of_birth, slug) VALUES ($1, $2, $3, $4) RETURNING id`,
		director.FirstName, director.SecondName, director.DateOfBirth, director.Slug,
	).Scan(&director.ID)
	if err != nil {
		if mapped := mapLookupError(err); mapped != nil {
			s.logger.WarnContext(ctx, "Director create violated a constraint", slog.String("slug", director.Slug), slog.String("error", err.Error()))
			return mapped
		}
		return fmt.Errorf("failed to create director: %w", err)
	}
	s.logger.InfoContext(ctx, "Director created in DB", slog.Int64("id", director.ID), slog.String("slug", director.Slug))
	return nil
}

func (s *PostgresDirectorStore) GetBySlug(ctx context.Context, slug string) (*domain.Director, error) {
	var director domain.Director
	err := s.db.GetContext(ctx, &director,
		`SELECT id, first_name, second_name, date_of_birth, slug FROM directors WHERE slug = $1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		return nil, fmt.Errorf("failed to get director by slug: %w", err)
	}
	return &director, nil
}

func (s *PostgresDirectorStore) List(ctx context.Context) ([]*domain.Director, error) {
	var directors []*domain.Director
	err := s.db.SelectContext(ctx, &directors,
		`SELECT id, first_name, second_name, date_of_birth, slug FROM directors ORDER BY second_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list directors: %w", err)
	}
	return directors, nil
}

func (s *PostgresDirectorStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM directors WHERE id = $1`, id)
	if err != nil {
		if mapped := mapLookupError(err); mapped != nil {
			s.logger.WarnContext(ctx, "Director delete blocked by existing movie link", slog.Int64("id", id))
			return mapped
		}
		return fmt.Errorf("failed to delete director: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrDirectorNotFound
	}
	return nil
}
