package store

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var movieColumns = []string{
	"id", "original_title", "adapted_title_id", "description", "poster",
	"category_id", "time_created", "time_updated", "is_published", "user_id", "slug",
	"countries", "tags", "directors",
}

func newMockMovieStoreDB(t *testing.T) (*PostgresMovieStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewPostgresMovieStore(sqlx.NewDb(db, "sqlmock"), logger)
	require.NoError(t, err)
	return s, mock
}

func TestPostgresCreateMovieDuplicateSlug(t *testing.T) {
	s, mock := newMockMovieStoreDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO movies")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "movies_slug_key"})
	mock.ExpectRollback()

	err := s.Create(context.Background(), &domain.Movie{OriginalTitle: "Alien", Slug: "alien"})
	assert.ErrorIs(t, err, ErrMovieAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetBySlugPublishedScope(t *testing.T) {
	s, mock := newMockMovieStoreDB(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(movieColumns).AddRow(
		int64(1), "Alien", nil, "Horror classic", nil,
		nil, now, now, true, "user-1", "alien",
		[]byte("{1,2}"), []byte("{}"), []byte("{7}"),
	)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.slug = $1 AND m.is_published = true")).
		WithArgs("alien").
		WillReturnRows(rows)

	movie, err := s.GetBySlug(context.Background(), ScopePublished, "alien")
	require.NoError(t, err)
	assert.Equal(t, "Alien", movie.OriginalTitle)
	assert.Equal(t, pq.Int64Array{1, 2}, movie.Countries)
	assert.Empty(t, movie.Tags)
	assert.Equal(t, pq.Int64Array{7}, movie.Directors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetBySlugNotFound(t *testing.T) {
	s, mock := newMockMovieStoreDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.slug = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(movieColumns))

	_, err := s.GetBySlug(context.Background(), ScopeAll, "missing")
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListPublishedOrdering(t *testing.T) {
	s, mock := newMockMovieStoreDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movies m WHERE 1=1 AND m.is_published = true")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now().UTC()
	rows := sqlmock.NewRows(movieColumns).AddRow(
		int64(1), "Alien", nil, "", nil,
		nil, now, now, true, "user-1", "alien",
		[]byte("{}"), []byte("{}"), []byte("{}"),
	)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY m.time_created DESC, m.original_title ASC LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(rows)

	movies, total, err := s.List(context.Background(), MovieListParams{
		Scope:    ScopePublished,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, movies, 1)
	assert.Equal(t, "alien", movies[0].Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListEmptySkipsSelect(t *testing.T) {
	s, mock := newMockMovieStoreDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM movies m WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	movies, total, err := s.List(context.Background(), MovieListParams{Scope: ScopeAll})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, movies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSetStatusReportsAffectedRows(t *testing.T) {
	s, mock := newMockMovieStoreDB(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE movies SET is_published = $1, time_updated = $2 WHERE slug = ANY($3)")).
		WithArgs(true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := s.SetStatus(context.Background(), []string{"alien", "blade-runner", "missing"}, domain.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAttachDirectorDuplicatePair(t *testing.T) {
	s, mock := newMockMovieStoreDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM movies WHERE slug = $1")).
		WithArgs("alien").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM directors WHERE slug = $1")).
		WithArgs("ridley-scott").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO movie_directors")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "movie_directors_movie_id_director_id_key"})
	mock.ExpectRollback()

	err := s.AttachDirector(context.Background(), "alien", "ridley-scott", time.Now(), "")
	assert.ErrorIs(t, err, ErrDirectorAlreadyAttached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAttachDirectorUnknownMovie(t *testing.T) {
	s, mock := newMockMovieStoreDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM movies WHERE slug = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := s.AttachDirector(context.Background(), "missing", "ridley-scott", time.Now(), "")
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteMovieNotFound(t *testing.T) {
	s, mock := newMockMovieStoreDB(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies m WHERE m.slug = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Delete(context.Background(), ScopeAll, "missing")
	assert.ErrorIs(t, err, ErrMovieNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
