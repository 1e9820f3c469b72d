package admin

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/MalikAdventure/moviePosterApi/internal/api"
	"github.com/MalikAdventure/moviePosterApi/internal/domain"
	"github.com/MalikAdventure/moviePosterApi/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type consoleEnv struct {
	console   *Console
	movies    *store.MockMovieStore
	directors *store.MockDirectorStore
	lookups   *store.MockLookupStore
}

func newConsoleEnv(t *testing.T) *consoleEnv {
	t.Helper()

	movies := store.NewMockMovieStore()
	directors := store.NewMockDirectorStore()
	lookups := store.NewMockLookupStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	console, err := NewConsole(movies, directors, lookups, logger)
	require.NoError(t, err)
	return &consoleEnv{console: console, movies: movies, directors: directors, lookups: lookups}
}

func (e *consoleEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.console.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func (e *consoleEnv) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.console.ServeHTTP(rec, req)
	return rec
}

func (e *consoleEnv) seedMovie(t *testing.T, slug string, published bool) {
	t.Helper()
	err := e.movies.Create(context.Background(), &domain.Movie{
		OriginalTitle: slug,
		Slug:          slug,
		IsPublished:   published,
		UserID:        "seed-user",
	})
	require.NoError(t, err)
}

// notice извлекает сообщение и его уровень из Location редиректа.
func notice(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return location.Query().Get("notice"), location.Query().Get("level")
}

func TestIndexListsResources(t *testing.T) {
	env := newConsoleEnv(t)

	rec := env.get(t, "/admin")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Фильмы")
	assert.Contains(t, body, "Категории")
	assert.Contains(t, body, "Режиссеры")
}

func TestMovieListShowsThumbnailPlaceholder(t *testing.T) {
	env := newConsoleEnv(t)
	env.seedMovie(t, "alien", true)

	rec := env.get(t, "/admin/movies")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Нет изображения")
}

func TestMovieBulkPublishNotice(t *testing.T) {
	env := newConsoleEnv(t)
	env.seedMovie(t, "draft-one", false)
	env.seedMovie(t, "draft-two", false)

	form := url.Values{"action": {"publish"}, "selected": {"draft-one", "draft-two"}}
	msg, level := notice(t, env.postForm(t, "/admin/movies/action", form))
	assert.Equal(t, "Опубликовано 2 записей", msg)
	assert.Empty(t, level)

	movie, err := env.movies.GetBySlug(context.Background(), store.ScopePublished, "draft-one")
	require.NoError(t, err)
	assert.True(t, movie.IsPublished)
}

func TestMovieBulkDraftWarns(t *testing.T) {
	env := newConsoleEnv(t)
	env.seedMovie(t, "live-one", true)

	form := url.Values{"action": {"draft"}, "selected": {"live-one"}}
	msg, level := notice(t, env.postForm(t, "/admin/movies/action", form))
	assert.Equal(t, "Снято с публикации 1 записей", msg)
	assert.Equal(t, "warning", level)
}

func TestMovieBulkActionWithoutSelection(t *testing.T) {
	env := newConsoleEnv(t)

	form := url.Values{"action": {"publish"}}
	msg, level := notice(t, env.postForm(t, "/admin/movies/action", form))
	assert.Equal(t, "Не выбрано ни одной записи", msg)
	assert.Equal(t, "warning", level)
}

func TestMovieInlineStatus(t *testing.T) {
	env := newConsoleEnv(t)
	env.seedMovie(t, "draft-one", false)

	rec := env.postForm(t, "/admin/movies/draft-one/status", url.Values{"is_published": {"on"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	movie, err := env.movies.GetBySlug(context.Background(), store.ScopeAll, "draft-one")
	require.NoError(t, err)
	assert.True(t, movie.IsPublished)

	rec = env.postForm(t, "/admin/movies/draft-one/status", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	movie, err = env.movies.GetBySlug(context.Background(), store.ScopeAll, "draft-one")
	require.NoError(t, err)
	assert.False(t, movie.IsPublished)
}

func (e *consoleEnv) postFormAs(t *testing.T, userID, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(context.WithValue(req.Context(), api.UserIDKey, userID))
	rec := httptest.NewRecorder()
	e.console.ServeHTTP(rec, req)
	return rec
}

func TestMovieCreateDerivesSlugAndOwner(t *testing.T) {
	env := newConsoleEnv(t)

	form := url.Values{"original_title": {"Blade Runner"}, "is_published": {"on"}}
	msg, _ := notice(t, env.postFormAs(t, "curator-1", "/admin/movies/create", form))
	require.Equal(t, "Запись создана", msg)

	movie, err := env.movies.GetBySlug(context.Background(), store.ScopeAll, "blade-runner")
	require.NoError(t, err)
	assert.Equal(t, "curator-1", movie.UserID)
	assert.True(t, movie.IsPublished)
}

func TestMovieCreateDuplicateSlugNotice(t *testing.T) {
	env := newConsoleEnv(t)
	env.seedMovie(t, "alien", true)

	form := url.Values{"original_title": {"Alien"}}
	msg, level := notice(t, env.postFormAs(t, "curator-1", "/admin/movies/create", form))
	assert.Equal(t, "Запись с таким URL уже существует", msg)
	assert.Equal(t, "warning", level)
}

func TestMovieCreateRequiresTitle(t *testing.T) {
	env := newConsoleEnv(t)

	msg, level := notice(t, env.postFormAs(t, "curator-1", "/admin/movies/create", url.Values{}))
	assert.Equal(t, "Название не может быть пустым", msg)
	assert.Equal(t, "warning", level)
}

func TestMovieCreateWithoutCaller(t *testing.T) {
	env := newConsoleEnv(t)

	rec := env.postForm(t, "/admin/movies/create", url.Values{"original_title": {"Alien"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLookupCreateDerivesSlug(t *testing.T) {
	env := newConsoleEnv(t)

	msg, _ := notice(t, env.postForm(t, "/admin/categories", url.Values{"name": {"Action Movies"}}))
	assert.Equal(t, "Запись создана", msg)

	categories, err := env.lookups.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "action-movies", categories[0].Slug)
}

func TestLookupCreateDuplicateSlugNotice(t *testing.T) {
	env := newConsoleEnv(t)

	form := url.Values{"name": {"Action"}, "slug": {"action"}}
	msg, _ := notice(t, env.postForm(t, "/admin/categories", form))
	require.Equal(t, "Запись создана", msg)

	msg, level := notice(t, env.postForm(t, "/admin/categories", form))
	assert.Equal(t, "Запись с таким URL уже существует", msg)
	assert.Equal(t, "warning", level)
}

func TestLookupDeleteProtectedRecord(t *testing.T) {
	env := newConsoleEnv(t)

	category := &domain.Category{Name: "Action", Slug: "action"}
	require.NoError(t, env.lookups.CreateCategory(context.Background(), category))
	env.lookups.Protected[category.ID] = true

	msg, level := notice(t, env.postForm(t, "/admin/categories/1/delete", url.Values{}))
	assert.Equal(t, "Удаление запрещено: запись используется фильмами", msg)
	assert.Equal(t, "warning", level)

	categories, err := env.lookups.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestLookupDeleteMissingRecord(t *testing.T) {
	env := newConsoleEnv(t)

	msg, level := notice(t, env.postForm(t, "/admin/categories/42/delete", url.Values{}))
	assert.Equal(t, "Запись не найдена", msg)
	assert.Equal(t, "warning", level)
}

func TestDirectorCreateAndList(t *testing.T) {
	env := newConsoleEnv(t)

	form := url.Values{
		"first_name":    {"Ridley"},
		"second_name":   {"Scott"},
		"date_of_birth": {"1937-11-30"},
	}
	msg, _ := notice(t, env.postForm(t, "/admin/directors", form))
	require.Equal(t, "Запись создана", msg)

	director, err := env.directors.GetBySlug(context.Background(), "ridley-scott")
	require.NoError(t, err)
	assert.Equal(t, "Scott", director.SecondName)

	rec := env.get(t, "/admin/directors")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ridley")
}

func TestUnknownResourceReturns404(t *testing.T) {
	env := newConsoleEnv(t)

	rec := env.get(t, "/admin/unknown-resource")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMovieListSearchFilter(t *testing.T) {
	env := newConsoleEnv(t)
	env.seedMovie(t, "alien", true)
	env.seedMovie(t, "blade-runner", true)

	rec := env.get(t, "/admin/movies?q=alien")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "alien")
	assert.NotContains(t, body, "blade-runner")
}
