package admin

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/MalikAdventure/moviePosterApi/internal/api"
	"github.com/MalikAdventure/moviePosterApi/internal/domain"
	"github.com/MalikAdventure/moviePosterApi/internal/store"

	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
)

// indexPage — данные главной страницы консоли.
type indexPage struct {
	Resources []indexEntry
}

type indexEntry struct {
	Name  string
	Title string
}

func (c *Console) index(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		Resources: []indexEntry{{Name: "movies", Title: "Фильмы"}},
	}
	for _, res := range c.resources {
		page.Resources = append(page.Resources, indexEntry{Name: res.Name, Title: res.Title})
	}
	c.render(w, "index.html", page)
}

// moviePage — данные страницы списка фильмов.
type moviePage struct {
	Movies      []*domain.Movie
	Categories  []*domain.Category
	Query       string
	Category    string
	Status      string
	Year        string
	Page        int
	TotalPages  int
	PrevPage    int
	NextPage    int
	Notice      string
	NoticeLevel string
}

func (c *Console) movieList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queryParams := r.URL.Query()

	pageNum, _ := strconv.Atoi(queryParams.Get("page"))
	if pageNum <= 0 {
		pageNum = 1
	}

	params := store.MovieListParams{
		Scope:    store.ScopeAll,
		Page:     pageNum,
		PageSize: moviesPerPage,
		Search:   queryParams.Get("q"),
	}
	switch queryParams.Get("status") {
	case "draft":
		status := domain.StatusDraft
		params.Status = &status
	case "published":
		status := domain.StatusPublished
		params.Status = &status
	}
	if categoryStr := queryParams.Get("category"); categoryStr != "" {
		if categoryID, err := strconv.ParseInt(categoryStr, 10, 64); err == nil {
			params.CategoryID = categoryID
		}
	}
	if yearStr := queryParams.Get("year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			params.Year = year
		}
	}

	movies, totalCount, err := c.movies.List(ctx, params)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to list movies for admin console", slog.String("error", err.Error()))
		http.Error(w, "failed to load movies", http.StatusInternalServerError)
		return
	}

	categories, err := c.lookups.ListCategories(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "Failed to list categories for admin console", slog.String("error", err.Error()))
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}

	totalPages := (totalCount + moviesPerPage - 1) / moviesPerPage
	prevPage, nextPage := 0, 0
	if pageNum > 1 {
		prevPage = pageNum - 1
	}
	if pageNum < totalPages {
		nextPage = pageNum + 1
	}
	c.render(w, "movie_list.html", moviePage{
		Movies:      movies,
		Categories:  categories,
		Query:       params.Search,
		Category:    queryParams.Get("category"),
		Status:      queryParams.Get("status"),
		Year:        queryParams.Get("year"),
		Page:        pageNum,
		TotalPages:  totalPages,
		PrevPage:    prevPage,
		NextPage:    nextPage,
		Notice:      queryParams.Get("notice"),
		NoticeLevel: queryParams.Get("level"),
	})
}

// movieCreate добавляет запись из формы консоли. Slug выводится из
// названия, если поле оставлено пустым; владельцем становится
// аутентифицированный куратор.
func (c *Console) movieCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	callerID, ok := api.CallerID(ctx)
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	title := strings.TrimSpace(r.PostFormValue("original_title"))
	if title == "" {
		redirectWithNotice(w, r, "/admin/movies", "Название не может быть пустым", "warning")
		return
	}

	movieSlug := r.PostFormValue("slug")
	if movieSlug == "" {
		movieSlug = slug.Make(title)
	}

	movie := &domain.Movie{
		OriginalTitle: title,
		Description:   r.PostFormValue("description"),
		IsPublished:   r.PostFormValue("is_published") == "on",
		UserID:        callerID,
		Slug:          movieSlug,
	}
	if categoryStr := r.PostFormValue("category"); categoryStr != "" {
		if categoryID, err := strconv.ParseInt(categoryStr, 10, 64); err == nil {
			movie.CategoryID = &categoryID
		}
	}

	if err := c.movies.Create(ctx, movie); err != nil {
		if errors.Is(err, store.ErrMovieAlreadyExists) {
			redirectWithNotice(w, r, "/admin/movies", "Запись с таким URL уже существует", "warning")
			return
		}
		c.logger.ErrorContext(ctx, "Failed to create movie from admin console", slog.String("slug", movieSlug), slog.String("error", err.Error()))
		redirectWithNotice(w, r, "/admin/movies", "Не удалось создать запись", "warning")
		return
	}
	redirectWithNotice(w, r, "/admin/movies", "Запись создана", "")
}

// movieBulkAction выполняет массовое действие над выбранными записями.
// Действие идемпотентно: уже опубликованная запись при повторной
// публикации не меняется, но попадает в счетчик.
func (c *Console) movieBulkAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	selected := r.PostForm["selected"]
	if len(selected) == 0 {
		redirectWithNotice(w, r, "/admin/movies", "Не выбрано ни одной записи", "warning")
		return
	}

	switch r.PostFormValue("action") {
	case "publish":
		count, err := c.movies.SetStatus(ctx, selected, domain.StatusPublished)
		if err != nil {
			c.logger.ErrorContext(ctx, "Bulk publish failed", slog.String("error", err.Error()))
			http.Error(w, "bulk action failed", http.StatusInternalServerError)
			return
		}
		redirectWithNotice(w, r, "/admin/movies", fmt.Sprintf("Опубликовано %d записей", count), "")
	case "draft":
		count, err := c.movies.SetStatus(ctx, selected, domain.StatusDraft)
		if err != nil {
			c.logger.ErrorContext(ctx, "Bulk unpublish failed", slog.String("error", err.Error()))
			http.Error(w, "bulk action failed", http.StatusInternalServerError)
			return
		}
		redirectWithNotice(w, r, "/admin/movies", fmt.Sprintf("Снято с публикации %d записей", count), "warning")
	default:
		redirectWithNotice(w, r, "/admin/movies", "Неизвестное действие", "warning")
	}
}

// movieInlineStatus сохраняет статус, измененный прямо в строке списка.
func (c *Console) movieInlineStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieSlug := mux.Vars(r)["slug"]

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	status := domain.StatusDraft
	if r.PostFormValue("is_published") == "on" {
		status = domain.StatusPublished
	}

	if _, err := c.movies.SetStatus(ctx, []string{movieSlug}, status); err != nil {
		c.logger.ErrorContext(ctx, "Inline status change failed", slog.String("slug", movieSlug), slog.String("error", err.Error()))
		http.Error(w, "status change failed", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin/movies", http.StatusSeeOther)
}

func (c *Console) lookupList(w http.ResponseWriter, r *http.Request) {
	resource := c.findResource(mux.Vars(r)["resource"])
	if resource == nil {
		http.NotFound(w, r)
		return
	}

	rows, err := resource.list(r.Context())
	if err != nil {
		c.logger.ErrorContext(r.Context(), "Failed to list lookup records", slog.String("resource", resource.Name), slog.String("error", err.Error()))
		http.Error(w, "failed to load records", http.StatusInternalServerError)
		return
	}

	c.render(w, "lookup_list.html", struct {
		Resource    *lookupResource
		Rows        []lookupRow
		Notice      string
		NoticeLevel string
	}{resource, rows, r.URL.Query().Get("notice"), r.URL.Query().Get("level")})
}

func (c *Console) lookupCreate(w http.ResponseWriter, r *http.Request) {
	resource := c.findResource(mux.Vars(r)["resource"])
	if resource == nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	target := "/admin/" + resource.Name
	if err := resource.create(r.Context(), r.PostForm); err != nil {
		if errors.Is(err, store.ErrLookupAlreadyExists) {
			redirectWithNotice(w, r, target, "Запись с таким URL уже существует", "warning")
			return
		}
		c.logger.ErrorContext(r.Context(), "Failed to create lookup record", slog.String("resource", resource.Name), slog.String("error", err.Error()))
		redirectWithNotice(w, r, target, "Не удалось создать запись", "warning")
		return
	}
	redirectWithNotice(w, r, target, "Запись создана", "")
}

func (c *Console) lookupDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resource := c.findResource(vars["resource"])
	if resource == nil {
		http.NotFound(w, r)
		return
	}

	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	target := "/admin/" + resource.Name
	if err := resource.remove(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrStillReferenced):
			redirectWithNotice(w, r, target, "Удаление запрещено: запись используется фильмами", "warning")
		case errors.Is(err, store.ErrLookupNotFound), errors.Is(err, store.ErrDirectorNotFound):
			redirectWithNotice(w, r, target, "Запись не найдена", "warning")
		default:
			c.logger.ErrorContext(r.Context(), "Failed to delete lookup record", slog.String("resource", resource.Name), slog.String("error", err.Error()))
			redirectWithNotice(w, r, target, "Не удалось удалить запись", "warning")
		}
		return
	}
	redirectWithNotice(w, r, target, "Запись удалена", "")
}
