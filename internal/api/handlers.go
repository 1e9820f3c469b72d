package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"
	"github.com/MalikAdventure/moviePosterApi/internal/media"
	"github.com/MalikAdventure/moviePosterApi/internal/store"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
)

// MovieHandler содержит зависимости для HTTP обработчиков каталога.
// Публичная коллекция работает в области "опубликованные", админская —
// без ограничений; оба набора маршрутов разделяют одни и те же методы.
type MovieHandler struct {
	store     store.MovieStore
	media     *media.Storage
	logger    *slog.Logger
	validator *validator.Validate
}

// NewMovieHandler создает новый экземпляр MovieHandler.
func NewMovieHandler(s store.MovieStore, m *media.Storage, l *slog.Logger, v *validator.Validate) *MovieHandler {
	return &MovieHandler{
		store:     s,
		media:     m,
		logger:    l,
		validator: v,
	}
}

// --- Публичная коллекция (только опубликованные) ---

// ListPublished возвращает пагинированный список опубликованных фильмов.
func (h *MovieHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, pageSize := parsePagination(r)

	h.logger.InfoContext(ctx, "Listing published movies", slog.Int("page", page), slog.Int("page_size", pageSize))

	movies, totalCount, err := h.store.List(ctx, store.MovieListParams{
		Scope:    store.ScopePublished,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusOK, newPagedResponse(movies, totalCount, page, pageSize))
}

// GetPublished возвращает опубликованный фильм по slug.
func (h *MovieHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	h.getMovie(w, r, store.ScopePublished)
}

// UpdatePublished обновляет опубликованный фильм.
func (h *MovieHandler) UpdatePublished(w http.ResponseWriter, r *http.Request) {
	h.updateMovie(w, r, store.ScopePublished)
}

// DeletePublished удаляет опубликованный фильм.
func (h *MovieHandler) DeletePublished(w http.ResponseWriter, r *http.Request) {
	h.deleteMovie(w, r, store.ScopePublished)
}

// --- Админская коллекция (черновики + опубликованные) ---

// ListAll возвращает полный список фильмов без пагинации, с
// опциональными фильтрами по статусу, категории и поисковой строке.
func (h *MovieHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	queryParams := r.URL.Query()

	params := store.MovieListParams{
		Scope:  store.ScopeAll,
		Search: queryParams.Get("search"),
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

	h.logger.InfoContext(ctx, "Listing all movies", slog.String("query", queryParams.Encode()))

	movies, _, err := h.store.List(ctx, params)
	if err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusOK, movies)
}

// GetAny возвращает фильм по slug независимо от статуса.
func (h *MovieHandler) GetAny(w http.ResponseWriter, r *http.Request) {
	h.getMovie(w, r, store.ScopeAll)
}

// UpdateAny обновляет фильм независимо от статуса.
func (h *MovieHandler) UpdateAny(w http.ResponseWriter, r *http.Request) {
	h.updateMovie(w, r, store.ScopeAll)
}

// DeleteAny удаляет фильм независимо от статуса.
func (h *MovieHandler) DeleteAny(w http.ResponseWriter, r *http.Request) {
	h.deleteMovie(w, r, store.ScopeAll)
}

// --- Общие операции ---

// CreateMovie обрабатывает запрос на создание нового фильма.
// Владельцем записи становится аутентифицированный вызывающий;
// значение поля user из тела запроса игнорируется.
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	callerID, ok := CallerID(ctx)
	if !ok {
		respondError(w, r, h.logger, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.CreateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode movie creation request body", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		h.logger.WarnContext(ctx, "Movie creation request validation failed", slog.String("error", err.Error()))
		respondFieldErrors(w, r, h.logger, fieldErrors(err))
		return
	}

	movieSlug := req.Slug
	if movieSlug == "" {
		movieSlug = slug.Make(req.OriginalTitle)
	}

	newMovie := &domain.Movie{
		OriginalTitle:  req.OriginalTitle,
		AdaptedTitleID: req.AdaptedTitleID,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		Countries:      pq.Int64Array(req.Countries),
		Tags:           pq.Int64Array(req.Tags),
		IsPublished:    req.IsPublished,
		UserID:         callerID,
		Slug:           movieSlug,
	}

	if err := h.store.Create(ctx, newMovie); err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Movie created", slog.String("slug", newMovie.Slug), slog.String("userID", callerID))
	respondJSON(w, r, h.logger, http.StatusCreated, newMovie)
}

func (h *MovieHandler) getMovie(w http.ResponseWriter, r *http.Request, scope store.Scope) {
	ctx := r.Context()
	movieSlug := mux.Vars(r)["slug"]

	movie, err := h.store.GetBySlug(ctx, scope, movieSlug)
	if err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}
	respondJSON(w, r, h.logger, http.StatusOK, movie)
}

func (h *MovieHandler) updateMovie(w http.ResponseWriter, r *http.Request, scope store.Scope) {
	ctx := r.Context()
	movieSlug := mux.Vars(r)["slug"]

	callerID, ok := CallerID(ctx)
	if !ok {
		respondError(w, r, h.logger, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.UpdateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode movie update request body", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		h.logger.WarnContext(ctx, "Movie update request validation failed", slog.String("error", err.Error()))
		respondFieldErrors(w, r, h.logger, fieldErrors(err))
		return
	}

	movie, err := h.store.GetBySlug(ctx, scope, movieSlug)
	if err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}

	if req.OriginalTitle != nil {
		movie.OriginalTitle = *req.OriginalTitle
	}
	if req.AdaptedTitleID != nil {
		movie.AdaptedTitleID = req.AdaptedTitleID
	}
	if req.Description != nil {
		movie.Description = *req.Description
	}
	if req.CategoryID != nil {
		movie.CategoryID = req.CategoryID
	}
	if req.Countries != nil {
		movie.Countries = pq.Int64Array(req.Countries)
	}
	if req.Tags != nil {
		movie.Tags = pq.Int64Array(req.Tags)
	}
	if req.IsPublished != nil {
		movie.IsPublished = *req.IsPublished
	}
	// Запись всегда принадлежит тому, кто выполнил последнюю запись.
	movie.UserID = callerID

	if err := h.store.Update(ctx, scope, movie); err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Movie updated", slog.String("slug", movieSlug), slog.String("userID", callerID))
	respondJSON(w, r, h.logger, http.StatusOK, movie)
}

func (h *MovieHandler) deleteMovie(w http.ResponseWriter, r *http.Request, scope store.Scope) {
	ctx := r.Context()
	movieSlug := mux.Vars(r)["slug"]

	if err := h.store.Delete(ctx, scope, movieSlug); err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}
	h.logger.InfoContext(ctx, "Movie deleted", slog.String("slug", movieSlug))
	w.WriteHeader(http.StatusNoContent)
}

// --- Массовые действия ---

// BulkPublish публикует набор фильмов одним запросом.
func (h *MovieHandler) BulkPublish(w http.ResponseWriter, r *http.Request) {
	h.bulkSetStatus(w, r, domain.StatusPublished)
}

// BulkDraft снимает набор фильмов с публикации одним запросом.
func (h *MovieHandler) BulkDraft(w http.ResponseWriter, r *http.Request) {
	h.bulkSetStatus(w, r, domain.StatusDraft)
}

func (h *MovieHandler) bulkSetStatus(w http.ResponseWriter, r *http.Request, status domain.Status) {
	ctx := r.Context()

	var req domain.BulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondFieldErrors(w, r, h.logger, fieldErrors(err))
		return
	}

	count, err := h.store.SetStatus(ctx, req.Slugs, status)
	if err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Bulk status change applied",
		slog.Int64("updated", count), slog.Bool("published", status.Bool()))
	respondJSON(w, r, h.logger, http.StatusOK, map[string]int64{"updated": count})
}

// --- Связь фильм-режиссер ---

// AttachDirector прикрепляет режиссера к фильму. Повторное прикрепление
// той же пары отклоняется с конфликтом.
func (h *MovieHandler) AttachDirector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieSlug := mux.Vars(r)["slug"]

	var req domain.AttachDirectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondFieldErrors(w, r, h.logger, fieldErrors(err))
		return
	}

	dateJoined, err := time.Parse("2006-01-02", req.DateJoined)
	if err != nil {
		respondFieldErrors(w, r, h.logger, map[string]string{"date_joined": "must be a date in format 2006-01-02"})
		return
	}

	if err := h.store.AttachDirector(ctx, movieSlug, req.DirectorSlug, dateJoined, req.InviteReason); err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Director attached", slog.String("movie", movieSlug), slog.String("director", req.DirectorSlug))
	respondJSON(w, r, h.logger, http.StatusCreated, map[string]string{
		"movie":    movieSlug,
		"director": req.DirectorSlug,
	})
}

// DetachDirector удаляет связь фильм-режиссер.
func (h *MovieHandler) DetachDirector(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	if err := h.store.DetachDirector(ctx, vars["slug"], vars["directorSlug"]); err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Постер ---

// UploadPoster принимает multipart-файл poster и сохраняет его в
// медиа-хранилище; путь к файлу записывается в карточку фильма.
func (h *MovieHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movieSlug := mux.Vars(r)["slug"]

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("poster")
	if err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "Poster file is required")
		return
	}
	defer file.Close()

	posterPath, err := h.media.SavePoster(file, header.Filename)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedFileType) {
			respondError(w, r, h.logger, http.StatusBadRequest, "Unsupported poster file type")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to save poster file", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusInternalServerError, "Failed to save poster")
		return
	}

	if err := h.store.SetPoster(ctx, movieSlug, posterPath); err != nil {
		respondStoreError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Poster uploaded", slog.String("slug", movieSlug), slog.String("poster", posterPath))
	respondJSON(w, r, h.logger, http.StatusOK, map[string]string{"poster": posterPath})
}
