package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MalikAdventure/moviePosterApi/internal/store"
)

// respondJSON отправляет JSON-ответ клиенту.
func respondJSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logger.ErrorContext(r.Context(), "Failed to encode JSON response", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

// respondError отправляет JSON-ответ с одиночной ошибкой.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, message string) {
	respondJSON(w, r, logger, status, map[string]string{"error": message})
}

// respondFieldErrors отправляет ответ с ошибками валидации по полям.
func respondFieldErrors(w http.ResponseWriter, r *http.Request, logger *slog.Logger, fields map[string]string) {
	respondJSON(w, r, logger, http.StatusBadRequest, map[string]interface{}{"errors": fields})
}

// respondStoreError транслирует ошибки хранилища в HTTP-статусы
// согласно таксономии ошибок: not-found → 404, конфликты уникальности
// и ссылочной защиты → 409, остальное → 500.
func respondStoreError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrMovieNotFound):
		respondError(w, r, logger, http.StatusNotFound, "Movie not found")
	case errors.Is(err, store.ErrDirectorNotFound):
		respondError(w, r, logger, http.StatusNotFound, "Director not found")
	case errors.Is(err, store.ErrLookupNotFound):
		respondError(w, r, logger, http.StatusNotFound, "Record not found")
	case errors.Is(err, store.ErrMovieAlreadyExists):
		respondError(w, r, logger, http.StatusConflict, "Movie with this slug already exists")
	case errors.Is(err, store.ErrLookupAlreadyExists):
		respondError(w, r, logger, http.StatusConflict, "Record with this slug already exists")
	case errors.Is(err, store.ErrDirectorAlreadyAttached):
		respondError(w, r, logger, http.StatusConflict, "Director is already attached to this movie")
	case errors.Is(err, store.ErrStillReferenced):
		respondError(w, r, logger, http.StatusConflict, "Record is still referenced by another record")
	default:
		logger.ErrorContext(r.Context(), "Unhandled store error", slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		respondError(w, r, logger, http.StatusInternalServerError, "Internal server error")
	}
}
