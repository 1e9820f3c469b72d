package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"
	"github.com/MalikAdventure/moviePosterApi/internal/store"
	"github.com/MalikAdventure/moviePosterApi/pkg/auth"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// UserHandler содержит зависимости для HTTP обработчиков пользователей.
type UserHandler struct {
	store        store.UserStore
	logger       *slog.Logger
	validator    *validator.Validate
	tokenManager auth.TokenManager
}

// NewUserHandler создает новый экземпляр UserHandler.
func NewUserHandler(s store.UserStore, l *slog.Logger, v *validator.Validate, tm auth.TokenManager) *UserHandler {
	return &UserHandler{
		store:        s,
		logger:       l,
		validator:    v,
		tokenManager: tm,
	}
}

// RegisterUser регистрирует нового пользователя.
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP RegisterUser request received", slog.String("path", r.URL.Path))

	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode registration request body", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		h.logger.WarnContext(ctx, "Registration request validation failed", slog.String("error", err.Error()))
		respondFieldErrors(w, r, h.logger, fieldErrors(err))
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to hash password", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusInternalServerError, "Error processing registration")
		return
	}

	newUser := &domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         "user",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := h.store.Create(ctx, newUser); err != nil {
		if errors.Is(err, store.ErrUserAlreadyExists) {
			respondError(w, r, h.logger, http.StatusConflict, "User with this email or username already exists")
		} else {
			h.logger.ErrorContext(ctx, "Failed to create user in store", slog.String("error", err.Error()))
			respondError(w, r, h.logger, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	h.logger.InfoContext(ctx, "User registered successfully", slog.String("userID", newUser.ID), slog.String("username", newUser.Username))
	respondJSON(w, r, h.logger, http.StatusCreated, newUser)
}

// LoginUser аутентифицирует пользователя и выдает JWT токен.
func (h *UserHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP LoginUser request received", slog.String("path", r.URL.Path))

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode login request body", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(ctx, req); err != nil {
		respondFieldErrors(w, r, h.logger, fieldErrors(err))
		return
	}

	user, err := h.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondError(w, r, h.logger, http.StatusUnauthorized, "Invalid email or password")
		} else {
			h.logger.ErrorContext(ctx, "Failed to get user by email", slog.String("error", err.Error()))
			respondError(w, r, h.logger, http.StatusInternalServerError, "Login failed")
		}
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		h.logger.WarnContext(ctx, "Invalid password attempt", slog.String("email", req.Email))
		respondError(w, r, h.logger, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.tokenManager.Generate(user.ID, user.Role)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to generate token", slog.String("error", err.Error()))
		respondError(w, r, h.logger, http.StatusInternalServerError, "Login failed")
		return
	}

	h.logger.InfoContext(ctx, "User logged in successfully", slog.String("userID", user.ID))
	respondJSON(w, r, h.logger, http.StatusOK, domain.LoginResponse{User: user, Token: token})
}

// GetUserProfile возвращает профиль аутентифицированного пользователя.
func (h *UserHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	callerID, ok := CallerID(ctx)
	if !ok {
		respondError(w, r, h.logger, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.store.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondError(w, r, h.logger, http.StatusNotFound, "User not found")
		} else {
			h.logger.ErrorContext(ctx, "Failed to get user by ID", slog.String("error", err.Error()))
			respondError(w, r, h.logger, http.StatusInternalServerError, "Failed to load profile")
		}
		return
	}
	respondJSON(w, r, h.logger, http.StatusOK, user)
}
