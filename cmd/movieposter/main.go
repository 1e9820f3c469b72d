package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MalikAdventure/moviePosterApi/internal/admin"
	"github.com/MalikAdventure/moviePosterApi/internal/api"
	"github.com/MalikAdventure/moviePosterApi/internal/config"
	"github.com/MalikAdventure/moviePosterApi/internal/database"
	"github.com/MalikAdventure/moviePosterApi/internal/logger"
	"github.com/MalikAdventure/moviePosterApi/internal/media"
	"github.com/MalikAdventure/moviePosterApi/internal/store"
	"github.com/MalikAdventure/moviePosterApi/pkg/auth"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.NewSlog(logger.SlogConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// --- Подключение к PostgreSQL и применение миграций ---
	dbClient, err := database.NewClient(cfg.DatabaseURL, cfg.MigrationsPath, log)
	if err != nil {
		log.Error("Failed to initialize database connection", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		log.Info("Closing PostgreSQL database connection...")
		if err := dbClient.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", slog.String("error", err.Error()))
		}
	}()

	// --- Инициализация хранилищ ---
	movieStore, err := store.NewPostgresMovieStore(dbClient.DB, log)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL movie store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	directorStore, err := store.NewPostgresDirectorStore(dbClient.DB, log)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL director store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	lookupStore, err := store.NewPostgresLookupStore(dbClient.DB, log)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL lookup store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	userStore, err := store.NewPostgresUserStore(dbClient.DB, log)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL user store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("PostgreSQL stores initialized.")

	tokenManager, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Error("Failed to initialize token manager", slog.String("error", err.Error()))
		os.Exit(1)
	}

	mediaStorage, err := media.NewStorage(cfg.MediaRoot)
	if err != nil {
		log.Error("Failed to initialize media storage", slog.String("error", err.Error()), slog.String("root", cfg.MediaRoot))
		os.Exit(1)
	}

	validate := api.NewValidator()

	// --- HTTP обработчики и админ-консоль ---
	movieHandler := api.NewMovieHandler(movieStore, mediaStorage, log, validate)
	userHandler := api.NewUserHandler(userStore, log, validate, tokenManager)

	adminConsole, err := admin.NewConsole(movieStore, directorStore, lookupStore, log)
	if err != nil {
		log.Error("Failed to build admin console", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := api.NewRouter(movieHandler, userHandler, adminConsole, tokenManager, cfg.MediaRoot, log)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", slog.String("port", cfg.ServerPort))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		log.Info("HTTP server gracefully stopped.")
	}
}
