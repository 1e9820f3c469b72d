package api

import (
	"log/slog"
	"net/http"

	"github.com/MalikAdventure/moviePosterApi/pkg/auth"

	"github.com/gorilla/mux"
)

// NewRouter создает и настраивает HTTP маршрутизатор приложения.
// adminConsole — собранная админ-консоль; она монтируется под /admin
// и доступна только пользователям с ролью admin.
func NewRouter(
	movieHandler *MovieHandler,
	userHandler *UserHandler,
	adminConsole http.Handler,
	tokenManager auth.TokenManager,
	mediaRoot string,
	logger *slog.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	authMW := AuthMiddleware(tokenManager, logger)

	apiRouter := router.PathPrefix("/api").Subrouter()

	// Публичные эндпоинты пользователей (не требуют аутентификации)
	usersRouter := apiRouter.PathPrefix("/users").Subrouter()
	usersRouter.HandleFunc("/register", userHandler.RegisterUser).Methods(http.MethodPost)
	usersRouter.HandleFunc("/login", userHandler.LoginUser).Methods(http.MethodPost)

	meRouter := usersRouter.PathPrefix("/me").Subrouter()
	meRouter.Use(authMW)
	meRouter.HandleFunc("", userHandler.GetUserProfile).Methods(http.MethodGet)

	// Эндпоинты каталога: все операции требуют аутентификации,
	// включая чтение.
	moviesRouter := apiRouter.PathPrefix("/movies").Subrouter()
	moviesRouter.Use(authMW)

	// Админская коллекция регистрируется раньше публичной, чтобы
	// /admin не трактовался как slug.
	adminMoviesRouter := moviesRouter.PathPrefix("/admin").Subrouter()
	adminMoviesRouter.HandleFunc("", movieHandler.ListAll).Methods(http.MethodGet)
	adminMoviesRouter.HandleFunc("", movieHandler.CreateMovie).Methods(http.MethodPost)
	adminMoviesRouter.HandleFunc("/publish", movieHandler.BulkPublish).Methods(http.MethodPost)
	adminMoviesRouter.HandleFunc("/draft", movieHandler.BulkDraft).Methods(http.MethodPost)
	adminMoviesRouter.HandleFunc("/{slug}/directors", movieHandler.AttachDirector).Methods(http.MethodPost)
	adminMoviesRouter.HandleFunc("/{slug}/directors/{directorSlug}", movieHandler.DetachDirector).Methods(http.MethodDelete)
	adminMoviesRouter.HandleFunc("/{slug}/poster", movieHandler.UploadPoster).Methods(http.MethodPost)
	adminMoviesRouter.HandleFunc("/{slug}", movieHandler.GetAny).Methods(http.MethodGet)
	adminMoviesRouter.HandleFunc("/{slug}", movieHandler.UpdateAny).Methods(http.MethodPut)
	adminMoviesRouter.HandleFunc("/{slug}", movieHandler.DeleteAny).Methods(http.MethodDelete)

	// Публичная коллекция: только опубликованные записи, пагинация.
	moviesRouter.HandleFunc("", movieHandler.ListPublished).Methods(http.MethodGet)
	moviesRouter.HandleFunc("", movieHandler.CreateMovie).Methods(http.MethodPost)
	moviesRouter.HandleFunc("/{slug}", movieHandler.GetPublished).Methods(http.MethodGet)
	moviesRouter.HandleFunc("/{slug}", movieHandler.UpdatePublished).Methods(http.MethodPut)
	moviesRouter.HandleFunc("/{slug}", movieHandler.DeletePublished).Methods(http.MethodDelete)

	// Админ-консоль: аутентификация + роль admin.
	if adminConsole != nil {
		protected := authMW(RequireRole("admin", logger)(adminConsole))
		router.PathPrefix("/admin").Handler(protected)
	}

	// Раздача медиа-файлов (постеров).
	router.PathPrefix("/media/").Handler(
		http.StripPrefix("/media/", http.FileServer(http.Dir(mediaRoot))),
	)

	return router
}
