// Package admin реализует серверно-рендерит консоль курирования каталога.
// Привязки сущностей к страницам консоли собираются явно при старте
// приложения (NewConsole), без глобальной регистрации.
package admin

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MalikAdventure/moviePosterApi/internal/domain"
	"github.com/MalikAdventure/moviePosterApi/internal/store"

	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
)

//go:embed templates/*.html
var templateFS embed.FS

// Количество фильмов на странице списка.
const moviesPerPage = 12

// Console — админ-консоль каталога. Реализует http.Handler и
// монтируется приложением под /admin.
type Console struct {
	movies    store.MovieStore
	directors store.DirectorStore
	lookups   store.LookupStore
	logger    *slog.Logger
	tmpl      *template.Template
	router    *mux.Router
	resources []lookupResource
}

// lookupResource — явная привязка справочной сущности к страницам
// консоли: имя в URL, заголовок, колонки и операции.
type lookupResource struct {
	Name    string
	Title   string
	Columns []string
	Fields  []formField
	list    func(ctx context.Context) ([]lookupRow, error)
	create  func(ctx context.Context, form url.Values) error
	remove  func(ctx context.Context, id int64) error
}

type formField struct {
	Name  string
	Label string
}

type lookupRow struct {
	ID    int64
	Cells []string
}

// NewConsole собирает консоль и ее реестр ресурсов.
func NewConsole(movies store.MovieStore, directors store.DirectorStore, lookups store.LookupStore, logger *slog.Logger) (*Console, error) {
	tmpl, err := template.New("admin").Funcs(template.FuncMap{
		"short": shortDescription,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse admin templates: %w", err)
	}

	c := &Console{
		movies:    movies,
		directors: directors,
		lookups:   lookups,
		logger:    logger,
		tmpl:      tmpl,
	}
	c.resources = c.buildRegistry()
	c.router = c.buildRouter()
	return c, nil
}

// shortDescription обрезает описание до 20 символов для колонки списка.
func shortDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= 20 {
		return s
	}
	return string(runes[:20])
}

// buildRegistry создает явный список привязок справочников к консоли.
func (c *Console) buildRegistry() []lookupResource {
	return []lookupResource{
		{
			Name:    "categories",
			Title:   "Категории",
			Columns: []string{"ID", "Название", "URL"},
			Fields:  []formField{{Name: "name", Label: "Название"}, {Name: "slug", Label: "URL (необязательно)"}},
			list: func(ctx context.Context) ([]lookupRow, error) {
				categories, err := c.lookups.ListCategories(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]lookupRow, 0, len(categories))
				for _, cat := range categories {
					rows = append(rows, lookupRow{ID: cat.ID, Cells: []string{strconv.FormatInt(cat.ID, 10), cat.Name, cat.Slug}})
				}
				return rows, nil
			},
			create: func(ctx context.Context, form url.Values) error {
				name := form.Get("name")
				categorySlug := form.Get("slug")
				if categorySlug == "" {
					categorySlug = slug.Make(name)
				}
				return c.lookups.CreateCategory(ctx, &domain.Category{Name: name, Slug: categorySlug})
			},
			remove: func(ctx context.Context, id int64) error { return c.lookups.DeleteCategory(ctx, id) },
		},
		{
			Name:    "countries",
			Title:   "Страны",
			Columns: []string{"ID", "Название"},
			Fields:  []formField{{Name: "name", Label: "Название"}},
			list: func(ctx context.Context) ([]lookupRow, error) {
				countries, err := c.lookups.ListCountries(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]lookupRow, 0, len(countries))
				for _, country := range countries {
					rows = append(rows, lookupRow{ID: country.ID, Cells: []string{strconv.FormatInt(country.ID, 10), country.Name}})
				}
				return rows, nil
			},
			create: func(ctx context.Context, form url.Values) error {
				return c.lookups.CreateCountry(ctx, &domain.Country{Name: form.Get("name")})
			},
			remove: func(ctx context.Context, id int64) error { return c.lookups.DeleteCountry(ctx, id) },
		},
		{
			Name:    "tags",
			Title:   "Тэги",
			Columns: []string{"ID", "Тэг", "URL"},
			Fields:  []formField{{Name: "tag", Label: "Тэг"}, {Name: "slug", Label: "URL (необязательно)"}},
			list: func(ctx context.Context) ([]lookupRow, error) {
				tags, err := c.lookups.ListTags(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]lookupRow, 0, len(tags))
				for _, tag := range tags {
					rows = append(rows, lookupRow{ID: tag.ID, Cells: []string{strconv.FormatInt(tag.ID, 10), tag.Tag, tag.Slug}})
				}
				return rows, nil
			},
			create: func(ctx context.Context, form url.Values) error {
				tagName := form.Get("tag")
				tagSlug := form.Get("slug")
				if tagSlug == "" {
					tagSlug = slug.Make(tagName)
				}
				return c.lookups.CreateTag(ctx, &domain.MovieTag{Tag: tagName, Slug: tagSlug})
			},
			remove: func(ctx context.Context, id int64) error { return c.lookups.DeleteTag(ctx, id) },
		},
		{
			Name:    "adapted-titles",
			Title:   "Адаптированные названия",
			Columns: []string{"ID", "Название", "Язык"},
			Fields:  []formField{{Name: "name", Label: "Название"}, {Name: "language", Label: "Язык (en/ru/de/fr)"}},
			list: func(ctx context.Context) ([]lookupRow, error) {
				titles, err := c.lookups.ListAdaptedTitles(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]lookupRow, 0, len(titles))
				for _, title := range titles {
					rows = append(rows, lookupRow{ID: title.ID, Cells: []string{strconv.FormatInt(title.ID, 10), title.Name, title.Language}})
				}
				return rows, nil
			},
			create: func(ctx context.Context, form url.Values) error {
				return c.lookups.CreateAdaptedTitle(ctx, &domain.AdaptedTitle{Name: form.Get("name"), Language: form.Get("language")})
			},
			remove: func(ctx context.Context, id int64) error { return c.lookups.DeleteAdaptedTitle(ctx, id) },
		},
		{
			Name:    "directors",
			Title:   "Режиссеры",
			Columns: []string{"ID", "Имя", "Фамилия", "Дата рождения", "URL"},
			Fields: []formField{
				{Name: "first_name", Label: "Имя"},
				{Name: "second_name", Label: "Фамилия"},
				{Name: "date_of_birth", Label: "Дата рождения (ГГГГ-ММ-ДД)"},
				{Name: "slug", Label: "URL (необязательно)"},
			},
			list: func(ctx context.Context) ([]lookupRow, error) {
				directors, err := c.directors.List(ctx)
				if err != nil {
					return nil, err
				}
				rows := make([]lookupRow, 0, len(directors))
				for _, d := range directors {
					rows = append(rows, lookupRow{ID: d.ID, Cells: []string{
						strconv.FormatInt(d.ID, 10), d.FirstName, d.SecondName,
						d.DateOfBirth.Format("2006-01-02"), d.Slug,
					}})
				}
				return rows, nil
			},
			create: func(ctx context.Context, form url.Values) error {
				dateOfBirth, err := time.Parse("2006-01-02", form.Get("date_of_birth"))
				if err != nil {
					return fmt.Errorf("invalid date_of_birth: %w", err)
				}
				directorSlug := form.Get("slug")
				if directorSlug == "" {
					directorSlug = slug.Make(form.Get("first_name") + " " + form.Get("second_name"))
				}
				return c.directors.Create(ctx, &domain.Director{
					FirstName:   form.Get("first_name"),
					SecondName:  form.Get("second_name"),
					DateOfBirth: dateOfBirth,
					Slug:        directorSlug,
				})
			},
			remove: func(ctx context.Context, id int64) error { return c.directors.Delete(ctx, id) },
		},
	}
}

func (c *Console) buildRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/admin", c.index).Methods(http.MethodGet)
	router.HandleFunc("/admin/movies", c.movieList).Methods(http.MethodGet)
	router.HandleFunc("/admin/movies/action", c.movieBulkAction).Methods(http.MethodPost)
	router.HandleFunc("/admin/movies/create", c.movieCreate).Methods(http.MethodPost)
	router.HandleFunc("/admin/movies/{slug}/status", c.movieInlineStatus).Methods(http.MethodPost)
	router.HandleFunc("/admin/{resource}", c.lookupList).Methods(http.MethodGet)
	router.HandleFunc("/admin/{resource}", c.lookupCreate).Methods(http.MethodPost)
	router.HandleFunc("/admin/{resource}/{id:[0-9]+}/delete", c.lookupDelete).Methods(http.MethodPost)

	return router
}

// ServeHTTP делает консоль монтируемой как обычный http.Handler.
func (c *Console) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.router.ServeHTTP(w, r)
}

func (c *Console) findResource(name string) *lookupResource {
	for i := range c.resources {
		if c.resources[i].Name == name {
			return &c.resources[i]
		}
	}
	return nil
}

func (c *Console) render(w http.ResponseWriter, name string, data interface{}) {
	if err := c.tmpl.ExecuteTemplate(w, name, data); err != nil {
		c.logger.Error("failed to render admin template", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// redirectWithNotice перенаправляет на страницу списка с сообщением.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, target, notice, level string) {
	params := url.Values{}
	params.Set("notice", notice)
	if level != "" {
		params.Set("level", level)
	}
	http.Redirect(w, r, target+"?"+params.Encode(), http.StatusSeeOther)
}
