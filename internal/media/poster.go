package media

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Расширения, допустимые для файлов постеров.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// Storage сохраняет загруженные постеры в локальный медиа-каталог.
// Файлы раскладываются по датированным подкаталогам:
// posters/ГГГГ/ММ/ДД/<uuid>.<ext>.
type Storage struct {
	root string
}

// NewStorage создает хранилище с корнем root, создавая каталог при
// необходимости.
func NewStorage(root string) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &Storage{root: root}, nil
}

// Root возвращает корневой каталог медиа-файлов.
func (s *Storage) Root() string {
	return s.root
}

// SavePoster сохраняет файл постера и возвращает его относительный путь
// (тот, что хранится в записи фильма).
func (s *Storage) SavePoster(file io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}

	now := time.Now().UTC()
	relDir := path.Join("posters", now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(relDir)), 0o755); err != nil {
		return "", fmt.Errorf("failed to create poster directory: %w", err)
	}

	relPath := path.Join(relDir, uuid.NewString()+ext)
	dst, err := os.Create(filepath.Join(s.root, filepath.FromSlash(relPath)))
	if err != nil {
		return "", fmt.Errorf("failed to create poster file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write poster file: %w", err)
	}
	return relPath, nil
}
