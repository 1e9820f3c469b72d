package media

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePosterPartitionsByDate(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	relPath, err := storage.SavePoster(strings.NewReader("fake image bytes"), "poster.PNG")
	require.NoError(t, err)

	now := time.Now().UTC()
	wantDir := path.Join("posters", now.Format("2006"), now.Format("01"), now.Format("02"))
	assert.Equal(t, wantDir, path.Dir(relPath))
	assert.True(t, strings.HasSuffix(relPath, ".png"), "extension is lowercased: %s", relPath)

	content, err := os.ReadFile(filepath.Join(storage.Root(), filepath.FromSlash(relPath)))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(content))
}

func TestSavePosterGeneratesUniqueNames(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	first, err := storage.SavePoster(strings.NewReader("one"), "same.jpg")
	require.NoError(t, err)
	second, err := storage.SavePoster(strings.NewReader("two"), "same.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSavePosterRejectsUnsupportedExtension(t *testing.T) {
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"notes.txt", "archive.zip", "noext"} {
		_, err := storage.SavePoster(strings.NewReader("data"), name)
		assert.ErrorIs(t, err, ErrUnsupportedFileType, "file %s", name)
	}
}
