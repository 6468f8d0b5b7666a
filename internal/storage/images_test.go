package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := multipart.NewReader(&buf, w.Boundary())
	form, err := r.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["image"][0]
}

func TestImageStore_SaveNamesFile(t *testing.T) {
	t.Parallel()

	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(fileHeader(t, "cat.png", "png-bytes"))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d+_cat\.png$`), name)

	data, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestImageStore_SaveStripsDirectories(t *testing.T) {
	t.Parallel()

	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(fileHeader(t, "../../evil.png", "x"))
	require.NoError(t, err)
	assert.NotContains(t, name, string(filepath.Separator))
	assert.Regexp(t, regexp.MustCompile(`^\d+_evil\.png$`), name)
}

func TestImageStore_Remove(t *testing.T) {
	t.Parallel()

	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(fileHeader(t, "dog.jpg", "jpg"))
	require.NoError(t, err)

	store.Remove(context.Background(), name)
	_, statErr := os.Stat(store.Path(name))
	assert.True(t, os.IsNotExist(statErr))

	// Removing again, or removing nothing, must never panic or error out.
	store.Remove(context.Background(), name)
	store.Remove(context.Background(), "")
}
