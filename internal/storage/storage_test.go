package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAvatarStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "avatars")

	store, err := NewAvatarStore(dir, "http://localhost:8080/")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, store.Dir())
}

func TestAvatarStore_Save(t *testing.T) {
	store, err := NewAvatarStore(t.TempDir(), "https://desk.example.com")
	require.NoError(t, err)

	url, err := store.Save("me.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://desk.example.com/avatars/me.png", url)

	data, err := os.ReadFile(filepath.Join(store.Dir(), "me.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestAvatarStore_SaveSanitizesFilename(t *testing.T) {
	store, err := NewAvatarStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	// Path components and shell characters are stripped to safe runes
	url, err := store.Save("../../etc/pa$$wd face.png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotContains(t, url, "..")
	assert.NotContains(t, url, "$")
	assert.NotContains(t, url, " ")

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pa__wd_face.png", entries[0].Name())
}

func TestAvatarStore_PublicURLTrimsTrailingSlash(t *testing.T) {
	store, err := NewAvatarStore(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/avatars/a.png", store.PublicURL("a.png"))
}
