package disk

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := New(dir)
	require.NoError(t, err)

	n, err := s.Save("a.jpg", strings.NewReader("contenido"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	data, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "временные файлы не остаются")

	require.NoError(t, s.Remove("a.jpg"))
	require.NoError(t, s.Remove("a.jpg"), "повторное удаление не ошибка")
	_, err = os.Stat(filepath.Join(dir, "a.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_RejectsPaths(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x.jpg", "sub/x.jpg", ".hidden"} {
		_, err := s.Save(name, strings.NewReader("x"))
		assert.Error(t, err, name)
	}
}
