package media

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndRemove(t *testing.T) {
	s := &Store{Dir: t.TempDir()}

	p, err := s.Save("inspiracion", "Sala.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/media/inspiracion/"))
	assert.True(t, strings.HasSuffix(p, ".png"))

	onDisk := filepath.Join(s.Dir, filepath.FromSlash(strings.TrimPrefix(p, URLPrefix)))
	b, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))

	require.NoError(t, s.Remove(p))
	_, err = os.Stat(onDisk)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.NoError(t, s.Remove(p))
}

func TestStore_RejectsExtension(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	_, err := s.Save("pinturas", "script.exe", strings.NewReader("x"))
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestStore_RemoveIgnoresForeignPaths(t *testing.T) {
	s := &Store{Dir: t.TempDir()}
	assert.NoError(t, s.Remove("/static/logo.png"))
	assert.NoError(t, s.Remove("/media/../etc/passwd"))
}
