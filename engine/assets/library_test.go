package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryGet(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "generic.glsl"), []byte("// generic\n"), 0o644))

	l, err := NewLibrary(root)
	require.NoError(t, err)
	defer l.Close()

	source, err := l.Get("generic.glsl")
	require.NoError(t, err)
	assert.Equal(t, "// generic\n", source)

	source, err = l.Get("generic.glsl")
	require.NoError(t, err)
	assert.Equal(t, "// generic\n", source)
}

func TestLibraryGetSubdirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shaders"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shaders", "vertexcolor.vert"), []byte("void main() {}\n"), 0o644))

	l, err := NewLibrary(root)
	require.NoError(t, err)
	defer l.Close()

	source, err := l.Get("shaders/vertexcolor.vert")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}\n", source)
}

func TestLibraryGetMissing(t *testing.T) {
	l, err := NewLibrary(t.TempDir())
	require.NoError(t, err)
	defer l.Close()

	_, err = l.Get("nope.frag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.frag")
}

func TestLibraryInvalidate(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "vertexcolor.frag")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	l, err := NewLibrary(root)
	require.NoError(t, err)
	defer l.Close()

	source, err := l.Get("vertexcolor.frag")
	require.NoError(t, err)
	assert.Equal(t, "v1", source)

	// Invalidation drops the cache entry; the next Get rereads.
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	l.invalidate(path)

	source, err = l.Get("vertexcolor.frag")
	require.NoError(t, err)
	assert.Equal(t, "v2", source)
}

func TestLibraryDoubleClose(t *testing.T) {
	l, err := NewLibrary(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, l.Close())
	assert.Error(t, l.Close())
}
