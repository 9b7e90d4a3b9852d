package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), 1024)
	require.NoError(t, err)
	return store
}

func TestSaveAndOpen(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save("image/png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))

	f, err := store.Open(name)
	require.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))
}

func TestSaveRejectsUnknownContentType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save("application/x-msdownload", bytes.NewReader([]byte("nope")))
	assert.ErrorIs(t, err, ErrInvalidContentType)
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save("image/jpeg", bytes.NewReader(make([]byte, 2048)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open("../etc/passwd")
	assert.Error(t, err)
}
