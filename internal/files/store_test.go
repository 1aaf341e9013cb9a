package files

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_RoundTrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("report.pdf", strings.NewReader("pdf bytes")))

	rc, err := store.Open("report.pdf")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))

	require.NoError(t, store.Remove("report.pdf"))
	_, err = store.Open("report.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDiskStore_RemoveMissingIsIdempotent(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Remove("never-saved.bin"))
}

func TestDiskStore_StripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("../../escape.txt", strings.NewReader("x")))

	// The blob lands inside the root no matter what the name claims.
	rc, err := store.Open("escape.txt")
	require.NoError(t, err)
	rc.Close()
}
