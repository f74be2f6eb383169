package staging

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageAndRelease(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)

	f, err := dir.Stage(context.Background(), ".jpg", bytes.NewReader([]byte("fake jpeg data")))
	require.NoError(t, err)

	assert.Equal(t, dir.Path(), filepath.Dir(f.Path()))
	assert.True(t, strings.HasPrefix(filepath.Base(f.Path()), "upload-"))
	assert.Equal(t, ".jpg", filepath.Ext(f.Path()))

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, []byte("fake jpeg data"), data)

	require.NoError(t, f.Release())
	_, err = os.Stat(f.Path())
	assert.True(t, os.IsNotExist(err))

	// Second release is a no-op.
	assert.NoError(t, f.Release())
}

func TestReleaseAlreadyRemoved(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)

	f, err := dir.Stage(context.Background(), "", bytes.NewReader(nil))
	require.NoError(t, err)
	require.NoError(t, os.Remove(f.Path()))

	assert.NoError(t, f.Release())
}

func TestStageUniqueNames(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)

	a, err := dir.Stage(context.Background(), ".png", bytes.NewReader([]byte("a")))
	require.NoError(t, err)
	b, err := dir.Stage(context.Background(), ".png", bytes.NewReader([]byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, a.Path(), b.Path())
}

type errReader struct{}

func (errReader) Read(_ []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestStageReadErrorLeavesNoFile(t *testing.T) {
	base := t.TempDir()
	dir, err := NewDir(base)
	require.NoError(t, err)

	_, err = dir.Stage(context.Background(), ".jpg", errReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStageCancelledContext(t *testing.T) {
	base := t.TempDir()
	dir, err := NewDir(base)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = dir.Stage(ctx, ".jpg", bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSanitiseExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{".jpg", ".jpg"},
		{".JPEG", ".JPEG"},
		{"", ""},
		{".", ""},
		{"jpg", ""},
		{"./../x", ""},
		{".verylongextension", ""},
		{".p g", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitiseExt(tt.in))
		})
	}
}
