package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	root := t.TempDir()
	st, err := NewLocal(root)
	require.NoError(t, err)
	ctx := context.Background()

	info, err := st.Put(ctx, "uploads/a.docx", strings.NewReader("hello"), PutObjectOptions{Size: 5, ContentType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "uploads/a.docx", info.Key)

	assert.FileExists(t, filepath.Join(root, "uploads", "a.docx"))

	rc, got, err := st.Get(ctx, "uploads/a.docx")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(b))
	assert.Equal(t, int64(5), got.Size)

	entries, err := os.ReadDir(filepath.Join(root, "uploads"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")

	require.NoError(t, st.Delete(ctx, "uploads/a.docx"))
	assert.NoFileExists(t, filepath.Join(root, "uploads", "a.docx"))
	assert.NoError(t, st.Delete(ctx, "uploads/a.docx"))
}

func TestLocalStorage_GetMissing(t *testing.T) {
	st, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, _, err = st.Get(context.Background(), "outputs/nope.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestLocalStorage_PutFailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	st, err := NewLocal(root)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = st.Put(ctx, "outputs/x.pdf", failingReader{}, PutObjectOptions{Size: -1})
	require.Error(t, err)

	assert.NoFileExists(t, filepath.Join(root, "outputs", "x.pdf"))
	_, _, err = st.Get(ctx, "outputs/x.pdf")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	st, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "/etc/passwd", "../secret", "uploads/../../secret", `uploads\..\x`, "."} {
		t.Run(key, func(t *testing.T) {
			_, _, err := st.Get(ctx, key)
			assert.ErrorIs(t, err, ErrInvalidKey)
			_, err = st.Put(ctx, key, strings.NewReader("x"), PutObjectOptions{})
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "uploads/a.pdf", Key("uploads", "a.pdf"))
	assert.Equal(t, "a.pdf", Key("", "a.pdf"))
}
