package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}

func mustFile(t *testing.T, mimeType, path string) *File {
	t.Helper()
	f, err := NewFile(mimeType, path)
	require.NoError(t, err)
	return f
}

// failingWriter accepts limit bytes and then fails.
type failingWriter struct {
	limit int
	n     int
}

var errSinkFull = errors.New("sink full")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.limit {
		accepted := w.limit - w.n
		w.n = w.limit
		return accepted, errSinkFull
	}
	w.n += len(p)
	return len(p), nil
}

func TestNewFile_InvalidArgument(t *testing.T) {
	t.Parallel()

	_, err := NewFile("", "/tmp/x")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewFile("text/plain", "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFile_Descriptor(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	f := mustFile(t, "application/pdf", path)

	assert.Equal(t, "application/pdf", f.MimeType())
	assert.Equal(t, "report.pdf", f.FileName())
	assert.Equal(t, path, f.Path())
	assert.Equal(t, int64(-1), f.Length())
	assert.Equal(t, path+" (application/pdf)", f.String())

	writeFile(t, path, "%PDF-1.7")
	assert.Equal(t, int64(8), f.Length())

	// Length is not cached.
	writeFile(t, path, "%PDF-1.7\n%%EOF")
	assert.Equal(t, int64(14), f.Length())
}

func TestFile_Open(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	writeFile(t, path, "\x00\x00\x01\x00tail")
	f := mustFile(t, "application/octet-stream", path)

	src, err := f.Open()
	require.NoError(t, err)
	v, err := src.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(256), v)
	rest, err := src.ReadUTF8(-1)
	require.NoError(t, err)
	assert.Equal(t, "tail", rest)
	require.NoError(t, src.Close())

	missing := mustFile(t, "application/octet-stream", filepath.Join(dir, "missing"))
	_, err = missing.Open()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_WriteTo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "body.txt")
	writeFile(t, path, "hello, world")
	f := mustFile(t, "text/plain", path)

	var sink failingWriter
	sink.limit = 1 << 20
	n, err := f.WriteTo(&sink)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestFile_WriteToReleasesHandleOnSinkFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "body.txt")
	writeFile(t, path, "0123456789")
	f := mustFile(t, "text/plain", path)

	n, err := f.WriteTo(&failingWriter{limit: 4})
	require.ErrorIs(t, err, errSinkFull)
	assert.Equal(t, int64(4), n)

	// The file can be reopened and removed straight away.
	src, err := f.Open()
	require.NoError(t, err)
	all, err := src.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(all))
	require.NoError(t, src.Close())
	require.NoError(t, os.Remove(path))
}

func TestFile_MoveTo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "download.part")
	dstPath := filepath.Join(dir, "download.json")
	writeFile(t, srcPath, `{"ok":true}`)

	src := mustFile(t, "application/json", srcPath)
	dst := mustFile(t, "application/json", dstPath)
	require.NoError(t, src.MoveTo(dst))

	_, err := os.Stat(srcPath)
	require.ErrorIs(t, err, os.ErrNotExist)

	in, err := dst.Open()
	require.NoError(t, err)
	defer in.Close()
	got, err := in.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(got))

	// The moved instance keeps its label but has nothing to read.
	assert.Equal(t, "application/json", src.MimeType())
	_, err = src.Open()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFile_MoveToTypeMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "a")
	dstPath := filepath.Join(dir, "b")
	writeFile(t, srcPath, "source")
	writeFile(t, dstPath, "destination")

	src := mustFile(t, "image/png", srcPath)
	dst := mustFile(t, "image/jpeg", dstPath)

	err := src.MoveTo(dst)
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.NotErrorIs(t, err, ErrRename)

	got, err := os.ReadFile(srcPath)
	require.NoError(t, err)
	assert.Equal(t, "source", string(got))
	got, err = os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, "destination", string(got))
}

func TestFile_MoveToRenameRejected(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "a")
	writeFile(t, srcPath, "source")

	src := mustFile(t, "text/plain", srcPath)
	dst := mustFile(t, "text/plain", filepath.Join(dir, "no", "such", "dir", "b"))

	err := src.MoveTo(dst)
	require.ErrorIs(t, err, ErrRename)
	require.ErrorIs(t, err, os.ErrNotExist)

	var renameErr *RenameError
	require.ErrorAs(t, err, &renameErr)
	assert.Equal(t, srcPath, renameErr.Src)
	assert.Equal(t, dst.Path(), renameErr.Dst)

	got, err := os.ReadFile(srcPath)
	require.NoError(t, err)
	assert.Equal(t, "source", string(got))
}

func TestFile_MoveToNil(t *testing.T) {
	t.Parallel()

	f := mustFile(t, "text/plain", "/tmp/x")
	require.ErrorIs(t, f.MoveTo(nil), ErrInvalidArgument)
}

func TestFile_Equality(t *testing.T) {
	t.Parallel()

	a := mustFile(t, "text/plain", "/data/file.txt")
	b := mustFile(t, "application/octet-stream", "/data/file.txt")
	c := mustFile(t, "text/plain", "/data/other.txt")
	d := mustFile(t, "text/plain", "/data/./file.txt")

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, a.Equal(d))
	assert.Equal(t, a.Hash(), d.Hash())

	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(b))
	assert.False(t, a.Equal(nil))

	var nilFile *File
	assert.True(t, nilFile.Equal(nil))
}
