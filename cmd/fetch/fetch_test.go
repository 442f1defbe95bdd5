package main

import (
	"context"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(dir string) *fetcher {
	return &fetcher{
		client: nethttp.DefaultClient,
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.URL.Path {
		case "/files/data.csv":
			w.Header().Set("Content-Type", "text/csv")
			_, _ = io.WriteString(w, "a,b\n1,2\n")
		case "/missing":
			nethttp.NotFound(w, r)
		case "/truncated":
			w.Header().Set("Content-Length", strconv.Itoa(100))
			_, _ = io.WriteString(w, "short")
		default:
			_, _ = io.WriteString(w, "root")
		}
	}))
	t.Cleanup(server.Close)

	t.Run("moves into place", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		f := newTestFetcher(dir)

		file, err := f.fetch(context.Background(), server.URL+"/files/data.csv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "data.csv"), file.Path())
		assert.Equal(t, "text/csv", file.MimeType())

		got, err := os.ReadFile(file.Path())
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(got))
		assert.Equal(t, []string{"data.csv"}, listDir(t, dir))
	})

	t.Run("readable file mode", func(t *testing.T) {
		t.Parallel()
		if runtime.GOOS == "windows" {
			t.Skip("permission bits are not meaningful on windows")
		}
		dir := t.TempDir()
		file, err := newTestFetcher(dir).fetch(context.Background(), server.URL+"/files/data.csv")
		require.NoError(t, err)

		info, err := os.Stat(file.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(filePerm), info.Mode().Perm())
	})

	t.Run("same name twice keeps both", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("mine"), 0o644))
		f := newTestFetcher(dir)

		first, err := f.fetch(context.Background(), server.URL+"/files/data.csv")
		require.NoError(t, err)
		second, err := f.fetch(context.Background(), server.URL+"/files/data.csv")
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "data-1.csv"), first.Path())
		assert.Equal(t, filepath.Join(dir, "data-2.csv"), second.Path())
		kept, err := os.ReadFile(filepath.Join(dir, "data.csv"))
		require.NoError(t, err)
		assert.Equal(t, "mine", string(kept))
		assert.ElementsMatch(t, []string{"data.csv", "data-1.csv", "data-2.csv"}, listDir(t, dir))
	})

	t.Run("default name", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		file, err := newTestFetcher(dir).fetch(context.Background(), server.URL+"/")
		require.NoError(t, err)
		assert.Equal(t, defaultFileName, file.FileName())
	})

	t.Run("status error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, err := newTestFetcher(dir).fetch(context.Background(), server.URL+"/missing")
		require.Error(t, err)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("truncated body leaves nothing behind", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, err := newTestFetcher(dir).fetch(context.Background(), server.URL+"/truncated")
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("media type mismatch", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		f := newTestFetcher(dir)
		f.mimeType = "application/json"
		_, err := f.fetch(context.Background(), server.URL+"/files/data.csv")
		require.ErrorIs(t, err, errMimeMismatch)
		assert.Empty(t, listDir(t, dir))
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = io.WriteString(w, r.URL.Path)
	}))
	t.Cleanup(server.Close)

	dir := filepath.Join(t.TempDir(), "out")
	cfg := config{
		dir:         dir,
		concurrency: 2,
		urls:        []string{server.URL + "/one", server.URL + "/two", server.URL + "/three"},
	}
	require.NoError(t, run(context.Background(), cfg, nethttp.DefaultClient, slog.New(slog.DiscardHandler)))
	assert.ElementsMatch(t, []string{"one", "two", "three"}, listDir(t, dir))
}

func TestFileNameFor(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://example.com/a/b/report.pdf": "report.pdf",
		"https://example.com/a/b/":           "b",
		"https://example.com":                defaultFileName,
		"https://example.com/":               defaultFileName,
		"::not a url":                        defaultFileName,
	}
	for in, want := range tests {
		assert.Equal(t, want, fileNameFor(in), in)
	}
}

func TestSameMediaType(t *testing.T) {
	t.Parallel()

	assert.True(t, sameMediaType("text/plain", "text/plain; charset=utf-8"))
	assert.True(t, sameMediaType("Text/Plain", "text/plain"))
	assert.False(t, sameMediaType("text/plain", "text/csv"))
}

func TestReserve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	got, err := reserve(dir, "index")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index"), got)

	got, err = reserve(dir, "index")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "index-1"), got)

	got, err = reserve(dir, "a.tar")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.tar"), got)
}

func TestReserve_AllTaken(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for range maxNameAttempts {
		_, err := reserve(dir, "x.bin")
		require.NoError(t, err)
	}
	_, err := reserve(dir, "x.bin")
	require.ErrorIs(t, err, errNameTaken)
}
