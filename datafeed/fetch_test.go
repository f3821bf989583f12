package datafeed

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func xzCompress(t *testing.T, data string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFetcherDownloadsAndUnpacks(t *testing.T) {
	t.Parallel()

	csvBody := "datetime,open,high,low,close,volume\n2024-01-02 09:30:00,10,10,10,10,1000\n"
	archive := xzCompress(t, csvBody)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/000001.csv.xz") {
			w.Write(archive)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	f := NewFetcher(srv.URL, dir)

	res, err := f.Fetch(context.Background(), []string{"1", "000002"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Fetched)
	assert.Equal(t, 1, res.Missing)
	assert.Equal(t, 0, res.Skipped)

	data, err := os.ReadFile(filepath.Join(dir, "000001.csv"))
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(data))

	// No partial file left behind for the missing symbol.
	_, err = os.Stat(filepath.Join(dir, "000002.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "000002.csv.part"))
	assert.True(t, os.IsNotExist(err))
}

func TestFetcherSkipsExisting(t *testing.T) {
	t.Parallel()

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	writeFile(t, dir, "000001.csv", "already here\n")

	f := NewFetcher(srv.URL, dir)
	res, err := f.Fetch(context.Background(), []string{"000001"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, hits)
}

func TestFetcherServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	f := NewFetcher(srv.URL, t.TempDir())
	_, err := f.Fetch(context.Background(), []string{"000001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http status 500")
}

func TestFetcherBadArchive(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not an xz stream"))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	f := NewFetcher(srv.URL, dir)
	_, err := f.Fetch(context.Background(), []string{"000001"})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "000001.csv"))
	assert.True(t, os.IsNotExist(statErr))
}
