package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crossquote/internal/config"
	"crossquote/internal/domain"
	"crossquote/internal/port"
	s3storage "crossquote/internal/storage/s3"
)

// fakeS3 serves path-style GET and PUT requests from an in-memory map.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = body
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newStorage(t *testing.T) (port.ObjectStorage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	storage, err := s3storage.NewS3Client(context.Background(), &config.S3Config{
		Region:    "eu-central-1",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)
	return storage, fake
}

func TestS3Client_Download(t *testing.T) {
	storage, fake := newStorage(t)
	fake.objects["catalogs/snapshot.json"] = []byte(`{"version":"abc"}`)

	data, err := storage.Download(context.Background(), "catalogs", "snapshot.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"abc"}`, string(data))
}

func TestS3Client_Download_MissingKey(t *testing.T) {
	storage, _ := newStorage(t)

	_, err := storage.Download(context.Background(), "catalogs", "missing.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestS3Client_Upload(t *testing.T) {
	storage, fake := newStorage(t)
	body := []byte(`{"version":"def"}`)

	out, err := storage.Upload(context.Background(), port.UploadInput{
		Bucket:      "catalogs",
		Key:         "snapshot.json",
		Body:        bytes.NewReader(body),
		ContentType: "application/json",
		Size:        int64(len(body)),
	})
	require.NoError(t, err)
	assert.Equal(t, `"etag-1"`, out.ETag)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.objects, "catalogs/snapshot.json")
}
