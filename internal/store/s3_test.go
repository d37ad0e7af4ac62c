package store_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/intake/internal/domain"
	"github.com/alexanderramin/intake/internal/store"
)

// fakeS3 is a path-style S3 subset: GET, PUT and DELETE on /bucket/key.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		f.objects[key] = body
		f.types[key] = req.Header.Get("Content-Type")
		return respond(http.StatusOK, nil, http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			xml := `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`
			return respond(http.StatusNotFound, []byte(xml), http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return respond(http.StatusOK, body, http.Header{"Content-Type": {f.types[key]}}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, nil, http.Header{}), nil
	}
	return respond(http.StatusNotImplemented, nil, http.Header{}), nil
}

func respond(code int, body []byte, h http.Header) *http.Response {
	return &http.Response{
		StatusCode:    code,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Header:        h,
	}
}

func newTestS3Store(t *testing.T, prefix string) (*store.S3Store, *fakeS3) {
	t.Helper()
	fake := newFakeS3()
	s, err := store.NewS3Store(context.Background(), store.S3Config{
		Bucket:          "intake-sessions",
		Region:          "eu-central-1",
		Endpoint:        "https://mock.s3.local",
		Prefix:          prefix,
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	return s, fake
}

func TestS3Store(t *testing.T) {
	s, _ := newTestS3Store(t, "")
	exerciseStore(t, s)
}

func TestS3Store_KeyLayout(t *testing.T) {
	s, fake := newTestS3Store(t, "/intake/sessions/")
	assert.Equal(t, "intake/sessions/session_abc.json", s.Key("abc"))

	require.NoError(t, s.Save(context.Background(), "abc", domain.NewBlankState()))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	body, ok := fake.objects["intake/sessions/session_abc.json"]
	require.True(t, ok)
	assert.Contains(t, string(body), `"projects"`)
	assert.Equal(t, "application/json; charset=utf-8", fake.types["intake/sessions/session_abc.json"])
}

func TestS3Store_RequiresBucket(t *testing.T) {
	_, err := store.NewS3Store(context.Background(), store.S3Config{})
	require.Error(t, err)
}
