package uploads

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/boardgame-go/auth"
	"github.com/user/boardgame-go/config"
)

func TestResolveExtension(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        string
	}{
		{"content type wins", "image/png", "photo.jpg", "png"},
		{"jpeg normalizes to jpg", "image/jpeg", "photo.jpeg", "jpg"},
		{"filename fallback", "application/octet-stream", "photo.webp", "webp"},
		{"filename fallback jpeg", "", "photo.JPEG", "jpg"},
		{"svg content type rejected", "image/svg+xml", "photo.png", ""},
		{"svg extension rejected", "application/octet-stream", "photo.svg", ""},
		{"unknown both", "application/pdf", "doc.pdf", ""},
		{"no extension", "", "photo", ""},
		{"bmp allowed", "image/bmp", "", "bmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveExtension(tt.contentType, tt.filename))
		})
	}
}

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "alice", SanitizeUsername("alice"))
	assert.Equal(t, "a_b_c", SanitizeUsername("a/b\\c"))
	assert.Equal(t, "___", SanitizeUsername("../"))
	assert.Equal(t, "user_name-1", SanitizeUsername("user name-1"))
}

// multipartBody builds a one-file multipart request body. The part carries
// an explicit content type the way browsers send file uploads.
func multipartBody(t *testing.T, fieldName, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition",
		`form-data; name="`+fieldName+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func newUploadRouter(t *testing.T, dir string) (http.Handler, string) {
	t.Helper()
	cfg := &config.AuthConfig{JWTSecret: "test-secret", TokenExpiration: time.Hour}
	token, err := auth.IssueToken(cfg, "alice", 1)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api/me", func(r chi.Router) {
		r.Use(auth.JWTMiddleware(cfg))
		r.Post("/upload-image", NewHandler(&config.UploadConfig{Dir: dir}).HandleUpload())
	})
	FileServer(r, dir)
	return r, token
}

func TestUploadStoresFileAndServesIt(t *testing.T) {
	dir := t.TempDir()
	handler, token := newUploadRouter(t, dir)

	body, contentType := multipartBody(t, "file", "photo.jpeg", "image/jpeg", []byte("fake image bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/me/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "/api/uploads/alice/"), resp.URL)
	assert.True(t, strings.HasSuffix(resp.URL, ".jpg"), resp.URL)

	entries, err := os.ReadDir(filepath.Join(dir, "alice"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// The returned URL serves the stored bytes back.
	getReq := httptest.NewRequest(http.MethodGet, resp.URL, nil)
	getRec := httptest.NewRecorder()
	handler.ServeHTTP(getRec, getReq)
	assert.Equal(t, http.StatusOK, getRec.Code)
	assert.Equal(t, "fake image bytes", getRec.Body.String())
}

func TestUploadRejectsSVG(t *testing.T) {
	handler, token := newUploadRouter(t, t.TempDir())

	body, contentType := multipartBody(t, "file", "image.png", "image/svg+xml", []byte("<svg/>"))
	req := httptest.NewRequest(http.MethodPost, "/api/me/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsUnknownType(t *testing.T) {
	handler, token := newUploadRouter(t, t.TempDir())

	body, contentType := multipartBody(t, "file", "doc.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/me/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	handler, token := newUploadRouter(t, t.TempDir())

	body, contentType := multipartBody(t, "file", "photo.png", "image/png", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/me/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresFileField(t *testing.T) {
	handler, token := newUploadRouter(t, t.TempDir())

	body, contentType := multipartBody(t, "avatar", "photo.png", "image/png", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/me/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresAuth(t *testing.T) {
	handler, _ := newUploadRouter(t, t.TempDir())

	body, contentType := multipartBody(t, "file", "photo.png", "image/png", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/me/upload-image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFileServerRefusesDirectoryListing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "alice"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice", "a.jpg"), []byte("x"), 0o644))

	handler, _ := newUploadRouter(t, dir)

	for _, target := range []string{"/api/uploads/", "/api/uploads/alice/"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, "target %q", target)
	}
}
