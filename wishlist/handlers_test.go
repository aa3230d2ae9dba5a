package wishlist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/auth"
	"github.com/user/boardgame-go/config"
)

type stubWishlistService struct {
	listFn   func(ctx context.Context, username string) ([]ItemResponse, error)
	addFn    func(ctx context.Context, username string, req AddItemRequest) (*ItemResponse, error)
	deleteFn func(ctx context.Context, username string, id int64) error
}

func (s *stubWishlistService) List(ctx context.Context, username string) ([]ItemResponse, error) {
	return s.listFn(ctx, username)
}

func (s *stubWishlistService) Add(ctx context.Context, username string, req AddItemRequest) (*ItemResponse, error) {
	return s.addFn(ctx, username, req)
}

func (s *stubWishlistService) Delete(ctx context.Context, username string, id int64) error {
	return s.deleteFn(ctx, username, id)
}

func newWishlistRouter(t *testing.T, service Service) (http.Handler, string) {
	t.Helper()
	cfg := &config.AuthConfig{JWTSecret: "test-secret", TokenExpiration: time.Hour}
	token, err := auth.IssueToken(cfg, "alice", 1)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api/me/wishlist", func(r chi.Router) {
		r.Use(auth.JWTMiddleware(cfg))
		NewHandler(service).RegisterRoutes(r)
	})
	return r, token
}

func doRequest(handler http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListWishlist(t *testing.T) {
	handler, token := newWishlistRouter(t, &stubWishlistService{
		listFn: func(ctx context.Context, username string) ([]ItemResponse, error) {
			return []ItemResponse{{ID: 1, Name: "Spirit Island", AddedAt: time.Now()}}, nil
		},
	})

	rec := doRequest(handler, http.MethodGet, "/api/me/wishlist", token, "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var items []ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Spirit Island", items[0].Name)
}

func TestListWishlistRequiresAuth(t *testing.T) {
	handler, _ := newWishlistRouter(t, &stubWishlistService{})

	rec := doRequest(handler, http.MethodGet, "/api/me/wishlist", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddWishlistItem(t *testing.T) {
	handler, token := newWishlistRouter(t, &stubWishlistService{
		addFn: func(ctx context.Context, username string, req AddItemRequest) (*ItemResponse, error) {
			return &ItemResponse{ID: 2, Name: req.Name}, nil
		},
	})

	rec := doRequest(handler, http.MethodPost, "/api/me/wishlist", token, `{"name":"Spirit Island"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var item ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, int64(2), item.ID)
	assert.Equal(t, "Spirit Island", item.Name)
}

func TestAddWishlistItemValidation(t *testing.T) {
	handler, token := newWishlistRouter(t, &stubWishlistService{
		addFn: func(ctx context.Context, username string, req AddItemRequest) (*ItemResponse, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	})

	rec := doRequest(handler, http.MethodPost, "/api/me/wishlist", token, `{"name":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	assert.Contains(t, fields, "name")
}

func TestDeleteWishlistItem(t *testing.T) {
	var gotID int64
	handler, token := newWishlistRouter(t, &stubWishlistService{
		deleteFn: func(ctx context.Context, username string, id int64) error {
			gotID = id
			return nil
		},
	})

	rec := doRequest(handler, http.MethodDelete, "/api/me/wishlist/3", token, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(3), gotID)
}

func TestDeleteWishlistItemNotFound(t *testing.T) {
	handler, token := newWishlistRouter(t, &stubWishlistService{
		deleteFn: func(ctx context.Context, username string, id int64) error {
			return apperror.NewNotFoundError(auth.NotFoundMessage, nil)
		},
	})

	rec := doRequest(handler, http.MethodDelete, "/api/me/wishlist/3", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidateAddWishlist(t *testing.T) {
	long := strings.Repeat("x", 501)
	assert.Contains(t, validateAdd(AddItemRequest{Name: long}), "name")

	thumb := strings.Repeat("y", 1001)
	fields := validateAdd(AddItemRequest{Name: "Spirit Island", ThumbnailURL: &thumb})
	assert.Contains(t, fields, "thumbnailUrl")

	assert.Empty(t, validateAdd(AddItemRequest{Name: "Spirit Island"}))
}
