package wishlist

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/auth"
)

const maxNameLength = 500

// Handler exposes the wishlist endpoints over HTTP.
type Handler struct {
	service Service
}

// NewHandler creates the wishlist HTTP handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the wishlist routes on a router that already has
// the JWT middleware applied.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.list)
	router.Post("/", h.add)
	router.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	items, err := h.service.List(r.Context(), username)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	if fields := validateAdd(req); len(fields) > 0 {
		auth.WriteFieldErrors(w, fields)
		return
	}

	created, err := h.service.Add(r.Context(), username, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, created)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		auth.WriteError(w, r, apperror.NewBadRequestError("Invalid request parameters", err))
		return
	}

	if err := h.service.Delete(r.Context(), username, id); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validateAdd checks an add request and returns a field to message map for
// every violation.
func validateAdd(req AddItemRequest) map[string]string {
	fields := map[string]string{}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		fields["name"] = "Name is required"
	} else if len(name) > maxNameLength {
		fields["name"] = "Name must be at most 500 characters"
	}
	if req.ThumbnailURL != nil && len(strings.TrimSpace(*req.ThumbnailURL)) > 1000 {
		fields["thumbnailUrl"] = "Thumbnail URL must be at most 1000 characters"
	}
	return fields
}
