package boardgames

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/auth"
)

// Handler exposes the owned-game endpoints over HTTP.
type Handler struct {
	service Service
}

// NewHandler creates the board game HTTP handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the collection routes on a router that already has
// the JWT middleware applied.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.list)
	router.Post("/", h.add)
	router.Get("/{id}", h.get)
	router.Put("/{id}", h.update)
	router.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	page, size := parsePaging(r)
	games, err := h.service.List(r.Context(), username, page, size)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, games)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	var req AddGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	if fields := ValidateAdd(req); len(fields) > 0 {
		auth.WriteFieldErrors(w, fields)
		return
	}

	created, err := h.service.Add(r.Context(), username, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	game, err := h.service.Get(r.Context(), username, id)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, game)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	var req UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	if fields := ValidateUpdate(req); len(fields) > 0 {
		auth.WriteFieldErrors(w, fields)
		return
	}

	updated, err := h.service.Update(r.Context(), username, id, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), username, id); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseID reads a positive integer URL parameter.
func parseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequestError("Invalid request parameters", err)
	}
	return id, nil
}

// parsePaging reads page/size query parameters with defaults and caps.
func parsePaging(r *http.Request) (page, size int) {
	page = 0
	size = 20
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			size = v
		}
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
