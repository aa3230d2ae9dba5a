package plays

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/auth"
)

const maxMemoLength = 2000

// Handler exposes the play record endpoints over HTTP.
type Handler struct {
	service Service
}

// NewHandler creates the play record HTTP handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the play routes relative to /api/me on a router
// that already has the JWT middleware applied.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/boardgames/{gameId}/plays", h.listByGame)
	router.Post("/boardgames/{gameId}/plays", h.add)
	router.Get("/boardgames/{gameId}/plays/{id}", h.get)
	router.Put("/boardgames/{gameId}/plays/{id}", h.update)
	router.Delete("/boardgames/{gameId}/plays/{id}", h.delete)
	router.Get("/plays", h.listAll)
}

func (h *Handler) listByGame(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	gameID, err := parseID(r, "gameId")
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	page, size := parsePaging(r)
	result, err := h.service.ListByGame(r.Context(), username, gameID, page, size)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	page, size := parsePaging(r)
	result, err := h.service.ListAll(r.Context(), username, page, size)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	playID, err := parseID(r, "id")
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	play, err := h.service.Get(r.Context(), username, playID)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, play)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	gameID, err := parseID(r, "gameId")
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	if fields := validatePlay(req); len(fields) > 0 {
		auth.WriteFieldErrors(w, fields)
		return
	}

	created, err := h.service.Add(r.Context(), username, gameID, req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
		return
	}

	playID, err := parseID(r, "id")
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
		return
	}
	defer r.Body.Close()

	if fields := validatePlay(req); len(fields) > 0 {
		auth.WriteFieldErrors(w, fields)
		return
	}

	updated, err := h.service.Update(r.Context(), username, playID, req)
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

	playID, err := parseID(r, "id")
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), username, playID); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// validatePlay checks a play record payload and returns a field to message
// map for every violation.
func validatePlay(req PlayRequest) map[string]string {
	fields := map[string]string{}
	if req.PlayedAt == "" {
		fields["playedAt"] = "Play date is required"
	} else if _, err := time.Parse(dateLayout, req.PlayedAt); err != nil {
		fields["playedAt"] = "Play date must be a valid date (YYYY-MM-DD)"
	}
	if req.PlayerCount == nil {
		fields["playerCount"] = "Player count is required"
	} else if *req.PlayerCount < 1 {
		fields["playerCount"] = "Player count must be at least 1"
	}
	if req.Memo != nil && len(*req.Memo) > maxMemoLength {
		fields["memo"] = "Memo must be at most 2000 characters"
	}
	return fields
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
