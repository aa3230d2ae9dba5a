package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/user/boardgame-go/apperror"
)

// Handlers exposes the auth endpoints over HTTP.
type Handlers struct {
	service Service
}

// NewHandlers creates auth HTTP handlers backed by the given service.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister handles POST /api/auth/register.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if fields := validateRegister(req); len(fields) > 0 {
			WriteFieldErrors(w, fields)
			return
		}

		resp, err := h.service.Register(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleLogin handles POST /api/auth/login.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		fields := map[string]string{}
		if req.Username == "" {
			fields["username"] = "Username is required"
		}
		if req.Password == "" {
			fields["password"] = "Password is required"
		}
		if len(fields) > 0 {
			WriteFieldErrors(w, fields)
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			WriteError(w, r, err)
			return
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

// validateRegister checks the registration payload and returns a map of
// field name to message for every violation.
func validateRegister(req RegisterRequest) map[string]string {
	fields := map[string]string{}
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || len(username) > 50 {
		fields["username"] = "Username must be between 3 and 50 characters"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		fields["email"] = "Email must be a valid email address"
	}
	if len(req.Password) < 8 {
		fields["password"] = "Password must be at least 8 characters"
	}
	return fields
}

// WriteJSON serializes data and writes it with the given status.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		}
	}
}

// WriteFieldErrors writes a 400 response with a field to message map, the
// shape clients use to attach messages to form fields.
func WriteFieldErrors(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, fields)
}

// WriteError converts any error into a sanitized JSON error response.
// Non-AppError values become a generic 500; 5xx causes are logged
// server-side with their full detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("An unexpected error occurred", err)
	}
	if appErr.StatusCode() >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, appErr)
	}
	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}
