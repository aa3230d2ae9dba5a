package uploads

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/auth"
	"github.com/user/boardgame-go/config"
)

// maxUploadSize caps the multipart form memory and the accepted file size.
const maxUploadSize = 10 << 20 // 10MB

// UploadResponse carries the public URL of a stored image.
type UploadResponse struct {
	URL string `json:"url"`
}

// Handler exposes the image upload endpoint.
type Handler struct {
	cfg *config.UploadConfig
}

// NewHandler creates the upload HTTP handler.
func NewHandler(cfg *config.UploadConfig) *Handler {
	return &Handler{cfg: cfg}
}

// HandleUpload handles POST /api/me/upload-image. It accepts one multipart
// file field named "file", verifies it against the image allow-list, and
// stores it under the authenticated user's directory with a random name.
func (h *Handler) HandleUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, ok := auth.UsernameFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("Authentication required", nil))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid multipart form", err))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("file field is required", err))
			return
		}
		defer file.Close()

		if header.Size == 0 {
			auth.WriteError(w, r, apperror.NewBadRequestError("file is empty", nil))
			return
		}

		ext := ResolveExtension(header.Header.Get("Content-Type"), header.Filename)
		if ext == "" {
			auth.WriteError(w, r, apperror.NewBadRequestError("file must be an image (jpg, png, gif, webp, bmp)", nil))
			return
		}

		safeUser := SanitizeUsername(username)
		filename := fmt.Sprintf("%s.%s", uuid.New(), ext)
		dir := filepath.Join(h.cfg.Dir, safeUser)

		if err := saveFile(file, dir, filename); err != nil {
			log.Printf("upload: failed to save image for %q: %v", username, err)
			auth.WriteError(w, r, apperror.NewInternalError("Failed to save image. Please try again.", err))
			return
		}

		url := fmt.Sprintf("/api/uploads/%s/%s", safeUser, filename)
		auth.WriteJSON(w, http.StatusOK, UploadResponse{URL: url})
	}
}

func saveFile(src io.Reader, dir, filename string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// FileServer mounts a static handler for the upload directory at
// /api/uploads/*. Directory listings are not served.
func FileServer(router chi.Router, uploadDir string) {
	fs := http.StripPrefix("/api/uploads/", http.FileServer(neuteredDir{http.Dir(uploadDir)}))
	router.Get("/api/uploads/*", func(w http.ResponseWriter, r *http.Request) {
		fs.ServeHTTP(w, r)
	})
}

// neuteredDir wraps http.Dir and refuses directory reads so the file
// server cannot enumerate uploads.
type neuteredDir struct {
	fs http.FileSystem
}

func (d neuteredDir) Open(name string) (http.File, error) {
	f, err := d.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
