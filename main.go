// Command boardgame-go runs the board-game collection API server. It wires
// configuration, the database pool and every feature service together with
// explicit constructors, mounts the HTTP routes, and handles graceful
// shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/auth"
	"github.com/user/boardgame-go/boardgames"
	"github.com/user/boardgame-go/config"
	"github.com/user/boardgame-go/db"
	"github.com/user/boardgame-go/plays"
	"github.com/user/boardgame-go/uploads"
	"github.com/user/boardgame-go/wishlist"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	pool, err := db.NewPool(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	authService := auth.NewService(pool, cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	gameHandler := boardgames.NewHandler(boardgames.NewService(pool))
	playHandler := plays.NewHandler(plays.NewService(pool))
	wishlistHandler := wishlist.NewHandler(wishlist.NewService(pool))
	uploadHandler := uploads.NewHandler(cfg.Upload)

	r := chi.NewRouter()

	// Global middleware must be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that responds in the standard error shape.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
	})

	r.Route("/api/me", func(r chi.Router) {
		r.Use(auth.JWTMiddleware(cfg.Auth))

		r.Route("/boardgames", func(r chi.Router) {
			gameHandler.RegisterRoutes(r)
		})
		// Play routes hang off /api/me directly because they span both
		// /boardgames/{gameId}/plays and /plays.
		playHandler.RegisterRoutes(r)
		r.Route("/wishlist", func(r chi.Router) {
			wishlistHandler.RegisterRoutes(r)
		})
		r.Post("/upload-image", uploadHandler.HandleUpload())
	})

	// Stored images are public by URL; no auth on reads.
	uploads.FileServer(r, cfg.Upload.Dir)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"Failed to encode error response"}`, http.StatusInternalServerError)
	}
}
