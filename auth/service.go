package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/config"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// invalidCredentials is the single message for a failed login; unknown
// username and wrong password are indistinguishable to the caller.
const invalidCredentials = "Invalid username or password"

// NotFoundMessage is the single client-facing message for rows that are
// absent or owned by another user, so ownership is never leaked.
const NotFoundMessage = "Resource not found"

// Querier is the row-lookup subset of a pgx pool.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service provides registration and login.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
}

type authService struct {
	db         *pgxpool.Pool
	authConfig *config.AuthConfig
}

// NewService creates the pgx-backed auth service.
func NewService(db *pgxpool.Pool, authConfig *config.AuthConfig) Service {
	return &authService{db: db, authConfig: authConfig}
}

// Register hashes the password, persists the user and returns a signed
// token. There is no pre-insert existence check: the unique constraints on
// username and email are the authoritative conflict signal, which also
// closes the check/insert race between concurrent registrations.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
	}

	query := `INSERT INTO users (username, email, password_hash)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`
	err = s.db.QueryRow(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return nil, apperror.NewConflictError("Username already exists", nil)
			}
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, apperror.NewConflictError("Email already exists", nil)
			}
			return nil, apperror.NewConflictError("Username or email already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}

	token, err := IssueToken(s.authConfig, user.Username, user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{Token: token, Username: user.Username, UserID: user.ID}, nil
}

// Login verifies the password against the stored hash and returns a signed
// token on success.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var user User
	query := `SELECT id, username, email, password_hash, created_at
	          FROM users WHERE username = $1`
	err := s.db.QueryRow(ctx, query, req.Username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewAuthError(invalidCredentials, nil)
		}
		log.Printf("login: failed to look up user %q: %v", req.Username, err)
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.NewAuthError(invalidCredentials, nil)
	}

	token, err := IssueToken(s.authConfig, user.Username, user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &AuthResponse{Token: token, Username: user.Username, UserID: user.ID}, nil
}

// ResolveUserID maps a username to its user id. Callers treat a missing user
// as not-found so ownership mismatches and nonexistent users look the same.
func ResolveUserID(ctx context.Context, db Querier, username string) (int64, error) {
	var id int64
	err := db.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, username).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Printf("resolve user: %q not found", username)
			return 0, apperror.NewNotFoundError(NotFoundMessage, nil)
		}
		return 0, apperror.NewDatabaseError("failed to resolve user", err)
	}
	return id, nil
}
