// Package wishlist manages a user's wishlist: games they want but do not
// own. Items can only be listed, added and deleted; there is no update.
package wishlist

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/auth"
)

// ItemResponse is the API representation of one wishlist item.
type ItemResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	AddedAt      time.Time `json:"addedAt"`
}

// AddItemRequest is the payload for adding a wishlist item.
type AddItemRequest struct {
	Name         string  `json:"name"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

// Service provides ownership-scoped wishlist operations.
type Service interface {
	List(ctx context.Context, username string) ([]ItemResponse, error)
	Add(ctx context.Context, username string, req AddItemRequest) (*ItemResponse, error)
	Delete(ctx context.Context, username string, id int64) error
}

type wishlistService struct {
	db *pgxpool.Pool
}

// NewService creates the pgx-backed wishlist service.
func NewService(db *pgxpool.Pool) Service {
	return &wishlistService{db: db}
}

// List returns the user's wishlist newest-first.
func (s *wishlistService) List(ctx context.Context, username string) ([]ItemResponse, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, thumbnail_url, added_at FROM wishlist_items
		 WHERE user_id = $1
		 ORDER BY added_at DESC`, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list wishlist items", err)
	}
	defer rows.Close()

	items := []ItemResponse{}
	for rows.Next() {
		var item ItemResponse
		if err := rows.Scan(&item.ID, &item.Name, &item.ThumbnailURL, &item.AddedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan wishlist item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list wishlist items", err)
	}
	return items, nil
}

// Add persists a new wishlist item stamped with the resolved owner id.
func (s *wishlistService) Add(ctx context.Context, username string, req AddItemRequest) (*ItemResponse, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	var item ItemResponse
	err = s.db.QueryRow(ctx,
		`INSERT INTO wishlist_items (user_id, name, thumbnail_url)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, thumbnail_url, added_at`,
		userID, strings.TrimSpace(req.Name), blankToNil(req.ThumbnailURL)).
		Scan(&item.ID, &item.Name, &item.ThumbnailURL, &item.AddedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to add wishlist item", err)
	}
	return &item, nil
}

// Delete removes one item looked up by (id, owner).
func (s *wishlistService) Delete(ctx context.Context, username string, id int64) error {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM wishlist_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete wishlist item", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(auth.NotFoundMessage, nil)
	}
	return nil
}

// blankToNil trims s and converts an empty result to nil.
func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
