package plays

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/auth"
)

// Service provides ownership-scoped CRUD over play records.
type Service interface {
	ListByGame(ctx context.Context, username string, gameID int64, page, size int) (*Page, error)
	ListAll(ctx context.Context, username string, page, size int) (*Page, error)
	Get(ctx context.Context, username string, playID int64) (*PlayResponse, error)
	Add(ctx context.Context, username string, gameID int64, req PlayRequest) (*PlayResponse, error)
	Update(ctx context.Context, username string, playID int64, req PlayRequest) (*PlayResponse, error)
	Delete(ctx context.Context, username string, playID int64) error
}

type playService struct {
	db *pgxpool.Pool
}

// NewService creates the pgx-backed play record service.
func NewService(db *pgxpool.Pool) Service {
	return &playService{db: db}
}

const playColumns = `id, user_board_game_id, played_at, memo, player_count, created_at`

// ListByGame returns the plays of one owned game, newest played-at first.
// A game id owned by someone else yields not-found before any play is read.
func (s *playService) ListByGame(ctx context.Context, username string, gameID int64, page, size int) (*Page, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnedGame(ctx, gameID, userID); err != nil {
		return nil, err
	}

	var total int64
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM play_records WHERE user_board_game_id = $1`, gameID).Scan(&total)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to count play records", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+playColumns+` FROM play_records
		 WHERE user_board_game_id = $1
		 ORDER BY played_at DESC, id DESC
		 LIMIT $2 OFFSET $3`, gameID, size, page*size)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list play records", err)
	}
	defer rows.Close()

	return buildPage(rows, total, page, size)
}

// ListAll returns all the user's plays across games, newest played-at first.
func (s *playService) ListAll(ctx context.Context, username string, page, size int) (*Page, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	var total int64
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM play_records WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to count play records", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+playColumns+` FROM play_records
		 WHERE user_id = $1
		 ORDER BY played_at DESC, id DESC
		 LIMIT $2 OFFSET $3`, userID, size, page*size)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list play records", err)
	}
	defer rows.Close()

	return buildPage(rows, total, page, size)
}

// Get returns one play record looked up by (id, owner). Like Update, the
// game path segment plays no part in the lookup.
func (s *playService) Get(ctx context.Context, username string, playID int64) (*PlayResponse, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRow(ctx,
		`SELECT `+playColumns+` FROM play_records WHERE id = $1 AND user_id = $2`,
		playID, userID)

	var p PlayResponse
	if err := scanPlay(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(auth.NotFoundMessage, nil)
		}
		return nil, apperror.NewDatabaseError("failed to get play record", err)
	}
	return &p, nil
}

// Add persists a play record against an owned game. The record carries the
// owner id as well as the game id, keeping both scoped to the same user.
func (s *playService) Add(ctx context.Context, username string, gameID int64, req PlayRequest) (*PlayResponse, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnedGame(ctx, gameID, userID); err != nil {
		return nil, err
	}

	playedAt, err := time.Parse(dateLayout, req.PlayedAt)
	if err != nil {
		return nil, apperror.NewValidationError("Play date must be a valid date (YYYY-MM-DD)", err)
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO play_records (user_id, user_board_game_id, played_at, memo, player_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+playColumns,
		userID, gameID, playedAt, req.Memo, *req.PlayerCount)

	var p PlayResponse
	if err := scanPlay(row, &p); err != nil {
		return nil, apperror.NewDatabaseError("failed to add play record", err)
	}
	return &p, nil
}

// Update replaces the record's date, memo and player count. Lookup is by
// (id, owner); the game path segment plays no part in it.
func (s *playService) Update(ctx context.Context, username string, playID int64, req PlayRequest) (*PlayResponse, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	playedAt, err := time.Parse(dateLayout, req.PlayedAt)
	if err != nil {
		return nil, apperror.NewValidationError("Play date must be a valid date (YYYY-MM-DD)", err)
	}

	row := s.db.QueryRow(ctx,
		`UPDATE play_records
		 SET played_at = $1, memo = $2, player_count = $3
		 WHERE id = $4 AND user_id = $5
		 RETURNING `+playColumns,
		playedAt, req.Memo, *req.PlayerCount, playID, userID)

	var p PlayResponse
	if err := scanPlay(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(auth.NotFoundMessage, nil)
		}
		return nil, apperror.NewDatabaseError("failed to update play record", err)
	}
	return &p, nil
}

// Delete removes one play record looked up by (id, owner).
func (s *playService) Delete(ctx context.Context, username string, playID int64) error {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM play_records WHERE id = $1 AND user_id = $2`, playID, userID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete play record", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(auth.NotFoundMessage, nil)
	}
	return nil
}

// requireOwnedGame confirms the game exists and belongs to the user.
func (s *playService) requireOwnedGame(ctx context.Context, gameID, userID int64) error {
	var id int64
	err := s.db.QueryRow(ctx,
		`SELECT id FROM user_board_games WHERE id = $1 AND user_id = $2`, gameID, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFoundError(auth.NotFoundMessage, nil)
		}
		return apperror.NewDatabaseError("failed to look up board game", err)
	}
	return nil
}

func buildPage(rows pgx.Rows, total int64, page, size int) (*Page, error) {
	content := []PlayResponse{}
	for rows.Next() {
		var p PlayResponse
		if err := scanPlay(rows, &p); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan play record", err)
		}
		content = append(content, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list play records", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &Page{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        page,
		Size:          size,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}, nil
}

// scanPlay reads one row of playColumns. The played-on date comes back as a
// timestamp at midnight and is rendered in the wire date format.
func scanPlay(row pgx.Row, p *PlayResponse) error {
	var playedAt time.Time
	if err := row.Scan(&p.ID, &p.UserBoardGameID, &playedAt, &p.Memo, &p.PlayerCount, &p.CreatedAt); err != nil {
		return err
	}
	p.PlayedAt = playedAt.Format(dateLayout)
	return nil
}
