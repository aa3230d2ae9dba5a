package boardgames

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/boardgame-go/apperror"
	"github.com/user/boardgame-go/auth"
)

// Service provides ownership-scoped CRUD over a user's game collection.
type Service interface {
	List(ctx context.Context, username string, page, size int) ([]GameResponse, error)
	Get(ctx context.Context, username string, id int64) (*GameResponse, error)
	Add(ctx context.Context, username string, req AddGameRequest) (*GameResponse, error)
	Update(ctx context.Context, username string, id int64, req UpdateGameRequest) (*GameResponse, error)
	Delete(ctx context.Context, username string, id int64) error
}

// dbConn is the subset of pgxpool.Pool the service uses.
type dbConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type gameService struct {
	db dbConn
}

// NewService creates the pgx-backed board game service.
func NewService(db *pgxpool.Pool) Service {
	return &gameService{db: db}
}

const gameColumns = `id, bgg_id, name, thumbnail_url, year_published,
	min_players, max_players, min_play_time_minutes, max_play_time_minutes, added_at`

// List returns the user's games newest-first.
func (s *gameService) List(ctx context.Context, username string, page, size int) ([]GameResponse, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM user_board_games
		WHERE user_id = $1
		ORDER BY added_at DESC
		LIMIT $2 OFFSET $3`, gameColumns)
	rows, err := s.db.Query(ctx, query, userID, size, page*size)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list board games", err)
	}
	defer rows.Close()

	games := []GameResponse{}
	for rows.Next() {
		var g GameResponse
		if err := scanGame(rows, &g); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan board game", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list board games", err)
	}
	return games, nil
}

// Get returns one game looked up by (id, owner). A row owned by another
// user is indistinguishable from a missing one.
func (s *gameService) Get(ctx context.Context, username string, id int64) (*GameResponse, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}
	return s.getByIDAndUser(ctx, id, userID)
}

// Add persists a new game stamped with the resolved owner id.
func (s *gameService) Add(ctx context.Context, username string, req AddGameRequest) (*GameResponse, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`INSERT INTO user_board_games
		(user_id, bgg_id, name, thumbnail_url, year_published,
		 min_players, max_players, min_play_time_minutes, max_play_time_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s`, gameColumns)

	var g GameResponse
	row := s.db.QueryRow(ctx, query,
		userID,
		blankToNil(req.BggID),
		strings.TrimSpace(req.Name),
		blankToNil(req.ThumbnailURL),
		req.YearPublished,
		req.MinPlayers,
		req.MaxPlayers,
		req.MinPlayTimeMinutes,
		req.MaxPlayTimeMinutes,
	)
	if err := scanGame(row, &g); err != nil {
		return nil, apperror.NewDatabaseError("failed to add board game", err)
	}
	return &g, nil
}

// Update overwrites exactly the fields present in the request. The UPDATE
// statement is built dynamically so absent fields never appear in the SET
// clause; a null or blank name is skipped entirely.
func (s *gameService) Update(ctx context.Context, username string, id int64, req UpdateGameRequest) (*GameResponse, error) {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return nil, err
	}

	var setClauses []string
	var args []interface{}
	argID := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		addSet("name", strings.TrimSpace(*req.Name))
	}
	if req.ThumbnailURL != nil {
		addSet("thumbnail_url", blankToNil(req.ThumbnailURL))
	}
	if req.YearPublished != nil {
		addSet("year_published", *req.YearPublished)
	}
	if req.MinPlayers != nil {
		addSet("min_players", *req.MinPlayers)
	}
	if req.MaxPlayers != nil {
		addSet("max_players", *req.MaxPlayers)
	}
	if req.MinPlayTimeMinutes != nil {
		addSet("min_play_time_minutes", *req.MinPlayTimeMinutes)
	}
	if req.MaxPlayTimeMinutes != nil {
		addSet("max_play_time_minutes", *req.MaxPlayTimeMinutes)
	}

	if len(setClauses) == 0 {
		// Nothing to change; still confirms existence and ownership.
		return s.getByIDAndUser(ctx, id, userID)
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE user_board_games SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), argID, argID+1, gameColumns)

	var g GameResponse
	row := s.db.QueryRow(ctx, query, args...)
	if err := scanGame(row, &g); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(auth.NotFoundMessage, nil)
		}
		return nil, apperror.NewDatabaseError("failed to update board game", err)
	}
	return &g, nil
}

// Delete removes the game; its play records go with it via the foreign key
// cascade on play_records.user_board_game_id.
func (s *gameService) Delete(ctx context.Context, username string, id int64) error {
	userID, err := auth.ResolveUserID(ctx, s.db, username)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(ctx,
		`DELETE FROM user_board_games WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete board game", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(auth.NotFoundMessage, nil)
	}
	return nil
}

func (s *gameService) getByIDAndUser(ctx context.Context, id, userID int64) (*GameResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM user_board_games
		WHERE id = $1 AND user_id = $2`, gameColumns)
	var g GameResponse
	row := s.db.QueryRow(ctx, query, id, userID)
	if err := scanGame(row, &g); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(auth.NotFoundMessage, nil)
		}
		return nil, apperror.NewDatabaseError("failed to get board game", err)
	}
	return &g, nil
}

// scanGame reads one row of gameColumns into g. Nullable columns scan into
// the response's pointer fields directly.
func scanGame(row pgx.Row, g *GameResponse) error {
	return row.Scan(
		&g.ID,
		&g.BggID,
		&g.Name,
		&g.ThumbnailURL,
		&g.YearPublished,
		&g.MinPlayers,
		&g.MaxPlayers,
		&g.MinPlayTimeMinutes,
		&g.MaxPlayTimeMinutes,
		&g.AddedAt,
	)
}
