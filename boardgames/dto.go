// Package boardgames manages a user's owned-game collection: listing,
// adding, partial updates, and deletion. Every operation is scoped to the
// authenticated owner. This file defines the request/response payloads.
package boardgames

import "time"

// GameResponse is the API representation of one owned game.
type GameResponse struct {
	ID                 int64     `json:"id"`
	BggID              *string   `json:"bggId"`
	Name               string    `json:"name"`
	ThumbnailURL       *string   `json:"thumbnailUrl"`
	YearPublished      *int      `json:"yearPublished"`
	MinPlayers         *int      `json:"minPlayers"`
	MaxPlayers         *int      `json:"maxPlayers"`
	MinPlayTimeMinutes *int      `json:"minPlayTimeMinutes"`
	MaxPlayTimeMinutes *int      `json:"maxPlayTimeMinutes"`
	AddedAt            time.Time `json:"addedAt"`
}

// AddGameRequest is the payload for adding a game to the collection.
type AddGameRequest struct {
	Name               string  `json:"name"`
	BggID              *string `json:"bggId,omitempty"`
	ThumbnailURL       *string `json:"thumbnailUrl,omitempty"`
	YearPublished      *int    `json:"yearPublished,omitempty"`
	MinPlayers         *int    `json:"minPlayers,omitempty"`
	MaxPlayers         *int    `json:"maxPlayers,omitempty"`
	MinPlayTimeMinutes *int    `json:"minPlayTimeMinutes,omitempty"`
	MaxPlayTimeMinutes *int    `json:"maxPlayTimeMinutes,omitempty"`
}

// UpdateGameRequest is the payload for a partial update. Fields left null
// keep their stored values; a null or blank name preserves the existing
// name, so a game can never end up nameless.
type UpdateGameRequest struct {
	Name               *string `json:"name,omitempty"`
	ThumbnailURL       *string `json:"thumbnailUrl,omitempty"`
	YearPublished      *int    `json:"yearPublished,omitempty"`
	MinPlayers         *int    `json:"minPlayers,omitempty"`
	MaxPlayers         *int    `json:"maxPlayers,omitempty"`
	MinPlayTimeMinutes *int    `json:"minPlayTimeMinutes,omitempty"`
	MaxPlayTimeMinutes *int    `json:"maxPlayTimeMinutes,omitempty"`
}
