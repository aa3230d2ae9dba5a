// Package plays manages play records: logged sessions of an owned game on
// a given date. Listings are returned as page objects. This file defines
// the payload shapes.
package plays

import "time"

// dateLayout is the wire format for played-on dates.
const dateLayout = "2006-01-02"

// PlayResponse is the API representation of one play record.
type PlayResponse struct {
	ID              int64     `json:"id"`
	UserBoardGameID int64     `json:"userBoardGameId"`
	PlayedAt        string    `json:"playedAt"`
	Memo            *string   `json:"memo"`
	PlayerCount     int       `json:"playerCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// PlayRequest is the payload for adding or updating a play record. Updates
// are full replacements, so the same shape serves both.
type PlayRequest struct {
	PlayedAt    string  `json:"playedAt"`
	Memo        *string `json:"memo,omitempty"`
	PlayerCount *int    `json:"playerCount,omitempty"`
}

// Page is the paginated listing shape for play records.
type Page struct {
	Content       []PlayResponse `json:"content"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	Number        int            `json:"number"`
	Size          int            `json:"size"`
	First         bool           `json:"first"`
	Last          bool           `json:"last"`
}
