package game

import "time"

// Game is one playable instance of a match, identified to participants
// by its join code. A game with no recorded result is awaiting outcome.
type Game struct {
	ID        int64
	MatchID   *int64
	JoinCode  string
	CreatedAt time.Time
}
