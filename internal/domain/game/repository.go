package game

import (
	"context"
	"errors"
)

// ErrDuplicateAwaitingGame signals that the match already has a game
// awaiting its outcome.
var ErrDuplicateAwaitingGame = errors.New("match already has an awaiting game")

// Repository exposes game read and create operations.
type Repository interface {
	GetByJoinCode(ctx context.Context, joinCode string) (Game, bool, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Game, error)
	ListByMatchIDs(ctx context.Context, matchIDs []int64) ([]Game, error)
	// Create persists a new game. Implementations must refuse a second
	// awaiting-outcome game for the same match and report it with
	// ErrDuplicateAwaitingGame, so racing advances cannot
	// double-provision.
	Create(ctx context.Context, g Game) (Game, error)
}
