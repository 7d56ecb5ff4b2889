package match

import "context"

// Repository exposes match read and winner-update operations.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]Match, error)
	CreateBatch(ctx context.Context, matches []Match) ([]Match, error)
	SetWinner(ctx context.Context, id int64, winnerTeamID int64) error
}
