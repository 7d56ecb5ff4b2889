package result

import "context"

// Repository exposes game-result read and write-once create operations.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID int64) (Bundle, bool, error)
	ListByGameIDs(ctx context.Context, gameIDs []int64) ([]Bundle, error)
	// CreateBundle persists the result with all side, ban and player
	// rows in one atomic unit. When the external id was already
	// recorded it returns the stored bundle and created=false without
	// touching anything.
	CreateBundle(ctx context.Context, b Bundle) (stored Bundle, created bool, err error)
}
