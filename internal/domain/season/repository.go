package season

import "context"

// Repository exposes season read operations.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Season, bool, error)
}
