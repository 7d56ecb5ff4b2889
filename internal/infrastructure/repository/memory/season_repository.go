package memory

import (
	"context"
	"sync"

	"github.com/scrimleague/series-engine/internal/domain/season"
)

type SeasonRepository struct {
	mu    sync.RWMutex
	items map[int64]season.Season
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	items := make(map[int64]season.Season, len(seasons))
	for _, item := range seasons {
		items[item.ID] = item
	}
	return &SeasonRepository{items: items}
}

func (r *SeasonRepository) GetByID(_ context.Context, id int64) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[id]
	if !ok {
		return season.Season{}, false, nil
	}
	return s, true, nil
}
