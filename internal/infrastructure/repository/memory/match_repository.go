package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/scrimleague/series-engine/internal/domain/match"
)

type MatchRepository struct {
	mu     sync.RWMutex
	items  map[int64]match.Match
	nextID int64
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{items: make(map[int64]match.Match)}
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, seasonID int64) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0, len(r.items))
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			out = append(out, cloneMatch(item))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MatchRepository) CreateBatch(_ context.Context, matches []match.Match) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		r.nextID++
		m.ID = r.nextID
		r.items[m.ID] = cloneMatch(m)
		out = append(out, m)
	}
	return out, nil
}

func (r *MatchRepository) SetWinner(_ context.Context, id int64, winnerTeamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok {
		return fmt.Errorf("match %d does not exist", id)
	}
	winner := winnerTeamID
	m.WinnerTeamID = &winner
	r.items[id] = m
	return nil
}

func cloneMatch(m match.Match) match.Match {
	copied := m
	if m.WinnerTeamID != nil {
		winner := *m.WinnerTeamID
		copied.WinnerTeamID = &winner
	}
	return copied
}
