package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/scrimleague/series-engine/internal/domain/game"
)

// GameRepository keeps games in memory and enforces the one
// awaiting-outcome game per match rule that the postgres layer
// enforces with a partial unique index. The result repository marks a
// game resolved when a result row attaches to it.
type GameRepository struct {
	mu       sync.RWMutex
	items    map[int64]game.Game
	resolved map[int64]bool
	nextID   int64
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		items:    make(map[int64]game.Game),
		resolved: make(map[int64]bool),
	}
}

func (r *GameRepository) GetByJoinCode(_ context.Context, joinCode string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.JoinCode == joinCode {
			return cloneGame(item), true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r *GameRepository) ListByMatch(ctx context.Context, matchID int64) ([]game.Game, error) {
	return r.ListByMatchIDs(ctx, []int64{matchID})
}

func (r *GameRepository) ListByMatchIDs(_ context.Context, matchIDs []int64) ([]game.Game, error) {
	wanted := make(map[int64]bool, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, item := range r.items {
		if item.MatchID != nil && wanted[*item.MatchID] {
			out = append(out, cloneGame(item))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *GameRepository) Create(_ context.Context, g game.Game) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.MatchID != nil {
		for id, item := range r.items {
			if item.MatchID != nil && *item.MatchID == *g.MatchID && !r.resolved[id] {
				return game.Game{}, game.ErrDuplicateAwaitingGame
			}
		}
	}

	r.nextID++
	g.ID = r.nextID
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	r.items[g.ID] = cloneGame(g)
	return g, nil
}

func (r *GameRepository) markResolved(gameID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved[gameID] = true
}

func cloneGame(g game.Game) game.Game {
	copied := g
	if g.MatchID != nil {
		matchID := *g.MatchID
		copied.MatchID = &matchID
	}
	return copied
}
