package memory

import (
	"context"
	"sync"

	"github.com/scrimleague/series-engine/internal/domain/result"
)

type ResultRepository struct {
	mu         sync.RWMutex
	byExternal map[int64]result.Bundle
	games      *GameRepository
	nextID     int64
}

// NewResultRepository stores result bundles keyed by external id. The
// game repository is told about every game a bundle attaches to, so it
// can admit the match's next game.
func NewResultRepository(games *GameRepository) *ResultRepository {
	return &ResultRepository{
		byExternal: make(map[int64]result.Bundle),
		games:      games,
	}
}

func (r *ResultRepository) GetByExternalID(_ context.Context, externalID int64) (result.Bundle, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byExternal[externalID]
	if !ok {
		return result.Bundle{}, false, nil
	}
	return cloneBundle(b), true, nil
}

func (r *ResultRepository) ListByGameIDs(_ context.Context, gameIDs []int64) ([]result.Bundle, error) {
	wanted := make(map[int64]bool, len(gameIDs))
	for _, id := range gameIDs {
		wanted[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]result.Bundle, 0, len(r.byExternal))
	for _, b := range r.byExternal {
		if b.Result.GameID != nil && wanted[*b.Result.GameID] {
			out = append(out, cloneBundle(b))
		}
	}
	return out, nil
}

func (r *ResultRepository) CreateBundle(_ context.Context, b result.Bundle) (result.Bundle, bool, error) {
	r.mu.Lock()

	if stored, ok := r.byExternal[b.Result.ExternalID]; ok {
		r.mu.Unlock()
		return cloneBundle(stored), false, nil
	}

	b = cloneBundle(b)
	r.nextID++
	b.Result.ID = r.nextID
	for i := range b.Sides {
		r.nextID++
		b.Sides[i].ID = r.nextID
		b.Sides[i].GameResultID = b.Result.ID
		for j := range b.Sides[i].Bans {
			r.nextID++
			b.Sides[i].Bans[j].ID = r.nextID
			b.Sides[i].Bans[j].TeamGameResultID = b.Sides[i].ID
		}
		for j := range b.Sides[i].Players {
			r.nextID++
			b.Sides[i].Players[j].ID = r.nextID
			b.Sides[i].Players[j].TeamGameResultID = b.Sides[i].ID
		}
	}
	r.byExternal[b.Result.ExternalID] = b
	r.mu.Unlock()

	if b.Result.GameID != nil && r.games != nil {
		r.games.markResolved(*b.Result.GameID)
	}
	return cloneBundle(b), true, nil
}

func cloneBundle(b result.Bundle) result.Bundle {
	copied := b
	if b.Result.GameID != nil {
		gameID := *b.Result.GameID
		copied.Result.GameID = &gameID
	}
	if b.Result.JoinCode != nil {
		joinCode := *b.Result.JoinCode
		copied.Result.JoinCode = &joinCode
	}

	copied.Sides = make([]result.SideResult, len(b.Sides))
	for i, side := range b.Sides {
		copiedSide := side
		if side.TeamID != nil {
			teamID := *side.TeamID
			copiedSide.TeamID = &teamID
		}
		if side.ExternalSideID != nil {
			sideID := *side.ExternalSideID
			copiedSide.ExternalSideID = &sideID
		}
		copiedSide.Bans = append([]result.Ban(nil), side.Bans...)
		copiedSide.Players = append([]result.PlayerGameResult(nil), side.Players...)
		copied.Sides[i] = copiedSide
	}
	return copied
}
