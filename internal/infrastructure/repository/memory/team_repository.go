package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scrimleague/series-engine/internal/domain/team"
)

type TeamRepository struct {
	mu      sync.RWMutex
	items   map[int64]team.Team
	rosters []team.RosterEntry
}

func NewTeamRepository(teams []team.Team, rosters []team.RosterEntry) *TeamRepository {
	items := make(map[int64]team.Team, len(teams))
	for _, item := range teams {
		items[item.ID] = item
	}
	copied := make([]team.RosterEntry, len(rosters))
	copy(copied, rosters)
	return &TeamRepository{items: items, rosters: copied}
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok {
		return team.Team{}, false, nil
	}
	return t, true, nil
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, item := range r.items {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) ListRosterByTeamIDs(_ context.Context, teamIDs []int64) ([]team.RosterEntry, error) {
	wanted := make(map[int64]bool, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.RosterEntry, 0, len(r.rosters))
	for _, entry := range r.rosters {
		if wanted[entry.TeamID] {
			out = append(out, entry)
		}
	}
	return out, nil
}
