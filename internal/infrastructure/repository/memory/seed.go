package memory

import (
	"fmt"
	"time"

	"github.com/scrimleague/series-engine/internal/domain/season"
	"github.com/scrimleague/series-engine/internal/domain/team"
)

const SeasonIDSpringScrims = int64(1)

func SeedSeasons() []season.Season {
	return []season.Season{
		{
			ID:       SeasonIDSpringScrims,
			Name:     "Spring Scrim Circuit 2026",
			StartsAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: 1, SeasonID: SeasonIDSpringScrims, Pool: 1, Name: "Rift Wardens"},
		{ID: 2, SeasonID: SeasonIDSpringScrims, Pool: 1, Name: "Baron Pit Crew"},
		{ID: 3, SeasonID: SeasonIDSpringScrims, Pool: 1, Name: "Dragon Soul"},
		{ID: 4, SeasonID: SeasonIDSpringScrims, Pool: 1, Name: "Herald Rush"},
		{ID: 5, SeasonID: SeasonIDSpringScrims, Pool: 2, Name: "Toplane Tax"},
		{ID: 6, SeasonID: SeasonIDSpringScrims, Pool: 2, Name: "Midnight Gank"},
		{ID: 7, SeasonID: SeasonIDSpringScrims, Pool: 2, Name: "Ward Hoppers"},
	}
}

func SeedRosters() []team.RosterEntry {
	teams := SeedTeams()
	out := make([]team.RosterEntry, 0, len(teams)*5)
	for _, t := range teams {
		for slot := 1; slot <= 5; slot++ {
			out = append(out, team.RosterEntry{
				TeamID:     t.ID,
				ExternalID: fmt.Sprintf("summoner-%d-%d", t.ID, slot),
			})
		}
	}
	return out
}
