// Package schedule generates single round-robin pairings for one pool
// of teams using the circle construction.
package schedule

import (
	"fmt"

	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/team"
)

// byeTeamID marks the virtual slot added to odd-sized pools; pairings
// touching it are dropped, which sits each real team out once.
const byeTeamID int64 = -1

// Generate produces one full round-robin for the pool: team 0 stays
// fixed while the rest rotate one slot per round. Every unordered pair
// of teams meets exactly once, n*(n-1)/2 matches in total, with round
// numbers starting at 1.
func Generate(pool []team.Team, format string) ([]match.Match, error) {
	if len(pool) < 2 {
		return nil, fmt.Errorf("pool needs at least 2 teams, got %d", len(pool))
	}
	if !match.IsValidFormat(format) {
		return nil, fmt.Errorf("unknown match format %q", format)
	}

	seasonID := pool[0].SeasonID
	slots := make([]int64, 0, len(pool)+1)
	for _, member := range pool {
		slots = append(slots, member.ID)
	}
	if len(slots)%2 != 0 {
		slots = append(slots, byeTeamID)
	}

	n := len(slots)
	rounds := n - 1
	matches := make([]match.Match, 0, len(pool)*(len(pool)-1)/2)

	for round := 1; round <= rounds; round++ {
		for i := 0; i < n/2; i++ {
			blue := slots[i]
			red := slots[n-1-i]
			if blue == byeTeamID || red == byeTeamID {
				continue
			}
			matches = append(matches, match.Match{
				SeasonID:   seasonID,
				Round:      round,
				Format:     match.NormalizeFormat(format),
				BlueTeamID: blue,
				RedTeamID:  red,
			})
		}

		// Rotate everything but the fixed first slot.
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	return matches, nil
}
