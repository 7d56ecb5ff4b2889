package result

import "time"

// GameResult is the authoritative recorded outcome of one played game,
// keyed by the identifier the provider assigned to it. Forfeits carry a
// locally generated negative external id.
type GameResult struct {
	ID          int64
	ExternalID  int64
	GameID      *int64
	JoinCode    *string
	DurationSec int
	Map         string
	Mode        string
	Queue       string
	Version     string
	StartedAt   time.Time
}

// TeamGameResult is one side of a game result. TeamID stays nil when
// attribution could not pick a team; such a side never counts toward a
// win tally.
type TeamGameResult struct {
	ID             int64
	GameResultID   int64
	TeamID         *int64
	ExternalSideID *int64
	IsWinner       bool
}

// Ban is one banned selection of a side, kept in pick order.
type Ban struct {
	ID               int64
	TeamGameResultID int64
	Selection        string
	Position         int
}

// PlayerGameResult is one participant's statistics row.
type PlayerGameResult struct {
	ID                 int64
	TeamGameResultID   int64
	ExternalPlayerID   string
	PlayerID           *int64
	Champion           string
	Kills              int
	Deaths             int
	Assists            int
	GoldEarned         int
	MinionsKilled      int
	DamageToChampions  int
	VisionScore        int
}

// SideResult is one side row together with its dependent ban and
// player rows, grouped so storage can assign row ids in one pass.
type SideResult struct {
	TeamGameResult
	Bans    []Ban
	Players []PlayerGameResult
}

// Bundle groups one game result with all of its side rows, the unit
// both ingestion and progression operate on.
type Bundle struct {
	Result GameResult
	Sides  []SideResult
}

func (g *GameResult) IsForfeit() bool {
	return g.ExternalID < 0
}
