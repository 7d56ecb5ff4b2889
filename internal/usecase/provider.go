package usecase

import (
	"context"
	"time"
)

// ExternalGameReport is one completed game as the match-result
// provider describes it, before normalization into internal rows.
type ExternalGameReport struct {
	ExternalID  int64
	JoinCode    string
	DurationSec int
	Map         string
	Mode        string
	Queue       string
	Version     string
	StartedAt   time.Time
	Sides       []ExternalSideReport
}

// ExternalSideReport is one of the two sides of a reported game.
type ExternalSideReport struct {
	SideID   int64
	IsWinner bool
	Bans     []string
	Players  []ExternalPlayerReport
}

// ExternalPlayerReport carries one participant's statistics line.
type ExternalPlayerReport struct {
	ParticipantID     string
	Champion          string
	Kills             int
	Deaths            int
	Assists           int
	GoldEarned        int
	MinionsKilled     int
	DamageToChampions int
	VisionScore       int
}

// ResultProvider is the outbound surface of the match-result provider.
type ResultProvider interface {
	LookupCompletedGame(ctx context.Context, externalID int64) (*ExternalGameReport, error)
	MintJoinCodes(ctx context.Context, seasonID int64, count int) ([]string, error)
}
