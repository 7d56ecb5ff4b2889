package team

import "context"

// Repository exposes team and roster read operations.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	ListBySeason(ctx context.Context, seasonID int64) ([]Team, error)
	ListRosterByTeamIDs(ctx context.Context, teamIDs []int64) ([]RosterEntry, error)
}
