package team

// Team is one roster competing inside a season pool.
type Team struct {
	ID       int64
	SeasonID int64
	Pool     int
	Name     string
}

// RosterEntry links a team to one external participant identifier.
// Participant identities are owned by a separate membership relation;
// only the external ids matter for attribution.
type RosterEntry struct {
	TeamID     int64
	ExternalID string
	PlayerID   *int64
}
