package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID           int64         `db:"id"`
	SeasonID     int64         `db:"season_id"`
	Round        int           `db:"round"`
	Format       string        `db:"format"`
	BlueTeamID   int64         `db:"blue_team_id"`
	RedTeamID    int64         `db:"red_team_id"`
	WinnerTeamID sql.NullInt64 `db:"winner_team_id"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	DeletedAt    *time.Time    `db:"deleted_at"`
}

type matchInsertModel struct {
	SeasonID   int64  `db:"season_id"`
	Round      int    `db:"round"`
	Format     string `db:"format"`
	BlueTeamID int64  `db:"blue_team_id"`
	RedTeamID  int64  `db:"red_team_id"`
}
