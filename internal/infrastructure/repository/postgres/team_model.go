package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID        int64      `db:"id"`
	SeasonID  int64      `db:"season_id"`
	Pool      int        `db:"pool"`
	Name      string     `db:"name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type rosterEntryTableModel struct {
	ID         int64         `db:"id"`
	TeamID     int64         `db:"team_id"`
	ExternalID string        `db:"external_id"`
	PlayerID   sql.NullInt64 `db:"player_id"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
	DeletedAt  *time.Time    `db:"deleted_at"`
}
