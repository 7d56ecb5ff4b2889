package postgres

import (
	"database/sql"
	"time"
)

type gameResultTableModel struct {
	ID          int64          `db:"id"`
	ExternalID  int64          `db:"external_id"`
	GameID      sql.NullInt64  `db:"game_id"`
	JoinCode    sql.NullString `db:"join_code"`
	DurationSec int            `db:"duration_sec"`
	Map         string         `db:"map"`
	Mode        string         `db:"mode"`
	Queue       string         `db:"queue"`
	Version     string         `db:"version"`
	StartedAt   time.Time      `db:"started_at"`
	CreatedAt   time.Time      `db:"created_at"`
}

type gameResultInsertModel struct {
	ExternalID  int64          `db:"external_id"`
	GameID      sql.NullInt64  `db:"game_id"`
	JoinCode    sql.NullString `db:"join_code"`
	DurationSec int            `db:"duration_sec"`
	Map         string         `db:"map"`
	Mode        string         `db:"mode"`
	Queue       string         `db:"queue"`
	Version     string         `db:"version"`
	StartedAt   time.Time      `db:"started_at"`
}

type teamGameResultTableModel struct {
	ID             int64         `db:"id"`
	GameResultID   int64         `db:"game_result_id"`
	TeamID         sql.NullInt64 `db:"team_id"`
	ExternalSideID sql.NullInt64 `db:"external_side_id"`
	IsWinner       bool          `db:"is_winner"`
}

type teamGameResultInsertModel struct {
	GameResultID   int64         `db:"game_result_id"`
	TeamID         sql.NullInt64 `db:"team_id"`
	ExternalSideID sql.NullInt64 `db:"external_side_id"`
	IsWinner       bool          `db:"is_winner"`
}

type banTableModel struct {
	ID               int64  `db:"id"`
	TeamGameResultID int64  `db:"team_game_result_id"`
	Selection        string `db:"selection"`
	Position         int    `db:"position"`
}

type banInsertModel struct {
	TeamGameResultID int64  `db:"team_game_result_id"`
	Selection        string `db:"selection"`
	Position         int    `db:"position"`
}

type playerGameResultTableModel struct {
	ID                int64         `db:"id"`
	TeamGameResultID  int64         `db:"team_game_result_id"`
	ExternalPlayerID  string        `db:"external_player_id"`
	PlayerID          sql.NullInt64 `db:"player_id"`
	Champion          string        `db:"champion"`
	Kills             int           `db:"kills"`
	Deaths            int           `db:"deaths"`
	Assists           int           `db:"assists"`
	GoldEarned        int           `db:"gold_earned"`
	MinionsKilled     int           `db:"minions_killed"`
	DamageToChampions int           `db:"damage_to_champions"`
	VisionScore       int           `db:"vision_score"`
}

type playerGameResultInsertModel struct {
	TeamGameResultID  int64         `db:"team_game_result_id"`
	ExternalPlayerID  string        `db:"external_player_id"`
	PlayerID          sql.NullInt64 `db:"player_id"`
	Champion          string        `db:"champion"`
	Kills             int           `db:"kills"`
	Deaths            int           `db:"deaths"`
	Assists           int           `db:"assists"`
	GoldEarned        int           `db:"gold_earned"`
	MinionsKilled     int           `db:"minions_killed"`
	DamageToChampions int           `db:"damage_to_champions"`
	VisionScore       int           `db:"vision_score"`
}
