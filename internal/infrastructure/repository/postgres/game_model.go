package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	ID         int64         `db:"id"`
	MatchID    sql.NullInt64 `db:"match_id"`
	JoinCode   string        `db:"join_code"`
	ResolvedAt *time.Time    `db:"resolved_at"`
	CreatedAt  time.Time     `db:"created_at"`
}

type gameInsertModel struct {
	MatchID  sql.NullInt64 `db:"match_id"`
	JoinCode string        `db:"join_code"`
}
