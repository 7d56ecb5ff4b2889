package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/scrimleague/series-engine/internal/domain/match"
	qb "github.com/scrimleague/series-engine/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match: %w", err)
	}

	return mapMatchRow(row), true, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID int64) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("round", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by season query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by season: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMatchRow(row))
	}
	return out, nil
}

func (r *MatchRepository) CreateBatch(ctx context.Context, matches []match.Match) ([]match.Match, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx create matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		insertModel := matchInsertModel{
			SeasonID:   m.SeasonID,
			Round:      m.Round,
			Format:     m.Format,
			BlueTeamID: m.BlueTeamID,
			RedTeamID:  m.RedTeamID,
		}
		query, args, err := qb.InsertModel("matches", insertModel, "RETURNING id")
		if err != nil {
			return nil, fmt.Errorf("build insert match query: %w", err)
		}
		if err := tx.QueryRowxContext(ctx, query, args...).Scan(&m.ID); err != nil {
			return nil, fmt.Errorf("insert match round=%d: %w", m.Round, err)
		}
		out = append(out, m)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create matches: %w", err)
	}
	return out, nil
}

func (r *MatchRepository) SetWinner(ctx context.Context, id int64, winnerTeamID int64) error {
	query, args, err := qb.Update("matches").
		Set("winner_team_id", winnerTeamID).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set match winner query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set match winner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set match winner rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("match %d does not exist", id)
	}
	return nil
}

func mapMatchRow(row matchTableModel) match.Match {
	return match.Match{
		ID:           row.ID,
		SeasonID:     row.SeasonID,
		Round:        row.Round,
		Format:       row.Format,
		BlueTeamID:   row.BlueTeamID,
		RedTeamID:    row.RedTeamID,
		WinnerTeamID: nullInt64ToPtr(row.WinnerTeamID),
	}
}
