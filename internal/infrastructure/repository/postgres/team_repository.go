package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/scrimleague/series-engine/internal/domain/team"
	qb "github.com/scrimleague/series-engine/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team: %w", err)
	}

	return mapTeamRow(row), true, nil
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("pool", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by season query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by season: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamRow(row))
	}
	return out, nil
}

func (r *TeamRepository) ListRosterByTeamIDs(ctx context.Context, teamIDs []int64) ([]team.RosterEntry, error) {
	query, args, err := qb.Select("*").From("team_rosters").
		Where(
			qb.In("team_id", int64sToAny(teamIDs)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("team_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rosters query: %w", err)
	}

	var rows []rosterEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rosters: %w", err)
	}

	out := make([]team.RosterEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.RosterEntry{
			TeamID:     row.TeamID,
			ExternalID: row.ExternalID,
			PlayerID:   nullInt64ToPtr(row.PlayerID),
		})
	}
	return out, nil
}

func mapTeamRow(row teamTableModel) team.Team {
	return team.Team{
		ID:       row.ID,
		SeasonID: row.SeasonID,
		Pool:     row.Pool,
		Name:     row.Name,
	}
}
