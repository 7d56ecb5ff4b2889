package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/scrimleague/series-engine/internal/domain/game"
	qb "github.com/scrimleague/series-engine/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByJoinCode(ctx context.Context, joinCode string) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("join_code", joinCode)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game by join code query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("select game by join code: %w", err)
	}

	return mapGameRow(row), true, nil
}

func (r *GameRepository) ListByMatch(ctx context.Context, matchID int64) ([]game.Game, error) {
	return r.ListByMatchIDs(ctx, []int64{matchID})
}

func (r *GameRepository) ListByMatchIDs(ctx context.Context, matchIDs []int64) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.In("match_id", int64sToAny(matchIDs))).
		OrderBy("match_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by match query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by match: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapGameRow(row))
	}
	return out, nil
}

// Create relies on the partial unique index over unresolved games: a
// second awaiting game for the same match conflicts, the insert
// returns no row, and the caller gets ErrDuplicateAwaitingGame.
func (r *GameRepository) Create(ctx context.Context, g game.Game) (game.Game, error) {
	insertModel := gameInsertModel{
		MatchID:  ptrToNullInt64(g.MatchID),
		JoinCode: g.JoinCode,
	}
	query, args, err := qb.InsertModel("games", insertModel, "ON CONFLICT (match_id) WHERE resolved_at IS NULL DO NOTHING RETURNING id, created_at")
	if err != nil {
		return game.Game{}, fmt.Errorf("build insert game query: %w", err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&g.ID, &g.CreatedAt); err != nil {
		if isNotFound(err) {
			return game.Game{}, game.ErrDuplicateAwaitingGame
		}
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return g, nil
}

func mapGameRow(row gameTableModel) game.Game {
	return game.Game{
		ID:        row.ID,
		MatchID:   nullInt64ToPtr(row.MatchID),
		JoinCode:  row.JoinCode,
		CreatedAt: row.CreatedAt,
	}
}
