package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/scrimleague/series-engine/internal/domain/result"
	qb "github.com/scrimleague/series-engine/internal/platform/querybuilder"
)

type ResultRepository struct {
	db *sqlx.DB
}

func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

func (r *ResultRepository) GetByExternalID(ctx context.Context, externalID int64) (result.Bundle, bool, error) {
	query, args, err := qb.Select("*").From("game_results").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return result.Bundle{}, false, fmt.Errorf("build select game result query: %w", err)
	}

	var row gameResultTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return result.Bundle{}, false, nil
		}
		return result.Bundle{}, false, fmt.Errorf("select game result: %w", err)
	}

	bundles, err := r.hydrateBundles(ctx, []gameResultTableModel{row})
	if err != nil {
		return result.Bundle{}, false, err
	}
	return bundles[0], true, nil
}

func (r *ResultRepository) ListByGameIDs(ctx context.Context, gameIDs []int64) ([]result.Bundle, error) {
	query, args, err := qb.Select("*").From("game_results").
		Where(qb.In("game_id", int64sToAny(gameIDs))).
		OrderBy("game_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game results query: %w", err)
	}

	var rows []gameResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select game results: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return r.hydrateBundles(ctx, rows)
}

// CreateBundle writes the result with its side, ban and player rows in
// one transaction. ON CONFLICT DO NOTHING on the external id makes a
// replay return the previously stored bundle untouched, and the
// attached game is marked resolved so the match can admit its next
// game.
func (r *ResultRepository) CreateBundle(ctx context.Context, b result.Bundle) (result.Bundle, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result.Bundle{}, false, fmt.Errorf("begin tx create result bundle: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertModel := gameResultInsertModel{
		ExternalID:  b.Result.ExternalID,
		GameID:      ptrToNullInt64(b.Result.GameID),
		JoinCode:    ptrToNullString(b.Result.JoinCode),
		DurationSec: b.Result.DurationSec,
		Map:         b.Result.Map,
		Mode:        b.Result.Mode,
		Queue:       b.Result.Queue,
		Version:     b.Result.Version,
		StartedAt:   b.Result.StartedAt,
	}
	query, args, err := qb.InsertModel("game_results", insertModel, "ON CONFLICT (external_id) DO NOTHING RETURNING id")
	if err != nil {
		return result.Bundle{}, false, fmt.Errorf("build insert game result query: %w", err)
	}
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&b.Result.ID); err != nil {
		if !isNotFound(err) {
			return result.Bundle{}, false, fmt.Errorf("insert game result: %w", err)
		}
		// Already recorded: hand back what the first writer stored.
		stored, found, getErr := r.GetByExternalID(ctx, b.Result.ExternalID)
		if getErr != nil {
			return result.Bundle{}, false, getErr
		}
		if !found {
			return result.Bundle{}, false, fmt.Errorf("game result external_id=%d conflicted but is missing", b.Result.ExternalID)
		}
		return stored, false, nil
	}

	for i := range b.Sides {
		side := &b.Sides[i]
		side.GameResultID = b.Result.ID

		sideInsert := teamGameResultInsertModel{
			GameResultID:   side.GameResultID,
			TeamID:         ptrToNullInt64(side.TeamID),
			ExternalSideID: ptrToNullInt64(side.ExternalSideID),
			IsWinner:       side.IsWinner,
		}
		sideQuery, sideArgs, err := qb.InsertModel("team_game_results", sideInsert, "RETURNING id")
		if err != nil {
			return result.Bundle{}, false, fmt.Errorf("build insert team game result query: %w", err)
		}
		if err := tx.QueryRowxContext(ctx, sideQuery, sideArgs...).Scan(&side.ID); err != nil {
			return result.Bundle{}, false, fmt.Errorf("insert team game result: %w", err)
		}

		for j := range side.Bans {
			ban := &side.Bans[j]
			ban.TeamGameResultID = side.ID
			banQuery, banArgs, err := qb.InsertModel("bans", banInsertModel{
				TeamGameResultID: ban.TeamGameResultID,
				Selection:        ban.Selection,
				Position:         ban.Position,
			}, "RETURNING id")
			if err != nil {
				return result.Bundle{}, false, fmt.Errorf("build insert ban query: %w", err)
			}
			if err := tx.QueryRowxContext(ctx, banQuery, banArgs...).Scan(&ban.ID); err != nil {
				return result.Bundle{}, false, fmt.Errorf("insert ban: %w", err)
			}
		}

		for j := range side.Players {
			player := &side.Players[j]
			player.TeamGameResultID = side.ID
			playerQuery, playerArgs, err := qb.InsertModel("player_game_results", playerGameResultInsertModel{
				TeamGameResultID:  player.TeamGameResultID,
				ExternalPlayerID:  player.ExternalPlayerID,
				PlayerID:          ptrToNullInt64(player.PlayerID),
				Champion:          player.Champion,
				Kills:             player.Kills,
				Deaths:            player.Deaths,
				Assists:           player.Assists,
				GoldEarned:        player.GoldEarned,
				MinionsKilled:     player.MinionsKilled,
				DamageToChampions: player.DamageToChampions,
				VisionScore:       player.VisionScore,
			}, "RETURNING id")
			if err != nil {
				return result.Bundle{}, false, fmt.Errorf("build insert player game result query: %w", err)
			}
			if err := tx.QueryRowxContext(ctx, playerQuery, playerArgs...).Scan(&player.ID); err != nil {
				return result.Bundle{}, false, fmt.Errorf("insert player game result: %w", err)
			}
		}
	}

	if b.Result.GameID != nil {
		resolveQuery, resolveArgs, err := qb.Update("games").
			SetExpr("resolved_at", "NOW()").
			Where(
				qb.Eq("id", *b.Result.GameID),
				qb.IsNull("resolved_at"),
			).
			ToSQL()
		if err != nil {
			return result.Bundle{}, false, fmt.Errorf("build resolve game query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, resolveQuery, resolveArgs...); err != nil {
			return result.Bundle{}, false, fmt.Errorf("resolve game: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return result.Bundle{}, false, fmt.Errorf("commit create result bundle: %w", err)
	}
	return b, true, nil
}

func (r *ResultRepository) hydrateBundles(ctx context.Context, rows []gameResultTableModel) ([]result.Bundle, error) {
	resultIDs := make([]any, 0, len(rows))
	for _, row := range rows {
		resultIDs = append(resultIDs, row.ID)
	}

	sideQuery, sideArgs, err := qb.Select("*").From("team_game_results").
		Where(qb.In("game_result_id", resultIDs)).
		OrderBy("game_result_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team game results query: %w", err)
	}
	var sideRows []teamGameResultTableModel
	if err := r.db.SelectContext(ctx, &sideRows, sideQuery, sideArgs...); err != nil {
		return nil, fmt.Errorf("select team game results: %w", err)
	}

	sideIDs := make([]any, 0, len(sideRows))
	for _, row := range sideRows {
		sideIDs = append(sideIDs, row.ID)
	}

	var banRows []banTableModel
	var playerRows []playerGameResultTableModel
	if len(sideIDs) > 0 {
		banQuery, banArgs, err := qb.Select("*").From("bans").
			Where(qb.In("team_game_result_id", sideIDs)).
			OrderBy("team_game_result_id", "position").
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build select bans query: %w", err)
		}
		if err := r.db.SelectContext(ctx, &banRows, banQuery, banArgs...); err != nil {
			return nil, fmt.Errorf("select bans: %w", err)
		}

		playerQuery, playerArgs, err := qb.Select("*").From("player_game_results").
			Where(qb.In("team_game_result_id", sideIDs)).
			OrderBy("team_game_result_id", "id").
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build select player game results query: %w", err)
		}
		if err := r.db.SelectContext(ctx, &playerRows, playerQuery, playerArgs...); err != nil {
			return nil, fmt.Errorf("select player game results: %w", err)
		}
	}

	bansBySide := make(map[int64][]result.Ban, len(sideRows))
	for _, row := range banRows {
		bansBySide[row.TeamGameResultID] = append(bansBySide[row.TeamGameResultID], result.Ban{
			ID:               row.ID,
			TeamGameResultID: row.TeamGameResultID,
			Selection:        row.Selection,
			Position:         row.Position,
		})
	}
	playersBySide := make(map[int64][]result.PlayerGameResult, len(sideRows))
	for _, row := range playerRows {
		playersBySide[row.TeamGameResultID] = append(playersBySide[row.TeamGameResultID], result.PlayerGameResult{
			ID:                row.ID,
			TeamGameResultID:  row.TeamGameResultID,
			ExternalPlayerID:  row.ExternalPlayerID,
			PlayerID:          nullInt64ToPtr(row.PlayerID),
			Champion:          row.Champion,
			Kills:             row.Kills,
			Deaths:            row.Deaths,
			Assists:           row.Assists,
			GoldEarned:        row.GoldEarned,
			MinionsKilled:     row.MinionsKilled,
			DamageToChampions: row.DamageToChampions,
			VisionScore:       row.VisionScore,
		})
	}

	sidesByResult := make(map[int64][]result.SideResult, len(rows))
	for _, row := range sideRows {
		sidesByResult[row.GameResultID] = append(sidesByResult[row.GameResultID], result.SideResult{
			TeamGameResult: result.TeamGameResult{
				ID:             row.ID,
				GameResultID:   row.GameResultID,
				TeamID:         nullInt64ToPtr(row.TeamID),
				ExternalSideID: nullInt64ToPtr(row.ExternalSideID),
				IsWinner:       row.IsWinner,
			},
			Bans:    bansBySide[row.ID],
			Players: playersBySide[row.ID],
		})
	}

	out := make([]result.Bundle, 0, len(rows))
	for _, row := range rows {
		out = append(out, result.Bundle{
			Result: result.GameResult{
				ID:          row.ID,
				ExternalID:  row.ExternalID,
				GameID:      nullInt64ToPtr(row.GameID),
				JoinCode:    nullStringToPtr(row.JoinCode),
				DurationSec: row.DurationSec,
				Map:         row.Map,
				Mode:        row.Mode,
				Queue:       row.Queue,
				Version:     row.Version,
				StartedAt:   row.StartedAt,
			},
			Sides: sidesByResult[row.ID],
		})
	}
	return out, nil
}
