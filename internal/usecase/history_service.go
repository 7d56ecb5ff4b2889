package usecase

import (
	"context"
	"fmt"

	"github.com/scrimleague/series-engine/internal/domain/game"
	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/result"
	"github.com/scrimleague/series-engine/internal/domain/season"
	"github.com/scrimleague/series-engine/internal/platform/treeify"
)

// HistoryService serves the read paths: a season's match history as a
// nested match/game/result forest, and single-match detail.
type HistoryService struct {
	seasonRepo season.Repository
	matchRepo  match.Repository
	gameRepo   game.Repository
	resultRepo result.Repository
}

func NewHistoryService(
	seasonRepo season.Repository,
	matchRepo match.Repository,
	gameRepo game.Repository,
	resultRepo result.Repository,
) *HistoryService {
	return &HistoryService{
		seasonRepo: seasonRepo,
		matchRepo:  matchRepo,
		gameRepo:   gameRepo,
		resultRepo: resultRepo,
	}
}

// MatchDetail is one match with its accumulated games and results.
type MatchDetail struct {
	Match      match.Match
	Games      []game.Game
	Results    []result.Bundle
	State      string
	WinsByTeam map[int64]int
}

// SeasonMatches reads the season's joined match history back out of
// storage and rebuilds it into trees: matches at the root, their games
// below, each game's result as the leaf. Matches without games and
// games still awaiting an outcome stay in the forest as childless
// branches.
func (s *HistoryService) SeasonMatches(ctx context.Context, seasonID int64) ([]treeify.Node, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.SeasonMatches")
	defer span.End()

	if seasonID <= 0 {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if _, found, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: season=%d", ErrNotFound, seasonID)
	}

	matches, err := s.matchRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season matches: %w", err)
	}

	matchIDs := make([]int64, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
	}
	games, err := s.gameRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	gameIDs := make([]int64, 0, len(games))
	for _, g := range games {
		gameIDs = append(gameIDs, g.ID)
	}
	bundles, err := s.resultRepo.ListByGameIDs(ctx, gameIDs)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	return treeify.Build(joinRows(matches, games, bundles), []string{"match", "game", "result"}), nil
}

// MatchDetail returns one match with its games, results and derived
// series state. The state here is read-only; no game is provisioned.
func (s *HistoryService) MatchDetail(ctx context.Context, matchID int64) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.MatchDetail")
	defer span.End()

	if matchID <= 0 {
		return MatchDetail{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return MatchDetail{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}

	games, err := s.gameRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("list games: %w", err)
	}
	gameIDs := make([]int64, 0, len(games))
	for _, g := range games {
		gameIDs = append(gameIDs, g.ID)
	}
	bundles, err := s.resultRepo.ListByGameIDs(ctx, gameIDs)
	if err != nil {
		return MatchDetail{}, fmt.Errorf("list results: %w", err)
	}

	detail := MatchDetail{
		Match:      m,
		Games:      games,
		Results:    bundles,
		WinsByTeam: winsByTeam(bundles),
	}
	switch {
	case m.IsDecided():
		detail.State = SeriesStateDecided
	case len(bundles) == 0:
		detail.State = SeriesStateNoGamesPlayed
	default:
		detail.State = SeriesStateInProgress
	}
	return detail, nil
}

// joinRows flattens the three entity lists into left-join shaped rows
// for the hierarchy rebuild: every match emits at least one row, with
// game and result columns null when the outer joins found nothing.
func joinRows(matches []match.Match, games []game.Game, bundles []result.Bundle) []treeify.Row {
	gamesByMatch := make(map[int64][]game.Game, len(matches))
	for _, g := range games {
		if g.MatchID == nil {
			continue
		}
		gamesByMatch[*g.MatchID] = append(gamesByMatch[*g.MatchID], g)
	}
	bundlesByGame := make(map[int64][]result.Bundle, len(bundles))
	for _, b := range bundles {
		if b.Result.GameID == nil {
			continue
		}
		bundlesByGame[*b.Result.GameID] = append(bundlesByGame[*b.Result.GameID], b)
	}

	var rows []treeify.Row
	for _, m := range matches {
		matchValue := matchSummary(m)
		matchGames := gamesByMatch[m.ID]
		if len(matchGames) == 0 {
			rows = append(rows, treeify.Row{"match": matchValue, "game": nil, "result": nil})
			continue
		}
		for _, g := range matchGames {
			gameValue := gameSummary(g)
			gameBundles := bundlesByGame[g.ID]
			if len(gameBundles) == 0 {
				rows = append(rows, treeify.Row{"match": matchValue, "game": gameValue, "result": nil})
				continue
			}
			for _, b := range gameBundles {
				rows = append(rows, treeify.Row{"match": matchValue, "game": gameValue, "result": resultSummary(b)})
			}
		}
	}
	return rows
}

func matchSummary(m match.Match) map[string]any {
	return map[string]any{
		"id":             m.ID,
		"round":          m.Round,
		"format":         m.Format,
		"blue_team_id":   m.BlueTeamID,
		"red_team_id":    m.RedTeamID,
		"winner_team_id": m.WinnerTeamID,
	}
}

func gameSummary(g game.Game) map[string]any {
	return map[string]any{
		"id":        g.ID,
		"join_code": g.JoinCode,
	}
}

func resultSummary(b result.Bundle) map[string]any {
	winners := make([]any, 0, len(b.Sides))
	for _, side := range b.Sides {
		if side.IsWinner && side.TeamID != nil {
			winners = append(winners, *side.TeamID)
		}
	}
	return map[string]any{
		"external_id":  b.Result.ExternalID,
		"duration_sec": b.Result.DurationSec,
		"mode":         b.Result.Mode,
		"forfeit":      b.Result.IsForfeit(),
		"winners":      winners,
	}
}
