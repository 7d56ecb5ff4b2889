package usecase

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/scrimleague/series-engine/internal/domain/attribution"
	"github.com/scrimleague/series-engine/internal/domain/game"
	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/result"
	"github.com/scrimleague/series-engine/internal/domain/team"
	"github.com/scrimleague/series-engine/internal/platform/id"
)

// ReconcileService turns externally reported game outcomes, from the
// manual import path, admin forfeits, or provider callbacks, into
// stored result rows and runs series progression for the affected
// match.
type ReconcileService struct {
	matchRepo   match.Repository
	gameRepo    game.Repository
	teamRepo    team.Repository
	resultRepo  result.Repository
	provider    ResultProvider
	idGen       id.Generator
	progression *ProgressionService
}

func NewReconcileService(
	matchRepo match.Repository,
	gameRepo game.Repository,
	teamRepo team.Repository,
	resultRepo result.Repository,
	provider ResultProvider,
	idGen id.Generator,
	progression *ProgressionService,
) *ReconcileService {
	return &ReconcileService{
		matchRepo:   matchRepo,
		gameRepo:    gameRepo,
		teamRepo:    teamRepo,
		resultRepo:  resultRepo,
		provider:    provider,
		idGen:       idGen,
		progression: progression,
	}
}

// ImportResult is the manual ingestion path: look the game up at the
// provider by its external id, then ingest the report. The roster map
// is optional; without it side attribution falls back to the rosters
// of the correlated match's two teams.
func (s *ReconcileService) ImportResult(ctx context.Context, externalID int64, rosterMap map[int64][]string) (SeriesOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.ImportResult")
	defer span.End()

	if externalID <= 0 {
		return SeriesOutcome{}, fmt.Errorf("%w: external id is required", ErrInvalidInput)
	}

	report, err := s.provider.LookupCompletedGame(ctx, externalID)
	if err != nil {
		return SeriesOutcome{}, fmt.Errorf("%w: lookup completed game: %v", ErrDependencyUnavailable, err)
	}

	return s.IngestReport(ctx, report, rosterMap)
}

// IngestReport normalizes one provider report, stores it write-once
// keyed by the external id, and advances the affected match. Reports
// whose join code matches no known game are stored unlinked and no
// progression runs.
func (s *ReconcileService) IngestReport(ctx context.Context, report *ExternalGameReport, rosterMap map[int64][]string) (SeriesOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.IngestReport")
	defer span.End()

	if report == nil {
		return SeriesOutcome{}, fmt.Errorf("%w: report is required", ErrInvalidInput)
	}
	if report.ExternalID <= 0 {
		return SeriesOutcome{}, fmt.Errorf("%w: report external id is required", ErrInvalidInput)
	}

	var linkedGame *game.Game
	if code := strings.TrimSpace(report.JoinCode); code != "" {
		g, found, err := s.gameRepo.GetByJoinCode(ctx, code)
		if err != nil {
			return SeriesOutcome{}, fmt.Errorf("get game by join code: %w", err)
		}
		if found {
			linkedGame = &g
		}
	}

	candidates, err := s.attributionCandidates(ctx, linkedGame, rosterMap)
	if err != nil {
		return SeriesOutcome{}, err
	}

	bundle := NormalizeReport(report, candidates)
	if linkedGame != nil {
		bundle.Result.GameID = &linkedGame.ID
	}

	if _, _, err := s.resultRepo.CreateBundle(ctx, bundle); err != nil {
		return SeriesOutcome{}, fmt.Errorf("store game result: %w", err)
	}

	if linkedGame == nil || linkedGame.MatchID == nil {
		return SeriesOutcome{}, nil
	}
	return s.progression.Advance(ctx, *linkedGame.MatchID)
}

// DeclareForfeit records a synthetic lost game against the match on
// behalf of the declared winner, then advances the series as if the
// game had been played.
func (s *ReconcileService) DeclareForfeit(ctx context.Context, matchID, winnerTeamID int64) (SeriesOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.DeclareForfeit")
	defer span.End()

	if matchID <= 0 || winnerTeamID <= 0 {
		return SeriesOutcome{}, fmt.Errorf("%w: match id and winner team id are required", ErrInvalidInput)
	}

	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return SeriesOutcome{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return SeriesOutcome{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}
	if m.IsDecided() {
		return SeriesOutcome{}, fmt.Errorf("%w: match=%d is already decided", ErrInvalidInput, matchID)
	}
	if winnerTeamID != m.BlueTeamID && winnerTeamID != m.RedTeamID {
		return SeriesOutcome{}, fmt.Errorf("%w: team=%d does not play match=%d", ErrInvalidInput, winnerTeamID, matchID)
	}

	target, err := s.forfeitGame(ctx, matchID)
	if err != nil {
		return SeriesOutcome{}, err
	}

	label, err := s.idGen.NewLabel("forfeit")
	if err != nil {
		return SeriesOutcome{}, fmt.Errorf("generate forfeit label: %w", err)
	}

	bundle := NormalizeForfeit(m, winnerTeamID, syntheticExternalID(), label)
	bundle.Result.GameID = &target.ID

	if _, _, err := s.resultRepo.CreateBundle(ctx, bundle); err != nil {
		return SeriesOutcome{}, fmt.Errorf("store forfeit result: %w", err)
	}

	return s.progression.Advance(ctx, matchID)
}

// forfeitGame picks the match's awaiting game to hang the synthetic
// result on, creating one with a local label when none is open.
func (s *ReconcileService) forfeitGame(ctx context.Context, matchID int64) (game.Game, error) {
	games, err := s.gameRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return game.Game{}, fmt.Errorf("list games: %w", err)
	}
	gameIDs := make([]int64, 0, len(games))
	for _, g := range games {
		gameIDs = append(gameIDs, g.ID)
	}
	bundles, err := s.resultRepo.ListByGameIDs(ctx, gameIDs)
	if err != nil {
		return game.Game{}, fmt.Errorf("list results: %w", err)
	}

	resolved := make(map[int64]bool, len(bundles))
	for _, b := range bundles {
		if b.Result.GameID != nil {
			resolved[*b.Result.GameID] = true
		}
	}
	for _, g := range games {
		if !resolved[g.ID] {
			return g, nil
		}
	}

	label, err := s.idGen.NewLabel("forfeit")
	if err != nil {
		return game.Game{}, fmt.Errorf("generate game label: %w", err)
	}
	created, err := s.gameRepo.Create(ctx, game.Game{MatchID: &matchID, JoinCode: label})
	if err != nil {
		return game.Game{}, fmt.Errorf("create forfeit game: %w", err)
	}
	return created, nil
}

// attributionCandidates builds the ordered candidate list for side
// attribution: an explicit roster map wins, ordered by ascending team
// id; otherwise the correlated match supplies its two teams, blue
// first.
func (s *ReconcileService) attributionCandidates(ctx context.Context, linkedGame *game.Game, rosterMap map[int64][]string) ([]attribution.Candidate, error) {
	if len(rosterMap) > 0 {
		teamIDs := make([]int64, 0, len(rosterMap))
		for teamID := range rosterMap {
			teamIDs = append(teamIDs, teamID)
		}
		slices.Sort(teamIDs)

		candidates := make([]attribution.Candidate, 0, len(teamIDs))
		for _, teamID := range teamIDs {
			candidates = append(candidates, attribution.Candidate{ID: teamID, Keys: rosterMap[teamID]})
		}
		return candidates, nil
	}

	if linkedGame == nil || linkedGame.MatchID == nil {
		return nil, nil
	}
	m, found, err := s.matchRepo.GetByID(ctx, *linkedGame.MatchID)
	if err != nil {
		return nil, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return nil, nil
	}

	entries, err := s.teamRepo.ListRosterByTeamIDs(ctx, []int64{m.BlueTeamID, m.RedTeamID})
	if err != nil {
		return nil, fmt.Errorf("list rosters: %w", err)
	}
	keysByTeam := make(map[int64][]string, 2)
	for _, entry := range entries {
		keysByTeam[entry.TeamID] = append(keysByTeam[entry.TeamID], entry.ExternalID)
	}

	return []attribution.Candidate{
		{ID: m.BlueTeamID, Keys: keysByTeam[m.BlueTeamID]},
		{ID: m.RedTeamID, Keys: keysByTeam[m.RedTeamID]},
	}, nil
}

// NormalizeReport maps one provider report onto the internal result
// rows, attributing each side against the candidate rosters. Sides
// that match no candidate keep a nil team id.
func NormalizeReport(report *ExternalGameReport, candidates []attribution.Candidate) result.Bundle {
	var joinCode *string
	if code := strings.TrimSpace(report.JoinCode); code != "" {
		joinCode = &code
	}

	bundle := result.Bundle{
		Result: result.GameResult{
			ExternalID:  report.ExternalID,
			JoinCode:    joinCode,
			DurationSec: report.DurationSec,
			Map:         report.Map,
			Mode:        report.Mode,
			Queue:       report.Queue,
			Version:     report.Version,
			StartedAt:   report.StartedAt,
		},
	}

	for _, side := range report.Sides {
		observed := make([]string, 0, len(side.Players))
		for _, player := range side.Players {
			observed = append(observed, player.ParticipantID)
		}

		sideRow := result.SideResult{}
		sideRow.IsWinner = side.IsWinner
		if side.SideID != 0 {
			externalSide := side.SideID
			sideRow.ExternalSideID = &externalSide
		}
		if teamID, ok := attribution.Resolve(observed, candidates); ok {
			resolved := teamID
			sideRow.TeamID = &resolved
		}

		for banIdx, selection := range side.Bans {
			sideRow.Bans = append(sideRow.Bans, result.Ban{
				Selection: selection,
				Position:  banIdx + 1,
			})
		}
		for _, player := range side.Players {
			sideRow.Players = append(sideRow.Players, result.PlayerGameResult{
				ExternalPlayerID:  player.ParticipantID,
				Champion:          player.Champion,
				Kills:             player.Kills,
				Deaths:            player.Deaths,
				Assists:           player.Assists,
				GoldEarned:        player.GoldEarned,
				MinionsKilled:     player.MinionsKilled,
				DamageToChampions: player.DamageToChampions,
				VisionScore:       player.VisionScore,
			})
		}

		bundle.Sides = append(bundle.Sides, sideRow)
	}

	return bundle
}

// NormalizeForfeit synthesizes the placeholder result for an admin
// declared forfeit: zero duration, a negative local external id and a
// generated reference label instead of a real join code. Team ids are
// already known, so no attribution runs.
func NormalizeForfeit(m match.Match, winnerTeamID int64, externalID int64, label string) result.Bundle {
	blue, red := m.BlueTeamID, m.RedTeamID
	return result.Bundle{
		Result: result.GameResult{
			ExternalID:  externalID,
			JoinCode:    &label,
			DurationSec: 0,
			Mode:        "FORFEIT",
			StartedAt:   time.Now().UTC(),
		},
		Sides: []result.SideResult{
			{TeamGameResult: result.TeamGameResult{TeamID: &blue, IsWinner: winnerTeamID == blue}},
			{TeamGameResult: result.TeamGameResult{TeamID: &red, IsWinner: winnerTeamID == red}},
		},
	}
}

// syntheticExternalID mints a random negative id so forfeit rows can
// never collide with a provider-assigned external id.
func syntheticExternalID() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return -time.Now().UnixNano()
	}
	value := int64(binary.BigEndian.Uint64(buf[:]) >> 1)
	if value == 0 {
		value = 1
	}
	return -value
}
