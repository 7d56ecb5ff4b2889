package usecase

import (
	"context"
	"fmt"

	"github.com/scrimleague/series-engine/internal/domain/game"
	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/schedule"
	"github.com/scrimleague/series-engine/internal/domain/season"
	"github.com/scrimleague/series-engine/internal/domain/team"
	"github.com/scrimleague/series-engine/internal/platform/logging"
)

// ScheduleService seeds a season pool with its round-robin match
// batch and provisions each match's opening game.
type ScheduleService struct {
	seasonRepo season.Repository
	teamRepo   team.Repository
	matchRepo  match.Repository
	gameRepo   game.Repository
	provider   ResultProvider
	logger     *logging.Logger
}

func NewScheduleService(
	seasonRepo season.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	gameRepo game.Repository,
	provider ResultProvider,
	logger *logging.Logger,
) *ScheduleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleService{
		seasonRepo: seasonRepo,
		teamRepo:   teamRepo,
		matchRepo:  matchRepo,
		gameRepo:   gameRepo,
		provider:   provider,
		logger:     logger,
	}
}

// SeedPool generates one round-robin batch for the pool and persists
// it. Opening games are minted best-effort: a provider outage leaves
// the matches gameless but scheduled, and later advances fill the gap.
func (s *ScheduleService) SeedPool(ctx context.Context, seasonID int64, pool int, format string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.SeedPool")
	defer span.End()

	if seasonID <= 0 {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if pool <= 0 {
		return nil, fmt.Errorf("%w: pool must be greater than zero", ErrInvalidInput)
	}
	if !match.IsValidFormat(format) {
		return nil, fmt.Errorf("%w: unknown match format %q", ErrInvalidInput, format)
	}

	if _, found, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: season=%d", ErrNotFound, seasonID)
	}

	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season teams: %w", err)
	}
	poolTeams := make([]team.Team, 0, len(teams))
	for _, t := range teams {
		if t.Pool == pool {
			poolTeams = append(poolTeams, t)
		}
	}
	if len(poolTeams) < 2 {
		return nil, fmt.Errorf("%w: pool=%d has %d teams, need at least 2", ErrInvalidInput, pool, len(poolTeams))
	}

	generated, err := schedule.Generate(poolTeams, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.matchRepo.CreateBatch(ctx, generated)
	if err != nil {
		return nil, fmt.Errorf("create match batch: %w", err)
	}

	s.seedOpeningGames(ctx, created)

	return created, nil
}

func (s *ScheduleService) seedOpeningGames(ctx context.Context, matches []match.Match) {
	if len(matches) == 0 {
		return
	}

	codes, err := s.provider.MintJoinCodes(ctx, matches[0].SeasonID, len(matches))
	if err != nil {
		s.logger.WarnContext(ctx, "minting opening join codes failed, matches stay gameless",
			"season_id", matches[0].SeasonID, "matches", len(matches), "error", err)
		return
	}

	for i := range matches {
		if i >= len(codes) {
			break
		}
		matchID := matches[i].ID
		if _, err := s.gameRepo.Create(ctx, game.Game{MatchID: &matchID, JoinCode: codes[i]}); err != nil {
			s.logger.WarnContext(ctx, "creating opening game failed",
				"match_id", matchID, "error", err)
		}
	}
}
