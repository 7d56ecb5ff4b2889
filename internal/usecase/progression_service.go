package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/scrimleague/series-engine/internal/domain/game"
	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/result"
)

const (
	SeriesStateNoGamesPlayed = "NO_GAMES_PLAYED"
	SeriesStateInProgress    = "IN_PROGRESS"
	SeriesStateDecided       = "DECIDED"
)

// SeriesOutcome reports where one advance pass left a match.
type SeriesOutcome struct {
	MatchID      int64
	State        string
	WinnerTeamID *int64
	WinsByTeam   map[int64]int
	GamesPlayed  int
	CreatedGame  *game.Game
}

// ProgressionService re-derives a match's series state from its
// accumulated game results and, while the series stays undecided,
// provisions the next game with a freshly minted join code.
type ProgressionService struct {
	matchRepo  match.Repository
	gameRepo   game.Repository
	resultRepo result.Repository
	provider   ResultProvider

	// advance is serialized per match so two results landing at once
	// cannot both provision a next game. Entries are dropped once a
	// match is decided; from then on Advance is read-only.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewProgressionService(
	matchRepo match.Repository,
	gameRepo game.Repository,
	resultRepo result.Repository,
	provider ResultProvider,
) *ProgressionService {
	return &ProgressionService{
		matchRepo:  matchRepo,
		gameRepo:   gameRepo,
		resultRepo: resultRepo,
		provider:   provider,
		locks:      make(map[int64]*sync.Mutex),
	}
}

// Advance runs one progression pass for the match. It is a safe no-op
// on already decided matches and is retryable after provider failures.
func (s *ProgressionService) Advance(ctx context.Context, matchID int64) (SeriesOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProgressionService.Advance")
	defer span.End()

	if matchID <= 0 {
		return SeriesOutcome{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	lock := s.matchLock(matchID)
	lock.Lock()
	defer lock.Unlock()

	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return SeriesOutcome{}, fmt.Errorf("get match: %w", err)
	}
	if !found {
		return SeriesOutcome{}, fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
	}

	games, err := s.gameRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return SeriesOutcome{}, fmt.Errorf("list games: %w", err)
	}
	gameIDs := make([]int64, 0, len(games))
	for _, g := range games {
		gameIDs = append(gameIDs, g.ID)
	}
	bundles, err := s.resultRepo.ListByGameIDs(ctx, gameIDs)
	if err != nil {
		return SeriesOutcome{}, fmt.Errorf("list results: %w", err)
	}

	outcome := SeriesOutcome{
		MatchID:     matchID,
		WinsByTeam:  winsByTeam(bundles),
		GamesPlayed: len(bundles),
	}

	if m.IsDecided() {
		outcome.State = SeriesStateDecided
		outcome.WinnerTeamID = m.WinnerTeamID
		s.forgetLock(matchID)
		return outcome, nil
	}

	required := match.RequiredWins(m.Format)
	for teamID, wins := range outcome.WinsByTeam {
		if wins < required {
			continue
		}
		if err := s.matchRepo.SetWinner(ctx, matchID, teamID); err != nil {
			return SeriesOutcome{}, fmt.Errorf("set match winner: %w", err)
		}
		winner := teamID
		outcome.State = SeriesStateDecided
		outcome.WinnerTeamID = &winner
		s.forgetLock(matchID)
		return outcome, nil
	}

	if len(bundles) == 0 {
		outcome.State = SeriesStateNoGamesPlayed
	} else {
		outcome.State = SeriesStateInProgress
	}

	// A prior pass may already have provisioned the next game.
	if len(games) > len(bundles) {
		return outcome, nil
	}
	if len(bundles) >= match.MaxGames(m.Format) {
		return outcome, nil
	}

	codes, err := s.provider.MintJoinCodes(ctx, m.SeasonID, 1)
	if err != nil {
		return outcome, fmt.Errorf("%w: mint join code: %v", ErrDependencyUnavailable, err)
	}
	if len(codes) == 0 {
		return outcome, fmt.Errorf("%w: provider minted no join code", ErrDependencyUnavailable)
	}

	created, err := s.gameRepo.Create(ctx, game.Game{MatchID: &matchID, JoinCode: codes[0]})
	if err != nil {
		if errors.Is(err, game.ErrDuplicateAwaitingGame) {
			return outcome, nil
		}
		return outcome, fmt.Errorf("create next game: %w", err)
	}
	outcome.CreatedGame = &created

	return outcome, nil
}

// winsByTeam folds side rows into per-team win counts. Sides whose
// attribution failed have no team id and count for nobody.
func winsByTeam(bundles []result.Bundle) map[int64]int {
	wins := make(map[int64]int)
	for _, bundle := range bundles {
		for _, side := range bundle.Sides {
			if side.TeamID == nil || !side.IsWinner {
				continue
			}
			wins[*side.TeamID]++
		}
	}
	return wins
}

func (s *ProgressionService) matchLock(matchID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[matchID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[matchID] = lock
	}
	return lock
}

// forgetLock stops tracking a decided match so the lock map does not
// grow for the lifetime of the process. The caller still holds the
// mutex it fetched; a later Advance simply allocates a fresh one.
func (s *ProgressionService) forgetLock(matchID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, matchID)
}
