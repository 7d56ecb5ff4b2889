package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/scrimleague/series-engine/internal/domain/game"
	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/result"
	"github.com/scrimleague/series-engine/internal/domain/season"
	"github.com/scrimleague/series-engine/internal/domain/team"
)

type stubSeasonRepo struct {
	seasons map[int64]season.Season
}

func (r *stubSeasonRepo) GetByID(_ context.Context, id int64) (season.Season, bool, error) {
	s, ok := r.seasons[id]
	return s, ok, nil
}

type stubTeamRepo struct {
	teams   map[int64]team.Team
	rosters []team.RosterEntry
}

func (r *stubTeamRepo) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	t, ok := r.teams[id]
	return t, ok, nil
}

func (r *stubTeamRepo) ListBySeason(_ context.Context, seasonID int64) ([]team.Team, error) {
	var out []team.Team
	for id := int64(0); id <= 64; id++ {
		if t, ok := r.teams[id]; ok && t.SeasonID == seasonID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTeamRepo) ListRosterByTeamIDs(_ context.Context, teamIDs []int64) ([]team.RosterEntry, error) {
	wanted := make(map[int64]bool, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = true
	}
	var out []team.RosterEntry
	for _, entry := range r.rosters {
		if wanted[entry.TeamID] {
			out = append(out, entry)
		}
	}
	return out, nil
}

type stubMatchRepo struct {
	mu      sync.Mutex
	matches map[int64]match.Match
	nextID  int64
}

func (r *stubMatchRepo) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	return m, ok, nil
}

func (r *stubMatchRepo) ListBySeason(_ context.Context, seasonID int64) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []match.Match
	for id := int64(1); id <= r.nextID; id++ {
		if m, ok := r.matches[id]; ok && m.SeasonID == seasonID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMatchRepo) CreateBatch(_ context.Context, matches []match.Match) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]match.Match, 0, len(matches))
	for _, m := range matches {
		r.nextID++
		m.ID = r.nextID
		r.matches[m.ID] = m
		out = append(out, m)
	}
	return out, nil
}

func (r *stubMatchRepo) SetWinner(_ context.Context, id int64, winnerTeamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return fmt.Errorf("match %d missing", id)
	}
	m.WinnerTeamID = &winnerTeamID
	r.matches[id] = m
	return nil
}

// stubGameRepo enforces the one awaiting-outcome game per match rule
// the way the real repositories do; the result stub marks games
// resolved as bundles attach to them.
type stubGameRepo struct {
	mu       sync.Mutex
	games    []game.Game
	resolved map[int64]bool
	nextID   int64
}

func (r *stubGameRepo) GetByJoinCode(_ context.Context, joinCode string) (game.Game, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.games {
		if g.JoinCode == joinCode {
			return g, true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r *stubGameRepo) ListByMatch(_ context.Context, matchID int64) ([]game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []game.Game
	for _, g := range r.games {
		if g.MatchID != nil && *g.MatchID == matchID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *stubGameRepo) ListByMatchIDs(_ context.Context, matchIDs []int64) ([]game.Game, error) {
	wanted := make(map[int64]bool, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []game.Game
	for _, g := range r.games {
		if g.MatchID != nil && wanted[*g.MatchID] {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *stubGameRepo) Create(_ context.Context, g game.Game) (game.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.MatchID != nil {
		for _, existing := range r.games {
			if existing.MatchID != nil && *existing.MatchID == *g.MatchID && !r.resolved[existing.ID] {
				return game.Game{}, game.ErrDuplicateAwaitingGame
			}
		}
	}
	r.nextID++
	g.ID = r.nextID
	g.CreatedAt = time.Now()
	r.games = append(r.games, g)
	return g, nil
}

func (r *stubGameRepo) markResolved(gameID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved == nil {
		r.resolved = make(map[int64]bool)
	}
	r.resolved[gameID] = true
}

type stubResultRepo struct {
	mu         sync.Mutex
	byExternal map[int64]result.Bundle
	games      *stubGameRepo
	nextID     int64
}

func (r *stubResultRepo) GetByExternalID(_ context.Context, externalID int64) (result.Bundle, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.byExternal[externalID]
	return b, ok, nil
}

func (r *stubResultRepo) ListByGameIDs(_ context.Context, gameIDs []int64) ([]result.Bundle, error) {
	wanted := make(map[int64]bool, len(gameIDs))
	for _, id := range gameIDs {
		wanted[id] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []result.Bundle
	for _, b := range r.byExternal {
		if b.Result.GameID != nil && wanted[*b.Result.GameID] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubResultRepo) CreateBundle(_ context.Context, b result.Bundle) (result.Bundle, bool, error) {
	r.mu.Lock()
	if stored, ok := r.byExternal[b.Result.ExternalID]; ok {
		r.mu.Unlock()
		return stored, false, nil
	}
	r.nextID++
	b.Result.ID = r.nextID
	r.byExternal[b.Result.ExternalID] = b
	r.mu.Unlock()

	if r.games != nil && b.Result.GameID != nil {
		r.games.markResolved(*b.Result.GameID)
	}
	return b, true, nil
}

type stubProvider struct {
	mu        sync.Mutex
	reports   map[int64]*ExternalGameReport
	nextCode  int
	mintErr   error
	mintCalls int
}

func (p *stubProvider) LookupCompletedGame(_ context.Context, externalID int64) (*ExternalGameReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	report, ok := p.reports[externalID]
	if !ok {
		return nil, fmt.Errorf("no game with external id %d", externalID)
	}
	return report, nil
}

func (p *stubProvider) MintJoinCodes(_ context.Context, _ int64, count int) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mintCalls++
	if p.mintErr != nil {
		return nil, p.mintErr
	}
	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		p.nextCode++
		codes = append(codes, fmt.Sprintf("code-%d", p.nextCode))
	}
	return codes, nil
}

type stubIDGen struct{}

func (stubIDGen) NewLabel(prefix string) (string, error) {
	if prefix == "" {
		return "deadbeef", nil
	}
	return prefix + "-deadbeef", nil
}

// engineFixture wires the full service stack over the stubs for one
// best-of match between teams 1 (blue) and 2 (red).
type engineFixture struct {
	seasonRepo *stubSeasonRepo
	teamRepo   *stubTeamRepo
	matchRepo  *stubMatchRepo
	gameRepo   *stubGameRepo
	resultRepo *stubResultRepo
	provider   *stubProvider

	progression *ProgressionService
	reconcile   *ReconcileService

	matchID int64
}

func newEngineFixture(format string) *engineFixture {
	f := &engineFixture{
		seasonRepo: &stubSeasonRepo{seasons: map[int64]season.Season{1: {ID: 1, Name: "spring"}}},
		teamRepo: &stubTeamRepo{
			teams: map[int64]team.Team{
				1: {ID: 1, SeasonID: 1, Pool: 1, Name: "blue side"},
				2: {ID: 2, SeasonID: 1, Pool: 1, Name: "red side"},
			},
		},
		matchRepo: &stubMatchRepo{matches: map[int64]match.Match{}},
		gameRepo:  &stubGameRepo{resolved: map[int64]bool{}},
		provider:  &stubProvider{reports: map[int64]*ExternalGameReport{}},
	}
	f.resultRepo = &stubResultRepo{byExternal: map[int64]result.Bundle{}, games: f.gameRepo}

	for i := 1; i <= 5; i++ {
		f.teamRepo.rosters = append(f.teamRepo.rosters,
			team.RosterEntry{TeamID: 1, ExternalID: fmt.Sprintf("blue-%d", i)},
			team.RosterEntry{TeamID: 2, ExternalID: fmt.Sprintf("red-%d", i)},
		)
	}

	created, _ := f.matchRepo.CreateBatch(context.Background(), []match.Match{{
		SeasonID:   1,
		Round:      1,
		Format:     format,
		BlueTeamID: 1,
		RedTeamID:  2,
	}})
	f.matchID = created[0].ID

	f.progression = NewProgressionService(f.matchRepo, f.gameRepo, f.resultRepo, f.provider)
	f.reconcile = NewReconcileService(f.matchRepo, f.gameRepo, f.teamRepo, f.resultRepo, f.provider, stubIDGen{}, f.progression)

	return f
}

// openGame provisions a game for the fixture's match directly.
func (f *engineFixture) openGame(joinCode string) game.Game {
	g, _ := f.gameRepo.Create(context.Background(), game.Game{MatchID: &f.matchID, JoinCode: joinCode})
	return g
}

// report builds a provider report where the named side wins.
func (f *engineFixture) report(externalID int64, joinCode string, blueWins bool) *ExternalGameReport {
	sides := []ExternalSideReport{
		{SideID: 100, IsWinner: blueWins, Players: sidePlayers("blue")},
		{SideID: 200, IsWinner: !blueWins, Players: sidePlayers("red")},
	}
	return &ExternalGameReport{
		ExternalID:  externalID,
		JoinCode:    joinCode,
		DurationSec: 1900,
		Map:         "SUMMONERS_RIFT",
		Mode:        "CLASSIC",
		Queue:       "CUSTOM",
		Version:     "14.3.1",
		StartedAt:   time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC),
		Sides:       sides,
	}
}

func sidePlayers(prefix string) []ExternalPlayerReport {
	players := make([]ExternalPlayerReport, 0, 5)
	for i := 1; i <= 5; i++ {
		players = append(players, ExternalPlayerReport{
			ParticipantID: fmt.Sprintf("%s-%d", prefix, i),
			Champion:      "champ",
			Kills:         i,
			Deaths:        1,
			Assists:       2,
		})
	}
	return players
}
