package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/team"
)

func newScheduleFixture(poolSize int) (*engineFixture, *ScheduleService) {
	f := newEngineFixture(match.FormatBestOf3)
	for id := int64(3); id <= int64(poolSize); id++ {
		f.teamRepo.teams[id] = team.Team{ID: id, SeasonID: 1, Pool: 1, Name: "team"}
	}
	svc := NewScheduleService(f.seasonRepo, f.teamRepo, f.matchRepo, f.gameRepo, f.provider, nil)
	return f, svc
}

func TestSeedPoolCreatesBatchWithOpeningGames(t *testing.T) {
	t.Parallel()

	f, svc := newScheduleFixture(4)
	ctx := context.Background()

	created, err := svc.SeedPool(ctx, 1, 1, match.FormatBestOf3)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(created) != 6 {
		t.Fatalf("4 teams round-robin is 6 matches, got %d", len(created))
	}
	for _, m := range created {
		if m.ID == 0 {
			t.Fatalf("created match missing id: %+v", m)
		}
		games, _ := f.gameRepo.ListByMatch(ctx, m.ID)
		if len(games) != 1 {
			t.Fatalf("match %d should open with one game, got %d", m.ID, len(games))
		}
	}
}

func TestSeedPoolFiveTeams(t *testing.T) {
	t.Parallel()

	_, svc := newScheduleFixture(5)

	created, err := svc.SeedPool(context.Background(), 1, 1, match.FormatBestOf3)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(created) != 10 {
		t.Fatalf("5 teams round-robin is 10 matches, got %d", len(created))
	}

	rounds := map[int]int{}
	for _, m := range created {
		rounds[m.Round]++
	}
	if len(rounds) != 5 {
		t.Fatalf("expected 5 rounds, got %d", len(rounds))
	}
	for round, count := range rounds {
		if count != 2 {
			t.Fatalf("round %d has %d matches, expected 2 with one team idle", round, count)
		}
	}
}

func TestSeedPoolProviderOutageStillSchedules(t *testing.T) {
	t.Parallel()

	f, svc := newScheduleFixture(4)
	f.provider.mintErr = errors.New("provider down")
	ctx := context.Background()

	created, err := svc.SeedPool(ctx, 1, 1, match.FormatBestOf3)
	if err != nil {
		t.Fatalf("seeding must survive a mint outage: %v", err)
	}
	for _, m := range created {
		games, _ := f.gameRepo.ListByMatch(ctx, m.ID)
		if len(games) != 0 {
			t.Fatalf("no opening games expected during an outage")
		}
	}
}

func TestSeedPoolValidation(t *testing.T) {
	t.Parallel()

	_, svc := newScheduleFixture(4)
	ctx := context.Background()

	if _, err := svc.SeedPool(ctx, 0, 1, match.FormatBestOf3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing season, got %v", err)
	}
	if _, err := svc.SeedPool(ctx, 1, 1, "BO11"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown format, got %v", err)
	}
	if _, err := svc.SeedPool(ctx, 1, 7, match.FormatBestOf3); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty pool, got %v", err)
	}
	if _, err := svc.SeedPool(ctx, 55, 1, match.FormatBestOf3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown season, got %v", err)
	}
}
