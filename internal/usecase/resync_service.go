package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/season"
)

const (
	resyncStatusSuccess = "success"
	resyncStatusFailed  = "failed"
	resyncStatusSkipped = "skipped"
)

type ResyncInput struct {
	SeasonID   int64
	MaxWorkers int
}

type ResyncResult struct {
	SeasonID     int64              `json:"season_id"`
	TaskCount    int                `json:"task_count"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	SkippedCount int                `json:"skipped_count"`
	WorkerCount  int                `json:"worker_count"`
	Tasks        []ResyncTaskResult `json:"tasks"`
}

type ResyncTaskResult struct {
	MatchID    int64  `json:"match_id"`
	Status     string `json:"status"`
	State      string `json:"state,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// ResyncService re-runs series progression across every match of a
// season. Safe because Advance is a no-op on decided matches and
// provisions at most one missing game on undecided ones; failed tasks
// surface in the report and can simply be re-run.
type ResyncService struct {
	seasonRepo  season.Repository
	matchRepo   match.Repository
	progression *ProgressionService
}

func NewResyncService(
	seasonRepo season.Repository,
	matchRepo match.Repository,
	progression *ProgressionService,
) *ResyncService {
	return &ResyncService{
		seasonRepo:  seasonRepo,
		matchRepo:   matchRepo,
		progression: progression,
	}
}

func (s *ResyncService) Resync(ctx context.Context, input ResyncInput) (ResyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResyncService.Resync")
	defer span.End()

	if input.SeasonID <= 0 {
		return ResyncResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if _, found, err := s.seasonRepo.GetByID(ctx, input.SeasonID); err != nil {
		return ResyncResult{}, fmt.Errorf("get season: %w", err)
	} else if !found {
		return ResyncResult{}, fmt.Errorf("%w: season=%d", ErrNotFound, input.SeasonID)
	}

	matches, err := s.matchRepo.ListBySeason(ctx, input.SeasonID)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("list season matches: %w", err)
	}

	workerCount := normalizeResyncWorkerCount(input.MaxWorkers, len(matches))
	result := ResyncResult{
		SeasonID:    input.SeasonID,
		TaskCount:   len(matches),
		WorkerCount: workerCount,
		Tasks:       make([]ResyncTaskResult, 0, len(matches)),
	}
	if len(matches) == 0 {
		return result, nil
	}

	results := make(chan ResyncTaskResult, len(matches))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ResyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	submitErr := dispatchResyncTasks(matches, pool.Submit, func(m match.Match) {
		start := time.Now()
		row := ResyncTaskResult{MatchID: m.ID}

		outcome, err := s.progression.Advance(ctx, m.ID)
		row.State = outcome.State
		row.DurationMs = time.Since(start).Milliseconds()

		switch {
		case err != nil && errors.Is(err, ErrDependencyUnavailable):
			row.Status = resyncStatusSkipped
			row.Message = err.Error()
			skippedCount.Add(1)
		case err != nil:
			row.Status = resyncStatusFailed
			row.Message = err.Error()
			failedCount.Add(1)
		default:
			row.Status = resyncStatusSuccess
			successCount.Add(1)
		}

		results <- row
	})
	close(results)
	if submitErr != nil {
		return ResyncResult{}, submitErr
	}

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].MatchID < result.Tasks[j].MatchID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	return result, nil
}

// dispatchResyncTasks fans the per-match tasks out through submit.
// When a submission fails it stops submitting but still waits for
// every task that already made it into the pool before returning.
func dispatchResyncTasks(matches []match.Match, submit func(func()) error, run func(match.Match)) error {
	var tasks sync.WaitGroup
	var submitErr error
	for _, m := range matches {
		m := m
		tasks.Add(1)
		if err := submit(func() {
			defer tasks.Done()
			run(m)
		}); err != nil {
			tasks.Done()
			submitErr = fmt.Errorf("submit task to worker pool: %w", err)
			break
		}
	}
	tasks.Wait()
	return submitErr
}

func normalizeResyncWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 1
	}
	if value > 4 {
		value = 4
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
