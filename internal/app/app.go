package app

import (
	"fmt"
	"net/http"

	"github.com/scrimleague/series-engine/external/riftbridge"
	"github.com/scrimleague/series-engine/internal/config"
	"github.com/scrimleague/series-engine/internal/domain/game"
	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/result"
	"github.com/scrimleague/series-engine/internal/domain/season"
	"github.com/scrimleague/series-engine/internal/domain/team"
	"github.com/scrimleague/series-engine/internal/infrastructure/repository/memory"
	"github.com/scrimleague/series-engine/internal/infrastructure/repository/postgres"
	"github.com/scrimleague/series-engine/internal/interfaces/httpapi"
	idgen "github.com/scrimleague/series-engine/internal/platform/id"
	"github.com/scrimleague/series-engine/internal/platform/logging"
	"github.com/scrimleague/series-engine/internal/platform/resilience"
	"github.com/scrimleague/series-engine/internal/usecase"
)

type repositories struct {
	seasons season.Repository
	teams   team.Repository
	matches match.Repository
	games   game.Repository
	results result.Repository
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	provider := riftbridge.NewClient(riftbridge.ClientConfig{
		BaseURL:    cfg.RiftBridgeBaseURL,
		Token:      cfg.RiftBridgeToken,
		Timeout:    cfg.RiftBridgeTimeout,
		MaxRetries: cfg.RiftBridgeMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.RiftBridgeCircuitEnabled,
			FailureThreshold: cfg.RiftBridgeCircuitFailureCount,
			OpenTimeout:      cfg.RiftBridgeCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RiftBridgeCircuitHalfOpenMaxReq,
		},
	})

	progressionSvc := usecase.NewProgressionService(repos.matches, repos.games, repos.results, provider)
	reconcileSvc := usecase.NewReconcileService(
		repos.matches,
		repos.games,
		repos.teams,
		repos.results,
		provider,
		idgen.NewRandomGenerator(),
		progressionSvc,
	)
	scheduleSvc := usecase.NewScheduleService(repos.seasons, repos.teams, repos.matches, repos.games, provider, logger)
	resyncSvc := usecase.NewResyncService(repos.seasons, repos.matches, progressionSvc)
	historySvc := usecase.NewHistoryService(repos.seasons, repos.matches, repos.games, repos.results)

	handler := httpapi.NewHandler(historySvc, reconcileSvc, scheduleSvc, resyncSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalToken, cfg.CallbackToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, fmt.Errorf("open database: %w", err)
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "database", dbNameFromURL(cfg.DBURL))
		gameRepo := postgres.NewGameRepository(db)
		return repositories{
			seasons: postgres.NewSeasonRepository(db),
			teams:   postgres.NewTeamRepository(db),
			matches: postgres.NewMatchRepository(db),
			games:   gameRepo,
			results: postgres.NewResultRepository(db),
		}, nil
	default:
		logger.Info("storage ready", "driver", cfg.StorageDriver)
		gameRepo := memory.NewGameRepository()
		return repositories{
			seasons: memory.NewSeasonRepository(memory.SeedSeasons()),
			teams:   memory.NewTeamRepository(memory.SeedTeams(), memory.SeedRosters()),
			matches: memory.NewMatchRepository(),
			games:   gameRepo,
			results: memory.NewResultRepository(gameRepo),
		}, nil
	}
}
