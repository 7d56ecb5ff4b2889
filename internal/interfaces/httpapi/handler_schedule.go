package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/scrimleague/series-engine/internal/usecase"
)

// SeedPool generates and persists the round-robin batch for one season
// pool, opening games included when the provider cooperates.
func (h *Handler) SeedPool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SeedPool")
	defer span.End()

	var req seedPoolRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.scheduleService.SeedPool(ctx, req.SeasonID, req.Pool, req.Format)
	if err != nil {
		h.logger.WarnContext(ctx, "seed pool failed", "season_id", req.SeasonID, "pool", req.Pool, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusCreated, items)
}

// RunResync re-runs series progression across every match of a season.
func (h *Handler) RunResync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResync")
	defer span.End()

	var req resyncRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.resyncService.Resync(ctx, usecase.ResyncInput{
		SeasonID:   req.SeasonID,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "resync failed", "season_id", req.SeasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

type seedPoolRequest struct {
	SeasonID int64  `json:"season_id" validate:"required,gt=0"`
	Pool     int    `json:"pool" validate:"required,gt=0"`
	Format   string `json:"format" validate:"required"`
}

type resyncRequest struct {
	SeasonID   int64 `json:"season_id" validate:"required,gt=0"`
	MaxWorkers int   `json:"max_workers" validate:"gte=0"`
}
