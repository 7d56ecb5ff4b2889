package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/scrimleague/series-engine/internal/usecase"
)

// ImportResult is the operator path for pulling one completed game
// from the provider by external id and reconciling it.
func (h *Handler) ImportResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportResult")
	defer span.End()

	var req importResultRequest
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

	outcome, err := h.reconcileService.ImportResult(ctx, req.ExternalID, req.RosterMap)
	if err != nil {
		h.logger.WarnContext(ctx, "import result failed", "external_id", req.ExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcomeToDTO(ctx, outcome))
}

// DeclareForfeit records a synthetic lost game for the match and
// advances the series.
func (h *Handler) DeclareForfeit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclareForfeit")
	defer span.End()

	matchID, err := parsePathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req declareForfeitRequest
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

	outcome, err := h.reconcileService.DeclareForfeit(ctx, matchID, req.WinnerTeamID)
	if err != nil {
		h.logger.WarnContext(ctx, "declare forfeit failed", "match_id", matchID, "winner_team_id", req.WinnerTeamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcomeToDTO(ctx, outcome))
}

type importResultRequest struct {
	ExternalID int64              `json:"external_id" validate:"required,gt=0"`
	RosterMap  map[int64][]string `json:"roster_map" validate:"omitempty,dive,keys,gt=0,endkeys,min=1"`
}

type declareForfeitRequest struct {
	WinnerTeamID int64 `json:"winner_team_id" validate:"required,gt=0"`
}

type seriesOutcomeDTO struct {
	MatchID      int64         `json:"matchId"`
	State        string        `json:"state"`
	WinnerTeamID *int64        `json:"winnerTeamId,omitempty"`
	WinsByTeam   map[int64]int `json:"winsByTeam"`
	GamesPlayed  int           `json:"gamesPlayed"`
	CreatedGame  *gameDTO      `json:"createdGame,omitempty"`
}

func outcomeToDTO(ctx context.Context, outcome usecase.SeriesOutcome) seriesOutcomeDTO {
	ctx, span := startSpan(ctx, "httpapi.outcomeToDTO")
	defer span.End()

	dto := seriesOutcomeDTO{
		MatchID:      outcome.MatchID,
		State:        outcome.State,
		WinnerTeamID: outcome.WinnerTeamID,
		WinsByTeam:   outcome.WinsByTeam,
		GamesPlayed:  outcome.GamesPlayed,
	}
	if outcome.CreatedGame != nil {
		created := gameToDTO(*outcome.CreatedGame)
		dto.CreatedGame = &created
	}
	return dto
}
