package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/scrimleague/series-engine/internal/usecase"
)

// The provider delivers one webhook per finished game; a delivery
// carrying zero or several reports means the join code was shared
// across lobbies and nothing in it can be trusted.
var errJoinCodeReuse = errors.New("callback must carry exactly one completed game report")

// RiftbridgeCallback ingests the provider's completed-game webhook.
// Reports whose join code matches no known game are stored unlinked,
// so the response outcome may be the zero value.
func (h *Handler) RiftbridgeCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RiftbridgeCallback")
	defer span.End()

	var req riftbridgeCallbackRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if len(req.Reports) != 1 {
		writeError(ctx, w, fmt.Errorf("%w: got %d reports", errJoinCodeReuse, len(req.Reports)))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report := callbackReportToUsecase(req.Reports[0])
	outcome, err := h.reconcileService.IngestReport(ctx, &report, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "callback ingest failed", "external_id", report.ExternalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, outcomeToDTO(ctx, outcome))
}

type riftbridgeCallbackRequest struct {
	Reports []callbackGameReport `json:"reports" validate:"dive"`
}

type callbackGameReport struct {
	ExternalID  int64                `json:"external_id" validate:"required,gt=0"`
	JoinCode    string               `json:"join_code"`
	DurationSec int                  `json:"duration_sec" validate:"gte=0"`
	Map         string               `json:"map"`
	Mode        string               `json:"mode"`
	Queue       string               `json:"queue"`
	Version     string               `json:"version"`
	StartedAt   time.Time            `json:"started_at"`
	Sides       []callbackSideReport `json:"sides" validate:"max=2,dive"`
}

type callbackSideReport struct {
	SideID   int64                  `json:"side_id"`
	IsWinner bool                   `json:"winner"`
	Bans     []string               `json:"bans"`
	Players  []callbackPlayerReport `json:"players" validate:"dive"`
}

type callbackPlayerReport struct {
	ParticipantID     string `json:"participant_id" validate:"required"`
	Champion          string `json:"champion"`
	Kills             int    `json:"kills" validate:"gte=0"`
	Deaths            int    `json:"deaths" validate:"gte=0"`
	Assists           int    `json:"assists" validate:"gte=0"`
	GoldEarned        int    `json:"gold_earned"`
	MinionsKilled     int    `json:"minions_killed"`
	DamageToChampions int    `json:"damage_to_champions"`
	VisionScore       int    `json:"vision_score"`
}

func callbackReportToUsecase(v callbackGameReport) usecase.ExternalGameReport {
	report := usecase.ExternalGameReport{
		ExternalID:  v.ExternalID,
		JoinCode:    v.JoinCode,
		DurationSec: v.DurationSec,
		Map:         v.Map,
		Mode:        v.Mode,
		Queue:       v.Queue,
		Version:     v.Version,
		StartedAt:   v.StartedAt,
	}
	for _, side := range v.Sides {
		sideReport := usecase.ExternalSideReport{
			SideID:   side.SideID,
			IsWinner: side.IsWinner,
			Bans:     side.Bans,
		}
		for _, player := range side.Players {
			sideReport.Players = append(sideReport.Players, usecase.ExternalPlayerReport{
				ParticipantID:     player.ParticipantID,
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
		report.Sides = append(report.Sides, sideReport)
	}
	return report
}
