package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/scrimleague/series-engine/internal/domain/game"
	"github.com/scrimleague/series-engine/internal/domain/match"
	"github.com/scrimleague/series-engine/internal/domain/result"
	"github.com/scrimleague/series-engine/internal/usecase"
)

// ListSeasonMatches serves the season's match history as the nested
// match/game/result forest.
func (h *Handler) ListSeasonMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonMatches")
	defer span.End()

	seasonID, err := parsePathID(r, "seasonID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	forest, err := h.historyService.SeasonMatches(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list season matches failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, forest)
}

func (h *Handler) GetMatchDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchDetail")
	defer span.End()

	matchID, err := parsePathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.historyService.MatchDetail(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match detail failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailToDTO(ctx, detail))
}

type matchDTO struct {
	ID           int64  `json:"id"`
	SeasonID     int64  `json:"seasonId"`
	Round        int    `json:"round"`
	Format       string `json:"format"`
	BlueTeamID   int64  `json:"blueTeamId"`
	RedTeamID    int64  `json:"redTeamId"`
	WinnerTeamID *int64 `json:"winnerTeamId,omitempty"`
}

type gameDTO struct {
	ID        int64  `json:"id"`
	MatchID   *int64 `json:"matchId,omitempty"`
	JoinCode  string `json:"joinCode"`
	CreatedAt string `json:"createdAt"`
}

type resultDTO struct {
	ID          int64     `json:"id"`
	ExternalID  int64     `json:"externalId"`
	GameID      *int64    `json:"gameId,omitempty"`
	JoinCode    *string   `json:"joinCode,omitempty"`
	DurationSec int       `json:"durationSec"`
	Map         string    `json:"map,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	Queue       string    `json:"queue,omitempty"`
	Version     string    `json:"version,omitempty"`
	StartedAt   string    `json:"startedAt"`
	Forfeit     bool      `json:"forfeit"`
	Sides       []sideDTO `json:"sides"`
}

type sideDTO struct {
	TeamID         *int64      `json:"teamId,omitempty"`
	ExternalSideID *int64      `json:"externalSideId,omitempty"`
	IsWinner       bool        `json:"isWinner"`
	Bans           []banDTO    `json:"bans,omitempty"`
	Players        []playerDTO `json:"players,omitempty"`
}

type banDTO struct {
	Selection string `json:"selection"`
	Position  int    `json:"position"`
}

type playerDTO struct {
	ExternalPlayerID  string `json:"externalPlayerId"`
	Champion          string `json:"champion,omitempty"`
	Kills             int    `json:"kills"`
	Deaths            int    `json:"deaths"`
	Assists           int    `json:"assists"`
	GoldEarned        int    `json:"goldEarned"`
	MinionsKilled     int    `json:"minionsKilled"`
	DamageToChampions int    `json:"damageToChampions"`
	VisionScore       int    `json:"visionScore"`
}

type matchDetailDTO struct {
	Match      matchDTO      `json:"match"`
	Games      []gameDTO     `json:"games"`
	Results    []resultDTO   `json:"results"`
	State      string        `json:"state"`
	WinsByTeam map[int64]int `json:"winsByTeam"`
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:           v.ID,
		SeasonID:     v.SeasonID,
		Round:        v.Round,
		Format:       v.Format,
		BlueTeamID:   v.BlueTeamID,
		RedTeamID:    v.RedTeamID,
		WinnerTeamID: v.WinnerTeamID,
	}
}

func gameToDTO(v game.Game) gameDTO {
	return gameDTO{
		ID:        v.ID,
		MatchID:   v.MatchID,
		JoinCode:  v.JoinCode,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func resultToDTO(b result.Bundle) resultDTO {
	sides := make([]sideDTO, 0, len(b.Sides))
	for _, side := range b.Sides {
		bans := make([]banDTO, 0, len(side.Bans))
		for _, ban := range side.Bans {
			bans = append(bans, banDTO{Selection: ban.Selection, Position: ban.Position})
		}
		players := make([]playerDTO, 0, len(side.Players))
		for _, player := range side.Players {
			players = append(players, playerDTO{
				ExternalPlayerID:  player.ExternalPlayerID,
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
		sides = append(sides, sideDTO{
			TeamID:         side.TeamID,
			ExternalSideID: side.ExternalSideID,
			IsWinner:       side.IsWinner,
			Bans:           bans,
			Players:        players,
		})
	}

	return resultDTO{
		ID:          b.Result.ID,
		ExternalID:  b.Result.ExternalID,
		GameID:      b.Result.GameID,
		JoinCode:    b.Result.JoinCode,
		DurationSec: b.Result.DurationSec,
		Map:         b.Result.Map,
		Mode:        b.Result.Mode,
		Queue:       b.Result.Queue,
		Version:     b.Result.Version,
		StartedAt:   b.Result.StartedAt.UTC().Format(time.RFC3339),
		Forfeit:     b.Result.IsForfeit(),
		Sides:       sides,
	}
}

func matchDetailToDTO(ctx context.Context, detail usecase.MatchDetail) matchDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.matchDetailToDTO")
	defer span.End()

	games := make([]gameDTO, 0, len(detail.Games))
	for _, g := range detail.Games {
		games = append(games, gameToDTO(g))
	}
	results := make([]resultDTO, 0, len(detail.Results))
	for _, b := range detail.Results {
		results = append(results, resultToDTO(b))
	}

	return matchDetailDTO{
		Match:      matchToDTO(detail.Match),
		Games:      games,
		Results:    results,
		State:      detail.State,
		WinsByTeam: detail.WinsByTeam,
	}
}
