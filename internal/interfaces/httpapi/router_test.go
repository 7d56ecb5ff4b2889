package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/scrimleague/series-engine/internal/infrastructure/repository/memory"
	"github.com/scrimleague/series-engine/internal/platform/id"
	"github.com/scrimleague/series-engine/internal/platform/logging"
	"github.com/scrimleague/series-engine/internal/usecase"
	"github.com/stretchr/testify/require"
)

const (
	testInternalToken = "internal-secret"
	testCallbackToken = "hook-secret"
)

type scriptedProvider struct {
	minted int
}

func (p *scriptedProvider) LookupCompletedGame(ctx context.Context, externalID int64) (*usecase.ExternalGameReport, error) {
	return nil, fmt.Errorf("unexpected lookup for external id %d", externalID)
}

func (p *scriptedProvider) MintJoinCodes(ctx context.Context, seasonID int64, count int) ([]string, error) {
	codes := make([]string, 0, count)
	for i := 0; i < count; i++ {
		p.minted++
		codes = append(codes, fmt.Sprintf("code-%d", p.minted))
	}
	return codes, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	seasonRepo := memory.NewSeasonRepository(memory.SeedSeasons())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams(), memory.SeedRosters())
	matchRepo := memory.NewMatchRepository()
	gameRepo := memory.NewGameRepository()
	resultRepo := memory.NewResultRepository(gameRepo)
	provider := &scriptedProvider{}

	progression := usecase.NewProgressionService(matchRepo, gameRepo, resultRepo, provider)
	reconcile := usecase.NewReconcileService(matchRepo, gameRepo, teamRepo, resultRepo, provider, id.NewRandomGenerator(), progression)
	schedule := usecase.NewScheduleService(seasonRepo, teamRepo, matchRepo, gameRepo, provider, logging.NewNop())
	resync := usecase.NewResyncService(seasonRepo, matchRepo, progression)
	history := usecase.NewHistoryService(seasonRepo, matchRepo, gameRepo, resultRepo)

	handler := NewHandler(history, reconcile, schedule, resync, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), []string{"*"}, testInternalToken, testCallbackToken)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, sonic.ConfigDefault.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Internal-Token", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		APIVersion string `json:"apiVersion"`
		Data       any    `json:"data"`
	}
	envelope.Data = out
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "2.0", envelope.APIVersion)
}

func TestRouter_SeedCallbackAndReadBack(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/internal/pools/seed", testInternalToken, map[string]any{
		"season_id": memory.SeasonIDSpringScrims,
		"pool":      2,
		"format":    "BO1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var matches []matchDTO
	decodeData(t, rec, &matches)
	// Pool 2 has three teams: one round robin = 3 pairings.
	require.Len(t, matches, 3)

	detailRec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/matches/%d", matches[0].ID), "", nil)
	require.Equal(t, http.StatusOK, detailRec.Code, detailRec.Body.String())

	var detail matchDetailDTO
	decodeData(t, detailRec, &detail)
	require.Equal(t, "NO_GAMES_PLAYED", detail.State)
	require.Len(t, detail.Games, 1, "seeding provisions the opening game")

	// The provider reports the opening game: blue side wins a BO1.
	callback := map[string]any{
		"reports": []map[string]any{{
			"external_id":  900001,
			"join_code":    detail.Games[0].JoinCode,
			"duration_sec": 1810,
			"mode":         "CLASSIC",
			"started_at":   time.Date(2026, 3, 3, 19, 0, 0, 0, time.UTC).Format(time.RFC3339),
			"sides": []map[string]any{
				{
					"side_id": 100,
					"winner":  true,
					"players": []map[string]any{
						{"participant_id": fmt.Sprintf("summoner-%d-1", detail.Match.BlueTeamID), "kills": 7},
						{"participant_id": fmt.Sprintf("summoner-%d-2", detail.Match.BlueTeamID), "kills": 3},
					},
				},
				{
					"side_id": 200,
					"winner":  false,
					"players": []map[string]any{
						{"participant_id": fmt.Sprintf("summoner-%d-1", detail.Match.RedTeamID), "kills": 2},
					},
				},
			},
		}},
	}
	callbackReq := httptest.NewRequest(http.MethodPost, "/v1/callbacks/riftbridge", encodeBody(t, callback))
	callbackReq.Header.Set("Content-Type", "application/json")
	callbackReq.Header.Set("X-Callback-Token", testCallbackToken)
	callbackRec := httptest.NewRecorder()
	router.ServeHTTP(callbackRec, callbackReq)
	require.Equal(t, http.StatusOK, callbackRec.Code, callbackRec.Body.String())

	var outcome seriesOutcomeDTO
	decodeData(t, callbackRec, &outcome)
	require.Equal(t, "DECIDED", outcome.State)
	require.NotNil(t, outcome.WinnerTeamID)
	require.Equal(t, detail.Match.BlueTeamID, *outcome.WinnerTeamID)
	require.Nil(t, outcome.CreatedGame, "a decided BO1 provisions no next game")

	afterRec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/matches/%d", matches[0].ID), "", nil)
	require.Equal(t, http.StatusOK, afterRec.Code)
	var after matchDetailDTO
	decodeData(t, afterRec, &after)
	require.Equal(t, "DECIDED", after.State)
	require.Len(t, after.Results, 1)
	require.False(t, after.Results[0].Forfeit)
}

func TestRouter_CallbackRejectsBatchedReports(t *testing.T) {
	router := newTestRouter(t)

	payload := map[string]any{
		"reports": []map[string]any{
			{"external_id": 1},
			{"external_id": 2},
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/callbacks/riftbridge", encodeBody(t, payload))
	req.Header.Set("X-Callback-Token", testCallbackToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Error struct {
			Errors []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Error.Errors, 1)
	require.Equal(t, "joinCodeReuse", envelope.Error.Errors[0].Reason)
}

func TestRouter_InternalRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/internal/resync", "", map[string]any{
		"season_id": memory.SeasonIDSpringScrims,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ForfeitDecidesBestOfOne(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/internal/pools/seed", testInternalToken, map[string]any{
		"season_id": memory.SeasonIDSpringScrims,
		"pool":      1,
		"format":    "BO1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var matches []matchDTO
	decodeData(t, rec, &matches)
	require.NotEmpty(t, matches)
	target := matches[0]

	forfeitRec := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/v1/internal/matches/%d/forfeit", target.ID), testInternalToken,
		map[string]any{"winner_team_id": target.RedTeamID})
	require.Equal(t, http.StatusOK, forfeitRec.Code, forfeitRec.Body.String())

	var outcome seriesOutcomeDTO
	decodeData(t, forfeitRec, &outcome)
	require.Equal(t, "DECIDED", outcome.State)
	require.NotNil(t, outcome.WinnerTeamID)
	require.Equal(t, target.RedTeamID, *outcome.WinnerTeamID)

	detailRec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/matches/%d", target.ID), "", nil)
	var detail matchDetailDTO
	decodeData(t, detailRec, &detail)
	require.Len(t, detail.Results, 1)
	require.True(t, detail.Results[0].Forfeit)
}

func TestRouter_SeasonMatchesForest(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/internal/pools/seed", testInternalToken, map[string]any{
		"season_id": memory.SeasonIDSpringScrims,
		"pool":      2,
		"format":    "BO3",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	forestRec := doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/v1/seasons/%d/matches", memory.SeasonIDSpringScrims), "", nil)
	require.Equal(t, http.StatusOK, forestRec.Code, forestRec.Body.String())

	var forest []struct {
		Value    map[string]any `json:"value"`
		Children []struct {
			Value map[string]any `json:"value"`
		} `json:"children"`
	}
	decodeData(t, forestRec, &forest)
	require.Len(t, forest, 3)
	for _, node := range forest {
		require.Contains(t, node.Value, "format")
		require.Len(t, node.Children, 1, "each seeded match carries its opening game")
	}
}

func encodeBody(t *testing.T, payload any) *bytes.Buffer {
	t.Helper()

	var body bytes.Buffer
	require.NoError(t, sonic.ConfigDefault.NewEncoder(&body).Encode(payload))
	return &body
}
