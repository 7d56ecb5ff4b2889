package riftbridge

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/scrimleague/series-engine/internal/platform/logging"
	"github.com/scrimleague/series-engine/internal/platform/resilience"
	"github.com/scrimleague/series-engine/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, cfg ClientConfig) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	cfg.Token = "secret-token"
	cfg.Logger = logging.NewNop()
	return NewClient(cfg)
}

func TestLookupCompletedGameMapsPayload(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/games/9001" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "secret-token" {
			t.Errorf("missing api token")
		}
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"id": 9001,
			"join_code": " lobby-abc ",
			"duration_sec": 1840,
			"map": "SUMMONERS_RIFT",
			"mode": "CLASSIC",
			"queue": "CUSTOM",
			"version": "14.3.1",
			"started_at": "2026-02-01 19:30:00",
			"sides": [
				{
					"side_id": 200,
					"winner": 0,
					"bans": [{"selection":"later","position":2},{"selection":"first","position":1}],
					"players": [{"participant_id":"red-1","champion":"Ahri","kills":3,"deaths":4,"assists":7,"gold_earned":11200,"minions_killed":180,"damage_to_champions":18000,"vision_score":31}]
				},
				{
					"side_id": 100,
					"winner": "true",
					"bans": [{"selection":"  ","position":1}],
					"players": [{"participant_id":"blue-1","champion":"Orianna"},{"participant_id":""}]
				}
			]
		}}`))
	})

	client := newTestClient(t, handler, ClientConfig{})
	report, err := client.LookupCompletedGame(context.Background(), 9001)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	if report.ExternalID != 9001 || report.JoinCode != "lobby-abc" || report.DurationSec != 1840 {
		t.Fatalf("scalar fields not mapped: %+v", report)
	}
	want := time.Date(2026, 2, 1, 19, 30, 0, 0, time.UTC)
	if !report.StartedAt.Equal(want) {
		t.Fatalf("started_at not parsed: %v", report.StartedAt)
	}

	if len(report.Sides) != 2 {
		t.Fatalf("expected 2 sides, got %d", len(report.Sides))
	}
	blue, red := report.Sides[0], report.Sides[1]
	if blue.SideID != 100 || red.SideID != 200 {
		t.Fatalf("sides not ordered by side id: %+v", report.Sides)
	}
	if !blue.IsWinner || red.IsWinner {
		t.Fatalf("winner flags not parsed: blue=%v red=%v", blue.IsWinner, red.IsWinner)
	}
	if len(blue.Bans) != 0 {
		t.Fatalf("blank ban selections must be dropped: %v", blue.Bans)
	}
	if len(red.Bans) != 2 || red.Bans[0] != "first" {
		t.Fatalf("bans not ordered by position: %v", red.Bans)
	}
	if len(blue.Players) != 1 || blue.Players[0].ParticipantID != "blue-1" {
		t.Fatalf("blank participants must be dropped: %+v", blue.Players)
	}
	if red.Players[0].GoldEarned != 11200 || red.Players[0].VisionScore != 31 {
		t.Fatalf("player stat line not mapped: %+v", red.Players[0])
	}
}

func TestLookupCompletedGameRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"id":5,"sides":[]}}`))
	})

	client := newTestClient(t, handler, ClientConfig{MaxRetries: 1})
	report, err := client.LookupCompletedGame(context.Background(), 5)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if report.ExternalID != 5 || calls.Load() != 2 {
		t.Fatalf("expected a retry after 500, calls=%d", calls.Load())
	}
}

func TestLookupCompletedGameDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	client := newTestClient(t, handler, ClientConfig{MaxRetries: 3})
	if _, err := client.LookupCompletedGame(context.Background(), 5); err == nil {
		t.Fatalf("expected an error on 404")
	}
	if calls.Load() != 1 {
		t.Fatalf("client errors must not be retried, calls=%d", calls.Load())
	}
}

func TestCircuitBreakerShieldsProvider(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := newTestClient(t, handler, ClientConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.LookupCompletedGame(context.Background(), 5); err == nil {
		t.Fatalf("expected the first call to fail")
	}
	_, err := client.LookupCompletedGame(context.Background(), 5)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected the open circuit to reject, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("open circuit must not reach the provider, calls=%d", calls.Load())
	}
}

func TestMintJoinCodes(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/join-codes" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{"code":" lobby-1 "},{"code":""},{"code":"lobby-2"}]}`))
	})

	client := newTestClient(t, handler, ClientConfig{})
	codes, err := client.MintJoinCodes(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if len(codes) != 2 || codes[0] != "lobby-1" || codes[1] != "lobby-2" {
		t.Fatalf("unexpected codes: %v", codes)
	}
}

func TestMintJoinCodesShortBatchIsAnError(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"code":"lobby-1"}]}`))
	})

	client := newTestClient(t, handler, ClientConfig{})
	if _, err := client.MintJoinCodes(context.Background(), 1, 3); err == nil {
		t.Fatalf("expected an error for a short mint batch")
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.LookupCompletedGame(context.Background(), 0); err == nil {
		t.Fatalf("expected an error for a zero external id")
	}
	if _, err := client.MintJoinCodes(context.Background(), 0, 1); err == nil {
		t.Fatalf("expected an error for a zero season id")
	}
	if _, err := client.MintJoinCodes(context.Background(), 1, 0); err == nil {
		t.Fatalf("expected an error for a zero count")
	}
}
