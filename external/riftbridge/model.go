package riftbridge

import (
	"sort"
	"strings"
	"time"

	"github.com/scrimleague/series-engine/internal/usecase"
)

type gameEnvelope struct {
	Data gamePayload `json:"data"`
}

type gamePayload struct {
	ID          int64         `json:"id"`
	JoinCode    string        `json:"join_code"`
	DurationSec int           `json:"duration_sec"`
	Map         string        `json:"map"`
	Mode        string        `json:"mode"`
	Queue       string        `json:"queue"`
	Version     string        `json:"version"`
	StartedAt   string        `json:"started_at"`
	Sides       []sidePayload `json:"sides"`
}

type sidePayload struct {
	SideID  int64           `json:"side_id"`
	Winner  any             `json:"winner"`
	Bans    []banPayload    `json:"bans"`
	Players []playerPayload `json:"players"`
}

// winner tolerates the provider's habit of flipping between booleans,
// numbers, and strings across API versions.
func (s sidePayload) winner() bool {
	switch typed := s.Winner.(type) {
	case bool:
		return typed
	case float64:
		return typed > 0
	case int:
		return typed > 0
	case int64:
		return typed > 0
	case string:
		v := strings.ToLower(strings.TrimSpace(typed))
		return v == "true" || v == "1" || v == "yes" || v == "win"
	default:
		return false
	}
}

type banPayload struct {
	Selection string `json:"selection"`
	Position  int    `json:"position"`
}

type playerPayload struct {
	ParticipantID     string `json:"participant_id"`
	Champion          string `json:"champion"`
	Kills             int    `json:"kills"`
	Deaths            int    `json:"deaths"`
	Assists           int    `json:"assists"`
	GoldEarned        int    `json:"gold_earned"`
	MinionsKilled     int    `json:"minions_killed"`
	DamageToChampions int    `json:"damage_to_champions"`
	VisionScore       int    `json:"vision_score"`
}

type mintRequest struct {
	SeasonID int64 `json:"season_id"`
	Count    int   `json:"count"`
}

type mintEnvelope struct {
	Data []joinCodePayload `json:"data"`
}

type joinCodePayload struct {
	Code string `json:"code"`
}

func mapGamePayload(source gamePayload) usecase.ExternalGameReport {
	report := usecase.ExternalGameReport{
		ExternalID:  source.ID,
		JoinCode:    strings.TrimSpace(source.JoinCode),
		DurationSec: source.DurationSec,
		Map:         strings.TrimSpace(source.Map),
		Mode:        strings.TrimSpace(source.Mode),
		Queue:       strings.TrimSpace(source.Queue),
		Version:     strings.TrimSpace(source.Version),
		Sides:       make([]usecase.ExternalSideReport, 0, len(source.Sides)),
	}
	if parsed := parseProviderDateTime(source.StartedAt); parsed != nil {
		report.StartedAt = *parsed
	}

	sides := make([]sidePayload, len(source.Sides))
	copy(sides, source.Sides)
	sort.SliceStable(sides, func(i, j int) bool { return sides[i].SideID < sides[j].SideID })

	for _, side := range sides {
		report.Sides = append(report.Sides, mapSidePayload(side))
	}
	return report
}

func mapSidePayload(source sidePayload) usecase.ExternalSideReport {
	bans := make([]banPayload, 0, len(source.Bans))
	for _, ban := range source.Bans {
		if strings.TrimSpace(ban.Selection) == "" {
			continue
		}
		bans = append(bans, ban)
	}
	sort.SliceStable(bans, func(i, j int) bool { return bans[i].Position < bans[j].Position })

	out := usecase.ExternalSideReport{
		SideID:   source.SideID,
		IsWinner: source.winner(),
		Bans:     make([]string, 0, len(bans)),
		Players:  make([]usecase.ExternalPlayerReport, 0, len(source.Players)),
	}
	for _, ban := range bans {
		out.Bans = append(out.Bans, strings.TrimSpace(ban.Selection))
	}
	for _, player := range source.Players {
		if strings.TrimSpace(player.ParticipantID) == "" {
			continue
		}
		out.Players = append(out.Players, usecase.ExternalPlayerReport{
			ParticipantID:     strings.TrimSpace(player.ParticipantID),
			Champion:          strings.TrimSpace(player.Champion),
			Kills:             player.Kills,
			Deaths:            player.Deaths,
			Assists:           player.Assists,
			GoldEarned:        player.GoldEarned,
			MinionsKilled:     player.MinionsKilled,
			DamageToChampions: player.DamageToChampions,
			VisionScore:       player.VisionScore,
		})
	}
	return out
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		time.RFC3339,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}
