// Package model holds the canonical records every provider adapter produces.
package model

import (
	"context"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// NotAvailable is substituted for any text field that could not be located.
const NotAvailable = "N/A"

// Keys of MatchData.FullData.
const (
	FullDataStats      = "stats"
	FullDataMatchFacts = "matchFacts"
	FullDataLineup     = "lineup"
	FullDataH2H        = "h2h"
	FullDataTable      = "table"
)

// Canonical shot outcomes. Providers may emit others; they pass through untouched.
const (
	EventGoal         = "Goal"
	EventMiss         = "Miss"
	EventAttemptSaved = "AttemptSaved"
	EventPost         = "Post"
	EventBlocked      = "Blocked"
)

// TeamID is a provider-native team identifier. Ids are only comparable within one provider.
type TeamID string

// Teams maps team ids to display names. It never holds blank keys or values.
type Teams map[TeamID]string

// ShotEvent is one shot on a normalized pitch. Extra keeps every provider field as received.
type ShotEvent struct {
	X         float64
	Y         float64
	TeamID    TeamID
	EventType string
	Extra     map[string]any
}

func (s ShotEvent) IsGoal() bool {
	return s.EventType == EventGoal
}

// MarshalJSON re-emits the provider fields with the canonical ones layered on top.
func (s ShotEvent) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+4)
	for k, v := range s.Extra {
		out[k] = v
	}
	out["x"] = s.X
	out["y"] = s.Y
	out["teamId"] = string(s.TeamID)
	out["eventType"] = s.EventType
	return sonic.Marshal(out)
}

// MatchData is the canonical match record. The zero-failure shape is EmptyMatchData.
type MatchData struct {
	MatchID  string         `json:"matchId,omitempty"`
	Shots    []ShotEvent    `json:"shots"`
	Teams    Teams          `json:"teams"`
	FullData map[string]any `json:"fullData"`
	Reason   string         `json:"reason,omitempty"`
}

// EmptyMatchData is returned whenever extraction fails; reason explains why.
func EmptyMatchData(reason string) MatchData {
	return MatchData{
		Shots:    []ShotEvent{},
		Teams:    Teams{},
		FullData: map[string]any{},
		Reason:   reason,
	}
}

func (m MatchData) IsEmpty() bool {
	return len(m.Shots) == 0 && len(m.Teams) == 0 && len(m.FullData) == 0
}

// Shotmap is the SofaScore-shaped result: shots plus the two participants.
type Shotmap struct {
	Shots  []ShotEvent `json:"shots"`
	Teams  Teams       `json:"teams"`
	Reason string      `json:"reason,omitempty"`
}

func EmptyShotmap(reason string) Shotmap {
	return Shotmap{Shots: []ShotEvent{}, Teams: Teams{}, Reason: reason}
}

func (s Shotmap) IsEmpty() bool {
	return len(s.Shots) == 0 && len(s.Teams) == 0
}

// Fetcher is the capability every adapter offers: take a locator, return a canonical record.
type Fetcher[R any] interface {
	Fetch(ctx context.Context, locator string) R
}

// FormatID renders a decoded JSON id as a string. Missing, blank and zero ids yield "".
func FormatID(v any) string {
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		if typed == 0 {
			return ""
		}
		if typed == float64(int64(typed)) {
			return strconv.FormatInt(int64(typed), 10)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		if typed == 0 {
			return ""
		}
		return strconv.Itoa(typed)
	case int64:
		if typed == 0 {
			return ""
		}
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}
