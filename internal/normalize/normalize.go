// Package normalize turns provider fragments into canonical records and combines them.
package normalize

import (
	"matchdata-scraper/internal/extract"
	"matchdata-scraper/internal/model"
)

// Teams builds the participant map from two {id, name} objects. Entries with a
// missing id or name are dropped.
func Teams(home, away any) model.Teams {
	teams := model.Teams{}
	for _, side := range []any{home, away} {
		id := extract.GetID(side, "id")
		name := extract.GetString(side, "name")
		if id == "" || name == "" {
			continue
		}
		teams[model.TeamID(id)] = name
	}
	return teams
}

// Shots converts FotMob-shaped shot objects (x, y, teamId, eventType at top level).
// Entries that are not objects are skipped.
func Shots(raw []any) []model.ShotEvent {
	shots := make([]model.ShotEvent, 0, len(raw))
	for _, item := range raw {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		x, _ := extract.GetFloat(fields, "x")
		y, _ := extract.GetFloat(fields, "y")
		shots = append(shots, model.ShotEvent{
			X:         x,
			Y:         y,
			TeamID:    model.TeamID(extract.GetID(fields, "teamId")),
			EventType: extract.GetString(fields, "eventType"),
			Extra:     fields,
		})
	}
	return shots
}

// MergeShots concatenates a then b, keeping each side's order.
func MergeShots(a, b []model.ShotEvent) []model.ShotEvent {
	out := make([]model.ShotEvent, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// CombinedTeams is the union of a and b; b wins on conflicting ids.
func CombinedTeams(a, b model.Teams) model.Teams {
	out := make(model.Teams, len(a)+len(b))
	for id, name := range a {
		out[id] = name
	}
	for id, name := range b {
		out[id] = name
	}
	return out
}

func ShotsForTeam(shots []model.ShotEvent, id model.TeamID) []model.ShotEvent {
	out := make([]model.ShotEvent, 0, len(shots))
	for _, shot := range shots {
		if shot.TeamID == id {
			out = append(out, shot)
		}
	}
	return out
}
