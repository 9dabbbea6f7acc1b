package workflow

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"

	"matchdata-scraper/internal/model"
	"matchdata-scraper/internal/normalize"
)

var (
	ErrMissingTeams = errors.New("match yielded no teams")
	ErrSameTeam     = errors.New("home and away team must differ")
	ErrUnknownTeam  = errors.New("team is not part of either match")
)

// Comparison pairs two matches fetched side by side.
type Comparison struct {
	MatchA model.MatchData   `json:"matchA"`
	MatchB model.MatchData   `json:"matchB"`
	Teams  model.Teams       `json:"teams"`
	Shots  []model.ShotEvent `json:"shots"`
}

// Side is one selected team together with the match it was found in.
type Side struct {
	TeamID   model.TeamID      `json:"teamId"`
	Name     string            `json:"name"`
	MatchID  string            `json:"matchId"`
	Shots    []model.ShotEvent `json:"shots"`
	Goals    int               `json:"goals"`
	FullData map[string]any    `json:"fullData"`
}

type Selection struct {
	Home Side `json:"home"`
	Away Side `json:"away"`
}

// Compare fetches both matches concurrently in separate sessions and joins them.
// Both must have produced at least one team.
func (s *Service) Compare(ctx context.Context, urlA, urlB string) (Comparison, error) {
	var a, b model.MatchData
	var wg conc.WaitGroup
	wg.Go(func() { a = s.matches.FetchMatch(ctx, urlA) })
	wg.Go(func() { b = s.matches.FetchMatch(ctx, urlB) })
	wg.Wait()

	if len(a.Teams) == 0 {
		return Comparison{}, errors.Wrapf(ErrMissingTeams, "first match %s (%s)", urlA, a.Reason)
	}
	if len(b.Teams) == 0 {
		return Comparison{}, errors.Wrapf(ErrMissingTeams, "second match %s (%s)", urlB, b.Reason)
	}

	s.log.Info("compared matches", "matchA", a.MatchID, "matchB", b.MatchID)
	return Comparison{
		MatchA: a,
		MatchB: b,
		Teams:  normalize.CombinedTeams(a.Teams, b.Teams),
		Shots:  normalize.MergeShots(a.Shots, b.Shots),
	}, nil
}

// Select picks a home and an away team out of the combined teams. Each side is looked
// up in the first match first, then the second.
func (c Comparison) Select(homeID, awayID model.TeamID) (Selection, error) {
	if homeID == awayID {
		return Selection{}, ErrSameTeam
	}
	home, err := c.side(homeID)
	if err != nil {
		return Selection{}, err
	}
	away, err := c.side(awayID)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Home: home, Away: away}, nil
}

func (c Comparison) side(id model.TeamID) (Side, error) {
	var match model.MatchData
	switch {
	case c.MatchA.Teams[id] != "":
		match = c.MatchA
	case c.MatchB.Teams[id] != "":
		match = c.MatchB
	default:
		return Side{}, errors.Wrapf(ErrUnknownTeam, "team %s", id)
	}

	shots := normalize.ShotsForTeam(match.Shots, id)
	goals := 0
	for _, shot := range shots {
		if shot.IsGoal() {
			goals++
		}
	}
	return Side{
		TeamID:   id,
		Name:     c.Teams[id],
		MatchID:  match.MatchID,
		Shots:    shots,
		Goals:    goals,
		FullData: match.FullData,
	}, nil
}
