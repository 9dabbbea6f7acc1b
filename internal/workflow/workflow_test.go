package workflow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchdata-scraper/internal/logging"
	"matchdata-scraper/internal/model"
)

type fakeSource struct {
	byURL    map[string]model.MatchData
	byID     map[string]model.MatchData
	fixtures []string
	fixErr   error

	mu       sync.Mutex
	inflight int32
	peak     int32
	calls    atomic.Int32
}

func (f *fakeSource) FetchMatch(_ context.Context, matchURL string) model.MatchData {
	f.calls.Add(1)
	if data, ok := f.byURL[matchURL]; ok {
		return data
	}
	return model.EmptyMatchData("payload-not-found")
}

func (f *fakeSource) FetchMatchByID(_ context.Context, id string) model.MatchData {
	f.mu.Lock()
	f.inflight++
	if f.inflight > f.peak {
		f.peak = f.inflight
	}
	f.mu.Unlock()

	time.Sleep(10 * time.Millisecond)

	f.mu.Lock()
	f.inflight--
	f.mu.Unlock()

	if data, ok := f.byID[id]; ok {
		return data
	}
	return model.EmptyMatchData("missing-match-id")
}

func (f *fakeSource) RecentFixtures(context.Context, string, int) ([]string, error) {
	return f.fixtures, f.fixErr
}

func matchWith(id string, teams model.Teams, shots ...model.ShotEvent) model.MatchData {
	if shots == nil {
		shots = []model.ShotEvent{}
	}
	return model.MatchData{
		MatchID:  id,
		Shots:    shots,
		Teams:    teams,
		FullData: map[string]any{model.FullDataStats: map[string]any{"match": id}},
	}
}

func TestCompare_JoinsBothMatches(t *testing.T) {
	t.Parallel()

	src := &fakeSource{byURL: map[string]model.MatchData{
		"a": matchWith("100", model.Teams{"1": "Arsenal", "2": "Chelsea"},
			model.ShotEvent{X: 1, TeamID: "1", EventType: model.EventGoal},
			model.ShotEvent{X: 2, TeamID: "2", EventType: model.EventMiss}),
		"b": matchWith("200", model.Teams{"2": "Chelsea FC", "3": "Everton"},
			model.ShotEvent{X: 3, TeamID: "3", EventType: model.EventGoal}),
	}}
	svc := New(src, 2, logging.NewNop())

	cmp, err := svc.Compare(context.Background(), "a", "b")
	require.NoError(t, err)

	assert.Equal(t, model.Teams{"1": "Arsenal", "2": "Chelsea FC", "3": "Everton"}, cmp.Teams)
	require.Len(t, cmp.Shots, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{cmp.Shots[0].X, cmp.Shots[1].X, cmp.Shots[2].X})
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestCompare_RequiresTeamsFromBoth(t *testing.T) {
	t.Parallel()

	src := &fakeSource{byURL: map[string]model.MatchData{
		"a": matchWith("100", model.Teams{"1": "Arsenal"}),
	}}
	svc := New(src, 2, logging.NewNop())

	_, err := svc.Compare(context.Background(), "a", "missing")
	assert.True(t, errors.Is(err, ErrMissingTeams))

	_, err = svc.Compare(context.Background(), "missing", "a")
	assert.True(t, errors.Is(err, ErrMissingTeams))
}

func TestComparison_Select(t *testing.T) {
	t.Parallel()

	src := &fakeSource{byURL: map[string]model.MatchData{
		"a": matchWith("100", model.Teams{"1": "Arsenal", "2": "Chelsea"},
			model.ShotEvent{X: 1, TeamID: "1", EventType: model.EventGoal},
			model.ShotEvent{X: 2, TeamID: "1", EventType: model.EventPost},
			model.ShotEvent{X: 3, TeamID: "2", EventType: model.EventMiss}),
		"b": matchWith("200", model.Teams{"3": "Everton", "4": "Fulham"},
			model.ShotEvent{X: 4, TeamID: "3", EventType: model.EventGoal},
			model.ShotEvent{X: 5, TeamID: "4", EventType: model.EventGoal}),
	}}
	cmp, err := New(src, 2, logging.NewNop()).Compare(context.Background(), "a", "b")
	require.NoError(t, err)

	sel, err := cmp.Select("1", "3")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", sel.Home.Name)
	assert.Equal(t, "100", sel.Home.MatchID)
	assert.Len(t, sel.Home.Shots, 2)
	assert.Equal(t, 1, sel.Home.Goals)
	assert.Equal(t, "200", sel.Away.MatchID)
	assert.Len(t, sel.Away.Shots, 1)
	assert.Equal(t, map[string]any{"match": "200"}, sel.Away.FullData[model.FullDataStats])

	_, err = cmp.Select("1", "1")
	assert.ErrorIs(t, err, ErrSameTeam)

	_, err = cmp.Select("1", "99")
	assert.ErrorIs(t, err, ErrUnknownTeam)
}

func TestRecentForm_KeepsFixtureOrderAndBoundsSessions(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		fixtures: []string{"5", "4", "3", "2", "1"},
		byID: map[string]model.MatchData{
			"5": matchWith("5", model.Teams{"1": "A"}),
			"4": matchWith("4", model.Teams{"1": "A"}),
			"3": matchWith("3", model.Teams{"1": "A"}),
			"1": matchWith("1", model.Teams{"1": "A"}),
		},
	}
	svc := New(src, 2, logging.NewNop())

	form, err := svc.RecentForm(context.Background(), "A", 5)
	require.NoError(t, err)
	require.Len(t, form, 5)

	assert.Equal(t, "5", form[0].MatchID)
	assert.Equal(t, "3", form[2].MatchID)
	assert.True(t, form[3].IsEmpty())
	assert.Equal(t, "1", form[4].MatchID)
	assert.LessOrEqual(t, src.peak, int32(2))
}

func TestRecentForm_FailedFetchKeepsFixtureID(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		fixtures: []string{"11", "12"},
		byID:     map[string]model.MatchData{"11": matchWith("11", model.Teams{"1": "A"})},
	}
	svc := New(src, 2, logging.NewNop())

	form, err := svc.RecentForm(context.Background(), "A", 2)
	require.NoError(t, err)
	require.Len(t, form, 2)

	assert.Equal(t, "11", form[0].MatchID)
	assert.Equal(t, "12", form[1].MatchID)
	assert.True(t, form[1].IsEmpty())
	assert.Equal(t, "missing-match-id", form[1].Reason)
}

func TestRecentForm_PropagatesFixtureErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("no completed fixtures")
	svc := New(&fakeSource{fixErr: boom}, 2, logging.NewNop())

	_, err := svc.RecentForm(context.Background(), "A", 3)
	assert.ErrorIs(t, err, boom)
}
