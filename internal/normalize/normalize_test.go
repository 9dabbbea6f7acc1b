package normalize

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchdata-scraper/internal/model"
)

func TestTeams_DropsIncompleteEntries(t *testing.T) {
	t.Parallel()

	teams := Teams(
		map[string]any{"id": float64(8564), "name": "AC Milan"},
		map[string]any{"id": float64(8686), "name": ""},
	)
	assert.Equal(t, model.Teams{"8564": "AC Milan"}, teams)

	assert.Empty(t, Teams(nil, map[string]any{"name": "Roma"}))
	assert.Empty(t, Teams(map[string]any{"id": float64(0), "name": "Nobody"}, "junk"))
}

func TestShots_KeepsProviderFields(t *testing.T) {
	t.Parallel()

	shots := Shots([]any{
		map[string]any{"x": 94.2, "y": 33.1, "teamId": float64(8564), "eventType": "Goal", "playerName": "Leao", "expectedGoals": 0.31},
		"garbage",
		map[string]any{"x": "80.5", "teamId": "8686", "eventType": "Miss"},
	})
	require.Len(t, shots, 2)

	assert.Equal(t, model.TeamID("8564"), shots[0].TeamID)
	assert.True(t, shots[0].IsGoal())
	assert.Equal(t, "Leao", shots[0].Extra["playerName"])
	assert.InDelta(t, 80.5, shots[1].X, 1e-9)
	assert.Zero(t, shots[1].Y)

	raw, err := sonic.Marshal(shots[0])
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &decoded))
	assert.Equal(t, "8564", decoded["teamId"])
	assert.Equal(t, 0.31, decoded["expectedGoals"])
}

func TestMergeShots_PreservesOrder(t *testing.T) {
	t.Parallel()

	s1 := model.ShotEvent{X: 1, TeamID: "a"}
	s2 := model.ShotEvent{X: 2, TeamID: "a"}
	s3 := model.ShotEvent{X: 3, TeamID: "b"}

	assert.Equal(t, []model.ShotEvent{s1, s2, s3}, MergeShots([]model.ShotEvent{s1, s2}, []model.ShotEvent{s3}))
	assert.Empty(t, MergeShots(nil, nil))
	assert.NotNil(t, MergeShots(nil, nil))
}

func TestCombinedTeams_RightBiased(t *testing.T) {
	t.Parallel()

	a := model.Teams{"1": "Arsenal", "2": "Chelsea"}
	b := model.Teams{"2": "Chelsea FC", "3": "Everton"}
	combined := CombinedTeams(a, b)

	assert.Equal(t, model.Teams{"1": "Arsenal", "2": "Chelsea FC", "3": "Everton"}, combined)
	assert.Equal(t, "Chelsea", a["2"])
}

func TestShotsForTeam(t *testing.T) {
	t.Parallel()

	shots := []model.ShotEvent{{X: 1, TeamID: "a"}, {X: 2, TeamID: "b"}, {X: 3, TeamID: "a"}}
	got := ShotsForTeam(shots, "a")
	require.Len(t, got, 2)
	assert.Equal(t, 3.0, got[1].X)
	assert.Empty(t, ShotsForTeam(shots, "z"))
}
