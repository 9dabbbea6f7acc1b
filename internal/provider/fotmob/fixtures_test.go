package fotmob

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchdata-scraper/internal/browser/browsertest"
	"matchdata-scraper/internal/extract"
	"matchdata-scraper/internal/model"
)

func kickoff(day int) time.Time {
	return time.Date(2025, time.March, day, 20, 0, 0, 0, time.UTC)
}

func TestSelectRecent_NewestCompletedFirst(t *testing.T) {
	t.Parallel()

	fixtures := []model.FixtureRef{
		{MatchID: "1", Finished: true, Kickoff: kickoff(1)},
		{MatchID: "2", Finished: true, Kickoff: kickoff(8)},
		{MatchID: "3", Finished: true, Kickoff: kickoff(15)},
		{MatchID: "4", Finished: true, Cancelled: true, Kickoff: kickoff(20)},
		{MatchID: "5", Finished: true, Kickoff: kickoff(22)},
		{MatchID: "6", Finished: false, Kickoff: kickoff(29)},
		{MatchID: "7", Finished: true, Kickoff: kickoff(4)},
	}

	ids, err := SelectRecent(fixtures, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "3", "2"}, ids)
}

func TestSelectRecent_StableForEqualKickoffs(t *testing.T) {
	t.Parallel()

	fixtures := []model.FixtureRef{
		{MatchID: "a", Finished: true, Kickoff: kickoff(3)},
		{MatchID: "b", Finished: true, Kickoff: kickoff(3)},
		{MatchID: "c", Finished: true},
	}
	ids, err := SelectRecent(fixtures, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestSelectRecent_NoCompletedFixtures(t *testing.T) {
	t.Parallel()

	_, err := SelectRecent([]model.FixtureRef{{MatchID: "1", Finished: false}, {MatchID: "2", Finished: true, Cancelled: true}}, 3)
	assert.ErrorIs(t, err, ErrNoCompletedFixtures)

	_, err = SelectRecent(nil, 3)
	assert.ErrorIs(t, err, ErrNoCompletedFixtures)
}

func TestParseFixtures(t *testing.T) {
	t.Parallel()

	doc, err := extract.ParseJSON(`[
		{"id": 4446402, "status": {"finished": true, "cancelled": false, "utcTime": "2025-03-09T19:45:00.000Z"}},
		{"status": {"finished": true}},
		{"id": "4446410", "status": {"finished": false, "utcTime": 1741550400000}}
	]`)
	require.NoError(t, err)

	fixtures := ParseFixtures(doc.([]any))
	require.Len(t, fixtures, 2)
	assert.Equal(t, "4446402", fixtures[0].MatchID)
	assert.True(t, fixtures[0].Completed())
	assert.Equal(t, time.Date(2025, time.March, 9, 19, 45, 0, 0, time.UTC), fixtures[0].Kickoff.UTC())
	assert.False(t, fixtures[1].Completed())
	assert.Equal(t, int64(1741550400000), fixtures[1].Kickoff.UnixMilli())
}

const teamPageHTML = `<html><head>
<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"fixtures":{"allFixtures":{"fixtures":[
	{"id": 11, "status": {"finished": true, "utcTime": "2025-02-01T15:00:00Z"}},
	{"id": 12, "status": {"finished": true, "utcTime": "2025-02-08T15:00:00Z"}},
	{"id": 13, "status": {"finished": false, "utcTime": "2025-02-15T15:00:00Z"}}
]}}}}}</script>
</head><body></body></html>`

func TestRecentFixtures_SearchesAndSelects(t *testing.T) {
	t.Parallel()

	page := &browsertest.Page{
		Links: map[string]string{"Arsenal\nEngland": "/teams/9825/overview/arsenal"},
		HTML:  teamPageHTML,
	}
	client, launcher := newTestClient(page)

	ids, err := client.RecentFixtures(context.Background(), "arsenal", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "11"}, ids)
	assert.Equal(t, []string{"https://fotmob.test/", "https://fotmob.test/teams/9825/overview/arsenal"}, page.Visited)
	assert.Equal(t, []string{"arsenal"}, page.Typed)
	assert.Equal(t, 1, launcher.Released)
}

func TestRecentFixtures_SearchTimeoutIsAlsoTeamNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(&browsertest.Page{})
	_, err := client.RecentFixtures(context.Background(), "Atlantis FC", 3)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSearchTimeout))
	assert.True(t, errors.Is(err, ErrTeamNotFound))
}

func TestRecentFixtures_EmptyHrefIsTeamNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(&browsertest.Page{Links: map[string]string{"Arsenal": "  "}})
	_, err := client.RecentFixtures(context.Background(), "Arsenal", 3)

	assert.True(t, errors.Is(err, ErrTeamNotFound))
	assert.False(t, errors.Is(err, ErrSearchTimeout))
}

func TestRecentFixtures_MissingFixtureList(t *testing.T) {
	t.Parallel()

	page := &browsertest.Page{
		Links: map[string]string{"Arsenal": "/teams/9825/overview/arsenal"},
		HTML:  `<html><script id="__NEXT_DATA__">{"props":{"pageProps":{}}}</script></html>`,
	}
	client, _ := newTestClient(page)
	_, err := client.RecentFixtures(context.Background(), "Arsenal", 3)

	assert.True(t, extract.HasReason(err, extract.ReasonFixturesNotFound))
}

func TestRecentFixtures_RejectsBadArguments(t *testing.T) {
	t.Parallel()

	client, launcher := newTestClient(&browsertest.Page{})

	_, err := client.RecentFixtures(context.Background(), "  ", 3)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = client.RecentFixtures(context.Background(), "Arsenal", 0)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTeamNotFound))
	assert.Equal(t, 0, launcher.Sessions)
}
