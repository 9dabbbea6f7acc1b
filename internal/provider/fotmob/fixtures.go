package fotmob

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"matchdata-scraper/internal/browser"
	"matchdata-scraper/internal/extract"
	"matchdata-scraper/internal/model"
)

const (
	searchInputSelector = `input[placeholder="Search for team, player or league"]`
	teamLinkHref        = "/teams/"
	fixturesPath        = "props.pageProps.fixtures.allFixtures.fixtures"
)

var (
	ErrTeamNotFound = errors.New("team not found")
	// ErrSearchTimeout is returned marked with ErrTeamNotFound as well.
	ErrSearchTimeout       = errors.New("team search timed out")
	ErrNoCompletedFixtures = errors.New("no completed fixtures")
)

// RecentFixtures searches for team, opens its page and returns the ids of its most
// recent completed fixtures, newest first. Fewer than count ids is not an error.
func (c *Client) RecentFixtures(ctx context.Context, team string, count int) ([]string, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return nil, errors.Wrap(ErrTeamNotFound, "empty team name")
	}
	if count <= 0 {
		return nil, errors.Newf("count must be > 0, got %d", count)
	}

	log := c.log.With("team", team, "count", count)

	var ids []string
	err := c.launcher.WithSession(ctx, func(page browser.Page) error {
		if err := page.Navigate(c.opts.BaseURL+"/", c.opts.NavigateTimeout); err != nil {
			return extract.NewExtractionError(extract.ReasonPageFetchFailed, err)
		}

		log.Debug("searching for team")
		if err := page.Type(searchInputSelector, team, c.opts.SearchWait); err != nil {
			return searchError(team, err)
		}
		href, err := page.WaitForLink(teamLinkHref, team, c.opts.SearchWait)
		if err != nil {
			return searchError(team, err)
		}
		if strings.TrimSpace(href) == "" {
			return errors.Wrapf(ErrTeamNotFound, "%q has no team page link", team)
		}

		teamURL := c.absoluteURL(href)
		log.Debug("opening team page", "url", teamURL)
		if err := page.Navigate(teamURL, c.opts.NavigateTimeout); err != nil {
			return extract.NewExtractionError(extract.ReasonPageFetchFailed, err)
		}
		html, err := page.Content()
		if err != nil {
			return extract.NewExtractionError(extract.ReasonPageFetchFailed, err)
		}
		doc, err := extract.StateFromHTML(html, extract.NextDataSelector)
		if err != nil {
			return err
		}

		raw := extract.GetSlice(doc, fixturesPath)
		if len(raw) == 0 {
			return extract.NewExtractionError(extract.ReasonFixturesNotFound, nil)
		}
		ids, err = SelectRecent(ParseFixtures(raw), count)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(ids) < count {
		log.Warn("fewer completed fixtures than requested", "found", len(ids))
	}
	return ids, nil
}

func searchError(team string, err error) error {
	if errors.Is(err, browser.ErrTimeout) {
		return errors.Mark(errors.Wrapf(ErrSearchTimeout, "searching for %q", team), ErrTeamNotFound)
	}
	return errors.Wrapf(err, "searching for %q", team)
}

// ParseFixtures reads the fixture list of a team page. Entries without an id are skipped.
func ParseFixtures(raw []any) []model.FixtureRef {
	fixtures := make([]model.FixtureRef, 0, len(raw))
	for _, item := range raw {
		id := extract.GetID(item, "id")
		if id == "" {
			continue
		}
		kickoff, _ := extract.Lookup(item, "status.utcTime")
		fixtures = append(fixtures, model.FixtureRef{
			MatchID:   id,
			Finished:  extract.GetBool(item, "status.finished"),
			Cancelled: extract.GetBool(item, "status.cancelled"),
			Kickoff:   parseKickoff(kickoff),
		})
	}
	return fixtures
}

// SelectRecent keeps completed fixtures, orders them newest first (stable for equal
// kickoffs) and returns at most count ids.
func SelectRecent(fixtures []model.FixtureRef, count int) ([]string, error) {
	completed := make([]model.FixtureRef, 0, len(fixtures))
	for _, f := range fixtures {
		if f.Completed() {
			completed = append(completed, f)
		}
	}
	if len(completed) == 0 {
		return nil, ErrNoCompletedFixtures
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Kickoff.After(completed[j].Kickoff)
	})

	if count > len(completed) {
		count = len(completed)
	}
	ids := make([]string, 0, count)
	for _, f := range completed[:count] {
		ids = append(ids, f.MatchID)
	}
	return ids, nil
}

// parseKickoff accepts RFC 3339 strings and epoch milliseconds; anything else sorts last.
func parseKickoff(v any) time.Time {
	switch typed := v.(type) {
	case string:
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(typed))
		if err != nil {
			return time.Time{}
		}
		return t
	case float64:
		return time.UnixMilli(int64(typed)).UTC()
	default:
		return time.Time{}
	}
}
