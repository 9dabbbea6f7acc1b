package fotmob

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"matchdata-scraper/internal/browser"
	"matchdata-scraper/internal/extract"
	"matchdata-scraper/internal/model"
	"matchdata-scraper/internal/normalize"
)

// detailsSelector holds the raw body Chrome renders for a JSON response.
const detailsSelector = "pre"

var (
	fragmentIDRe = regexp.MustCompile(`#(\d+)\s*$`)
	numericIDRe  = regexp.MustCompile(`^\d+$`)
)

var _ model.Fetcher[model.MatchData] = (*Client)(nil)

// FetchMatch reads one match page. Any failure yields the canonical empty record
// with Reason set.
func (c *Client) FetchMatch(ctx context.Context, matchURL string) model.MatchData {
	log := c.log.With("url", matchURL)

	var data model.MatchData
	err := c.launcher.WithSession(ctx, func(page browser.Page) error {
		log.Debug("navigating to match page")
		if err := page.Navigate(matchURL, c.opts.NavigateTimeout); err != nil {
			return extract.NewExtractionError(extract.ReasonPageFetchFailed, err)
		}
		doc, err := extract.EmbeddedState(page, extract.NextDataSelector, c.opts.StateWait)
		if err != nil {
			return err
		}
		data, err = buildMatch(extract.GetPath(doc, "props.pageProps", nil))
		return err
	})
	if err != nil {
		log.Warn("could not scrape match", "reason", extract.Reason(err), "error", err)
		return model.EmptyMatchData(extract.Reason(err))
	}

	log.Info("scraped match", "matchId", data.MatchID, "shots", len(data.Shots))
	return data
}

// FetchMatchByID reads the matchDetails document for id through the browser. A failed
// fetch still carries id so callers can tell which fixture it was.
func (c *Client) FetchMatchByID(ctx context.Context, id string) model.MatchData {
	id = strings.TrimSpace(id)
	log := c.log.With("matchId", id)
	if !numericIDRe.MatchString(id) {
		log.Warn("refusing non-numeric match id")
		return emptyMatchFor(id, extract.ReasonMissingMatchID)
	}

	apiURL := c.opts.BaseURL + "/api/matchDetails?matchId=" + url.QueryEscape(id)

	var data model.MatchData
	err := c.launcher.WithSession(ctx, func(page browser.Page) error {
		log.Debug("navigating to match details", "url", apiURL)
		if err := page.Navigate(apiURL, c.opts.NavigateTimeout); err != nil {
			return extract.NewExtractionError(extract.ReasonPageFetchFailed, err)
		}
		raw, err := page.TextContent(detailsSelector, c.opts.StateWait)
		if err != nil {
			return extract.NewExtractionError(extract.ReasonPayloadNotFound, err)
		}
		doc, err := extract.ParseJSON(raw)
		if err != nil {
			return err
		}
		data, err = buildMatch(doc)
		return err
	})
	if err != nil {
		log.Warn("could not fetch match details", "reason", extract.Reason(err), "error", err)
		return emptyMatchFor(id, extract.Reason(err))
	}
	return data
}

// FetchShots resolves the match id of a FotMob match URL and returns the shot map of
// its matchDetails document.
func (c *Client) FetchShots(ctx context.Context, matchURL string) model.Shotmap {
	id := MatchIDFromURL(matchURL)
	if id == "" {
		c.log.Warn("no match id in url", "url", matchURL)
		return model.EmptyShotmap(extract.ReasonMissingMatchID)
	}

	data := c.FetchMatchByID(ctx, id)
	if data.Reason != "" {
		return model.EmptyShotmap(data.Reason)
	}
	return model.Shotmap{Shots: data.Shots, Teams: data.Teams}
}

func emptyMatchFor(id, reason string) model.MatchData {
	data := model.EmptyMatchData(reason)
	data.MatchID = id
	return data
}

// Fetch accepts either a match URL or a bare numeric match id.
func (c *Client) Fetch(ctx context.Context, locator string) model.MatchData {
	locator = strings.TrimSpace(locator)
	if numericIDRe.MatchString(locator) {
		return c.FetchMatchByID(ctx, locator)
	}
	return c.FetchMatch(ctx, locator)
}

// MatchIDFromURL returns the numeric fragment of a match URL (".../2gl9pd#4446402"),
// falling back to its last path segment. It returns "" for unparseable input.
func MatchIDFromURL(raw string) string {
	if m := fragmentIDRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != "matches" {
		return ""
	}
	return segments[len(segments)-1]
}

// buildMatch normalizes a page-props or matchDetails document. Only the match id is
// mandatory; every other section falls back to an empty value.
func buildMatch(root any) (model.MatchData, error) {
	matchID := extract.GetID(root, "general.matchId")
	if matchID == "" {
		return model.MatchData{}, extract.NewExtractionError(extract.ReasonMissingMatchID, nil)
	}

	table, ok := extract.Lookup(root, "tableData")
	if !ok {
		table = extract.GetPath(root, "content.table", model.EmptyDocument())
	}

	return model.MatchData{
		MatchID: matchID,
		Shots:   normalize.Shots(extract.GetSlice(root, "content.shotmap.shots")),
		Teams: normalize.Teams(
			extract.GetPath(root, "general.homeTeam", nil),
			extract.GetPath(root, "general.awayTeam", nil),
		),
		FullData: map[string]any{
			model.FullDataStats:      extract.GetPath(root, "content.stats", model.EmptyDocument()),
			model.FullDataMatchFacts: extract.GetPath(root, "content.matchFacts", model.EmptyDocument()),
			model.FullDataLineup:     extract.GetPath(root, "content.lineup", model.EmptyDocument()),
			model.FullDataH2H:        extract.GetPath(root, "content.h2h", model.EmptyDocument()),
			model.FullDataTable:      table,
		},
	}, nil
}
