// Package transfermarkt reads player profiles from Transfermarkt's server-rendered
// pages and companion ceapi endpoints.
package transfermarkt

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc"

	"matchdata-scraper/internal/extract"
	"matchdata-scraper/internal/logging"
	"matchdata-scraper/internal/model"
)

const (
	DefaultCEAPIBaseURL = "https://www.transfermarkt.us/ceapi"
	DefaultUserAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"
)

var (
	contractRe   = regexp.MustCompile(`(?s)Contract expires:\s*([^\n]*\S)`)
	birthplaceRe = regexp.MustCompile(`(?s)Place of birth:.*?([A-Za-z\s]+),`)
	agentRe      = regexp.MustCompile(`(?s)Agent:.*?([A-Za-z\s./-]+?)\n`)
	heightRe     = regexp.MustCompile(`(?s)Height:.*?(\d,\d{2}[\s\x{00a0}]?m)`)
)

type Options struct {
	CEAPIBaseURL string
	UserAgent    string
	Timeout      time.Duration
	Logger       *logging.Logger
}

type Client struct {
	http *http.Client
	opts Options
	log  *logging.Logger
}

var _ model.Fetcher[model.PlayerProfile] = (*Client)(nil)

func New(opts Options) *Client {
	if opts.CEAPIBaseURL == "" {
		opts.CEAPIBaseURL = DefaultCEAPIBaseURL
	}
	opts.CEAPIBaseURL = strings.TrimRight(opts.CEAPIBaseURL, "/")
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Client{
		http: &http.Client{Timeout: opts.Timeout},
		opts: opts,
		log:  opts.Logger.With("provider", "transfermarkt"),
	}
}

// FetchPlayer reads the profile page and its three companion documents. A page that
// cannot be read yields EmptyPlayerProfile; a failed companion only empties its own field.
func (c *Client) FetchPlayer(ctx context.Context, playerURL string) model.PlayerProfile {
	log := c.log.With("url", playerURL)

	playerID := PlayerIDFromURL(playerURL)
	if playerID == "" {
		log.Warn("no player id in url")
		return model.EmptyPlayerProfile("", extract.ReasonMissingPlayerID)
	}

	body, err := c.get(ctx, playerURL, "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	if err != nil {
		log.Warn("could not fetch player page", "error", err)
		return model.EmptyPlayerProfile(playerID, extract.ReasonPageFetchFailed)
	}
	profile, err := parseProfile(playerID, body)
	if err != nil {
		log.Warn("could not parse player page", "error", err)
		return model.EmptyPlayerProfile(playerID, extract.Reason(err))
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		profile.MarketValueHistory = c.companion(ctx, "marketValueDevelopment/graph/"+playerID)
	})
	wg.Go(func() {
		profile.TransferHistory = c.companion(ctx, "transferHistory/list/"+playerID)
	})
	wg.Go(func() {
		profile.PerformanceData = c.companion(ctx, "player/"+playerID+"/performance")
	})
	wg.Wait()

	log.Info("scraped player", "playerId", playerID, "name", profile.PlayerName)
	return profile
}

// Fetch makes Client a model.Fetcher.
func (c *Client) Fetch(ctx context.Context, locator string) model.PlayerProfile {
	return c.FetchPlayer(ctx, locator)
}

// PlayerIDFromURL returns the last path segment of a profile URL.
func PlayerIDFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	path := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return strings.TrimSpace(path)
}

func parseProfile(playerID string, body []byte) (model.PlayerProfile, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.PlayerProfile{}, extract.NewExtractionError(extract.ReasonUnexpectedPayload, err)
	}

	name := model.NotAvailable
	if h1 := doc.Find("h1.data-header__headline-wrapper").First(); h1.Length() > 0 {
		h1 = h1.Clone()
		h1.Find("span.data-header__shirt-number").Remove()
		if text := strings.Join(strings.Fields(h1.Text()), " "); text != "" {
			name = text
		}
	}

	shirt := model.NotAvailable
	if span := doc.Find("span.data-header__shirt-number").First(); span.Length() > 0 {
		if text := strings.TrimSpace(strings.ReplaceAll(span.Text(), "#", "")); text != "" {
			shirt = text
		}
	}

	text := doc.Text()
	return model.PlayerProfile{
		PlayerID:           playerID,
		PlayerName:         name,
		ShirtNumber:        shirt,
		ContractExpiry:     extract.MatchField(contractRe, text),
		Birthplace:         extract.MatchField(birthplaceRe, text),
		Agent:              extract.MatchField(agentRe, text),
		Height:             extract.MatchField(heightRe, text),
		MarketValueHistory: model.EmptyDocument(),
		TransferHistory:    model.EmptyDocument(),
		PerformanceData:    model.EmptyDocument(),
	}, nil
}

func (c *Client) companion(ctx context.Context, endpoint string) any {
	endpointURL := c.opts.CEAPIBaseURL + "/" + endpoint
	body, err := c.get(ctx, endpointURL, "application/json, text/plain, */*")
	if err != nil {
		c.log.Warn("companion request failed", "url", endpointURL, "error", err)
		return model.EmptyDocument()
	}
	var doc any
	if err := sonic.Unmarshal(body, &doc); err != nil || doc == nil {
		c.log.Warn("companion response is not JSON", "url", endpointURL, "error", err)
		return model.EmptyDocument()
	}
	return doc
}

func (c *Client) get(ctx context.Context, target, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request %s", target)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("get %s: status %d", target, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", target)
	}
	return body, nil
}
