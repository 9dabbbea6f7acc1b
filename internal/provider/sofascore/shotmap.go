// Package sofascore reads shot maps from SofaScore event pages.
package sofascore

import (
	"context"
	"strings"
	"time"

	"matchdata-scraper/internal/browser"
	"matchdata-scraper/internal/extract"
	"matchdata-scraper/internal/logging"
	"matchdata-scraper/internal/model"
	"matchdata-scraper/internal/normalize"
)

const (
	DefaultAPIBaseURL = "https://api.sofascore.com/api/v1"
	consentSelector   = "button"
	consentLabel      = "AGREE"
)

var shotTypes = map[string]string{
	"goal":  model.EventGoal,
	"miss":  model.EventMiss,
	"save":  model.EventAttemptSaved,
	"block": model.EventBlocked,
	"post":  model.EventPost,
}

type Options struct {
	APIBaseURL      string
	NavigateTimeout time.Duration
	ConsentWait     time.Duration
	StateWait       time.Duration
	FetchTimeout    time.Duration
	Logger          *logging.Logger
}

type Client struct {
	launcher browser.Launcher
	opts     Options
	log      *logging.Logger
}

var _ model.Fetcher[model.Shotmap] = (*Client)(nil)

func New(launcher browser.Launcher, opts Options) *Client {
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = DefaultAPIBaseURL
	}
	opts.APIBaseURL = strings.TrimRight(opts.APIBaseURL, "/")
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = 30 * time.Second
	}
	if opts.ConsentWait <= 0 {
		opts.ConsentWait = 5 * time.Second
	}
	if opts.StateWait <= 0 {
		opts.StateWait = 7 * time.Second
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Client{
		launcher: launcher,
		opts:     opts,
		log:      opts.Logger.With("provider", "sofascore"),
	}
}

// FetchShotmap reads the event behind matchURL and its shot map. Any failure yields
// an empty Shotmap with Reason set.
func (c *Client) FetchShotmap(ctx context.Context, matchURL string) model.Shotmap {
	log := c.log.With("url", matchURL)

	var result model.Shotmap
	err := c.launcher.WithSession(ctx, func(page browser.Page) error {
		if err := page.Navigate(matchURL, c.opts.NavigateTimeout); err != nil {
			return extract.NewExtractionError(extract.ReasonPageFetchFailed, err)
		}

		clicked, err := page.ClickByText(consentSelector, consentLabel, c.opts.ConsentWait)
		if err != nil {
			return err
		}
		log.Debug("consent dialog", "clicked", clicked)

		doc, err := extract.EmbeddedState(page, extract.NextDataSelector, c.opts.StateWait)
		if err != nil {
			return err
		}
		event := extract.GetPath(doc, "props.pageProps.event", nil)
		eventID := extract.GetID(event, "id")
		if eventID == "" {
			return extract.NewExtractionError(extract.ReasonMissingEventID, nil)
		}

		homeID := extract.GetID(event, "homeTeam.id")
		awayID := extract.GetID(event, "awayTeam.id")
		teams := normalize.Teams(extract.GetPath(event, "homeTeam", nil), extract.GetPath(event, "awayTeam", nil))

		apiURL := c.opts.APIBaseURL + "/event/" + eventID + "/shotmap"
		body, err := page.FetchJSON(apiURL, c.opts.FetchTimeout)
		if err != nil {
			return extract.NewExtractionError(extract.ReasonPageFetchFailed, err)
		}
		payload, err := extract.ParseJSON(string(body))
		if err != nil {
			return err
		}

		result = model.Shotmap{
			Shots: Shots(extract.GetSlice(payload, "shotmap"), model.TeamID(homeID), model.TeamID(awayID)),
			Teams: teams,
		}
		return nil
	})
	if err != nil {
		log.Warn("could not scrape shotmap", "reason", extract.Reason(err), "error", err)
		return model.EmptyShotmap(extract.Reason(err))
	}

	if len(result.Shots) == 0 {
		log.Info("shotmap response contained no shots")
	}
	return result
}

// Fetch makes Client a model.Fetcher.
func (c *Client) Fetch(ctx context.Context, locator string) model.Shotmap {
	return c.FetchShotmap(ctx, locator)
}

// Shots maps SofaScore shot objects onto ShotEvent. The side comes from isHome and
// the outcome from shotType; unknown outcomes pass through unchanged.
func Shots(raw []any, homeID, awayID model.TeamID) []model.ShotEvent {
	shots := make([]model.ShotEvent, 0, len(raw))
	for _, item := range raw {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		x, _ := extract.GetFloat(fields, "playerCoordinates.x")
		y, _ := extract.GetFloat(fields, "playerCoordinates.y")

		teamID := awayID
		if extract.GetBool(fields, "isHome") {
			teamID = homeID
		}

		shotType := extract.GetString(fields, "shotType")
		eventType, known := shotTypes[strings.ToLower(shotType)]
		if !known {
			eventType = shotType
		}

		shots = append(shots, model.ShotEvent{
			X:         x,
			Y:         y,
			TeamID:    teamID,
			EventType: eventType,
			Extra:     fields,
		})
	}
	return shots
}
