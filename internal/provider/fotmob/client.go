// Package fotmob reads match data and team schedules from FotMob's rendered pages.
package fotmob

import (
	"strings"
	"time"

	"matchdata-scraper/internal/browser"
	"matchdata-scraper/internal/logging"
)

const DefaultBaseURL = "https://www.fotmob.com"

type Options struct {
	BaseURL         string
	NavigateTimeout time.Duration
	StateWait       time.Duration
	SearchWait      time.Duration
	Logger          *logging.Logger
}

// Client opens one browser session per call through its launcher.
type Client struct {
	launcher browser.Launcher
	opts     Options
	log      *logging.Logger
}

func New(launcher browser.Launcher, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = 60 * time.Second
	}
	if opts.StateWait <= 0 {
		opts.StateWait = 15 * time.Second
	}
	if opts.SearchWait <= 0 {
		opts.SearchWait = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	return &Client{
		launcher: launcher,
		opts:     opts,
		log:      opts.Logger.With("provider", "fotmob"),
	}
}

func (c *Client) absoluteURL(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return c.opts.BaseURL + href
}
