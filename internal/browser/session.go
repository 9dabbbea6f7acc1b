package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"matchdata-scraper/internal/logging"
)

// Launcher opens one isolated browser session per call.
type Launcher interface {
	WithSession(ctx context.Context, action func(Page) error) error
}

type Options struct {
	ExecPath  string
	Headless  bool
	UserAgent string
	Logger    *logging.Logger
}

// Chrome launches a fresh headless Chrome for every session. Sessions are never
// pooled or shared between calls.
type Chrome struct {
	opts  Options
	start func(ctx context.Context) (context.Context, context.CancelFunc, error)
}

func NewChrome(opts Options) *Chrome {
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	c := &Chrome{opts: opts}
	c.start = c.launch
	return c
}

// WithSession launches the browser, runs action against its only tab, and releases
// the browser exactly once however action exits.
func (c *Chrome) WithSession(ctx context.Context, action func(Page) error) error {
	sessionCtx, cancel, err := c.start(ctx)
	if err != nil {
		return &SessionError{Op: "launch", Err: err}
	}

	var once sync.Once
	release := func() { once.Do(cancel) }
	defer release()

	started := time.Now()
	err = action(&chromePage{ctx: sessionCtx})
	c.opts.Logger.Debug("browser session finished", "duration", time.Since(started), "error", err)

	if err != nil && sessionCtx.Err() != nil && ctx.Err() == nil {
		return &SessionError{Op: "run", Err: err}
	}
	return err
}

func (c *Chrome) launch(ctx context.Context) (context.Context, context.CancelFunc, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)

	logger := c.opts.Logger
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...), "source", "cdp")
		}),
	)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, nil, err
	}
	return browserCtx, cancel, nil
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", c.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1366, 900),
	)
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}
	if path := strings.TrimSpace(c.opts.ExecPath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	return opts
}
