package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/cockroachdb/errors"
)

// Page is the set of rendered-page capabilities the adapters rely on. Every step
// takes its own wait; exceeding it yields an error matching ErrTimeout.
type Page interface {
	Navigate(url string, timeout time.Duration) error
	TextContent(selector string, timeout time.Duration) (string, error)
	Content() (string, error)
	// ClickByText clicks the first visible element matching selector whose text
	// contains text. Not finding one within timeout is reported as false, not an error.
	ClickByText(selector, text string, timeout time.Duration) (bool, error)
	Type(selector, value string, timeout time.Duration) error
	// WaitForLink returns the href of the first visible anchor whose href contains
	// hrefContains and whose text contains text, case-insensitively.
	WaitForLink(hrefContains, text string, timeout time.Duration) (string, error)
	// FetchJSON issues fetch(url) from inside the page and returns the response body.
	FetchJSON(url string, timeout time.Duration) ([]byte, error)
}

const pollInterval = 250 * time.Millisecond

const contentTimeout = 10 * time.Second

type chromePage struct {
	ctx context.Context
}

func (p *chromePage) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (p *chromePage) Navigate(url string, timeout time.Duration) error {
	return stepError("navigate "+url, p.run(timeout, chromedp.Navigate(url)))
}

func (p *chromePage) TextContent(selector string, timeout time.Duration) (string, error) {
	var text string
	if err := p.run(timeout, chromedp.TextContent(selector, &text, chromedp.ByQuery)); err != nil {
		return "", stepError("text content "+selector, err)
	}
	return text, nil
}

func (p *chromePage) Content() (string, error) {
	var html string
	if err := p.run(contentTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", stepError("page content", err)
	}
	return html, nil
}

func (p *chromePage) ClickByText(selector, text string, timeout time.Duration) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const wanted = %s.toLowerCase();
		for (const el of document.querySelectorAll(%s)) {
			const visible = !!(el.offsetWidth || el.offsetHeight || el.getClientRects().length);
			if (visible && (el.innerText || el.textContent || "").toLowerCase().includes(wanted)) {
				el.click();
				return true;
			}
		}
		return false;
	})()`, jsString(text), jsString(selector))

	clicked, err := p.poll(timeout, func(ctx context.Context) (bool, error) {
		var ok bool
		err := chromedp.Run(ctx, chromedp.Evaluate(script, &ok))
		return ok, err
	})
	if errors.Is(err, ErrTimeout) {
		return false, nil
	}
	if err != nil {
		return false, stepError("click "+selector, err)
	}
	return clicked, nil
}

func (p *chromePage) Type(selector, value string, timeout time.Duration) error {
	err := p.run(timeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	return stepError("type into "+selector, err)
}

func (p *chromePage) WaitForLink(hrefContains, text string, timeout time.Duration) (string, error) {
	script := fmt.Sprintf(`(() => {
		const wanted = %s.toLowerCase();
		for (const a of document.querySelectorAll('a[href*=' + JSON.stringify(%s) + ']')) {
			const visible = !!(a.offsetWidth || a.offsetHeight || a.getClientRects().length);
			if (visible && (a.innerText || a.textContent || "").toLowerCase().includes(wanted)) {
				return a.getAttribute("href") || "";
			}
		}
		return null;
	})()`, jsString(text), jsString(hrefContains))

	var href string
	_, err := p.poll(timeout, func(ctx context.Context) (bool, error) {
		var found *string
		if err := chromedp.Run(ctx, chromedp.Evaluate(script, &found)); err != nil {
			return false, err
		}
		if found == nil {
			return false, nil
		}
		href = *found
		return true, nil
	})
	if err != nil {
		return "", stepError("wait for link "+hrefContains, err)
	}
	return href, nil
}

func (p *chromePage) FetchJSON(url string, timeout time.Duration) ([]byte, error) {
	script := fmt.Sprintf(`fetch(%s, {credentials: "include"}).then(r => {
		if (!r.ok) { throw new Error("status " + r.status); }
		return r.text();
	})`, jsString(url))

	var body string
	err := p.run(timeout, chromedp.Evaluate(script, &body, func(params *runtime.EvaluateParams) *runtime.EvaluateParams {
		return params.WithAwaitPromise(true)
	}))
	if err != nil {
		return nil, stepError("fetch "+url, err)
	}
	return []byte(body), nil
}

// poll evaluates check until it reports done, the wait elapses (ErrTimeout) or the
// session dies.
func (p *chromePage) poll(timeout time.Duration, check func(ctx context.Context) (bool, error)) (bool, error) {
	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		done, err := check(ctx)
		if err != nil {
			if ctx.Err() != nil && p.ctx.Err() == nil {
				return false, errors.Mark(err, ErrTimeout)
			}
			return false, err
		}
		if done {
			return true, nil
		}
		select {
		case <-ctx.Done():
			if p.ctx.Err() != nil {
				return false, p.ctx.Err()
			}
			return false, errors.Mark(ctx.Err(), ErrTimeout)
		case <-ticker.C:
		}
	}
}

func jsString(s string) string {
	out, err := sonic.MarshalString(s)
	if err != nil {
		return `""`
	}
	return out
}
