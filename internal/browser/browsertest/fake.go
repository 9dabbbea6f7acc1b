// Package browsertest provides scripted in-memory browser sessions for adapter tests.
package browsertest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"matchdata-scraper/internal/browser"
)

// Page answers every capability from fixed tables. Missing entries behave like an
// element or response that never shows up.
type Page struct {
	Texts     map[string]string
	HTML      string
	Buttons   []string
	Links     map[string]string
	Responses map[string]string
	NavErr    error

	mu      sync.Mutex
	Visited []string
	Typed   []string
	Fetched []string
}

func (p *Page) Navigate(url string, _ time.Duration) error {
	p.mu.Lock()
	p.Visited = append(p.Visited, url)
	p.mu.Unlock()
	return p.NavErr
}

func (p *Page) TextContent(selector string, _ time.Duration) (string, error) {
	text, ok := p.Texts[selector]
	if !ok {
		return "", errors.Mark(errors.Newf("no element matches %s", selector), browser.ErrTimeout)
	}
	return text, nil
}

func (p *Page) Content() (string, error) {
	return p.HTML, nil
}

func (p *Page) ClickByText(_, text string, _ time.Duration) (bool, error) {
	for _, label := range p.Buttons {
		if strings.Contains(strings.ToLower(label), strings.ToLower(text)) {
			return true, nil
		}
	}
	return false, nil
}

func (p *Page) Type(_, value string, _ time.Duration) error {
	p.mu.Lock()
	p.Typed = append(p.Typed, value)
	p.mu.Unlock()
	return nil
}

func (p *Page) WaitForLink(_, text string, _ time.Duration) (string, error) {
	for label, href := range p.Links {
		if strings.Contains(strings.ToLower(label), strings.ToLower(text)) {
			return href, nil
		}
	}
	return "", errors.Mark(errors.Newf("no link for %q", text), browser.ErrTimeout)
}

func (p *Page) FetchJSON(url string, _ time.Duration) ([]byte, error) {
	p.mu.Lock()
	p.Fetched = append(p.Fetched, url)
	p.mu.Unlock()
	body, ok := p.Responses[url]
	if !ok {
		return nil, errors.Newf("fetch %s: status 404", url)
	}
	return []byte(body), nil
}

// Launcher hands out pages built by NewPage, one per session.
type Launcher struct {
	NewPage   func() *Page
	LaunchErr error

	mu       sync.Mutex
	Sessions int
	Released int
}

// Single returns a launcher that hands the same page to every session.
func Single(page *Page) *Launcher {
	return &Launcher{NewPage: func() *Page { return page }}
}

func (l *Launcher) WithSession(_ context.Context, action func(browser.Page) error) error {
	if l.LaunchErr != nil {
		return &browser.SessionError{Op: "launch", Err: l.LaunchErr}
	}
	l.mu.Lock()
	l.Sessions++
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.Released++
		l.mu.Unlock()
	}()
	return action(l.NewPage())
}
