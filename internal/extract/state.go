package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
)

// NextDataSelector locates the hydration payload of Next.js rendered pages.
const NextDataSelector = "script#__NEXT_DATA__"

// TextSource reads the text content of the first element matching selector,
// waiting at most timeout for it to appear.
type TextSource interface {
	TextContent(selector string, timeout time.Duration) (string, error)
}

// EmbeddedState reads and parses the JSON document injected into a rendered page.
func EmbeddedState(src TextSource, selector string, wait time.Duration) (any, error) {
	raw, err := src.TextContent(selector, wait)
	if err != nil {
		return nil, NewExtractionError(ReasonPayloadNotFound, err)
	}
	return ParseJSON(raw)
}

// StateFromHTML does what EmbeddedState does on an already captured document.
func StateFromHTML(html, selector string) (any, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, NewExtractionError(ReasonPayloadNotFound, err)
	}
	node := doc.Find(selector).First()
	if node.Length() == 0 {
		return nil, NewExtractionError(ReasonPayloadNotFound, nil)
	}
	return ParseJSON(node.Text())
}

// ParseJSON decodes a payload into generic maps and slices.
func ParseJSON(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, NewExtractionError(ReasonPayloadNotFound, nil)
	}
	var doc any
	if err := sonic.UnmarshalString(raw, &doc); err != nil {
		return nil, NewExtractionError(ReasonMalformedJSON, err)
	}
	return doc, nil
}
