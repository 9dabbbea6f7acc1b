package extract

import (
	"github.com/cockroachdb/errors"
)

// Extraction failure reasons. page-fetch-failed marks an unreachable source; the others
// a reachable one whose content was unusable.
const (
	ReasonPayloadNotFound   = "payload-not-found"
	ReasonMalformedJSON     = "malformed-json"
	ReasonMissingMatchID    = "missing-match-id"
	ReasonMissingEventID    = "missing-event-id"
	ReasonMissingPlayerID   = "missing-player-id"
	ReasonFixturesNotFound  = "fixtures-not-found"
	ReasonPageFetchFailed   = "page-fetch-failed"
	ReasonUnexpectedPayload = "unexpected-payload"
)

// ErrExtraction matches every *ExtractionError through errors.Is.
var ErrExtraction = errors.New("extraction failed")

// ExtractionError reports that an expected JSON or DOM element was absent or malformed.
type ExtractionError struct {
	Reason string
	Cause  error
}

func NewExtractionError(reason string, cause error) *ExtractionError {
	return &ExtractionError{Reason: reason, Cause: cause}
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return "extraction: " + e.Reason + ": " + e.Cause.Error()
	}
	return "extraction: " + e.Reason
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// HasReason reports whether err carries an ExtractionError with the given reason.
func HasReason(err error, reason string) bool {
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		return false
	}
	return extractionErr.Reason == reason
}

// Reason returns a short human-readable reason for err, preferring the extraction reason.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Reason
	}
	return err.Error()
}
