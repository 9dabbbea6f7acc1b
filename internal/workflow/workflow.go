// Package workflow composes the adapters into the multi-fetch operations the CLI and
// HTTP surface expose.
package workflow

import (
	"context"

	"matchdata-scraper/internal/logging"
	"matchdata-scraper/internal/model"
)

// MatchSource is the FotMob capability set the workflows need.
type MatchSource interface {
	FetchMatch(ctx context.Context, matchURL string) model.MatchData
	FetchMatchByID(ctx context.Context, id string) model.MatchData
	RecentFixtures(ctx context.Context, team string, count int) ([]string, error)
}

type Service struct {
	matches     MatchSource
	maxSessions int
	log         *logging.Logger
}

// New returns a Service that runs at most maxSessions browser sessions at once.
func New(matches MatchSource, maxSessions int, logger *logging.Logger) *Service {
	if maxSessions <= 0 {
		maxSessions = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		matches:     matches,
		maxSessions: maxSessions,
		log:         logger.With("component", "workflow"),
	}
}
