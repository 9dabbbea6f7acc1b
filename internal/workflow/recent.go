package workflow

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"matchdata-scraper/internal/model"
)

// RecentForm resolves the team's most recent completed fixtures and fetches each of
// them. Results keep the fixture order, newest first, and every result carries its
// fixture id even when the fetch failed.
func (s *Service) RecentForm(ctx context.Context, team string, count int) ([]model.MatchData, error) {
	ids, err := s.matches.RecentFixtures(ctx, team, count)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.MatchData{}, nil
	}

	workerCount := s.maxSessions
	if workerCount > len(ids) {
		workerCount = len(ids)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	results := make([]model.MatchData, len(ids))
	var workers sync.WaitGroup
	for i, id := range ids {
		i, id := i, id
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			match := s.matches.FetchMatchByID(ctx, id)
			if match.MatchID == "" {
				match.MatchID = id
			}
			results[i] = match
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, errors.Wrap(err, "submit fixture fetch to worker pool")
		}
	}
	workers.Wait()

	empty := 0
	for _, match := range results {
		if match.IsEmpty() {
			empty++
		}
	}
	s.log.Info("fetched recent form", "team", team, "fixtures", len(ids), "empty", empty)
	return results, nil
}
