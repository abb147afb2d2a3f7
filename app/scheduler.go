package app

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"gator/domain"
)

// Scheduler drives the aggregation pipeline: every tick it selects the feed
// that has gone longest without a fetch, marks it fetched, fetches it and
// ingests the result.
//
// Ticks are serialized: the loop runs cycles one at a time on a single
// goroutine, and time.Ticker coalesces ticks that fire while a cycle is
// still in flight. That bounds outbound fetches to one at a time and keeps
// a slow feed from racing against itself when the interval is shorter than
// fetch latency; ticks missed during a long cycle are skipped, not queued.
type Scheduler struct {
	repo     domain.Repository
	fetcher  domain.Fetcher
	ingestor *Ingestor
	interval time.Duration
	log      *log.Entry
}

func NewScheduler(repo domain.Repository, fetcher domain.Fetcher, interval time.Duration) *Scheduler {
	return &Scheduler{
		repo:     repo,
		fetcher:  fetcher,
		ingestor: NewIngestor(repo),
		interval: interval,
		log:      log.WithField("component", "scheduler"),
	}
}

// Run executes one cycle immediately, then one per tick until ctx is
// cancelled. Cancellation is cooperative: an in-flight cycle finishes before
// Run returns. Fetch, parse and ingest errors abort only their own cycle.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.WithField("interval", s.interval.String()).Info("collecting feeds")

	// Ticks run on a context detached from the cancellation signal:
	// cancelling ctx stops future ticks but must not interrupt an in-flight
	// network call or item-level ingestion, so the cycle that has already
	// started always runs to completion before Run returns.
	work := context.WithoutCancel(ctx)

	s.tick(work)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("shutting down feed aggregator")
			return
		case <-ticker.C:
			s.tick(work)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	feed, err := s.repo.NextFeedToFetch(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Info("no feeds to fetch")
		} else {
			s.log.WithError(err).Error("selecting next feed")
		}
		return
	}

	flog := s.log.WithFields(log.Fields{"feed": feed.Name, "url": feed.URL})

	// Stamp before fetching so a slow or failing feed still rotates to the
	// back of the selection order instead of starving its siblings.
	if err := s.repo.MarkFeedFetched(ctx, feed.ID); err != nil {
		flog.WithError(err).Error("marking feed fetched")
		return
	}

	doc, err := s.fetcher.Fetch(ctx, feed.URL)
	if err != nil {
		flog.WithError(err).Warn("fetching feed")
		return
	}

	stats := s.ingestor.Ingest(ctx, feed.ID, doc)
	flog.WithFields(log.Fields{
		"seen":       stats.Seen,
		"skipped":    stats.Skipped,
		"inserted":   stats.Inserted,
		"duplicates": stats.Duplicates,
		"failed":     stats.Failed,
	}).Info("feed collected")
}
