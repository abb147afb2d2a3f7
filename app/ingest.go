package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"gator/domain"
)

// pubDateFormats are tried in order when parsing an item's publish date.
// Feeds in the wild are sloppy here, so parsing is best-effort: a date that
// matches none of them yields a null published-at, never a failed item.
var pubDateFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

// IngestStats is the per-feed outcome of one ingestion pass.
type IngestStats struct {
	Seen       int // items in the document, valid or not
	Skipped    int // items dropped during feed validation
	Inserted   int // posts newly created
	Duplicates int // posts already present (same URL), absorbed as no-ops
	Failed     int // items that hit a storage error other than a conflict
}

// Ingestor turns validated feed items into persisted posts.
type Ingestor struct {
	repo domain.Repository
	log  *log.Entry
}

func NewIngestor(repo domain.Repository) *Ingestor {
	return &Ingestor{repo: repo, log: log.WithField("component", "ingestor")}
}

// Ingest persists the document's items as posts owned by feedID. A duplicate
// URL means the article was already ingested, possibly through another feed
// or an earlier tick, and counts as success. Any other storage error is
// logged and counted but never stops the remaining items.
func (i *Ingestor) Ingest(ctx context.Context, feedID uuid.UUID, doc *domain.FeedDocument) IngestStats {
	stats := IngestStats{
		Seen:    len(doc.Items) + doc.DroppedItems,
		Skipped: doc.DroppedItems,
	}
	for _, item := range doc.Items {
		post := domain.Post{
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Description,
			PublishedAt: parsePubDate(item.PubDate),
			FeedID:      feedID,
		}
		_, err := i.repo.CreatePost(ctx, post)
		switch {
		case err == nil:
			stats.Inserted++
		case domain.IsConflict(err):
			stats.Duplicates++
		default:
			stats.Failed++
			i.log.WithError(err).WithField("url", item.Link).Warn("failed to save post")
		}
	}
	return stats
}

func parsePubDate(raw string) *time.Time {
	for _, layout := range pubDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}
