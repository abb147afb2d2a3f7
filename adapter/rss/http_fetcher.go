package rss

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gator/domain"
)

const userAgent = "gator"

type HTTPFetcher struct{ client *http.Client }

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 20 * time.Second}}
}

// Fetch retrieves feedURL and validates the document. The channel must carry
// non-empty title, link and description or the whole fetch fails. Items are
// validated independently: any item missing title, link, description or
// pubDate is dropped without an error or a per-item diagnostic, and only the
// aggregate dropped count survives.
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) (*domain.FeedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %s", domain.ErrFetchFailed, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailed, err)
	}

	var rf rssFeed
	if err := xml.Unmarshal(body, &rf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFeed, err)
	}

	ch := rf.Channel
	if !validString(ch.Title) {
		return nil, fmt.Errorf("%w: missing channel title", domain.ErrInvalidFeed)
	}
	if !validString(ch.Link) {
		return nil, fmt.Errorf("%w: missing channel link", domain.ErrInvalidFeed)
	}
	if !validString(ch.Description) {
		return nil, fmt.Errorf("%w: missing channel description", domain.ErrInvalidFeed)
	}

	doc := &domain.FeedDocument{
		Title:       ch.Title,
		Link:        ch.Link,
		Description: ch.Description,
		Items:       make([]domain.FeedItem, 0, len(ch.Item)),
	}
	for _, it := range ch.Item {
		if !validString(it.Title) || !validString(it.Link) || !validString(it.Description) || !validString(it.PubDate) {
			doc.DroppedItems++
			continue
		}
		doc.Items = append(doc.Items, domain.FeedItem{
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			PubDate:     it.PubDate,
		})
	}
	return doc, nil
}

func validString(s string) bool {
	return strings.TrimSpace(s) != ""
}

type rssFeed struct {
	Channel struct {
		Title       string    `xml:"title"`
		Link        string    `xml:"link"`
		Description string    `xml:"description"`
		Item        []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}
