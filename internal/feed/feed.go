package feed

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Entry is one feed item in document order. Title and Link are empty when the
// feed omits them.
type Entry struct {
	Title string
	Link  string
}

// Fetcher retrieves the entries behind a single feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Entry, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser()}
}

func (f *RSSFetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		entries = append(entries, Entry{Title: item.Title, Link: item.Link})
	}
	return entries, nil
}
