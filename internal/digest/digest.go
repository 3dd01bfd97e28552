package digest

import (
	"context"
	"html"
	"log/slog"
	"sync"
	"time"

	"github.com/readycatholic/readycatholic/internal/classify"
	"github.com/readycatholic/readycatholic/internal/config"
	"github.com/readycatholic/readycatholic/internal/feed"
)

const (
	defaultTitle = "No title"
	defaultLink  = "#"

	defaultWorkers = 4
)

// Headline is one classified entry ready for presentation. Title is stored
// HTML-escaped; Link passes through as-is.
type Headline struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
}

// Digest groups headlines by category. Every category key is always present,
// and each slice keeps fetch order.
type Digest struct {
	Categories map[classify.Category][]Headline `json:"categories"`
}

func New() *Digest {
	d := &Digest{Categories: make(map[classify.Category][]Headline, len(classify.All()))}
	for _, c := range classify.All() {
		d.Categories[c] = []Headline{}
	}
	return d
}

// Headlines returns one category's headlines in insertion order.
func (d *Digest) Headlines(c classify.Category) []Headline {
	return d.Categories[c]
}

// Total counts headlines across all categories.
func (d *Digest) Total() int {
	n := 0
	for _, hs := range d.Categories {
		n += len(hs)
	}
	return n
}

func (d *Digest) add(c classify.Category, h Headline) {
	d.Categories[c] = append(d.Categories[c], h)
}

// truncate enforces the category caps, keeping the earliest headlines.
func (d *Digest) truncate() {
	for c, hs := range d.Categories {
		if limit := classify.Cap(c); len(hs) > limit {
			d.Categories[c] = hs[:limit]
		}
	}
}

// Collector fetches configured sources and classifies their entries.
type Collector struct {
	Fetcher   feed.Fetcher
	PerSource int
	Timeout   time.Duration
	Workers   int
	Logger    *slog.Logger
}

func NewCollector(fetcher feed.Fetcher, cfg *config.Config) *Collector {
	return &Collector{
		Fetcher:   fetcher,
		PerSource: cfg.GetPerSourceLimit(),
		Timeout:   cfg.FetchTimeoutDuration(),
		Workers:   cfg.GetWorkers(),
		Logger:    slog.Default(),
	}
}

// Collect fetches every source and returns the classified digest. A source
// that fails or comes back empty is logged and skipped; it never affects the
// others. Fetches run concurrently, but entries are classified walking the
// sources in their given order, so the result does not depend on network
// timing. Caps apply once at the end, keeping the earliest headlines.
func (c *Collector) Collect(ctx context.Context, sources []config.Source) *Digest {
	d := New()
	if c.PerSource <= 0 {
		return d
	}

	results := make([][]feed.Entry, len(sources))
	sem := make(chan struct{}, c.workerCount())
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(i int, src config.Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			fctx := ctx
			if c.Timeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(ctx, c.Timeout)
				defer cancel()
			}

			entries, err := c.Fetcher.Fetch(fctx, src.URL)
			if err != nil {
				c.log().Error("fetch failed", "source", src.Name, "error", err)
				return
			}
			if len(entries) == 0 {
				c.log().Warn("no entries", "source", src.Name)
				return
			}
			c.log().Debug("fetched", "source", src.Name, "entries", len(entries))
			results[i] = entries
		}(i, src)
	}
	wg.Wait()

	for i, src := range sources {
		entries := results[i]
		if len(entries) > c.PerSource {
			entries = entries[:c.PerSource]
		}
		for pos, e := range entries {
			title := e.Title
			if title == "" {
				title = defaultTitle
			}
			link := e.Link
			if link == "" {
				link = defaultLink
			}
			cat := classify.Classify(title, src.Name, pos)
			d.add(cat, Headline{
				Title:  html.EscapeString(title),
				Link:   link,
				Source: src.Name,
			})
		}
	}
	d.truncate()

	c.log().Info("digest collected", "sources", len(sources), "headlines", d.Total())
	return d
}

func (c *Collector) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return defaultWorkers
}

func (c *Collector) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
