package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/lingua-hq/lingua-digest/internal/catalog"
	"github.com/lingua-hq/lingua-digest/internal/logger"
	"github.com/lingua-hq/lingua-digest/pkg/httpclient"
)

const fetchUserAgent = "Mozilla/5.0 (compatible; lingua-digest/1.0; +https://github.com/lingua-hq/lingua-digest)"

// Fetcher pulls and parses RSS/Atom sources concurrently. Sources never share
// mutable state; each fetch gets its own timeout, and results are reassembled
// into catalog declaration order so the overall fetch order stays
// deterministic.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	workers int
	log     logger.Logger
}

// NewFetcher builds a fetcher with a per-source timeout and a worker ceiling.
func NewFetcher(timeout time.Duration, workers int, log logger.Logger) *Fetcher {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Fetcher{
		client:  httpclient.NewStdClient(timeout),
		timeout: timeout,
		workers: workers,
		log:     log,
	}
}

// FetchAll retrieves every source and returns the posts flattened in
// declaration order, plus one Outcome per source. A failing source is
// recorded and skipped, never raised.
func (f *Fetcher) FetchAll(ctx context.Context, sources []catalog.Source) ([]RawPost, []Outcome) {
	perSource := make([][]RawPost, len(sources))
	outcomes := make([]Outcome, len(sources))

	jobs := make(chan int, len(sources))

	workers := f.workers
	if len(sources) < workers {
		workers = len(sources)
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				src := sources[i]
				posts, err := f.fetchSource(ctx, src)
				if err != nil {
					reason := strings.Join(strings.Fields(err.Error()), " ")
					f.log.WarnObj("feed fetch failed", "fetch_error", map[string]any{
						"locator": src.Locator,
						"reason":  reason,
					})
					outcomes[i] = failedOutcome(src, reason)
					continue
				}
				perSource[i] = posts
				outcomes[i] = okOutcome(src, len(posts))
			}
		}()
	}

	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var posts []RawPost
	for _, batch := range perSource {
		posts = append(posts, batch...)
	}
	return posts, outcomes
}

func (f *Fetcher) fetchSource(ctx context.Context, src catalog.Source) ([]RawPost, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = fetchUserAgent

	parsed, err := parser.ParseURLWithContext(src.Locator, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.Locator, err)
	}

	return postsFromFeed(parsed, src), nil
}

func postsFromFeed(parsed *gofeed.Feed, src catalog.Source) []RawPost {
	var posts []RawPost
	for _, item := range parsed.Items {
		link := item.Link
		if link == "" {
			link = parsed.Link
		}
		if link == "" {
			continue
		}

		title := strings.TrimSpace(item.Title)
		body := normalizeBody(itemHTML(item))
		if body == "" {
			body = title
		}
		if title == "" {
			title = "New post"
		}

		posts = append(posts, RawPost{
			Source:      src,
			ID:          itemID(item, src.Locator, title, link),
			Title:       title,
			Link:        link,
			PublishedAt: itemPublishedTime(item),
			Body:        body,
		})
	}
	return posts
}

// itemHTML extracts the richest body the entry offers: Atom content first,
// then the RSS description/summary.
func itemHTML(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

func itemID(item *gofeed.Item, locator, title, link string) string {
	if item.GUID != "" {
		return item.GUID
	}
	return synthesizeID(locator, title, link)
}

func itemPublishedTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}
