package calendar

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Fetcher retrieves booking feeds over HTTP through a FeedCache and parses
// them into busy intervals.
type Fetcher struct {
	httpClient *http.Client
	cache      FeedCache
	parser     *Parser
}

// NewFetcher creates a fetcher backed by the given cache. A nil cache
// disables caching.
func NewFetcher(cache FeedCache) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:  cache,
		parser: NewParser(),
	}
}

// BusyIntervals returns the busy intervals for a feed URL. Fetch and parse
// problems degrade to an empty result: availability is advisory and a dead
// feed must never block the caller.
func (f *Fetcher) BusyIntervals(ctx context.Context, url string) []BusyInterval {
	if url == "" {
		return nil
	}

	body, err := f.feedBody(ctx, url)
	if err != nil {
		log.Printf("Calendar feed unavailable (%s): %v", url, err)
		return nil
	}

	return f.parser.Parse(strings.NewReader(body))
}

// feedBody returns the raw feed text, from cache when fresh.
func (f *Fetcher) feedBody(ctx context.Context, url string) (string, error) {
	if f.cache != nil {
		if body, ok := f.cache.Get(url); ok {
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building feed request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading feed: %w", err)
	}

	body := string(data)
	if f.cache != nil {
		f.cache.Set(url, body)
	}
	return body, nil
}
