// Package collector drives the search -> details -> normalize -> save
// pipeline across a list of text queries. Execution is deliberately
// sequential: the upstream provider rate-limits per key, and the
// configurable delays are the only mitigation.
package collector

import (
	"context"
	"log"
	"time"

	"open-places/internal/ingest"
	"open-places/internal/models"
	"open-places/internal/places"

	"github.com/google/uuid"
)

// PlacesAPI is the slice of the places client the collector needs
type PlacesAPI interface {
	TextSearch(ctx context.Context, query string, bias *places.LocationBias, limit int) ([]places.SearchPlace, error)
	Details(ctx context.Context, placeID string) (*places.PlaceDetail, error)
}

// Config holds collection run configuration
type Config struct {
	Limit       int           // max results per query (provider caps at 20)
	DetailDelay time.Duration // pause between per-place detail fetches
	QueryDelay  time.Duration // longer pause between queries
	Mode        ingest.SaveMode
}

// DefaultConfig returns the pacing used for bulk collection runs
func DefaultConfig() Config {
	return Config{
		Limit:       10,
		DetailDelay: 500 * time.Millisecond,
		QueryDelay:  time.Second,
		Mode:        ingest.ModeUpsert,
	}
}

// RunStats holds the aggregate counters of a collection run
type RunStats struct {
	Queries int
	Found   int
	Saved   int
}

// Collector orchestrates the collection pipeline
type Collector struct {
	api    PlacesAPI
	ingest *ingest.Service
	config Config
}

// New creates a new collector
func New(api PlacesAPI, ingestService *ingest.Service, config Config) *Collector {
	if config.Limit <= 0 {
		config.Limit = 10
	}
	return &Collector{
		api:    api,
		ingest: ingestService,
		config: config,
	}
}

// CollectQuery runs one query end to end: search, fetch details per result,
// normalize, and save the accumulated batch. A failed detail fetch falls
// back to the coarse search summary instead of dropping the place; a failed
// search returns zero counts with the error.
func (c *Collector) CollectQuery(ctx context.Context, query string, bias *places.LocationBias, limit int) (int, int, error) {
	if limit <= 0 {
		limit = c.config.Limit
	}

	results, err := c.api.TextSearch(ctx, query, bias, limit)
	if err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, nil
	}

	batch := make([]ingest.PlaceRecord, 0, len(results))
	for i, result := range results {
		if result.ID == "" {
			continue
		}

		detail, err := c.api.Details(ctx, result.ID)
		if err != nil {
			log.Printf("⚠️  Details failed for %s, keeping search summary: %v", result.ID, err)
			batch = append(batch, ingest.FromSearchResult(result))
		} else {
			batch = append(batch, ingest.FromDetail(result.ID, detail))
		}

		if i < len(results)-1 {
			c.pause(ctx, c.config.DetailDelay)
		}
	}

	saved, err := c.ingest.SavePlaces(batch, c.config.Mode)
	if err != nil {
		return len(results), 0, err
	}

	return len(results), saved, nil
}

// Run executes a full collection over a list of queries and records the
// aggregate counters. A failing query is logged and skipped; it never
// aborts the run, and batches already committed stay committed.
func (c *Collector) Run(ctx context.Context, queries []string) (*RunStats, error) {
	log.Printf("🗺️  Starting collection run over %d queries", len(queries))
	startedAt := time.Now().UTC()

	stats := &RunStats{Queries: len(queries)}
	for i, query := range queries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		log.Printf("[%d/%d] Searching: %s", i+1, len(queries), query)
		found, saved, err := c.CollectQuery(ctx, query, nil, c.config.Limit)
		if err != nil {
			log.Printf("⚠️  Query %q failed: %v", query, err)
		}
		stats.Found += found
		stats.Saved += saved

		if i < len(queries)-1 {
			c.pause(ctx, c.config.QueryDelay)
		}
	}

	finishedAt := time.Now().UTC()
	run := &models.CollectionRun{
		ID:         uuid.New(),
		Queries:    stats.Queries,
		Found:      stats.Found,
		Saved:      stats.Saved,
		StartedAt:  startedAt,
		FinishedAt: &finishedAt,
	}
	if err := c.ingest.RecordRun(run); err != nil {
		log.Printf("⚠️  Failed to record collection run: %v", err)
	}

	log.Printf("🎉 Collection complete: found %d, saved %d", stats.Found, stats.Saved)
	return stats, nil
}

// pause sleeps for the given delay but wakes early on context cancellation
func (c *Collector) pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}
