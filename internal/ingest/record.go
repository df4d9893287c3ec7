// Package ingest turns raw provider payloads into canonical place records
// and applies them to the store with idempotent upsert semantics.
package ingest

import (
	"fmt"
	"time"
)

// PlaceRecord is the canonical, provider-agnostic shape of a place. Text
// fields use the empty string for "absent"; numeric fields use nil. Absent
// fields never overwrite stored values during upsert.
type PlaceRecord struct {
	PlaceID      string         `json:"place_id"`
	Name         string         `json:"name,omitempty"`
	Address      string         `json:"address,omitempty"`
	Lat          *float64       `json:"lat,omitempty"`
	Lng          *float64       `json:"lng,omitempty"`
	Rating       *float64       `json:"rating,omitempty"`
	ReviewsCount *int           `json:"reviews_count,omitempty"`
	Website      string         `json:"website,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	Types        []string       `json:"types,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	OpeningHours []string       `json:"opening_hours,omitempty"` // informational only, not persisted
	Reviews      []ReviewRecord `json:"reviews,omitempty"`
}

// ReviewRecord is the canonical shape of a review carried inside a place
// record
type ReviewRecord struct {
	ID          string   `json:"id,omitempty"`
	Source      string   `json:"source,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Text        string   `json:"text,omitempty"`
	Lang        string   `json:"lang,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"` // ISO-8601, resolved at save time
	Author      string   `json:"author,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// ReviewID returns the review's id, synthesizing a deterministic
// "source:place_id:index" id when the provider supplied none. Identical
// input always yields the same id, which is what makes re-ingestion safe.
func ReviewID(source, placeID string, index int) string {
	return fmt.Sprintf("%s:%s:%d", source, placeID, index)
}

// timestampLayouts covers the variants we actually see: RFC 3339 with Z
// or offset (Places publishTime), the Graph API's colon-less offset form,
// and the offset-less ISO form callers submit through the save endpoint.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp, accepting a trailing Z for
// UTC. Unparseable or empty input yields nil rather than an error: a bad
// provider timestamp should never cost us the review it belongs to.
func ParseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
