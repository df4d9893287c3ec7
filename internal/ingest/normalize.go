package ingest

import (
	"open-places/internal/places"
)

// SourceGoogle tags records and reviews that came from the Places API
const SourceGoogle = "google"

// FromDetail maps a place details payload into a canonical record. Every
// nested accessor tolerates a missing sub-object: a detail response without
// a location yields nil coordinates, not an error. The returned record is
// always complete, with a possibly empty review slice.
func FromDetail(placeID string, detail *places.PlaceDetail) PlaceRecord {
	record := PlaceRecord{
		PlaceID: placeID,
		Reviews: []ReviewRecord{},
	}
	if detail == nil {
		return record
	}

	if detail.DisplayName != nil {
		record.Name = detail.DisplayName.Text
	}
	record.Address = detail.FormattedAddress
	if detail.Location != nil {
		lat := detail.Location.Latitude
		lng := detail.Location.Longitude
		record.Lat = &lat
		record.Lng = &lng
	}
	record.Rating = detail.Rating
	record.ReviewsCount = detail.UserRatingCount
	record.Website = detail.WebsiteURI
	record.Phone = detail.InternationalPhoneNumber
	record.Types = flattenTypes(detail.Types)
	if detail.EditorialSummary != nil {
		record.Summary = detail.EditorialSummary.Text
	}
	if detail.CurrentOpeningHours != nil {
		record.OpeningHours = detail.CurrentOpeningHours.WeekdayDescriptions
	}

	for i, review := range detail.Reviews {
		record.Reviews = append(record.Reviews, normalizeReview(placeID, i, review))
	}

	return record
}

// FromSearchResult builds a minimal record from a search summary alone.
// Used when the details fetch fails: the place is kept with its coarse
// fields rather than dropped, and carries no reviews.
func FromSearchResult(p places.SearchPlace) PlaceRecord {
	record := PlaceRecord{
		PlaceID: p.ID,
		Reviews: []ReviewRecord{},
	}

	if p.DisplayName != nil {
		record.Name = p.DisplayName.Text
	}
	record.Address = p.FormattedAddress
	if p.Location != nil {
		lat := p.Location.Latitude
		lng := p.Location.Longitude
		record.Lat = &lat
		record.Lng = &lng
	}
	record.Rating = p.Rating
	record.ReviewsCount = p.UserRatingCount
	record.Types = flattenTypes(p.Types)

	return record
}

// normalizeReview maps one raw review. The provider's resource name is not
// a durable id, so review ids are always synthesized from the positional
// index; publishTime is authoritative for the timestamp and is resolved
// (or nulled) at save time.
func normalizeReview(placeID string, index int, review places.PlaceReview) ReviewRecord {
	out := ReviewRecord{
		ID:          ReviewID(SourceGoogle, placeID, index),
		Source:      SourceGoogle,
		Rating:      review.Rating,
		PublishedAt: review.PublishTime,
	}
	if review.Text != nil {
		out.Text = review.Text.Text
		out.Lang = review.Text.LanguageCode
	}
	if review.AuthorAttribution != nil {
		out.Author = review.AuthorAttribution.DisplayName
		out.URL = review.AuthorAttribution.URI
	}
	return out
}

// flattenTypes normalizes provider category tags into a single flat ordered
// list, dropping empties and duplicates while keeping first-seen order.
func flattenTypes(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(types))
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
