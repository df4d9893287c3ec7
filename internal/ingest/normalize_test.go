package ingest

import (
	"testing"
	"time"

	"open-places/internal/places"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDetailMapsAllFields(t *testing.T) {
	rating := 4.5
	count := 321
	reviewRating := 5.0

	detail := &places.PlaceDetail{
		ID:                       "P1",
		DisplayName:              &places.LocalizedText{Text: "Hostel X"},
		FormattedAddress:         "Calle Falsa 123, Cusco",
		InternationalPhoneNumber: "+51 84 123456",
		Rating:                   &rating,
		UserRatingCount:          &count,
		WebsiteURI:               "https://hostelx.example",
		Location:                 &places.LatLng{Latitude: -13.5167, Longitude: -71.9789},
		EditorialSummary:         &places.LocalizedText{Text: "A lively backpacker base."},
		CurrentOpeningHours: &places.OpeningHours{
			WeekdayDescriptions: []string{"Monday: Open 24 hours"},
		},
		Types: []string{"lodging", "hostel", "lodging"},
		Reviews: []places.PlaceReview{
			{
				Rating:            &reviewRating,
				Text:              &places.LocalizedText{Text: "great", LanguageCode: "en"},
				AuthorAttribution: &places.AuthorAttribution{DisplayName: "Ana", URI: "https://maps.example/ana"},
				PublishTime:       "2024-01-05T10:00:00Z",
			},
		},
	}

	record := FromDetail("P1", detail)

	assert.Equal(t, "P1", record.PlaceID)
	assert.Equal(t, "Hostel X", record.Name)
	assert.Equal(t, "Calle Falsa 123, Cusco", record.Address)
	require.NotNil(t, record.Lat)
	assert.Equal(t, -13.5167, *record.Lat)
	assert.Equal(t, 4.5, *record.Rating)
	assert.Equal(t, 321, *record.ReviewsCount)
	assert.Equal(t, "https://hostelx.example", record.Website)
	assert.Equal(t, "+51 84 123456", record.Phone)
	assert.Equal(t, "A lively backpacker base.", record.Summary)
	assert.Equal(t, []string{"Monday: Open 24 hours"}, record.OpeningHours)
	// Duplicate tags collapse into a flat ordered list
	assert.Equal(t, []string{"lodging", "hostel"}, record.Types)

	require.Len(t, record.Reviews, 1)
	review := record.Reviews[0]
	assert.Equal(t, "google:P1:0", review.ID)
	assert.Equal(t, "google", review.Source)
	assert.Equal(t, "great", review.Text)
	assert.Equal(t, "en", review.Lang)
	assert.Equal(t, "Ana", review.Author)
	assert.Equal(t, "https://maps.example/ana", review.URL)
	assert.Equal(t, "2024-01-05T10:00:00Z", review.PublishedAt)
}

func TestFromDetailShortCircuitsMissingNestedObjects(t *testing.T) {
	// A detail payload with every optional sub-object absent must still
	// produce a complete record with nulls, never an error.
	record := FromDetail("P1", &places.PlaceDetail{ID: "P1"})

	assert.Equal(t, "P1", record.PlaceID)
	assert.Empty(t, record.Name)
	assert.Empty(t, record.Address)
	assert.Nil(t, record.Lat)
	assert.Nil(t, record.Lng)
	assert.Nil(t, record.Rating)
	assert.Nil(t, record.ReviewsCount)
	assert.Empty(t, record.Summary)
	assert.NotNil(t, record.Reviews)
	assert.Empty(t, record.Reviews)
}

func TestFromDetailNilDetail(t *testing.T) {
	record := FromDetail("P1", nil)
	assert.Equal(t, "P1", record.PlaceID)
	assert.NotNil(t, record.Reviews)
}

func TestFromSearchResultFallback(t *testing.T) {
	rating := 4.2
	count := 87

	record := FromSearchResult(places.SearchPlace{
		ID:               "P9",
		DisplayName:      &places.LocalizedText{Text: "Hostel Fallback"},
		FormattedAddress: "Av. Siempre Viva 742",
		Location:         &places.LatLng{Latitude: -33.45, Longitude: -70.66},
		Rating:           &rating,
		UserRatingCount:  &count,
		Types:            []string{"hostel"},
	})

	assert.Equal(t, "P9", record.PlaceID)
	assert.Equal(t, "Hostel Fallback", record.Name)
	assert.Equal(t, 4.2, *record.Rating)
	assert.Equal(t, []string{"hostel"}, record.Types)
	// Fallback records never carry reviews
	assert.Empty(t, record.Reviews)
}

func TestReviewIDIsDeterministic(t *testing.T) {
	first := ReviewID("google", "P1", 0)
	second := ReviewID("google", "P1", 0)

	assert.Equal(t, "google:P1:0", first)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, ReviewID("google", "P1", 1))
	assert.NotEqual(t, first, ReviewID("yelp", "P1", 0))
}

func TestSynthesizedReviewIDsFollowPosition(t *testing.T) {
	detail := &places.PlaceDetail{
		Reviews: []places.PlaceReview{
			{Text: &places.LocalizedText{Text: "first"}},
			{Text: &places.LocalizedText{Text: "second"}},
		},
	}

	once := FromDetail("P1", detail)
	twice := FromDetail("P1", detail)

	require.Len(t, once.Reviews, 2)
	assert.Equal(t, "google:P1:0", once.Reviews[0].ID)
	assert.Equal(t, "google:P1:1", once.Reviews[1].ID)
	assert.Equal(t, once.Reviews[0].ID, twice.Reviews[0].ID)
	assert.Equal(t, once.Reviews[1].ID, twice.Reviews[1].ID)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{"RFC3339 with Z", "2024-01-05T10:00:00Z", timePtr(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC))},
		{"explicit offset", "2024-01-05T10:00:00+02:00", timePtr(time.Date(2024, 1, 5, 10, 0, 0, 0, time.FixedZone("", 2*60*60)))},
		{"graph api offset", "2024-01-05T10:00:00+0000", timePtr(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC))},
		{"no offset", "2024-01-05T10:00:00", timePtr(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC))},
		{"garbage", "not-a-date", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimestamp(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(*tt.want), "expected %v, got %v", tt.want, got)
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
