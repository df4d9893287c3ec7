package collector

import (
	"context"
	"fmt"
	"testing"

	"open-places/internal/ingest"
	"open-places/internal/models"
	"open-places/internal/places"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// fakePlacesAPI serves canned search results and details, and can be told
// to fail details for specific place ids
type fakePlacesAPI struct {
	results     map[string][]places.SearchPlace
	details     map[string]*places.PlaceDetail
	failDetails map[string]bool
	searchErr   error

	searchCalls int
	detailCalls int
}

func (f *fakePlacesAPI) TextSearch(ctx context.Context, query string, bias *places.LocationBias, limit int) ([]places.SearchPlace, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results[query], nil
}

func (f *fakePlacesAPI) Details(ctx context.Context, placeID string) (*places.PlaceDetail, error) {
	f.detailCalls++
	if f.failDetails[placeID] {
		return nil, fmt.Errorf("details unavailable for %s", placeID)
	}
	detail, ok := f.details[placeID]
	if !ok {
		return nil, fmt.Errorf("unknown place %s", placeID)
	}
	return detail, nil
}

func searchPlace(id, name string) places.SearchPlace {
	return places.SearchPlace{
		ID:          id,
		DisplayName: &places.LocalizedText{Text: name},
		Types:       []string{"hostel"},
	}
}

func detailFor(id, name string) *places.PlaceDetail {
	rating := 4.5
	return &places.PlaceDetail{
		ID:          id,
		DisplayName: &places.LocalizedText{Text: name},
		Rating:      &rating,
		Reviews: []places.PlaceReview{
			{Text: &places.LocalizedText{Text: "great"}, PublishTime: "2024-01-05T10:00:00Z"},
		},
	}
}

func zeroDelayConfig() Config {
	return Config{Limit: 10, Mode: ingest.ModeUpsert}
}

func TestCollectQuerySavesDetailedRecords(t *testing.T) {
	db := setupTestDB(t)
	api := &fakePlacesAPI{
		results: map[string][]places.SearchPlace{
			"hostels cusco peru": {searchPlace("P1", "Hostel X"), searchPlace("P2", "Hostel Y")},
		},
		details: map[string]*places.PlaceDetail{
			"P1": detailFor("P1", "Hostel X"),
			"P2": detailFor("P2", "Hostel Y"),
		},
	}

	col := New(api, ingest.NewService(db), zeroDelayConfig())
	found, saved, err := col.CollectQuery(context.Background(), "hostels cusco peru", nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, found)
	assert.Equal(t, 2, saved)
	assert.Equal(t, 2, api.detailCalls)

	var reviewCount int64
	db.Model(&models.Review{}).Count(&reviewCount)
	assert.Equal(t, int64(2), reviewCount)
}

func TestCollectQueryFallsBackToSearchSummary(t *testing.T) {
	db := setupTestDB(t)
	api := &fakePlacesAPI{
		results: map[string][]places.SearchPlace{
			"hostels lima peru": {searchPlace("P1", "Hostel X"), searchPlace("P2", "Hostel Y")},
		},
		details: map[string]*places.PlaceDetail{
			"P2": detailFor("P2", "Hostel Y"),
		},
		failDetails: map[string]bool{"P1": true},
	}

	col := New(api, ingest.NewService(db), zeroDelayConfig())
	found, saved, err := col.CollectQuery(context.Background(), "hostels lima peru", nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, found)
	// P1 is kept from its coarse summary instead of being dropped
	assert.Equal(t, 2, saved)

	var place models.Place
	require.NoError(t, db.First(&place, "place_id = ?", "P1").Error)
	assert.Equal(t, "Hostel X", place.Name)

	var reviews int64
	db.Model(&models.Review{}).Where("place_id = ?", "P1").Count(&reviews)
	assert.Equal(t, int64(0), reviews)
}

func TestCollectQueryEmptyResults(t *testing.T) {
	db := setupTestDB(t)
	api := &fakePlacesAPI{results: map[string][]places.SearchPlace{}}

	col := New(api, ingest.NewService(db), zeroDelayConfig())
	found, saved, err := col.CollectQuery(context.Background(), "hostels nowhere", nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, found)
	assert.Equal(t, 0, saved)
	assert.Equal(t, 0, api.detailCalls)
}

func TestRunContinuesPastFailingQueries(t *testing.T) {
	db := setupTestDB(t)
	api := &fakePlacesAPI{
		results: map[string][]places.SearchPlace{
			"good query": {searchPlace("P1", "Hostel X")},
			// "bad query" simply has no canned results
		},
		details: map[string]*places.PlaceDetail{
			"P1": detailFor("P1", "Hostel X"),
		},
	}

	col := New(api, ingest.NewService(db), zeroDelayConfig())
	stats, err := col.Run(context.Background(), []string{"bad query", "good query"})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Queries)
	assert.Equal(t, 1, stats.Found)
	assert.Equal(t, 1, stats.Saved)
	assert.Equal(t, 2, api.searchCalls)
}

func TestRunRecordsCollectionRun(t *testing.T) {
	db := setupTestDB(t)
	api := &fakePlacesAPI{
		results: map[string][]places.SearchPlace{
			"hostels cusco peru": {searchPlace("P1", "Hostel X")},
		},
		details: map[string]*places.PlaceDetail{
			"P1": detailFor("P1", "Hostel X"),
		},
	}

	col := New(api, ingest.NewService(db), zeroDelayConfig())
	stats, err := col.Run(context.Background(), []string{"hostels cusco peru"})
	require.NoError(t, err)

	var run models.CollectionRun
	require.NoError(t, db.First(&run).Error)
	assert.Equal(t, stats.Queries, run.Queries)
	assert.Equal(t, stats.Found, run.Found)
	assert.Equal(t, stats.Saved, run.Saved)
	require.NotNil(t, run.FinishedAt)
	assert.False(t, run.StartedAt.After(*run.FinishedAt))
}

func TestRunStrictModeSecondPassSavesNothing(t *testing.T) {
	db := setupTestDB(t)
	api := &fakePlacesAPI{
		results: map[string][]places.SearchPlace{
			"hostels cusco peru": {searchPlace("P1", "Hostel X")},
		},
		details: map[string]*places.PlaceDetail{
			"P1": detailFor("P1", "Hostel X"),
		},
	}

	config := zeroDelayConfig()
	config.Mode = ingest.ModeStrict
	col := New(api, ingest.NewService(db), config)

	stats, err := col.Run(context.Background(), []string{"hostels cusco peru"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Saved)

	stats, err = col.Run(context.Background(), []string{"hostels cusco peru"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Found)
	assert.Equal(t, 0, stats.Saved)
}
