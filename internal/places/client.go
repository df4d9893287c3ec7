package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Field masks requested from the Places API. The search mask is deliberately
// coarse; the full record (contact info, hours, summary, reviews) is only
// fetched per place in the details call.
const (
	searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.location,places.rating,places.userRatingCount,places.types"
	detailFieldMask = "id,displayName,formattedAddress,internationalPhoneNumber,rating,userRatingCount,websiteUri,location,currentOpeningHours,editorialSummary,types,reviews"
)

// Client represents a Google Places API (v1) client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// LocalizedText is a text value with an optional language tag
type LocalizedText struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// LatLng is a geographic coordinate pair
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchPlace is the coarse place summary returned by a text search
type SearchPlace struct {
	ID               string         `json:"id"`
	DisplayName      *LocalizedText `json:"displayName,omitempty"`
	FormattedAddress string         `json:"formattedAddress,omitempty"`
	Location         *LatLng        `json:"location,omitempty"`
	Rating           *float64       `json:"rating,omitempty"`
	UserRatingCount  *int           `json:"userRatingCount,omitempty"`
	Types            []string       `json:"types,omitempty"`
}

// AuthorAttribution identifies the author of a review
type AuthorAttribution struct {
	DisplayName string `json:"displayName,omitempty"`
	URI         string `json:"uri,omitempty"`
	PhotoURI    string `json:"photoUri,omitempty"`
}

// PlaceReview is a single user review inside a place details response
type PlaceReview struct {
	Name              string             `json:"name,omitempty"` // resource name, not a stable review id
	Rating            *float64           `json:"rating,omitempty"`
	Text              *LocalizedText     `json:"text,omitempty"`
	AuthorAttribution *AuthorAttribution `json:"authorAttribution,omitempty"`
	PublishTime       string             `json:"publishTime,omitempty"`
}

// OpeningHours holds the human-readable weekly schedule
type OpeningHours struct {
	WeekdayDescriptions []string `json:"weekdayDescriptions,omitempty"`
}

// PlaceDetail is the extended record returned by a place details request
type PlaceDetail struct {
	ID                       string         `json:"id"`
	DisplayName              *LocalizedText `json:"displayName,omitempty"`
	FormattedAddress         string         `json:"formattedAddress,omitempty"`
	InternationalPhoneNumber string         `json:"internationalPhoneNumber,omitempty"`
	Rating                   *float64       `json:"rating,omitempty"`
	UserRatingCount          *int           `json:"userRatingCount,omitempty"`
	WebsiteURI               string         `json:"websiteUri,omitempty"`
	Location                 *LatLng        `json:"location,omitempty"`
	CurrentOpeningHours      *OpeningHours  `json:"currentOpeningHours,omitempty"`
	EditorialSummary         *LocalizedText `json:"editorialSummary,omitempty"`
	Types                    []string       `json:"types,omitempty"`
	Reviews                  []PlaceReview  `json:"reviews,omitempty"`
}

// LocationBias narrows a text search to a circle around a center point
type LocationBias struct {
	Circle Circle `json:"circle"`
}

// Circle is a center point plus radius in meters
type Circle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type searchRequest struct {
	TextQuery      string        `json:"textQuery"`
	LocationBias   *LocationBias `json:"locationBias,omitempty"`
	MaxResultCount int           `json:"maxResultCount,omitempty"`
}

type searchResponse struct {
	Places []SearchPlace `json:"places"`
}

// NewClient creates a new Places API client
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://places.googleapis.com"
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// TextSearch runs a places:searchText query and returns the coarse result
// list. The API caps a single response at 20 results.
func (c *Client) TextSearch(ctx context.Context, query string, bias *LocationBias, limit int) ([]SearchPlace, error) {
	if limit <= 0 || limit > 20 {
		limit = 20
	}

	reqBody := searchRequest{
		TextQuery:      query,
		LocationBias:   bias,
		MaxResultCount: limit,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/places:searchText", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("text search failed: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	if len(result.Places) > limit {
		result.Places = result.Places[:limit]
	}
	return result.Places, nil
}

// Details fetches the extended record for a place, including up to five
// user reviews
func (c *Client) Details(ctx context.Context, placeID string) (*PlaceDetail, error) {
	if placeID == "" {
		return nil, fmt.Errorf("place id is required")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/v1/places/%s", c.baseURL, placeID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", detailFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("place details failed for %s: %s", placeID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var detail PlaceDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, err
	}

	return &detail, nil
}
