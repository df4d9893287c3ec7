package ingest

import (
	"fmt"
	"strings"
	"time"

	"open-places/internal/models"
)

// PlaceFilter narrows a place listing. Zero values mean "no constraint".
type PlaceFilter struct {
	Query     string   // case-insensitive substring match on name or address
	MinRating *float64 // places with a NULL rating never match
	Limit     int
	Offset    int
}

// PlaceView is the API shape of a stored place, with the serialized tags
// decoded back into a list
type PlaceView struct {
	PlaceID      string   `json:"place_id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	Rating       *float64 `json:"rating"`
	ReviewsCount *int     `json:"reviews_count"`
	Website      string   `json:"website"`
	Phone        string   `json:"phone"`
	Types        []string `json:"types"`
	Summary      string   `json:"summary"`
	UpdatedAt    string   `json:"updated_at"`
}

// ListPlaces returns the total match count and one page of places, most
// recently updated first. Pure read, no side effects.
func (s *Service) ListPlaces(filter PlaceFilter) (int64, []PlaceView, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	query := s.db.Model(&models.Place{})
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, fmt.Errorf("failed to count places: %w", err)
	}

	var rows []models.Place
	err := query.Order("updated_at DESC").Offset(filter.Offset).Limit(filter.Limit).Find(&rows).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list places: %w", err)
	}

	items := make([]PlaceView, 0, len(rows))
	for _, p := range rows {
		items = append(items, PlaceView{
			PlaceID:      p.PlaceID,
			Name:         p.Name,
			Address:      p.Address,
			Lat:          p.Lat,
			Lng:          p.Lng,
			Rating:       p.Rating,
			ReviewsCount: p.ReviewsCount,
			Website:      p.Website,
			Phone:        p.Phone,
			Types:        p.TypeList(),
			Summary:      p.Summary,
			UpdatedAt:    p.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	return total, items, nil
}
