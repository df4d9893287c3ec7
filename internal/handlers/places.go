package handlers

import (
	"net/http"
	"strconv"

	"open-places/internal/collector"
	"open-places/internal/ingest"
	"open-places/internal/places"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PlacesHandler handles HTTP requests for place ingestion and querying
type PlacesHandler struct {
	ingestService *ingest.Service
	placesClient  *places.Client
	collectorCfg  collector.Config
}

// NewPlacesHandler creates a new places handler
func NewPlacesHandler(db *gorm.DB, placesClient *places.Client) *PlacesHandler {
	cfg := collector.DefaultConfig()
	return &PlacesHandler{
		ingestService: ingest.NewService(db),
		placesClient:  placesClient,
		collectorCfg:  cfg,
	}
}

// SavePlaces handles POST /api/save-places. The body is an ordered array of
// place objects, each optionally carrying embedded reviews; ?mode=strict
// switches the batch to insert-only semantics.
func (h *PlacesHandler) SavePlaces(c *gin.Context) {
	var records []ingest.PlaceRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Payload must be a JSON array of places",
			"details": err.Error(),
		})
		return
	}

	mode := ingest.ModeUpsert
	if c.Query("mode") == "strict" {
		mode = ingest.ModeStrict
	}

	saved, err := h.ingestService.SavePlaces(records, mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save places",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved_places": saved})
}

// CollectGoogle handles GET /api/collect/google. Runs one text query through
// the full search -> details -> normalize -> save pipeline synchronously.
func (h *PlacesHandler) CollectGoogle(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	bias := parseLocationBias(c)

	col := collector.New(h.placesClient, h.ingestService, h.collectorCfg)
	found, saved, err := col.CollectQuery(c.Request.Context(), query, bias, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Collection failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query": query,
		"found": found,
		"saved": saved,
	})
}

// PlaceDetails handles GET /api/place-details. Fetches and normalizes one
// place without persisting it, opening hours included.
func (h *PlacesHandler) PlaceDetails(c *gin.Context) {
	placeID := c.Query("place_id")
	if placeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'place_id' is required"})
		return
	}

	detail, err := h.placesClient.Details(c.Request.Context(), placeID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to fetch place details",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, ingest.FromDetail(placeID, detail))
}

// ListPlaces handles GET /api/places
func (h *PlacesHandler) ListPlaces(c *gin.Context) {
	filter := ingest.PlaceFilter{
		Query: c.Query("q"),
	}

	if raw := c.Query("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_rating must be a number"})
			return
		}
		filter.MinRating = &minRating
	}

	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if filter.Limit > 200 {
		filter.Limit = 200
	}

	total, items, err := h.ingestService.ListPlaces(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list places",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": total,
		"items": items,
	})
}

// HealthCheck handles GET /health
func (h *PlacesHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "open-places",
	})
}

// parseLocationBias builds a circle bias from lat/lng/radius_m query
// parameters; both coordinates must be present for a bias to apply
func parseLocationBias(c *gin.Context) *places.LocationBias {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" || lngStr == "" {
		return nil
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lng, errLng := strconv.ParseFloat(lngStr, 64)
	if errLat != nil || errLng != nil {
		return nil
	}

	radius, err := strconv.ParseFloat(c.DefaultQuery("radius_m", "5000"), 64)
	if err != nil || radius <= 0 {
		radius = 5000
	}

	return &places.LocationBias{
		Circle: places.Circle{
			Center: places.LatLng{Latitude: lat, Longitude: lng},
			Radius: radius,
		},
	}
}
