package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"open-places/internal/facebook"
	"open-places/internal/ingest"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SocialHandler handles HTTP requests for the page-post collector
type SocialHandler struct {
	ingestService  *ingest.Service
	facebookClient *facebook.Client
}

// NewSocialHandler creates a new social handler
func NewSocialHandler(db *gorm.DB, facebookClient *facebook.Client) *SocialHandler {
	return &SocialHandler{
		ingestService:  ingest.NewService(db),
		facebookClient: facebookClient,
	}
}

// FacebookPosts handles GET /api/facebook/posts. Fetches recent posts from
// a public page, stores the new ones append-only, and echoes the raw items.
func (h *SocialHandler) FacebookPosts(c *gin.Context) {
	if !h.facebookClient.HasToken() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "FB_PAGE_TOKEN is not configured"})
		return
	}

	pageID := c.Query("page_id")
	if pageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'page_id' is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	posts, err := h.facebookClient.PagePosts(c.Request.Context(), pageID, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to fetch page posts",
			"details": err.Error(),
		})
		return
	}

	saved, err := h.ingestService.SaveSocialPosts(posts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save page posts",
			"details": err.Error(),
		})
		return
	}

	items := make([]json.RawMessage, 0, len(posts))
	for _, post := range posts {
		items = append(items, post.Raw)
	}

	c.JSON(http.StatusOK, gin.H{
		"fetched":   len(posts),
		"saved_new": saved,
		"items":     items,
	})
}
