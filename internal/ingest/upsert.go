package ingest

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"open-places/internal/facebook"
	"open-places/internal/models"

	"gorm.io/gorm"
)

// SaveMode selects the idempotence policy of a batch
type SaveMode int

const (
	// ModeUpsert merges incoming records into existing places: non-empty
	// incoming fields overwrite, absent fields leave stored values alone.
	ModeUpsert SaveMode = iota
	// ModeStrict refuses to touch a place id that already exists. Used by
	// one-time bulk collection, where an existing row means "already done".
	ModeStrict
)

// Service applies canonical records to the store
type Service struct {
	db *gorm.DB
}

// NewService creates a new ingest service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// SavePlaces applies a batch of place records as a single unit of work and
// returns how many places were saved. The whole batch commits or rolls back
// together; records without a place id are skipped silently and never
// counted.
func (s *Service) SavePlaces(records []PlaceRecord, mode SaveMode) (int, error) {
	saved := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if record.PlaceID == "" {
				continue
			}

			ok, err := s.applyPlace(tx, record, mode)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			if err := s.applyReviews(tx, record); err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save places batch: %w", err)
	}

	return saved, nil
}

// applyPlace creates or updates one place row. Returns false when the
// record was skipped under strict mode.
func (s *Service) applyPlace(tx *gorm.DB, record PlaceRecord, mode SaveMode) (bool, error) {
	var place models.Place
	err := tx.First(&place, "place_id = ?", record.PlaceID).Error

	isNew := false
	switch {
	case err == gorm.ErrRecordNotFound:
		isNew = true
		place = models.Place{
			PlaceID:   record.PlaceID,
			CreatedAt: time.Now().UTC(),
		}
	case err != nil:
		return false, err
	case mode == ModeStrict:
		log.Printf("Place %s already exists, skipping", record.PlaceID)
		return false, nil
	}

	// Overwrite field by field, but only with present incoming values. A
	// stored value is never blanked by an absent one.
	if record.Name != "" {
		place.Name = record.Name
	}
	if record.Address != "" {
		place.Address = record.Address
	}
	if record.Lat != nil {
		place.Lat = record.Lat
	}
	if record.Lng != nil {
		place.Lng = record.Lng
	}
	if record.Rating != nil {
		place.Rating = record.Rating
	}
	if record.ReviewsCount != nil {
		place.ReviewsCount = record.ReviewsCount
	}
	if record.Website != "" {
		place.Website = record.Website
	}
	if record.Phone != "" {
		place.Phone = record.Phone
	}
	if len(record.Types) > 0 {
		encoded, err := json.Marshal(record.Types)
		if err != nil {
			return false, err
		}
		place.Types = string(encoded)
	}
	if record.Summary != "" {
		place.Summary = record.Summary
	}
	place.UpdatedAt = time.Now().UTC()

	if isNew {
		if err := tx.Create(&place).Error; err != nil {
			return false, err
		}
		return true, nil
	}
	if err := tx.Save(&place).Error; err != nil {
		return false, err
	}
	return true, nil
}

// applyReviews inserts the record's reviews that are not yet present.
// Review rows are append-only: an id that already exists is left untouched,
// so re-running the same batch never duplicates or mutates reviews.
func (s *Service) applyReviews(tx *gorm.DB, record PlaceRecord) error {
	for _, rv := range record.Reviews {
		if rv.ID == "" {
			continue
		}

		var existing models.Review
		err := tx.First(&existing, "id = ?", rv.ID).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		source := rv.Source
		if source == "" {
			source = SourceGoogle
		}

		review := models.Review{
			ID:          rv.ID,
			PlaceID:     record.PlaceID,
			Source:      source,
			Rating:      rv.Rating,
			Text:        rv.Text,
			Lang:        rv.Lang,
			PublishedAt: ParseTimestamp(rv.PublishedAt),
			Author:      rv.Author,
			URL:         rv.URL,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
	}
	return nil
}

// SaveSocialPosts stores fetched page posts append-only by provider post id
// and returns how many were new
func (s *Service) SaveSocialPosts(posts []facebook.Post) (int, error) {
	saved := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, post := range posts {
			if post.ID == "" {
				continue
			}

			var existing models.SocialPost
			err := tx.First(&existing, "id = ?", post.ID).Error
			if err == nil {
				continue
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}

			row := models.SocialPost{
				ID:        post.ID,
				Platform:  "facebook",
				Text:      post.Message,
				CreatedAt: ParseTimestamp(post.CreatedTime),
				URL:       post.PermalinkURL,
				Raw:       string(post.Raw),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			saved++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save social posts: %w", err)
	}

	return saved, nil
}

// RecordRun persists a collection run summary
func (s *Service) RecordRun(run *models.CollectionRun) error {
	if err := s.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to record collection run: %w", err)
	}
	return nil
}
