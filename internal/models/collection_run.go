package models

import (
	"time"

	"github.com/google/uuid"
)

// CollectionRun records one batch collector run for later inspection
type CollectionRun struct {
	ID         uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"` // set by the collector, no DB default
	Queries    int        `json:"queries" db:"queries" gorm:"default:0"`  // number of search queries in the run
	Found      int        `json:"found" db:"found" gorm:"default:0"`
	Saved      int        `json:"saved" db:"saved" gorm:"default:0"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at" db:"finished_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the CollectionRun model
func (CollectionRun) TableName() string {
	return "collection_runs"
}
