package models

import (
    "time"

    "gorm.io/gorm"
)

// Recommendation is a write-only log record produced by the external
// recommendation process; this service never mutates existing rows.
type Recommendation struct {
    gorm.Model
    UserID        uint `gorm:"index;not null"`
    RecipeID      uint `gorm:"not null"`
    Score         float64
    RecommendedAt time.Time
}
