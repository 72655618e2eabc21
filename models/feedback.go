package models

import (
    "time"

    "gorm.io/gorm"
)

// Feedback is one user's rating of one recipe. At most one row per
// (user, recipe) pair; enforced by lookup-before-insert in the service.
type Feedback struct {
    gorm.Model
    UserID   uint `gorm:"index;not null"`
    RecipeID uint `gorm:"index;not null"`
    Rating   int  `gorm:"not null"` // 1 à 5 étoiles
    Comment  string `gorm:"type:text"`
    RatedAt  time.Time
}
