package models

import (
    "gorm.io/gorm"
)

const (
    RoleUser  = "USER"
    RoleAdmin = "ADMIN"
)

// Dietary regimes the mobile client lets a user pick from.
var DietaryRegimes = []string{"VEGETARIEN", "VEGETALIEN", "GLUTEN_FREE", "SANS_LACTOSE", "NONE"}

type User struct {
    gorm.Model
    Email         string `gorm:"uniqueIndex;not null"` // stored lowercase
    Password      string `gorm:"not null"`             // bcrypt hash
    FirstName     string `gorm:"not null"`
    LastName      string `gorm:"not null"`
    Phone         string
    Address       string
    Role          string `gorm:"not null;default:USER"`
    Active        bool   `gorm:"not null;default:true"`
    DietaryRegime string
    Allergens     []Food `gorm:"many2many:user_allergens"`
}

func IsValidRole(role string) bool {
    return role == RoleUser || role == RoleAdmin
}

func IsValidRegime(regime string) bool {
    for _, r := range DietaryRegimes {
        if r == regime {
            return true
        }
    }
    return false
}
