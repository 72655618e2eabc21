package models

import "gorm.io/gorm"

// A catalog entry: one named ingredient with its category tag.
type Food struct {
    gorm.Model
    Name     string `gorm:"type:varchar(100);uniqueIndex;not null"`
    Category string `gorm:"type:varchar(50)"` // LEGUME, VIANDE, POISSON, CEREALE, FRUIT, EPICE
}

var FoodCategories = []string{"LEGUME", "VIANDE", "POISSON", "CEREALE", "FRUIT", "EPICE"}

func IsValidFoodCategory(cat string) bool {
    for _, c := range FoodCategories {
        if c == cat {
            return true
        }
    }
    return false
}
