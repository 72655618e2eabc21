package models

import "gorm.io/gorm"

// One Recipe owns its ingredient lines and its ordered steps; both are
// replaced wholesale when a collection is present on update.
type Recipe struct {
    gorm.Model
    Title       string `gorm:"type:varchar(200);not null"`
    Description string `gorm:"type:text"`
    CookTime    int    // total time in minutes
    Kcal        int
    ImageURL    string `gorm:"type:varchar(500)"`
    Ingredients []Ingredient
    Steps       []RecipeStep
}

// Ingredient is a quantity+unit+role line linking a Recipe to a Food.
type Ingredient struct {
    gorm.Model
    RecipeID uint `gorm:"index;not null"`
    FoodID   uint `gorm:"not null"`
    Food     Food
    Quantity float64
    Unit     string `gorm:"type:varchar(20)"` // GRAMME, ML, CUILLERE, PIECE
    Role     string `gorm:"type:varchar(20)"` // PRINCIPAL, SECONDAIRE
}

type RecipeStep struct {
    gorm.Model
    RecipeID uint `gorm:"index;not null"`
    Ordre    int  `gorm:"not null"`
    Texte    string `gorm:"type:text"`
    Temps    int // minutes, optional
}
