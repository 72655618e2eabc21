package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/AbdBoutchichi/SmartDish/logger"
	"github.com/AbdBoutchichi/SmartDish/models"
	"github.com/AbdBoutchichi/SmartDish/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

type IngredientInput struct {
	AlimentID *uint   `json:"alimentId"`
	Quantite  float64 `json:"quantite"`
	Unite     string  `json:"unite"`
	Role      string  `json:"role"`
}

type StepInput struct {
	Ordre int    `json:"ordre"`
	Texte string `json:"texte"`
	Temps int    `json:"temps"`
}

// RecipeInput is used for create and update. On update, nil scalar fields are
// kept; a nil collection is kept while a present one (even empty) replaces
// all existing lines.
type RecipeInput struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	CookTime    *int               `json:"cookTime"`
	Kcal        *int               `json:"kcal"`
	ImageURL    *string            `json:"imageUrl"`
	Ingredients *[]IngredientInput `json:"ingredients"`
	Steps       *[]StepInput       `json:"steps"`
}

type IngredientDTO struct {
	ID         uint    `json:"id"`
	AlimentID  uint    `json:"alimentId"`
	AlimentNom string  `json:"alimentNom"`
	Quantite   float64 `json:"quantite"`
	Unite      string  `json:"unite"`
	Role       string  `json:"role"`
}

type StepDTO struct {
	Ordre int    `json:"ordre"`
	Texte string `json:"texte"`
	Temps int    `json:"temps"`
}

type RecipeDTO struct {
	ID            uint            `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	CookTime      int             `json:"cookTime"`
	Kcal          int             `json:"kcal"`
	ImageURL      string          `json:"imageUrl"`
	Ingredients   []IngredientDTO `json:"ingredients"`
	Steps         []StepDTO       `json:"steps"`
	AverageRating *float64        `json:"averageRating"` // null when no feedback
	FeedbackCount int64           `json:"feedbackCount"`
}

// ToDTO converts a loaded recipe and enriches it with its rating aggregates.
func (s *RecipeService) ToDTO(r *models.Recipe) RecipeDTO {
	dto := RecipeDTO{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CookTime:    r.CookTime,
		Kcal:        r.Kcal,
		ImageURL:    r.ImageURL,
		Ingredients: make([]IngredientDTO, 0, len(r.Ingredients)),
		Steps:       make([]StepDTO, 0, len(r.Steps)),
	}
	for _, ing := range r.Ingredients {
		dto.Ingredients = append(dto.Ingredients, IngredientDTO{
			ID:         ing.ID,
			AlimentID:  ing.FoodID,
			AlimentNom: ing.Food.Name,
			Quantite:   ing.Quantity,
			Unite:      ing.Unit,
			Role:       ing.Role,
		})
	}
	for _, st := range r.Steps {
		dto.Steps = append(dto.Steps, StepDTO{Ordre: st.Ordre, Texte: st.Texte, Temps: st.Temps})
	}

	var feedbacks []models.Feedback
	if err := s.db.Where("recipe_id = ?", r.ID).Find(&feedbacks).Error; err != nil {
		logger.Error("loading feedback for recipe",
			zap.Uint("recipeId", r.ID), zap.Error(err))
		return dto
	}
	dto.AverageRating = AverageRating(feedbacks)
	dto.FeedbackCount = int64(len(feedbacks))
	return dto
}

func (s *RecipeService) withAssociations() *gorm.DB {
	return s.db.
		Preload("Ingredients.Food").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordre ASC")
		})
}

func (s *RecipeService) FindAll() ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.withAssociations().Find(&recipes).Error
	return recipes, err
}

func (s *RecipeService) FindByID(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.withAssociations().First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Recette non trouvée avec l'ID: %d", id)
		}
		return nil, err
	}
	return &recipe, nil
}

// FindByFoodIDs returns recipes that use at least one of the given foods.
func (s *RecipeService) FindByFoodIDs(foodIDs []uint) ([]models.Recipe, error) {
	var ids []uint
	err := s.db.Model(&models.Ingredient{}).
		Distinct("recipe_id").
		Where("food_id IN ?", foodIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}

	var recipes []models.Recipe
	err = s.withAssociations().Where("id IN ?", ids).Find(&recipes).Error
	return recipes, err
}

func (s *RecipeService) SearchByTitle(title string) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.withAssociations().
		Where("LOWER(title) LIKE LOWER(?)", "%"+title+"%").
		Find(&recipes).Error
	return recipes, err
}

func validateRecipeTitle(title string) error {
	if title == "" {
		return invalid("Le titre de la recette est obligatoire")
	}
	if len([]rune(title)) < 3 {
		return invalid("Le titre doit contenir au moins 3 caractères")
	}
	if len([]rune(title)) > 200 {
		return invalid("Le titre ne peut pas dépasser 200 caractères")
	}
	return nil
}

func validateCookTime(minutes int) error {
	if minutes <= 0 {
		return invalid("Le temps total doit être supérieur à 0")
	}
	if minutes > 1440 {
		return invalid("Le temps total ne peut pas dépasser 1440 minutes (24h)")
	}
	return nil
}

func validateKcal(kcal int) error {
	if kcal < 0 {
		return invalid("Les calories ne peuvent pas être négatives")
	}
	if kcal > 10000 {
		return invalid("Les calories semblent excessives (max 10000)")
	}
	return nil
}

func validateIngredients(ingredients []IngredientInput) error {
	for _, ing := range ingredients {
		if ing.AlimentID == nil {
			return invalid("L'ID de l'aliment est requis pour chaque ingrédient")
		}
		if ing.Quantite <= 0 {
			return invalid("La quantité doit être supérieure à 0")
		}
	}
	return nil
}

func validateSteps(steps []StepInput) error {
	for _, st := range steps {
		if st.Ordre <= 0 {
			return invalid("L'ordre de chaque étape doit être supérieur à 0")
		}
		if len([]rune(st.Texte)) < 5 {
			return invalid("Le texte de chaque étape doit contenir au moins 5 caractères")
		}
	}
	return nil
}

// replaceIngredients resolves every food reference before any line is
// written; one dangling reference aborts the whole transaction.
func replaceIngredients(tx *gorm.DB, recipeID uint, ingredients []IngredientInput) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Ingredient{}).Error; err != nil {
		return err
	}
	for _, ing := range ingredients {
		var food models.Food
		if err := tx.First(&food, *ing.AlimentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Aliment non trouvé avec l'ID: %d", *ing.AlimentID)
			}
			return err
		}
		line := models.Ingredient{
			RecipeID: recipeID,
			FoodID:   food.ID,
			Quantity: ing.Quantite,
			Unit:     ing.Unite,
			Role:     ing.Role,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
	}
	return nil
}

func replaceSteps(tx *gorm.DB, recipeID uint, steps []StepInput) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeStep{}).Error; err != nil {
		return err
	}
	for _, st := range steps {
		step := models.RecipeStep{
			RecipeID: recipeID,
			Ordre:    st.Ordre,
			Texte:    st.Texte,
			Temps:    st.Temps,
		}
		if err := tx.Create(&step).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *RecipeService) Create(in RecipeInput) (*models.Recipe, error) {
	if in.Title == nil {
		return nil, invalid("Le titre de la recette est obligatoire")
	}
	if err := validateRecipeTitle(*in.Title); err != nil {
		return nil, err
	}
	if in.CookTime == nil {
		return nil, invalid("Le temps total doit être supérieur à 0")
	}
	if err := validateCookTime(*in.CookTime); err != nil {
		return nil, err
	}
	kcal := 0
	if in.Kcal != nil {
		kcal = *in.Kcal
	}
	if err := validateKcal(kcal); err != nil {
		return nil, err
	}
	if in.Ingredients != nil {
		if err := validateIngredients(*in.Ingredients); err != nil {
			return nil, err
		}
	}
	if in.Steps != nil {
		if err := validateSteps(*in.Steps); err != nil {
			return nil, err
		}
	}

	recipe := models.Recipe{
		Title:    *in.Title,
		CookTime: *in.CookTime,
		Kcal:     kcal,
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if in.ImageURL != nil {
		recipe.ImageURL = *in.ImageURL
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if in.Ingredients != nil {
			if err := replaceIngredients(tx, recipe.ID, *in.Ingredients); err != nil {
				return err
			}
		}
		if in.Steps != nil {
			if err := replaceSteps(tx, recipe.ID, *in.Steps); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("recipe created", zap.Uint("id", recipe.ID), zap.String("title", recipe.Title))
	return s.FindByID(recipe.ID)
}

func (s *RecipeService) Update(id uint, in RecipeInput) (*models.Recipe, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Recette non trouvée avec l'ID: %d", id)
			}
			return err
		}

		if in.Title != nil {
			if err := validateRecipeTitle(*in.Title); err != nil {
				return err
			}
			recipe.Title = *in.Title
		}
		if in.CookTime != nil {
			if err := validateCookTime(*in.CookTime); err != nil {
				return err
			}
			recipe.CookTime = *in.CookTime
		}
		if in.Kcal != nil {
			if err := validateKcal(*in.Kcal); err != nil {
				return err
			}
			recipe.Kcal = *in.Kcal
		}
		if in.Description != nil {
			recipe.Description = *in.Description
		}
		if in.ImageURL != nil {
			recipe.ImageURL = *in.ImageURL
		}

		if in.Ingredients != nil {
			if err := validateIngredients(*in.Ingredients); err != nil {
				return err
			}
			if err := replaceIngredients(tx, recipe.ID, *in.Ingredients); err != nil {
				return err
			}
		}
		if in.Steps != nil {
			if err := validateSteps(*in.Steps); err != nil {
				return err
			}
			if err := replaceSteps(tx, recipe.ID, *in.Steps); err != nil {
				return err
			}
		}

		return tx.Save(&recipe).Error
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(id)
}

func (s *RecipeService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Recette non trouvée avec l'ID: %d", id)
			}
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// UpdateImage uploads a base64 image for the recipe and stores its URL.
func (s *RecipeService) UpdateImage(id uint, base64Image string) (*models.Recipe, error) {
	recipe, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}

	url, err := utils.UploadBase64ImageToS3(base64Image, "recipe")
	if err != nil {
		return nil, err
	}

	recipe.ImageURL = url
	if err := s.db.Model(&models.Recipe{}).Where("id = ?", id).
		Update("image_url", url).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// TopRated sorts by average rating descending; recipes without any feedback
// are excluded entirely rather than sorted to the bottom.
func (s *RecipeService) TopRated(limit int) ([]RecipeDTO, error) {
	if limit <= 0 {
		limit = 10
	}

	recipes, err := s.FindAll()
	if err != nil {
		return nil, err
	}

	rated := make([]RecipeDTO, 0, len(recipes))
	for i := range recipes {
		dto := s.ToDTO(&recipes[i])
		if dto.AverageRating != nil && *dto.AverageRating > 0 {
			rated = append(rated, dto)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool {
		return *rated[i].AverageRating > *rated[j].AverageRating
	})

	if len(rated) > limit {
		rated = rated[:limit]
	}
	return rated, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Search filters in memory over the enriched DTOs, like the list view does.
func (s *RecipeService) Search(title string, minRating *float64, maxCookTime *int) ([]RecipeDTO, error) {
	recipes, err := s.FindAll()
	if err != nil {
		return nil, err
	}

	out := make([]RecipeDTO, 0, len(recipes))
	for i := range recipes {
		dto := s.ToDTO(&recipes[i])

		if title != "" && !containsFold(dto.Title, title) {
			continue
		}
		if minRating != nil {
			if dto.AverageRating == nil || *dto.AverageRating < *minRating {
				continue
			}
		}
		if maxCookTime != nil && dto.CookTime > *maxCookTime {
			continue
		}
		out = append(out, dto)
	}
	return out, nil
}
