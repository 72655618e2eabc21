package services

import (
	"errors"
	"time"

	"github.com/AbdBoutchichi/SmartDish/models"

	"gorm.io/gorm"
)

type RecommendationService struct {
	db *gorm.DB
}

func NewRecommendationService(db *gorm.DB) *RecommendationService {
	return &RecommendationService{db: db}
}

type RecommendationInput struct {
	UserID   *uint    `json:"userId"`
	RecipeID *uint    `json:"recipeId"`
	Score    *float64 `json:"score"`
}

type RecommendationDTO struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"userId"`
	RecipeID      uint      `json:"recipeId"`
	Score         float64   `json:"score"`
	RecommendedAt time.Time `json:"recommendedAt"`
}

func ToRecommendationDTO(r *models.Recommendation) RecommendationDTO {
	return RecommendationDTO{
		ID:            r.ID,
		UserID:        r.UserID,
		RecipeID:      r.RecipeID,
		Score:         r.Score,
		RecommendedAt: r.RecommendedAt,
	}
}

// Log records that a recipe was recommended to a user.
func (s *RecommendationService) Log(in RecommendationInput) (*models.Recommendation, error) {
	if in.UserID == nil {
		return nil, invalid("L'ID de l'utilisateur est obligatoire")
	}
	if in.RecipeID == nil {
		return nil, invalid("L'ID de la recette est obligatoire")
	}

	rec := models.Recommendation{
		UserID:        *in.UserID,
		RecipeID:      *in.RecipeID,
		RecommendedAt: time.Now(),
	}
	if in.Score != nil {
		rec.Score = *in.Score
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, rec.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Utilisateur non trouvé avec l'ID: %d", rec.UserID)
			}
			return err
		}
		var recipe models.Recipe
		if err := tx.First(&recipe, rec.RecipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Recette non trouvée avec l'ID: %d", rec.RecipeID)
			}
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RecommendationService) FindByUserID(userID uint) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := s.db.Where("user_id = ?", userID).
		Order("recommended_at DESC").Find(&recs).Error
	return recs, err
}
