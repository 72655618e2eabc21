package services

import (
	"errors"
	"time"

	"github.com/AbdBoutchichi/SmartDish/logger"
	"github.com/AbdBoutchichi/SmartDish/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

type FeedbackInput struct {
	UserID   *uint   `json:"userId"`
	RecipeID *uint   `json:"recipeId"`
	Rating   *int    `json:"rating"`
	Comment  *string `json:"comment"`
}

// FeedbackUpdateInput fields left nil are kept as-is.
type FeedbackUpdateInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type FeedbackDTO struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	RecipeID    uint      `json:"recipeId"`
	UserEmail   string    `json:"userEmail,omitempty"`
	RecipeTitle string    `json:"recipeTitle,omitempty"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RatingStats is the aggregate view for one recipe or for the whole store.
// AverageRating is 0.0 for display when there is no feedback at all.
type RatingStats struct {
	RecipeID        uint          `json:"recipeId,omitempty"`
	AverageRating   float64       `json:"averageRating"`
	FeedbackCount   int64         `json:"feedbackCount"`
	RatingHistogram map[int]int64 `json:"ratingHistogram"`
}

// ToDTO enriches the row with the rater's email and the recipe title when
// those still exist.
func (s *FeedbackService) ToDTO(f *models.Feedback) FeedbackDTO {
	dto := FeedbackDTO{
		ID:        f.ID,
		UserID:    f.UserID,
		RecipeID:  f.RecipeID,
		Rating:    f.Rating,
		Comment:   f.Comment,
		CreatedAt: f.RatedAt,
	}

	var user models.User
	if err := s.db.First(&user, f.UserID).Error; err == nil {
		dto.UserEmail = user.Email
	}
	var recipe models.Recipe
	if err := s.db.First(&recipe, f.RecipeID).Error; err == nil {
		dto.RecipeTitle = recipe.Title
	}
	return dto
}

func (s *FeedbackService) FindAll() ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := s.db.Find(&feedbacks).Error
	return feedbacks, err
}

func (s *FeedbackService) FindByID(id uint) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := s.db.First(&feedback, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Feedback non trouvé avec l'ID: %d", id)
		}
		return nil, err
	}
	return &feedback, nil
}

func (s *FeedbackService) FindByUserID(userID uint) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := s.db.Where("user_id = ?", userID).Find(&feedbacks).Error
	return feedbacks, err
}

func (s *FeedbackService) FindByRecipeID(recipeID uint) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := s.db.Where("recipe_id = ?", recipeID).Find(&feedbacks).Error
	return feedbacks, err
}

func (s *FeedbackService) FindByUserAndRecipe(userID, recipeID uint) (*models.Feedback, error) {
	var feedback models.Feedback
	err := s.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&feedback).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Feedback non trouvé")
		}
		return nil, err
	}
	return &feedback, nil
}

func (s *FeedbackService) FindRecent(limit int) ([]models.Feedback, error) {
	if limit <= 0 {
		limit = 10
	}
	var feedbacks []models.Feedback
	err := s.db.Order("rated_at DESC").Limit(limit).Find(&feedbacks).Error
	return feedbacks, err
}

func (s *FeedbackService) FindByRating(rating int) ([]models.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, invalid("L'évaluation doit être comprise entre 1 et 5 étoiles")
	}
	var feedbacks []models.Feedback
	err := s.db.Where("rating = ?", rating).Find(&feedbacks).Error
	return feedbacks, err
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return invalid("L'évaluation doit être comprise entre 1 et 5 étoiles")
	}
	return nil
}

func validateComment(comment string) error {
	if len([]rune(comment)) > 1000 {
		return invalid("Le commentaire ne peut pas dépasser 1000 caractères")
	}
	return nil
}

// Create enforces one feedback per (user, recipe) pair; callers must use
// Update to change an existing rating.
func (s *FeedbackService) Create(in FeedbackInput) (*models.Feedback, error) {
	if in.UserID == nil {
		return nil, invalid("L'ID de l'utilisateur est obligatoire")
	}
	if in.RecipeID == nil {
		return nil, invalid("L'ID de la recette est obligatoire")
	}
	if in.Rating == nil {
		return nil, invalid("L'évaluation est obligatoire")
	}
	if err := validateRating(*in.Rating); err != nil {
		return nil, err
	}
	comment := ""
	if in.Comment != nil {
		comment = *in.Comment
	}
	if err := validateComment(comment); err != nil {
		return nil, err
	}

	feedback := models.Feedback{
		UserID:   *in.UserID,
		RecipeID: *in.RecipeID,
		Rating:   *in.Rating,
		Comment:  comment,
		RatedAt:  time.Now(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, feedback.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Utilisateur non trouvé avec l'ID: %d", feedback.UserID)
			}
			return err
		}
		var recipe models.Recipe
		if err := tx.First(&recipe, feedback.RecipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Recette non trouvée avec l'ID: %d", feedback.RecipeID)
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Feedback{}).
			Where("user_id = ? AND recipe_id = ?", feedback.UserID, feedback.RecipeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return conflict("Vous avez déjà noté cette recette.")
		}

		return tx.Create(&feedback).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("feedback created",
		zap.Uint("userId", feedback.UserID),
		zap.Uint("recipeId", feedback.RecipeID),
		zap.Int("rating", feedback.Rating))
	return &feedback, nil
}

func (s *FeedbackService) Update(id uint, in FeedbackUpdateInput) (*models.Feedback, error) {
	var feedback models.Feedback
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&feedback, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Feedback non trouvé avec l'ID: %d", id)
			}
			return err
		}

		if in.Rating != nil {
			if err := validateRating(*in.Rating); err != nil {
				return err
			}
			feedback.Rating = *in.Rating
		}
		if in.Comment != nil {
			if err := validateComment(*in.Comment); err != nil {
				return err
			}
			feedback.Comment = *in.Comment
		}
		feedback.RatedAt = time.Now()

		return tx.Save(&feedback).Error
	})
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (s *FeedbackService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var feedback models.Feedback
		if err := tx.First(&feedback, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Feedback non trouvé avec l'ID: %d", id)
			}
			return err
		}
		return tx.Delete(&feedback).Error
	})
}

// RecipeStats aggregates over the recipe's feedback rows; AverageRating is
// served as 0.0 when the recipe has none.
func (s *FeedbackService) RecipeStats(recipeID uint) (*RatingStats, error) {
	feedbacks, err := s.FindByRecipeID(recipeID)
	if err != nil {
		return nil, err
	}

	stats := &RatingStats{
		RecipeID:        recipeID,
		FeedbackCount:   int64(len(feedbacks)),
		RatingHistogram: RatingHistogram(feedbacks),
	}
	if avg := AverageRating(feedbacks); avg != nil {
		stats.AverageRating = *avg
	}
	return stats, nil
}

func (s *FeedbackService) GlobalStats() (*RatingStats, error) {
	feedbacks, err := s.FindAll()
	if err != nil {
		return nil, err
	}

	stats := &RatingStats{
		FeedbackCount:   int64(len(feedbacks)),
		RatingHistogram: RatingHistogram(feedbacks),
	}
	if avg := AverageRating(feedbacks); avg != nil {
		stats.AverageRating = *avg
	}
	return stats, nil
}
