package services

import (
	"errors"

	"github.com/AbdBoutchichi/SmartDish/models"

	"gorm.io/gorm"
)

type FoodService struct {
	db *gorm.DB
}

func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

// FoodInput covers both create and update; nil means "leave unchanged" on
// update and "missing" on create.
type FoodInput struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
}

type FoodDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func ToFoodDTO(f *models.Food) FoodDTO {
	return FoodDTO{ID: f.ID, Name: f.Name, Category: f.Category}
}

func (s *FoodService) FindAll() ([]models.Food, error) {
	var foods []models.Food
	err := s.db.Order("name ASC").Find(&foods).Error
	return foods, err
}

func (s *FoodService) FindByCategory(category string) ([]models.Food, error) {
	var foods []models.Food
	err := s.db.Where("category = ?", category).Order("name ASC").Find(&foods).Error
	return foods, err
}

func (s *FoodService) SearchByName(q string) ([]models.Food, error) {
	var foods []models.Food
	err := s.db.Where("LOWER(name) LIKE LOWER(?)", "%"+q+"%").Order("name ASC").Find(&foods).Error
	return foods, err
}

func (s *FoodService) FindByID(id uint) (*models.Food, error) {
	var food models.Food
	if err := s.db.First(&food, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Aliment non trouvé avec l'ID: %d", id)
		}
		return nil, err
	}
	return &food, nil
}

// FindByName is case-insensitive.
func (s *FoodService) FindByName(name string) (*models.Food, error) {
	var food models.Food
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&food).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Aliment non trouvé avec le nom: %s", name)
		}
		return nil, err
	}
	return &food, nil
}

func validateFoodName(name string) error {
	if name == "" {
		return invalid("Le nom de l'aliment est obligatoire")
	}
	if len([]rune(name)) < 2 {
		return invalid("Le nom doit contenir au moins 2 caractères")
	}
	if len([]rune(name)) > 100 {
		return invalid("Le nom ne peut pas dépasser 100 caractères")
	}
	return nil
}

func (s *FoodService) Create(in FoodInput) (*models.Food, error) {
	if in.Name == nil {
		return nil, invalid("Le nom de l'aliment est obligatoire")
	}
	if err := validateFoodName(*in.Name); err != nil {
		return nil, err
	}
	if in.Category == nil || *in.Category == "" {
		return nil, invalid("La catégorie est obligatoire")
	}
	if !models.IsValidFoodCategory(*in.Category) {
		return nil, invalid("Catégorie invalide")
	}

	food := models.Food{Name: *in.Name, Category: *in.Category}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Food{}).
			Where("LOWER(name) = LOWER(?)", food.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return conflict("Un aliment avec ce nom existe déjà")
		}
		return tx.Create(&food).Error
	})
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (s *FoodService) Update(id uint, in FoodInput) (*models.Food, error) {
	var food models.Food
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&food, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Aliment non trouvé avec l'ID: %d", id)
			}
			return err
		}

		if in.Name != nil {
			if err := validateFoodName(*in.Name); err != nil {
				return err
			}
			var count int64
			if err := tx.Model(&models.Food{}).
				Where("LOWER(name) = LOWER(?) AND id <> ?", *in.Name, id).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return conflict("Un autre aliment utilise déjà ce nom")
			}
			food.Name = *in.Name
		}
		if in.Category != nil {
			if *in.Category == "" {
				return invalid("La catégorie est obligatoire")
			}
			if !models.IsValidFoodCategory(*in.Category) {
				return invalid("Catégorie invalide")
			}
			food.Category = *in.Category
		}

		return tx.Save(&food).Error
	})
	if err != nil {
		return nil, err
	}
	return &food, nil
}

// Delete blocks when the food is still referenced by recipe ingredient lines
// or by user allergen sets.
func (s *FoodService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var food models.Food
		if err := tx.First(&food, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Aliment non trouvé avec l'ID: %d", id)
			}
			return err
		}

		var refs int64
		if err := tx.Model(&models.Ingredient{}).Where("food_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs == 0 {
			if err := tx.Table("user_allergens").Where("food_id = ?", id).Count(&refs).Error; err != nil {
				return err
			}
		}
		if refs > 0 {
			return conflict("Impossible de supprimer l'aliment: il est utilisé par des recettes ou des utilisateurs")
		}

		// hard delete so the name can be reused
		return tx.Unscoped().Delete(&food).Error
	})
}
