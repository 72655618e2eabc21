package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/AbdBoutchichi/SmartDish/logger"
	"github.com/AbdBoutchichi/SmartDish/models"
	"github.com/AbdBoutchichi/SmartDish/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type UserInput struct {
	Email         *string `json:"email"`
	Password      *string `json:"password"`
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Role          *string `json:"role"`
	DietaryRegime *string `json:"dietaryRegime"`
	AllergenIDs   *[]uint `json:"allergenIds"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserDTO never carries the password hash.
type UserDTO struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Role          string `json:"role"`
	Active        bool   `json:"active"`
	DietaryRegime string `json:"dietaryRegime"`
	AllergenIDs   []uint `json:"allergenIds"`
}

func ToUserDTO(u *models.User) UserDTO {
	dto := UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Address:       u.Address,
		Role:          u.Role,
		Active:        u.Active,
		DietaryRegime: u.DietaryRegime,
		AllergenIDs:   make([]uint, 0, len(u.Allergens)),
	}
	for _, a := range u.Allergens {
		dto.AllergenIDs = append(dto.AllergenIDs, a.ID)
	}
	return dto
}

func (s *UserService) FindAll() ([]models.User, error) {
	var users []models.User
	err := s.db.Preload("Allergens").Find(&users).Error
	return users, err
}

func (s *UserService) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Allergens").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Utilisateur non trouvé avec l'ID: %d", id)
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Allergens").
		Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Utilisateur non trouvé avec l'email: %s", email)
		}
		return nil, err
	}
	return &user, nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("L'email est obligatoire")
	}
	if !emailPattern.MatchString(email) {
		return invalid("Format d'email invalide")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return invalid("Le mot de passe est obligatoire")
	}
	if len([]rune(password)) < 6 {
		return invalid("Le mot de passe doit contenir au moins 6 caractères")
	}
	return nil
}

// resolveAllergens loads every referenced food; a single dangling id fails
// the whole set.
func resolveAllergens(tx *gorm.DB, ids []uint) ([]models.Food, error) {
	foods := make([]models.Food, 0, len(ids))
	for _, id := range ids {
		var food models.Food
		if err := tx.First(&food, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("Aliment non trouvé avec l'ID: %d", id)
			}
			return nil, err
		}
		foods = append(foods, food)
	}
	return foods, nil
}

func (s *UserService) Create(in UserInput) (*models.User, error) {
	if in.Email == nil {
		return nil, invalid("L'email est obligatoire")
	}
	if err := validateEmail(*in.Email); err != nil {
		return nil, err
	}
	if in.Password == nil {
		return nil, invalid("Le mot de passe est obligatoire")
	}
	if err := validatePassword(*in.Password); err != nil {
		return nil, err
	}
	if in.LastName == nil || *in.LastName == "" {
		return nil, invalid("Le nom est obligatoire")
	}
	if in.FirstName == nil || *in.FirstName == "" {
		return nil, invalid("Le prénom est obligatoire")
	}
	role := models.RoleUser
	if in.Role != nil {
		if !models.IsValidRole(*in.Role) {
			return nil, invalid("Rôle invalide")
		}
		role = *in.Role
	}
	regime := ""
	if in.DietaryRegime != nil {
		if !models.IsValidRegime(*in.DietaryRegime) {
			return nil, invalid("Régime alimentaire invalide")
		}
		regime = *in.DietaryRegime
	}

	hash, err := utils.HashPassword(*in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:         strings.ToLower(*in.Email),
		Password:      hash,
		FirstName:     *in.FirstName,
		LastName:      *in.LastName,
		Role:          role,
		Active:        true,
		DietaryRegime: regime,
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return conflict("Un utilisateur avec cet email existe déjà")
		}

		if in.AllergenIDs != nil {
			foods, err := resolveAllergens(tx, *in.AllergenIDs)
			if err != nil {
				return err
			}
			user.Allergens = foods
		}

		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("user created", zap.Uint("id", user.ID), zap.String("email", user.Email))
	return s.FindByID(user.ID)
}

func (s *UserService) Update(id uint, in UserInput) (*models.User, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Utilisateur non trouvé avec l'ID: %d", id)
			}
			return err
		}

		if in.Email != nil {
			if err := validateEmail(*in.Email); err != nil {
				return err
			}
			email := strings.ToLower(*in.Email)
			var count int64
			if err := tx.Model(&models.User{}).
				Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return conflict("Un autre utilisateur utilise déjà cet email")
			}
			user.Email = email
		}
		if in.Password != nil {
			if err := validatePassword(*in.Password); err != nil {
				return err
			}
			hash, err := utils.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			user.Password = hash
		}
		if in.FirstName != nil {
			if *in.FirstName == "" {
				return invalid("Le prénom est obligatoire")
			}
			user.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			if *in.LastName == "" {
				return invalid("Le nom est obligatoire")
			}
			user.LastName = *in.LastName
		}
		if in.Phone != nil {
			user.Phone = *in.Phone
		}
		if in.Address != nil {
			user.Address = *in.Address
		}
		if in.Role != nil {
			if !models.IsValidRole(*in.Role) {
				return invalid("Rôle invalide")
			}
			user.Role = *in.Role
		}
		if in.DietaryRegime != nil {
			if !models.IsValidRegime(*in.DietaryRegime) {
				return invalid("Régime alimentaire invalide")
			}
			user.DietaryRegime = *in.DietaryRegime
		}

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		if in.AllergenIDs != nil {
			foods, err := resolveAllergens(tx, *in.AllergenIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&user).Association("Allergens").Replace(foods); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(id)
}

func (s *UserService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Utilisateur non trouvé avec l'ID: %d", id)
			}
			return err
		}
		if err := tx.Model(&user).Association("Allergens").Clear(); err != nil {
			return err
		}
		// hard delete so the email can be reused
		return tx.Unscoped().Delete(&user).Error
	})
}

// Authenticate verifies the credentials and issues a signed token. The same
// message covers unknown email and wrong password.
func (s *UserService) Authenticate(in LoginInput) (*models.User, string, error) {
	var user models.User
	err := s.db.Preload("Allergens").
		Where("email = ?", strings.ToLower(in.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", unauthorized("Email ou mot de passe incorrect")
		}
		return nil, "", err
	}
	if !utils.CheckPasswordHash(in.Password, user.Password) {
		return nil, "", unauthorized("Email ou mot de passe incorrect")
	}
	if !user.Active {
		return nil, "", unauthorized("Compte désactivé")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	logger.Info("user logged in", zap.Uint("id", user.ID))
	return &user, token, nil
}

func (s *UserService) setActive(id uint, active bool) (*models.User, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Utilisateur non trouvé avec l'ID: %d", id)
			}
			return err
		}
		return tx.Model(&user).Update("active", active).Error
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(id)
}

func (s *UserService) Activate(id uint) (*models.User, error) {
	return s.setActive(id, true)
}

func (s *UserService) Deactivate(id uint) (*models.User, error) {
	return s.setActive(id, false)
}

func (s *UserService) AddAllergen(userID, foodID uint) (*models.User, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Utilisateur non trouvé avec l'ID: %d", userID)
			}
			return err
		}
		var food models.Food
		if err := tx.First(&food, foodID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Aliment non trouvé avec l'ID: %d", foodID)
			}
			return err
		}
		return tx.Model(&user).Association("Allergens").Append(&food)
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(userID)
}

func (s *UserService) RemoveAllergen(userID, foodID uint) (*models.User, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Utilisateur non trouvé avec l'ID: %d", userID)
			}
			return err
		}
		var food models.Food
		if err := tx.First(&food, foodID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Aliment non trouvé avec l'ID: %d", foodID)
			}
			return err
		}
		return tx.Model(&user).Association("Allergens").Delete(&food)
	})
	if err != nil {
		return nil, err
	}
	return s.FindByID(userID)
}
