package controllers

import (
	"net/http"

	"github.com/AbdBoutchichi/SmartDish/models"
	"github.com/AbdBoutchichi/SmartDish/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

func userDTOs(users []models.User) []services.UserDTO {
	out := make([]services.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, services.ToUserDTO(&users[i]))
	}
	return out
}

func (ctl *UserController) GetUsers(c *gin.Context) {
	users, err := ctl.service.FindAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userDTOs(users))
}

func (ctl *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := ctl.service.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToUserDTO(user))
}

func (ctl *UserController) GetUserByEmail(c *gin.Context) {
	user, err := ctl.service.FindByEmail(c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToUserDTO(user))
}

// GetMe resolves the profile from the JWT claims set by the auth middleware.
func (ctl *UserController) GetMe(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non authentifié"})
		return
	}
	user, err := ctl.service.FindByID(userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToUserDTO(user))
}

func (ctl *UserController) CreateUser(c *gin.Context) {
	var in services.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	user, err := ctl.service.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.ToUserDTO(user))
}

func (ctl *UserController) Login(c *gin.Context) {
	var in services.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	user, token, err := ctl.service.Authenticate(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": services.ToUserDTO(user)})
}

func (ctl *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	user, err := ctl.service.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToUserDTO(user))
}

func (ctl *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctl.service.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Utilisateur supprimé"})
}

func (ctl *UserController) ActivateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := ctl.service.Activate(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToUserDTO(user))
}

func (ctl *UserController) DeactivateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := ctl.service.Deactivate(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToUserDTO(user))
}

func (ctl *UserController) AddAllergen(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	foodID, ok := parseID(c, "foodId")
	if !ok {
		return
	}
	user, err := ctl.service.AddAllergen(userID, foodID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToUserDTO(user))
}

func (ctl *UserController) RemoveAllergen(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}
	foodID, ok := parseID(c, "foodId")
	if !ok {
		return
	}
	user, err := ctl.service.RemoveAllergen(userID, foodID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToUserDTO(user))
}
