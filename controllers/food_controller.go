package controllers

import (
	"net/http"

	"github.com/AbdBoutchichi/SmartDish/models"
	"github.com/AbdBoutchichi/SmartDish/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	service *services.FoodService
}

func NewFoodController(service *services.FoodService) *FoodController {
	return &FoodController{service: service}
}

func foodDTOs(foods []models.Food) []services.FoodDTO {
	out := make([]services.FoodDTO, 0, len(foods))
	for i := range foods {
		out = append(out, services.ToFoodDTO(&foods[i]))
	}
	return out
}

// GetFoods answers GET /foods, optionally filtered by ?category= or ?search=.
func (ctl *FoodController) GetFoods(c *gin.Context) {
	var (
		foods []models.Food
		err   error
	)
	switch {
	case c.Query("category") != "":
		foods, err = ctl.service.FindByCategory(c.Query("category"))
	case c.Query("search") != "":
		foods, err = ctl.service.SearchByName(c.Query("search"))
	default:
		foods, err = ctl.service.FindAll()
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foodDTOs(foods))
}

func (ctl *FoodController) GetFood(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	food, err := ctl.service.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToFoodDTO(food))
}

func (ctl *FoodController) GetFoodByName(c *gin.Context) {
	food, err := ctl.service.FindByName(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToFoodDTO(food))
}

func (ctl *FoodController) CreateFood(c *gin.Context) {
	var in services.FoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	food, err := ctl.service.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.ToFoodDTO(food))
}

func (ctl *FoodController) UpdateFood(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.FoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	food, err := ctl.service.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services.ToFoodDTO(food))
}

func (ctl *FoodController) DeleteFood(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctl.service.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Aliment supprimé"})
}
