package controllers

import (
	"net/http"
	"strconv"

	"github.com/AbdBoutchichi/SmartDish/models"
	"github.com/AbdBoutchichi/SmartDish/services"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	service *services.FeedbackService
}

func NewFeedbackController(service *services.FeedbackService) *FeedbackController {
	return &FeedbackController{service: service}
}

func (ctl *FeedbackController) dtos(feedbacks []models.Feedback) []services.FeedbackDTO {
	out := make([]services.FeedbackDTO, 0, len(feedbacks))
	for i := range feedbacks {
		out = append(out, ctl.service.ToDTO(&feedbacks[i]))
	}
	return out
}

func (ctl *FeedbackController) GetFeedbacks(c *gin.Context) {
	feedbacks, err := ctl.service.FindAll()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.dtos(feedbacks))
}

func (ctl *FeedbackController) GetFeedback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	feedback, err := ctl.service.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.service.ToDTO(feedback))
}

func (ctl *FeedbackController) GetByUser(c *gin.Context) {
	id, ok := parseID(c, "userId")
	if !ok {
		return
	}
	feedbacks, err := ctl.service.FindByUserID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.dtos(feedbacks))
}

func (ctl *FeedbackController) GetByRecipe(c *gin.Context) {
	id, ok := parseID(c, "recipeId")
	if !ok {
		return
	}
	feedbacks, err := ctl.service.FindByRecipeID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.dtos(feedbacks))
}

func (ctl *FeedbackController) GetByUserAndRecipe(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	recipeID, ok := parseID(c, "recipeId")
	if !ok {
		return
	}
	feedback, err := ctl.service.FindByUserAndRecipe(userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.service.ToDTO(feedback))
}

func (ctl *FeedbackController) GetRecent(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre limit invalide"})
			return
		}
		limit = v
	}
	feedbacks, err := ctl.service.FindRecent(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.dtos(feedbacks))
}

func (ctl *FeedbackController) GetByRating(c *gin.Context) {
	rating, err := strconv.Atoi(c.Param("rating"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide: " + c.Param("rating")})
		return
	}
	feedbacks, err := ctl.service.FindByRating(rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.dtos(feedbacks))
}

func (ctl *FeedbackController) GetRecipeStats(c *gin.Context) {
	id, ok := parseID(c, "recipeId")
	if !ok {
		return
	}
	stats, err := ctl.service.RecipeStats(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ctl *FeedbackController) GetGlobalStats(c *gin.Context) {
	stats, err := ctl.service.GlobalStats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ctl *FeedbackController) CreateFeedback(c *gin.Context) {
	var in services.FeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	feedback, err := ctl.service.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ctl.service.ToDTO(feedback))
}

func (ctl *FeedbackController) UpdateFeedback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.FeedbackUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	feedback, err := ctl.service.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.service.ToDTO(feedback))
}

func (ctl *FeedbackController) DeleteFeedback(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctl.service.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback supprimé"})
}
