package controllers

import (
	"net/http"

	"github.com/AbdBoutchichi/SmartDish/services"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	service *services.RecommendationService
}

func NewRecommendationController(service *services.RecommendationService) *RecommendationController {
	return &RecommendationController{service: service}
}

func (ctl *RecommendationController) LogRecommendation(c *gin.Context) {
	var in services.RecommendationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	rec, err := ctl.service.Log(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.ToRecommendationDTO(rec))
}

func (ctl *RecommendationController) GetByUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recs, err := ctl.service.FindByUserID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]services.RecommendationDTO, 0, len(recs))
	for i := range recs {
		out = append(out, services.ToRecommendationDTO(&recs[i]))
	}
	c.JSON(http.StatusOK, out)
}
