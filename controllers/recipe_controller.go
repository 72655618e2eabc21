package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/AbdBoutchichi/SmartDish/models"
	"github.com/AbdBoutchichi/SmartDish/services"

	"github.com/gin-gonic/gin"
)

type RecipeController struct {
	service *services.RecipeService
}

func NewRecipeController(service *services.RecipeService) *RecipeController {
	return &RecipeController{service: service}
}

func (ctl *RecipeController) dtos(recipes []models.Recipe) []services.RecipeDTO {
	out := make([]services.RecipeDTO, 0, len(recipes))
	for i := range recipes {
		out = append(out, ctl.service.ToDTO(&recipes[i]))
	}
	return out
}

// GetRecipes answers GET /recipes; ?ingredientIds=1,2 narrows to recipes
// using any of those foods, ?title= does a substring match.
func (ctl *RecipeController) GetRecipes(c *gin.Context) {
	var (
		recipes []models.Recipe
		err     error
	)
	switch {
	case c.Query("ingredientIds") != "":
		ids, perr := parseIDList(c.Query("ingredientIds"))
		if perr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant invalide: " + c.Query("ingredientIds")})
			return
		}
		recipes, err = ctl.service.FindByFoodIDs(ids)
	case c.Query("title") != "":
		recipes, err = ctl.service.SearchByTitle(c.Query("title"))
	default:
		recipes, err = ctl.service.FindAll()
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.dtos(recipes))
}

func parseIDList(raw string) ([]uint, error) {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func (ctl *RecipeController) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := ctl.service.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.service.ToDTO(recipe))
}

func (ctl *RecipeController) SearchRecipes(c *gin.Context) {
	var minRating *float64
	if raw := c.Query("minRating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre minRating invalide"})
			return
		}
		minRating = &v
	}
	var maxCookTime *int
	if raw := c.Query("maxCookTime"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre maxCookTime invalide"})
			return
		}
		maxCookTime = &v
	}

	results, err := ctl.service.Search(c.Query("title"), minRating, maxCookTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (ctl *RecipeController) GetTopRated(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre limit invalide"})
			return
		}
		limit = v
	}
	results, err := ctl.service.TopRated(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (ctl *RecipeController) CreateRecipe(c *gin.Context) {
	var in services.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	recipe, err := ctl.service.Create(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ctl.service.ToDTO(recipe))
}

func (ctl *RecipeController) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.RecipeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corps de requête invalide"})
		return
	}
	recipe, err := ctl.service.Update(id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.service.ToDTO(recipe))
}

func (ctl *RecipeController) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctl.service.Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recette supprimée"})
}

type imagePayload struct {
	Image string `json:"image"`
}

// UploadImage accepts a base64 data payload, stores it on S3 and saves the
// resulting URL on the recipe.
func (ctl *RecipeController) UploadImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload imagePayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image manquante"})
		return
	}
	recipe, err := ctl.service.UpdateImage(id, payload.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ctl.service.ToDTO(recipe))
}
