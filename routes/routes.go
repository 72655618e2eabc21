package routes

import (
	"time"

	"github.com/AbdBoutchichi/SmartDish/controllers"
	"github.com/AbdBoutchichi/SmartDish/middlewares"
	"github.com/AbdBoutchichi/SmartDish/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	foodCtl := controllers.NewFoodController(services.NewFoodService(db))
	recipeCtl := controllers.NewRecipeController(services.NewRecipeService(db))
	feedbackCtl := controllers.NewFeedbackController(services.NewFeedbackService(db))
	userCtl := controllers.NewUserController(services.NewUserService(db))
	recoCtl := controllers.NewRecommendationController(services.NewRecommendationService(db))

	r.GET("/health", controllers.HealthCheck)

	foods := r.Group("/foods")
	{
		foods.GET("", foodCtl.GetFoods)
		foods.GET("/:id", foodCtl.GetFood)
		foods.GET("/name/:name", foodCtl.GetFoodByName)
		foods.POST("", foodCtl.CreateFood)
		foods.PUT("/:id", foodCtl.UpdateFood)
		foods.DELETE("/:id", foodCtl.DeleteFood)
	}

	recipes := r.Group("/recipes")
	{
		recipes.GET("", recipeCtl.GetRecipes)
		recipes.GET("/search", recipeCtl.SearchRecipes)
		recipes.GET("/top-rated", recipeCtl.GetTopRated)
		recipes.GET("/:id", recipeCtl.GetRecipe)
		recipes.POST("", recipeCtl.CreateRecipe)
		recipes.POST("/:id/image", recipeCtl.UploadImage)
		recipes.PUT("/:id", recipeCtl.UpdateRecipe)
		recipes.DELETE("/:id", recipeCtl.DeleteRecipe)
	}

	feedbacks := r.Group("/feedbacks")
	{
		feedbacks.GET("", feedbackCtl.GetFeedbacks)
		feedbacks.GET("/recent", feedbackCtl.GetRecent)
		feedbacks.GET("/by-rating/:rating", feedbackCtl.GetByRating)
		feedbacks.GET("/stats/global", feedbackCtl.GetGlobalStats)
		feedbacks.GET("/user/:userId", feedbackCtl.GetByUser)
		feedbacks.GET("/user/:userId/recipe/:recipeId", feedbackCtl.GetByUserAndRecipe)
		feedbacks.GET("/recipe/:recipeId", feedbackCtl.GetByRecipe)
		feedbacks.GET("/recipe/:recipeId/stats", feedbackCtl.GetRecipeStats)
		feedbacks.GET("/:id", feedbackCtl.GetFeedback)
		feedbacks.POST("", feedbackCtl.CreateFeedback)
		feedbacks.PUT("/:id", feedbackCtl.UpdateFeedback)
		feedbacks.DELETE("/:id", feedbackCtl.DeleteFeedback)
	}

	users := r.Group("/users")
	{
		users.GET("", userCtl.GetUsers)
		users.GET("/email/:email", userCtl.GetUserByEmail)
		users.GET("/:id", userCtl.GetUser)
		users.POST("", userCtl.CreateUser)
		users.POST("/login", userCtl.Login)
		users.PUT("/:id", userCtl.UpdateUser)
		users.DELETE("/:id", userCtl.DeleteUser)
		users.PUT("/:id/activate", userCtl.ActivateUser)
		users.PUT("/:id/deactivate", userCtl.DeactivateUser)
		users.POST("/:id/allergens/:foodId", userCtl.AddAllergen)
		users.DELETE("/:id/allergens/:foodId", userCtl.RemoveAllergen)

		users.GET("/me", middlewares.AuthMiddleware(), userCtl.GetMe)
	}

	recommendations := r.Group("/recommendations")
	{
		recommendations.POST("", recoCtl.LogRecommendation)
		recommendations.GET("/user/:id", recoCtl.GetByUser)
	}

	return r
}
