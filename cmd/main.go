package main

import (
	"os"

	"github.com/AbdBoutchichi/SmartDish/config"
	"github.com/AbdBoutchichi/SmartDish/logger"
	"github.com/AbdBoutchichi/SmartDish/routes"
	"github.com/AbdBoutchichi/SmartDish/utils"
)

func main() {
	logger.InitializeLogger()
	defer logger.Close()

	db := config.InitDB()
	utils.InitS3()

	r := routes.SetupRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logger.Error("server stopped: " + err.Error())
	}
}
