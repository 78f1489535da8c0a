package main

import (
	"log"

	"erecipe-backend/config"
	"erecipe-backend/handlers"
	"erecipe-backend/middleware"
	"erecipe-backend/models"
	"erecipe-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	utils.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto migrate tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.Ingredient{},
		&models.Step{},
		&models.Rating{},
		&models.Comment{},
		&models.Favorite{},
		&models.Report{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	promoteConfiguredAdmin(db, cfg.AdminEmail)

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)
	authHandler := handlers.NewAuthHandler(db)
	recipeHandler := handlers.NewRecipeHandler(db, uploadHandler)
	favoriteHandler := handlers.NewFavoriteHandler(db)
	reportHandler := handlers.NewReportHandler(db)
	homeHandler := handlers.NewHomeHandler(db)
	adminHandler := handlers.NewAdminHandler(db, uploadHandler)

	// Setup Gin router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Serve uploaded files
	router.Static("/uploads", cfg.UploadDir)

	// Public routes
	public := router.Group("/api")
	{
		public.POST("/auth/signup", authHandler.Signup)
		public.POST("/auth/login", authHandler.Login)
		public.GET("/home", homeHandler.GetHome)
		public.GET("/recipes", recipeHandler.GetRecipes)
		public.GET("/recipes/:id", middleware.OptionalAuthMiddleware(), recipeHandler.GetRecipe)
		public.GET("/recipes/:id/ingredients", recipeHandler.GetIngredients)
		public.GET("/recipes/:id/steps", recipeHandler.GetSteps)
		public.GET("/recipes/:id/rate", recipeHandler.GetRecipeRating)
		public.GET("/recipes/:id/comments", recipeHandler.GetComments)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
		protected.POST("/auth/change-password", authHandler.ChangePassword)

		protected.POST("/recipes", recipeHandler.CreateRecipe)
		protected.PUT("/recipes/:id", recipeHandler.UpdateRecipe)
		protected.DELETE("/recipes/:id", recipeHandler.DeleteRecipe)
		protected.POST("/recipes/:id/rate", recipeHandler.RateRecipe)
		protected.POST("/recipes/:id/comment", recipeHandler.AddComment)
		protected.GET("/my-recipes", recipeHandler.GetMyRecipes)

		protected.POST("/favorites", favoriteHandler.AddFavorite)
		protected.DELETE("/favorites", favoriteHandler.RemoveFavorite)
		protected.GET("/favorites/check/:recipeId", favoriteHandler.CheckFavorite)

		protected.POST("/reports", reportHandler.CreateReport)
		protected.GET("/reports/content/:contentId", reportHandler.GetContentReports)

		protected.POST("/upload", uploadHandler.UploadImage)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/overview", adminHandler.GetOverview)
		admin.GET("/user-overview", adminHandler.GetUserOverview)
		admin.GET("/recipe-overview", adminHandler.GetRecipeOverview)
		admin.GET("/reports", reportHandler.GetReports)
		admin.GET("/reports/:id", reportHandler.GetReport)
		admin.PUT("/reports/:id/status", reportHandler.UpdateReportStatus)
		admin.DELETE("/comments/:id", adminHandler.DeleteComment)
		admin.DELETE("/recipes/:id", adminHandler.DeleteRecipe)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(router.Run(":" + cfg.Port))
}

// promoteConfiguredAdmin grants the admin role to the account named by
// ADMIN_EMAIL, so a fresh deployment has a way into the console.
func promoteConfiguredAdmin(db *gorm.DB, email string) {
	if email == "" {
		return
	}

	result := db.Model(&models.User{}).Where("email = ?", email).Update("role", models.RoleAdmin)
	if result.Error != nil {
		log.Println("Failed to promote admin account:", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("Granted admin role to %s", email)
	}
}
