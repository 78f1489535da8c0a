package handlers

import (
	"log"
	"net/http"

	"erecipe-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteHandler struct {
	DB *gorm.DB
}

func NewFavoriteHandler(db *gorm.DB) *FavoriteHandler {
	return &FavoriteHandler{DB: db}
}

type favoriteInput struct {
	RecipeID string `json:"recipe_id" binding:"required"`
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var input favoriteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if uuid.Validate(input.RecipeID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID format"})
		return
	}

	userID := c.GetString("user_id")

	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", input.RecipeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	var existing models.Favorite
	if err := h.DB.Where("user_id = ? AND recipe_id = ?", userID, input.RecipeID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipe already in favorites"})
		return
	}

	favorite := models.Favorite{UserID: userID, RecipeID: input.RecipeID}
	if err := h.DB.Create(&favorite).Error; err != nil {
		log.Println("Error adding favorite:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add favorite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Recipe added to favorites"})
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	var input favoriteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	if err := h.DB.Where("user_id = ? AND recipe_id = ?", userID, input.RecipeID).
		Delete(&models.Favorite{}).Error; err != nil {
		log.Println("Error removing favorite:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe removed from favorites"})
}

func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	recipeID := c.Param("recipeId")
	if uuid.Validate(recipeID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID format"})
		return
	}

	var count int64
	err := h.DB.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", c.GetString("user_id"), recipeID).
		Count(&count).Error
	if err != nil {
		log.Println("Error checking favorite:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isFavorited": count > 0})
}
