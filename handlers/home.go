package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HomeHandler struct {
	DB *gorm.DB
}

func NewHomeHandler(db *gorm.DB) *HomeHandler {
	return &HomeHandler{DB: db}
}

// GetHome serves the landing page data: the eight newest recipes and
// the eight best rated ones, both through the shared query shape.
func (h *HomeHandler) GetHome(c *gin.Context) {
	latest, err := queryRecipeViews(h.DB, RecipeFilter{SortBy: SortLatest, Limit: 8})
	if err != nil {
		log.Println("Error fetching latest recipes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch home data"})
		return
	}

	topRated, err := queryRecipeViews(h.DB, RecipeFilter{SortBy: SortRating, Limit: 8})
	if err != nil {
		log.Println("Error fetching top rated recipes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch home data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"latestRecipes":   latest,
			"topRatedRecipes": topRated,
		},
	})
}
