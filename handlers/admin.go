package handlers

import (
	"log"
	"net/http"
	"time"

	"erecipe-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminHandler struct {
	DB      *gorm.DB
	Uploads *UploadHandler
}

func NewAdminHandler(db *gorm.DB, uploads *UploadHandler) *AdminHandler {
	return &AdminHandler{DB: db, Uploads: uploads}
}

type adminCommentView struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	Username    string    `json:"username"`
	RecipeID    string    `json:"recipeId"`
	RecipeTitle string    `json:"recipeTitle"`
}

// GetOverview serves the dashboard: totals, last-hour activity, latest
// recipes and comments, and the weighted popularity top five.
func (h *AdminHandler) GetOverview(c *gin.Context) {
	oneHourAgo := time.Now().Add(-time.Hour)

	var totalUsers, recentUsers int64
	var totalRecipes, recentRecipes int64
	var totalComments, recentComments int64

	counts := []struct {
		model  interface{}
		total  *int64
		recent *int64
	}{
		{&models.User{}, &totalUsers, &recentUsers},
		{&models.Recipe{}, &totalRecipes, &recentRecipes},
		{&models.Comment{}, &totalComments, &recentComments},
	}
	for _, cnt := range counts {
		if err := h.DB.Model(cnt.model).Count(cnt.total).Error; err != nil {
			h.overviewError(c, err)
			return
		}
		if err := h.DB.Model(cnt.model).Where("created_at >= ?", oneHourAgo).Count(cnt.recent).Error; err != nil {
			h.overviewError(c, err)
			return
		}
	}

	latestRecipes, err := queryRecipeViews(h.DB, RecipeFilter{SortBy: SortLatest, Limit: 5})
	if err != nil {
		h.overviewError(c, err)
		return
	}

	popularRecipes, err := popularRecipeViews(h.DB, 5)
	if err != nil {
		h.overviewError(c, err)
		return
	}

	var latestComments []adminCommentView
	err = h.DB.Model(&models.Comment{}).
		Select(`comments.id, comments.content, comments.created_at,
			users.username, recipes.id AS recipe_id, recipes.title AS recipe_title`).
		Joins("JOIN users ON users.id = comments.user_id").
		Joins("JOIN recipes ON recipes.id = comments.recipe_id").
		Order("comments.created_at DESC").
		Limit(5).
		Scan(&latestComments).Error
	if err != nil {
		h.overviewError(c, err)
		return
	}
	if latestComments == nil {
		latestComments = []adminCommentView{}
	}

	c.JSON(http.StatusOK, gin.H{
		"users": gin.H{
			"total":  totalUsers,
			"recent": recentUsers,
		},
		"recipes": gin.H{
			"total":   totalRecipes,
			"recent":  recentRecipes,
			"latest":  latestRecipes,
			"popular": popularRecipes,
		},
		"comments": gin.H{
			"total":  totalComments,
			"recent": recentComments,
			"latest": latestComments,
		},
	})
}

func (h *AdminHandler) overviewError(c *gin.Context, err error) {
	log.Println("Admin overview error:", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching dashboard data"})
}

type userActivityView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	Recipes   int64     `json:"recipes"`
	Comments  int64     `json:"comments"`
	Ratings   int64     `json:"ratings"`
}

// GetUserOverview reports per-user activity counts. Password hashes are
// never selected.
func (h *AdminHandler) GetUserOverview(c *gin.Context) {
	var totalUsers, newUsers int64
	if err := h.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		h.overviewError(c, err)
		return
	}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := h.DB.Model(&models.User{}).Where("created_at >= ?", thirtyDaysAgo).Count(&newUsers).Error; err != nil {
		h.overviewError(c, err)
		return
	}

	var stats []userActivityView
	err := h.DB.Model(&models.User{}).
		Select(`users.id, users.username, users.email, users.role, users.created_at,
			(SELECT COUNT(*) FROM recipes WHERE recipes.user_id = users.id) AS recipes,
			(SELECT COUNT(*) FROM comments WHERE comments.user_id = users.id) AS comments,
			(SELECT COUNT(*) FROM ratings WHERE ratings.user_id = users.id) AS ratings`).
		Order("users.created_at DESC").
		Scan(&stats).Error
	if err != nil {
		h.overviewError(c, err)
		return
	}
	if stats == nil {
		stats = []userActivityView{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"totalUsers": totalUsers,
			"newUsers":   newUsers,
			"userStats":  stats,
		},
	})
}

// GetRecipeOverview lists every recipe with its rating and comment
// counts for the moderation console.
func (h *AdminHandler) GetRecipeOverview(c *gin.Context) {
	var filter RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.Favorites = false
	filter.OwnerID = ""

	views, err := queryRecipeViews(h.DB, filter)
	if err != nil {
		log.Println("Error fetching recipe overview:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	commentID := c.Param("id")
	if uuid.Validate(commentID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID format"})
		return
	}

	result := h.DB.Delete(&models.Comment{}, "id = ?", commentID)
	if result.Error != nil {
		log.Println("Error deleting comment:", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// DeleteRecipe is the moderation path: same transactional cascade as
// the author-facing delete, without the ownership check.
func (h *AdminHandler) DeleteRecipe(c *gin.Context) {
	recipeID := c.Param("id")
	if uuid.Validate(recipeID) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID format"})
		return
	}

	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", recipeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	var steps []models.Step
	if err := h.DB.Where("recipe_id = ?", recipeID).Find(&steps).Error; err != nil {
		log.Println("Error fetching steps for delete:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		return
	}

	if err := deleteRecipeCascade(h.DB, recipeID); err != nil {
		log.Println("Error deleting recipe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		return
	}

	if h.Uploads != nil {
		h.Uploads.DeleteImage(recipe.ImageURL)
		for _, step := range steps {
			h.Uploads.DeleteImage(step.ImageURL)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe and associated data deleted successfully", "recipe_id": recipeID})
}
