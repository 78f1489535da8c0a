package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"erecipe-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeHandler struct {
	DB      *gorm.DB
	Uploads *UploadHandler
}

func NewRecipeHandler(db *gorm.DB, uploads *UploadHandler) *RecipeHandler {
	return &RecipeHandler{DB: db, Uploads: uploads}
}

type ingredientInput struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity"`
}

type stepInput struct {
	Description string `json:"description" binding:"required"`
	ImageURL    string `json:"image_url"`
}

type recipeInput struct {
	Title       string            `json:"title" binding:"required"`
	Description string            `json:"description"`
	Servings    int               `json:"servings" binding:"required,min=1"`
	CookingTime int               `json:"cooking_time" binding:"min=0"`
	PrepTime    int               `json:"prep_time" binding:"min=0"`
	Cuisine     string            `json:"cuisine" binding:"required"`
	ImageURL    string            `json:"image_url"`
	Ingredients []ingredientInput `json:"ingredients" binding:"required,min=1,dive"`
	Steps       []stepInput       `json:"steps" binding:"required,min=1,dive"`
}

func validRecipeID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe ID format"})
		return "", false
	}
	return id, true
}

func createChildren(tx *gorm.DB, recipeID string, ingredients []ingredientInput, steps []stepInput) error {
	for i, ing := range ingredients {
		row := models.Ingredient{
			RecipeID:         recipeID,
			IngredientNumber: i + 1,
			Name:             ing.Name,
			Quantity:         ing.Quantity,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for i, step := range steps {
		row := models.Step{
			RecipeID:    recipeID,
			StepNumber:  i + 1,
			Description: step.Description,
			ImageURL:    step.ImageURL,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID := c.GetString("user_id")

	var input recipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := models.Recipe{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Servings:    input.Servings,
		CookingTime: input.CookingTime,
		PrepTime:    input.PrepTime,
		Cuisine:     input.Cuisine,
		ImageURL:    input.ImageURL,
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return createChildren(tx, recipe.ID, input.Ingredients, input.Steps)
	})
	if err != nil {
		log.Println("Error creating recipe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Recipe created successfully", "recipe_id": recipe.ID})
}

// GetRecipes is the public browse endpoint: search, cuisine filter,
// sort key, and optional favorites-only scoping for a user.
func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	var filter RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := queryRecipeViews(h.DB, filter)
	if err != nil {
		log.Println("Error fetching recipes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// GetMyRecipes lists the authenticated user's own recipes through the
// same query shape as the public browse endpoint.
func (h *RecipeHandler) GetMyRecipes(c *gin.Context) {
	var filter RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter.OwnerID = c.GetString("user_id")
	filter.Favorites = false

	views, err := queryRecipeViews(h.DB, filter)
	if err != nil {
		log.Println("Error fetching recipes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := validRecipeID(c)
	if !ok {
		return
	}

	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		log.Println("Error fetching recipe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}

	stats, err := recipeStats(h.DB, recipeID)
	if err != nil {
		log.Println("Error computing recipe stats:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return
	}

	var userRating *int
	if userID := c.GetString("user_id"); userID != "" {
		var rating models.Rating
		if err := h.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&rating).Error; err == nil {
			userRating = &rating.Rating
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe":        recipe,
		"averageRating": stats.AverageRating,
		"totalRatings":  stats.TotalRatings,
		"totalComments": stats.TotalComments,
		"userRating":    userRating,
	})
}

func (h *RecipeHandler) GetIngredients(c *gin.Context) {
	recipeID, ok := validRecipeID(c)
	if !ok {
		return
	}

	var ingredients []models.Ingredient
	if err := h.DB.Where("recipe_id = ?", recipeID).
		Order("ingredient_number ASC").Find(&ingredients).Error; err != nil {
		log.Println("Error fetching ingredients:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ingredients"})
		return
	}

	c.JSON(http.StatusOK, ingredients)
}

func (h *RecipeHandler) GetSteps(c *gin.Context) {
	recipeID, ok := validRecipeID(c)
	if !ok {
		return
	}

	var steps []models.Step
	if err := h.DB.Where("recipe_id = ?", recipeID).
		Order("step_number ASC").Find(&steps).Error; err != nil {
		log.Println("Error fetching steps:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch steps"})
		return
	}

	c.JSON(http.StatusOK, steps)
}

// UpdateRecipe replaces the recipe fields and re-creates its
// ingredients and steps wholesale in one transaction.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipeID, ok := validRecipeID(c)
	if !ok {
		return
	}

	recipe, ok := h.ownedRecipe(c, recipeID)
	if !ok {
		return
	}

	var input recipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":        input.Title,
			"description":  input.Description,
			"servings":     input.Servings,
			"cooking_time": input.CookingTime,
			"prep_time":    input.PrepTime,
			"cuisine":      input.Cuisine,
			"image_url":    input.ImageURL,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Step{}).Error; err != nil {
			return err
		}

		return createChildren(tx, recipeID, input.Ingredients, input.Steps)
	})
	if err != nil {
		log.Println("Error updating recipe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe updated successfully"})
}

// DeleteRecipe removes a recipe and every dependent record in a single
// transaction, so a mid-sequence failure cannot leave orphans. Stored
// images are released best-effort after the transaction commits.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipeID, ok := validRecipeID(c)
	if !ok {
		return
	}

	recipe, ok := h.ownedRecipe(c, recipeID)
	if !ok {
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

// deleteRecipeCascade removes the recipe together with its ingredients,
// steps, ratings, comments, favorites, and reports (both reports on the
// recipe itself and reports on its comments), all-or-nothing.
func deleteRecipeCascade(db *gorm.DB, recipeID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("recipe_id = ?", recipeID)
		if err := tx.Where("content_type = ? AND content_id IN (?)", models.ContentTypeComment, commentIDs).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_type = ? AND content_id = ?", models.ContentTypeRecipe, recipeID).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}

		for _, dependent := range []interface{}{
			&models.Comment{}, &models.Rating{}, &models.Favorite{},
			&models.Step{}, &models.Ingredient{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(dependent).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
}

// RateRecipe upserts the caller's rating atomically on the
// (user, recipe) pair and answers with the shared aggregate, so the
// response always matches the detail view.
func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	recipeID, ok := validRecipeID(c)
	if !ok {
		return
	}

	var input struct {
		Rating int `json:"rating" binding:"required,min=1,max=5"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be an integer between 1 and 5"})
		return
	}

	if !h.recipeExists(c, recipeID) {
		return
	}

	rating := models.Rating{
		UserID:   c.GetString("user_id"),
		RecipeID: recipeID,
		Rating:   input.Rating,
	}
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rating":     input.Rating,
			"updated_at": time.Now(),
		}),
	}).Create(&rating).Error
	if err != nil {
		log.Println("Error saving rating:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}

	stats, err := recipeStats(h.DB, recipeID)
	if err != nil {
		log.Println("Error computing recipe stats:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rating"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Rating saved successfully",
		"averageRating": stats.AverageRating,
		"totalRatings":  stats.TotalRatings,
	})
}

func (h *RecipeHandler) GetRecipeRating(c *gin.Context) {
	recipeID, ok := validRecipeID(c)
	if !ok {
		return
	}

	stats, err := recipeStats(h.DB, recipeID)
	if err != nil {
		log.Println("Error computing recipe stats:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rating"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"averageRating": stats.AverageRating,
		"totalRatings":  stats.TotalRatings,
	})
}

func (h *RecipeHandler) AddComment(c *gin.Context) {
	recipeID, ok := validRecipeID(c)
	if !ok {
		return
	}

	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}

	if !h.recipeExists(c, recipeID) {
		return
	}

	comment := models.Comment{
		UserID:   c.GetString("user_id"),
		RecipeID: recipeID,
		Content:  input.Content,
	}
	if err := h.DB.Create(&comment).Error; err != nil {
		log.Println("Error adding comment:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Comment added successfully", "comment_id": comment.ID})
}

type CommentView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *RecipeHandler) GetComments(c *gin.Context) {
	recipeID, ok := validRecipeID(c)
	if !ok {
		return
	}

	var comments []CommentView
	err := h.DB.Model(&models.Comment{}).
		Select("comments.id, comments.user_id, comments.content, comments.created_at, users.username").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.recipe_id = ?", recipeID).
		Order("comments.created_at DESC").
		Scan(&comments).Error
	if err != nil {
		log.Println("Error fetching comments:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}
	if comments == nil {
		comments = []CommentView{}
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments, "totalComments": len(comments)})
}

// ownedRecipe loads the recipe and checks the caller is its author or
// an admin. Writes the error response itself when the check fails.
func (h *RecipeHandler) ownedRecipe(c *gin.Context, recipeID string) (models.Recipe, bool) {
	var recipe models.Recipe
	if err := h.DB.First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		} else {
			log.Println("Error fetching recipe:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		}
		return recipe, false
	}

	if recipe.UserID != c.GetString("user_id") && c.GetString("role") != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return recipe, false
	}
	return recipe, true
}

func (h *RecipeHandler) recipeExists(c *gin.Context, recipeID string) bool {
	var count int64
	if err := h.DB.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		log.Println("Error checking recipe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipe"})
		return false
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return false
	}
	return true
}
