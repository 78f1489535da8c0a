package handlers

import (
	"strings"
	"time"

	"erecipe-backend/models"

	"gorm.io/gorm"
)

// Sort keys accepted by the browse endpoints.
const (
	SortLatest = "latest"
	SortOldest = "oldest"
	SortRating = "rating"
)

// RecipeFilter shapes a recipe listing: free-text search over
// title/description/cuisine, an exact cuisine filter ("All" disables
// it), a sort key, and optional scoping to one user's own or favorited
// recipes.
type RecipeFilter struct {
	Search    string `form:"search"`
	Cuisine   string `form:"cuisine"`
	SortBy    string `form:"sortBy"`
	UserID    string `form:"userId"`
	Favorites bool   `form:"favorites"`

	OwnerID string `form:"-"`
	Limit   int    `form:"-"`
}

type RecipeAuthor struct {
	Username string `json:"username"`
}

// RecipeView is the display projection of a recipe. Only public fields
// are selected; credentials never reach this struct.
type RecipeView struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	ImageURL      string       `json:"imageUrl"`
	PrepTime      int          `json:"prepTime"`
	CookingTime   int          `json:"cookingTime"`
	Servings      int          `json:"servings"`
	Cuisine       string       `json:"cuisine"`
	CreatedAt     time.Time    `json:"createdAt"`
	AverageRating float64      `json:"averageRating"`
	RatingCount   int          `json:"ratingCount"`
	TotalComments int          `json:"totalComments"`
	Author        RecipeAuthor `json:"author" gorm:"embedded;embeddedPrefix:author_"`
}

// PopularRecipeView carries the weighted popularity ranking used by the
// admin dashboard. Recipes without ratings never appear here.
type PopularRecipeView struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	AverageRating float64 `json:"averageRating"`
	RatingCount   int     `json:"ratingCount"`
	WeightedScore float64 `json:"weightedScore"`
	CreatorName   string  `json:"creatorName"`
}

// RecipeStats is the single-recipe aggregate shared by the detail view
// and the rate-submission response, so the two can never disagree.
type RecipeStats struct {
	AverageRating float64 `json:"averageRating"`
	TotalRatings  int64   `json:"totalRatings"`
	TotalComments int64   `json:"totalComments"`
}

func ratingAggregates(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Rating{}).
		Select("recipe_id, COUNT(*) AS rating_count, AVG(rating) AS avg_rating").
		Group("recipe_id")
}

func commentAggregates(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Comment{}).
		Select("recipe_id, COUNT(*) AS comment_count").
		Group("recipe_id")
}

// queryRecipeViews runs the shared listing shape: recipes joined with
// their author and left-joined rating/comment aggregates. A recipe with
// no ratings gets averageRating 0 via COALESCE, never NULL.
func queryRecipeViews(db *gorm.DB, filter RecipeFilter) ([]RecipeView, error) {
	q := db.Model(&models.Recipe{}).
		Select(`recipes.id, recipes.title, recipes.description, recipes.image_url,
			recipes.prep_time, recipes.cooking_time, recipes.servings, recipes.cuisine,
			recipes.created_at,
			COALESCE(rs.avg_rating, 0) AS average_rating,
			COALESCE(rs.rating_count, 0) AS rating_count,
			COALESCE(cs.comment_count, 0) AS total_comments,
			users.username AS author_username`).
		Joins("JOIN users ON users.id = recipes.user_id").
		Joins("LEFT JOIN (?) rs ON rs.recipe_id = recipes.id", ratingAggregates(db)).
		Joins("LEFT JOIN (?) cs ON cs.recipe_id = recipes.id", commentAggregates(db))

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where(
			"LOWER(recipes.title) LIKE ? OR LOWER(recipes.description) LIKE ? OR LOWER(recipes.cuisine) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if filter.Cuisine != "" && filter.Cuisine != "All" {
		q = q.Where("recipes.cuisine = ?", filter.Cuisine)
	}

	if filter.OwnerID != "" {
		q = q.Where("recipes.user_id = ?", filter.OwnerID)
	}

	if filter.Favorites && filter.UserID != "" {
		q = q.Joins("JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?", filter.UserID)
	}

	switch filter.SortBy {
	case SortOldest:
		q = q.Order("recipes.created_at ASC")
	case SortRating:
		// Ties keep creation order.
		q = q.Order("average_rating DESC").Order("recipes.created_at ASC")
	default:
		q = q.Order("recipes.created_at DESC")
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var views []RecipeView
	if err := q.Scan(&views).Error; err != nil {
		return nil, err
	}
	if views == nil {
		views = []RecipeView{}
	}
	return views, nil
}

// popularRecipeViews ranks recipes by weightedScore =
// averageRating * (1 + 0.1 * ratingCount). The inner join on the rating
// aggregates drops zero-rated recipes from this ranking entirely.
func popularRecipeViews(db *gorm.DB, limit int) ([]PopularRecipeView, error) {
	q := db.Model(&models.Recipe{}).
		Select(`recipes.id, recipes.title,
			rs.avg_rating AS average_rating,
			rs.rating_count AS rating_count,
			rs.avg_rating * (1 + 0.1 * rs.rating_count) AS weighted_score,
			users.username AS creator_name`).
		Joins("JOIN users ON users.id = recipes.user_id").
		Joins("JOIN (?) rs ON rs.recipe_id = recipes.id", ratingAggregates(db)).
		Order("weighted_score DESC").
		Order("rating_count DESC").
		Order("average_rating DESC").
		Limit(limit)

	var views []PopularRecipeView
	if err := q.Scan(&views).Error; err != nil {
		return nil, err
	}
	if views == nil {
		views = []PopularRecipeView{}
	}
	return views, nil
}

// recipeStats computes the average rating (0 when no ratings exist) and
// the rating/comment counts for one recipe.
func recipeStats(db *gorm.DB, recipeID string) (RecipeStats, error) {
	var stats RecipeStats

	err := db.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS total_ratings").
		Where("recipe_id = ?", recipeID).
		Scan(&stats).Error
	if err != nil {
		return stats, err
	}

	err = db.Model(&models.Comment{}).
		Where("recipe_id = ?", recipeID).
		Count(&stats.TotalComments).Error
	return stats, err
}
