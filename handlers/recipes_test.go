package handlers

import (
	"net/http"
	"testing"
	"time"

	"erecipe-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateRecipe_UpsertKeepsSingleRow(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(t, db)

	author := seedUser(t, db, "alice", "user")
	rater := seedUser(t, db, "bob", "user")
	recipe := seedRecipe(t, db, author, "Carbonara", "Italian", baseTime())
	auth := authHeader(t, rater)

	rec := doJSON(t, router, http.MethodPost, "/api/recipes/"+recipe.ID+"/rate", auth, jsonMap{"rating": 3})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/recipes/"+recipe.ID+"/rate", auth, jsonMap{"rating": 5})
	require.Equal(t, http.StatusCreated, rec.Code)

	var ratings []models.Rating
	require.NoError(t, db.Where("user_id = ? AND recipe_id = ?", rater.ID, recipe.ID).Find(&ratings).Error)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Rating)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 5, body["averageRating"])
	assert.EqualValues(t, 1, body["totalRatings"])
}

func TestRateRecipe_Validation(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(t, db)

	author := seedUser(t, db, "alice", "user")
	rater := seedUser(t, db, "bob", "user")
	recipe := seedRecipe(t, db, author, "Carbonara", "Italian", baseTime())
	auth := authHeader(t, rater)

	for _, value := range []int{0, 6, -1} {
		rec := doJSON(t, router, http.MethodPost, "/api/recipes/"+recipe.ID+"/rate", auth, jsonMap{"rating": value})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d must be rejected", value)
	}

	// Non-integer rating is rejected at the binding layer.
	rec := doJSON(t, router, http.MethodPost, "/api/recipes/"+recipe.ID+"/rate", auth, jsonMap{"rating": 3.5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed id is a client error, not a server fault.
	rec = doJSON(t, router, http.MethodPost, "/api/recipes/not-a-uuid/rate", auth, jsonMap{"rating": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Valid id, no such recipe.
	rec = doJSON(t, router, http.MethodPost, "/api/recipes/00000000-0000-0000-0000-000000000000/rate", auth, jsonMap{"rating": 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Rating{}).Count(&count).Error)
	assert.EqualValues(t, 0, count, "rejected ratings must not be persisted")
}

func TestDeleteRecipe_CascadeRemovesAllDependents(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(t, db)

	author := seedUser(t, db, "alice", "user")
	other := seedUser(t, db, "bob", "user")
	recipe := seedRecipe(t, db, author, "Carbonara", "Italian", baseTime())

	ingredient := models.Ingredient{RecipeID: recipe.ID, IngredientNumber: 1, Name: "Eggs"}
	require.NoError(t, db.Create(&ingredient).Error)
	step := models.Step{RecipeID: recipe.ID, StepNumber: 1, Description: "Whisk the eggs"}
	require.NoError(t, db.Create(&step).Error)
	seedRating(t, db, other, recipe, 4)
	comment := models.Comment{UserID: other.ID, RecipeID: recipe.ID, Content: "Lovely"}
	require.NoError(t, db.Create(&comment).Error)
	favorite := models.Favorite{UserID: other.ID, RecipeID: recipe.ID}
	require.NoError(t, db.Create(&favorite).Error)

	recipeReport := models.Report{
		ReporterID: other.ID, ContentID: recipe.ID,
		ContentType: models.ContentTypeRecipe, Reason: "SPAM", Status: models.ReportPending,
	}
	require.NoError(t, db.Create(&recipeReport).Error)
	commentReport := models.Report{
		ReporterID: author.ID, ContentID: comment.ID,
		ContentType: models.ContentTypeComment, Reason: "OTHER", Status: models.ReportPending,
	}
	require.NoError(t, db.Create(&commentReport).Error)

	rec := doJSON(t, router, http.MethodDelete, "/api/recipes/"+recipe.ID, authHeader(t, author), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assertEmptyForRecipe := func(model interface{}) {
		var count int64
		require.NoError(t, db.Model(model).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	}
	assertEmptyForRecipe(&models.Ingredient{})
	assertEmptyForRecipe(&models.Step{})
	assertEmptyForRecipe(&models.Rating{})
	assertEmptyForRecipe(&models.Comment{})
	assertEmptyForRecipe(&models.Favorite{})

	var reportCount int64
	require.NoError(t, db.Model(&models.Report{}).Count(&reportCount).Error)
	assert.EqualValues(t, 0, reportCount, "reports on the recipe and its comments must be removed")

	var recipeCount int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&recipeCount).Error)
	assert.EqualValues(t, 0, recipeCount)
}

func TestDeleteRecipe_OwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(t, db)

	author := seedUser(t, db, "alice", "user")
	stranger := seedUser(t, db, "mallory", "user")
	admin := seedUser(t, db, "root", "admin")
	recipe := seedRecipe(t, db, author, "Carbonara", "Italian", baseTime())

	rec := doJSON(t, router, http.MethodDelete, "/api/recipes/"+recipe.ID, authHeader(t, stranger), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/recipes/"+recipe.ID, authHeader(t, admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRecipe_RequiresAuthAndChildren(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(t, db)

	author := seedUser(t, db, "alice", "user")
	payload := jsonMap{
		"title":        "Carbonara",
		"description":  "Roman classic",
		"servings":     2,
		"cooking_time": 20,
		"prep_time":    10,
		"cuisine":      "Italian",
		"ingredients": []jsonMap{
			{"name": "Spaghetti", "quantity": "200g"},
			{"name": "Guanciale", "quantity": "100g"},
		},
		"steps": []jsonMap{
			{"description": "Boil the pasta"},
			{"description": "Fry the guanciale"},
		},
	}

	rec := doJSON(t, router, http.MethodPost, "/api/recipes", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/recipes", authHeader(t, author), payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	recipeID := decodeBody(t, rec)["recipe_id"].(string)

	var ingredients []models.Ingredient
	require.NoError(t, db.Where("recipe_id = ?", recipeID).Order("ingredient_number").Find(&ingredients).Error)
	require.Len(t, ingredients, 2)
	assert.Equal(t, 1, ingredients[0].IngredientNumber)
	assert.Equal(t, 2, ingredients[1].IngredientNumber)

	var steps []models.Step
	require.NoError(t, db.Where("recipe_id = ?", recipeID).Order("step_number").Find(&steps).Error)
	require.Len(t, steps, 2)
	assert.Equal(t, "Boil the pasta", steps[0].Description)
}

func TestUpdateRecipe_RecreatesChildrenWholesale(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(t, db)

	author := seedUser(t, db, "alice", "user")
	recipe := seedRecipe(t, db, author, "Carbonara", "Italian", baseTime())

	for i, name := range []string{"Spaghetti", "Guanciale", "Pecorino"} {
		ing := models.Ingredient{RecipeID: recipe.ID, IngredientNumber: i + 1, Name: name}
		require.NoError(t, db.Create(&ing).Error)
	}
	oldStep := models.Step{RecipeID: recipe.ID, StepNumber: 1, Description: "Old step"}
	require.NoError(t, db.Create(&oldStep).Error)

	payload := jsonMap{
		"title":        "Carbonara Updated",
		"description":  "Now with fewer ingredients",
		"servings":     4,
		"cooking_time": 25,
		"prep_time":    10,
		"cuisine":      "Italian",
		"ingredients":  []jsonMap{{"name": "Rigatoni", "quantity": "300g"}},
		"steps": []jsonMap{
			{"description": "New step one"},
			{"description": "New step two"},
		},
	}
	rec := doJSON(t, router, http.MethodPut, "/api/recipes/"+recipe.ID, authHeader(t, author), payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var ingredients []models.Ingredient
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Order("ingredient_number").Find(&ingredients).Error)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Rigatoni", ingredients[0].Name)
	assert.Equal(t, 1, ingredients[0].IngredientNumber)

	var steps []models.Step
	require.NoError(t, db.Where("recipe_id = ?", recipe.ID).Order("step_number").Find(&steps).Error)
	require.Len(t, steps, 2)
	assert.Equal(t, "New step one", steps[0].Description)

	var updated models.Recipe
	require.NoError(t, db.First(&updated, "id = ?", recipe.ID).Error)
	assert.Equal(t, "Carbonara Updated", updated.Title)
}

func TestGetRecipe_ErrorsAndUserRating(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(t, db)

	author := seedUser(t, db, "alice", "user")
	rater := seedUser(t, db, "bob", "user")
	recipe := seedRecipe(t, db, author, "Carbonara", "Italian", baseTime())
	seedRating(t, db, rater, recipe, 4)

	rec := doJSON(t, router, http.MethodGet, "/api/recipes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/recipes/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Anonymous caller gets no userRating.
	rec = doJSON(t, router, http.MethodGet, "/api/recipes/"+recipe.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 4, body["averageRating"])
	assert.Nil(t, body["userRating"])

	// The rater sees their own score.
	rec = doJSON(t, router, http.MethodGet, "/api/recipes/"+recipe.ID, authHeader(t, rater), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.EqualValues(t, 4, body["userRating"])
}

func TestGetComments_NewestFirstWithUsernames(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(t, db)

	author := seedUser(t, db, "alice", "user")
	commenter := seedUser(t, db, "bob", "user")
	recipe := seedRecipe(t, db, author, "Carbonara", "Italian", baseTime())

	first := models.Comment{UserID: commenter.ID, RecipeID: recipe.ID, Content: "First", CreatedAt: baseTime()}
	require.NoError(t, db.Create(&first).Error)
	second := models.Comment{UserID: author.ID, RecipeID: recipe.ID, Content: "Second", CreatedAt: baseTime().Add(time.Minute)}
	require.NoError(t, db.Create(&second).Error)

	rec := doJSON(t, router, http.MethodGet, "/api/recipes/"+recipe.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 2, body["totalComments"])
	comments := body["comments"].([]interface{})
	require.Len(t, comments, 2)
	newest := comments[0].(map[string]interface{})
	assert.Equal(t, "Second", newest["content"])
	assert.Equal(t, "alice", newest["username"])
}

type jsonMap = map[string]interface{}
