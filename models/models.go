package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	ContentTypeRecipe  = "recipe"
	ContentTypeComment = "comment"

	ReportPending  = "pending"
	ReportResolved = "resolved"
	ReportRejected = "rejected"
)

// ReportReasons is the fixed set of accepted report reasons.
var ReportReasons = map[string]bool{
	"SPAM":          true,
	"INAPPROPRIATE": true,
	"COPYRIGHT":     true,
	"OTHER":         true,
}

type User struct {
	ID           string    `json:"id" gorm:"type:uuid;primary_key"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"type:varchar(10);default:'user'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Recipes []Recipe `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Recipe struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Servings    int       `json:"servings"`
	CookingTime int       `json:"cooking_time"`
	PrepTime    int       `json:"prep_time"`
	Cuisine     string    `json:"cuisine" gorm:"not null;index"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User        User         `json:"-" gorm:"foreignKey:UserID"`
	Ingredients []Ingredient `json:"-" gorm:"foreignKey:RecipeID"`
	Steps       []Step       `json:"-" gorm:"foreignKey:RecipeID"`
	Ratings     []Rating     `json:"-" gorm:"foreignKey:RecipeID"`
	Comments    []Comment    `json:"-" gorm:"foreignKey:RecipeID"`
	Favorites   []Favorite   `json:"-" gorm:"foreignKey:RecipeID"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Ingredient numbers are 1-based and unique within a recipe. Ingredients
// are re-created wholesale on every recipe edit, never patched in place.
type Ingredient struct {
	ID               string    `json:"id" gorm:"type:uuid;primary_key"`
	RecipeID         string    `json:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient_no"`
	IngredientNumber int       `json:"ingredient_number" gorm:"not null;uniqueIndex:idx_recipe_ingredient_no"`
	Name             string    `json:"name" gorm:"not null"`
	Quantity         string    `json:"quantity"`
	CreatedAt        time.Time `json:"created_at"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type Step struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	RecipeID    string    `json:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_step_no"`
	StepNumber  int       `json:"step_number" gorm:"not null;uniqueIndex:idx_recipe_step_no"`
	Description string    `json:"description" gorm:"not null"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Step) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Rating holds at most one row per (user, recipe); writes go through an
// atomic upsert keyed on that pair.
type Rating struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_rating"`
	RecipeID  string    `json:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_rating"`
	Rating    int       `json:"rating" gorm:"not null;check:rating>=1 AND rating<=5"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type Comment struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	RecipeID  string    `json:"recipe_id" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Favorite struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_favorite"`
	RecipeID  string    `json:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_recipe_favorite"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

type Report struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key"`
	ReporterID  string    `json:"reporter_id" gorm:"type:uuid;not null;index"`
	ContentID   string    `json:"content_id" gorm:"type:uuid;not null;index"`
	ContentType string    `json:"content_type" gorm:"type:varchar(10);not null"`
	Reason      string    `json:"reason" gorm:"type:varchar(20);not null"`
	Description string    `json:"description"`
	Status      string    `json:"status" gorm:"type:varchar(10);default:'pending'"`
	CreatedAt   time.Time `json:"created_at"`

	Reporter User `json:"-" gorm:"foreignKey:ReporterID"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Auth types
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
