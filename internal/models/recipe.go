package models

import (
	"time"
)

// Bounds of recipes.cooking_time in minutes.
const (
	MinCookingTime = 1
	MaxCookingTime = 1440
)

// Recipe is the aggregate root. It owns its ingredient lines and tag links;
// both collections are replaced wholesale on update.
type Recipe struct {
	ID          uint   `gorm:"primaryKey"`
	AuthorID    *uint  `gorm:"uniqueIndex:idx_recipe_author_name"`
	Author      *User  `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Name        string `gorm:"not null;size:200;uniqueIndex:idx_recipe_author_name"`
	Text        string `gorm:"type:text;not null"`
	CookingTime int    `gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1 AND cooking_time <= 1440"`
	Image       string `gorm:"not null"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Tags        []RecipeTag        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Recipe) TableName() string {
	return "recipes"
}

// TagIDs returns the ids of the linked tags in link order.
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.TagID)
	}
	return ids
}

// RecipeIngredient is one (ingredient, amount) line of a recipe.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"not null;index"`
	IngredientID uint       `gorm:"not null;index"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:CASCADE"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredient_amount,amount >= 1"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag links a recipe to a tag.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey"`
	TagID    uint `gorm:"primaryKey"`
	Tag      Tag  `gorm:"constraint:OnDelete:CASCADE"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
