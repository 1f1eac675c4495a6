package services

import (
	"strings"

	"gorm.io/gorm"
)

// Predicate is one composable query condition, applied with db.Scopes.
type Predicate func(*gorm.DB) *gorm.DB

// RecipeFilter carries the recipe list query parameters. Nil/empty fields
// do not constrain the result.
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         *uint
	IsFavorited      bool
	IsInShoppingCart bool
}

// Predicates returns the conjunction of active conditions. The favorite and
// cart flags only apply to an authenticated viewer.
func (f RecipeFilter) Predicates(viewerID *uint) []Predicate {
	var predicates []Predicate
	if len(f.TagSlugs) > 0 {
		predicates = append(predicates, RecipeHasAnyTag(f.TagSlugs))
	}
	if f.AuthorID != nil {
		predicates = append(predicates, RecipeByAuthor(*f.AuthorID))
	}
	if viewerID != nil {
		if f.IsFavorited {
			predicates = append(predicates, RecipeFavoritedBy(*viewerID))
		}
		if f.IsInShoppingCart {
			predicates = append(predicates, RecipeInCartOf(*viewerID))
		}
	}
	return predicates
}

// Scopes adapts the predicates for db.Scopes.
func (f RecipeFilter) Scopes(viewerID *uint) []func(*gorm.DB) *gorm.DB {
	predicates := f.Predicates(viewerID)
	scopes := make([]func(*gorm.DB) *gorm.DB, 0, len(predicates))
	for _, p := range predicates {
		scopes = append(scopes, p)
	}
	return scopes
}

func RecipeHasAnyTag(slugs []string) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipes.id IN (SELECT rt.recipe_id FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id WHERE t.slug IN ?)", slugs)
	}
}

func RecipeByAuthor(authorID uint) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipes.author_id = ?", authorID)
	}
}

func RecipeFavoritedBy(userID uint) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipes.id IN (SELECT f.recipe_id FROM favorites f WHERE f.user_id = ?)", userID)
	}
}

func RecipeInCartOf(userID uint) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipes.id IN (SELECT c.recipe_id FROM cart_items c WHERE c.user_id = ?)", userID)
	}
}

// IngredientNamePrefix matches ingredient names starting with prefix,
// ignoring case. An empty prefix matches everything.
func IngredientNamePrefix(prefix string) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		if prefix == "" {
			return db
		}
		return db.Where(`LOWER(ingredients.name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
