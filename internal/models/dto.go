package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt keeps the raw text of a JSON number or string so that the
// recipe builder can report unparsable values under the field's own key.
type FlexInt string

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexInt(s)
		return nil
	}
	*f = FlexInt(data)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if _, err := f.Int(); err == nil {
		return []byte(strings.TrimSpace(string(f))), nil
	}
	return json.Marshal(string(f))
}

// Int parses the value as a base-10 integer.
func (f FlexInt) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(string(f)))
}

// IngredientAmountInput is one submitted ingredient line.
type IngredientAmountInput struct {
	ID     uint    `json:"id"`
	Amount FlexInt `json:"amount" swaggertype:"integer"`
}

// RecipeInput is the write model for creating and updating recipes.
// Tags and ingredients are plain id references.
type RecipeInput struct {
	Name        string                  `json:"name"`
	Text        string                  `json:"text"`
	CookingTime FlexInt                 `json:"cooking_time" swaggertype:"integer"`
	Tags        []uint                  `json:"tags"`
	Ingredients []IngredientAmountInput `json:"ingredients"`
	// Image is a data URI ("data:image/png;base64,...").
	Image string `json:"image"`
}

// TagInput is the write model for administrative tag creation.
type TagInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,oneof=#ffa500 #37ff00 #aa00bd"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

// IngredientInput is the write model for administrative ingredient creation.
type IngredientInput struct {
	Name            string `json:"name" validate:"required,max=200" yaml:"name"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=200" yaml:"measurement_unit"`
}

// UserRead is the public user shape.
type UserRead struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeIngredientRead is an ingredient line with its catalog data embedded.
type RecipeIngredientRead struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeRead is the read model of a recipe with nested tags, author and lines.
type RecipeRead struct {
	ID               uint                   `json:"id"`
	Tags             []Tag                  `json:"tags"`
	Author           *UserRead              `json:"author"`
	Ingredients      []RecipeIngredientRead `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
}

// RecipeShort is returned by favorite/cart mutations and subscription listings.
type RecipeShort struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscriptionRead is an author the viewer follows, with a preview of recipes.
type SubscriptionRead struct {
	UserRead
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// Page is a page-number paginated response.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ViewerFlags carries the per-viewer relation state of one recipe.
type ViewerFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// NewUserRead maps a user row to its read shape.
func NewUserRead(u *User, subscribed bool) UserRead {
	return UserRead{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

// NewRecipeRead maps a fully preloaded recipe (Author, Ingredients.Ingredient,
// Tags.Tag) to its read shape.
func NewRecipeRead(r *Recipe, imageURL string, flags ViewerFlags) RecipeRead {
	out := RecipeRead{
		ID:               r.ID,
		Tags:             make([]Tag, 0, len(r.Tags)),
		Ingredients:      make([]RecipeIngredientRead, 0, len(r.Ingredients)),
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInShoppingCart,
		Name:             r.Name,
		Image:            imageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	if r.Author != nil {
		author := NewUserRead(r.Author, flags.AuthorSubscribed)
		out.Author = &author
	}
	for _, link := range r.Tags {
		out.Tags = append(out.Tags, link.Tag)
	}
	for _, line := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, RecipeIngredientRead{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return out
}

// NewRecipeShort maps a recipe to its short shape.
func NewRecipeShort(r *Recipe, imageURL string) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: imageURL, CookingTime: r.CookingTime}
}
