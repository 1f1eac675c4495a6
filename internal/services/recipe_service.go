package services

import (
	"context"
	"errors"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/storage"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeService interface {
	CreateRecipe(ctx context.Context, authorID uint, input models.RecipeInput) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, existing *models.Recipe, input models.RecipeInput) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, filter RecipeFilter, viewerID *uint, page Pagination) ([]models.Recipe, int64, error)
	DeleteRecipe(ctx context.Context, recipe *models.Recipe) error
	ImageURL(ref string) string
}

type recipeService struct {
	db    *gorm.DB
	store storage.BlobStore
}

func NewRecipeService(db *gorm.DB, store storage.BlobStore) RecipeService {
	return &recipeService{db: db, store: store}
}

// recipeDraft is a validated RecipeInput.
type recipeDraft struct {
	name          string
	text          string
	cookingTime   int
	ingredientIDs []uint
	lines         []models.RecipeIngredient
	tagIDs        []uint
	image         *storage.Image
}

// validateRecipeInput applies the field rules in a fixed order and stops at
// the first failure. An image is mandatory only on create.
func validateRecipeInput(input models.RecipeInput, requireImage bool) (*recipeDraft, error) {
	draft := &recipeDraft{
		name: input.Name,
		text: input.Text,
	}

	if err := validation.ValidateVar("name", input.Name, "required,max=200,recipe_name"); err != nil {
		return nil, err
	}

	if len(input.Ingredients) == 0 {
		return nil, models.NewValidationError("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uint]struct{}, len(input.Ingredients))
	for _, line := range input.Ingredients {
		if _, dup := seenIngredients[line.ID]; dup {
			return nil, models.NewValidationError("ingredients", "ingredient is listed more than once")
		}
		seenIngredients[line.ID] = struct{}{}

		amount, err := line.Amount.Int()
		if err != nil {
			return nil, models.NewValidationError("amount", "amount must be an integer")
		}
		if err := validation.ValidateVar("amount", amount, "gte=1"); err != nil {
			return nil, err
		}
		draft.ingredientIDs = append(draft.ingredientIDs, line.ID)
		draft.lines = append(draft.lines, models.RecipeIngredient{IngredientID: line.ID, Amount: amount})
	}

	if len(input.Tags) == 0 {
		return nil, models.NewValidationError("tags", "at least one tag is required")
	}
	seenTags := make(map[uint]struct{}, len(input.Tags))
	for _, id := range input.Tags {
		if _, dup := seenTags[id]; dup {
			return nil, models.NewValidationError("tags", "tag is listed more than once")
		}
		seenTags[id] = struct{}{}
		draft.tagIDs = append(draft.tagIDs, id)
	}

	cookingTime, err := input.CookingTime.Int()
	if err != nil {
		return nil, models.NewValidationError("cooking_time", "cooking_time must be an integer number of minutes")
	}
	if err := validation.ValidateVar("cooking_time", cookingTime, "gte=1,lte=1440"); err != nil {
		return nil, err
	}
	draft.cookingTime = cookingTime

	if strings.TrimSpace(input.Text) == "" {
		return nil, models.NewValidationError("text", "text is required")
	}

	switch {
	case input.Image != "":
		img, err := storage.DecodeDataURI(input.Image)
		if err != nil {
			return nil, models.NewValidationError("image", err.Error())
		}
		draft.image = img
	case requireImage:
		return nil, models.NewValidationError("image", "image is required")
	}

	return draft, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, authorID uint, input models.RecipeInput) (*models.Recipe, error) {
	draft, err := validateRecipeInput(input, true)
	if err != nil {
		metrics.RecordRecipeWrite("create", models.AsDomainError(err).Kind)
		return nil, err
	}

	imageRef, err := s.uploadImage(ctx, draft.image)
	if err != nil {
		metrics.RecordRecipeWrite("create", models.ErrInternalServer)
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    &authorID,
		Name:        draft.name,
		Text:        draft.text,
		CookingTime: draft.cookingTime,
		Image:       imageRef,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, draft); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		return insertCollections(tx, recipe.ID, draft)
	})
	if err != nil {
		s.discardImage(imageRef)
		err = translateRecipeError(err)
		metrics.RecordRecipeWrite("create", models.AsDomainError(err).Kind)
		return nil, err
	}

	metrics.RecordRecipeWrite("create", "ok")
	log.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"author_id": authorID,
	}).Info("Recipe created")

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces every field and both collections of existing. Tag
// links and ingredient lines are cleared and reinserted, never merged.
func (s *recipeService) UpdateRecipe(ctx context.Context, existing *models.Recipe, input models.RecipeInput) (*models.Recipe, error) {
	draft, err := validateRecipeInput(input, false)
	if err != nil {
		metrics.RecordRecipeWrite("update", models.AsDomainError(err).Kind)
		return nil, err
	}

	newImageRef, err := s.uploadImage(ctx, draft.image)
	if err != nil {
		metrics.RecordRecipeWrite("update", models.ErrInternalServer)
		return nil, err
	}
	imageRef := existing.Image
	if newImageRef != "" {
		imageRef = newImageRef
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, draft); err != nil {
			return err
		}

		result := tx.Model(&models.Recipe{}).Where("id = ?", existing.ID).Updates(map[string]interface{}{
			"name":         draft.name,
			"text":         draft.text,
			"cooking_time": draft.cookingTime,
			"image":        imageRef,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("recipe")
		}

		if err := tx.Where("recipe_id = ?", existing.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", existing.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return insertCollections(tx, existing.ID, draft)
	})
	if err != nil {
		s.discardImage(newImageRef)
		err = translateRecipeError(err)
		metrics.RecordRecipeWrite("update", models.AsDomainError(err).Kind)
		return nil, err
	}

	if newImageRef != "" && existing.Image != "" && existing.Image != newImageRef {
		s.discardImage(existing.Image)
	}

	metrics.RecordRecipeWrite("update", "ok")
	log.WithField("recipe_id", existing.ID).Info("Recipe updated")

	return s.GetRecipe(ctx, existing.ID)
}

func (s *recipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadRecipe(s.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		return nil, translateError(err, "recipe", "", "")
	}
	return &recipe, nil
}

// ListRecipes returns one page of recipes, newest first, plus the total
// number of matches.
func (s *recipeService) ListRecipes(ctx context.Context, filter RecipeFilter, viewerID *uint, page Pagination) ([]models.Recipe, int64, error) {
	scopes := filter.Scopes(viewerID)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(scopes...).Count(&count).Error; err != nil {
		return nil, 0, translateError(err, "recipe", "", "")
	}

	var recipes []models.Recipe
	err := preloadRecipe(s.db.WithContext(ctx)).
		Scopes(scopes...).
		Scopes(page.Apply).
		Order("recipes.id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, translateError(err, "recipe", "", "")
	}
	return recipes, count, nil
}

// DeleteRecipe removes the recipe; lines, tag links, favorites and cart
// entries go with it through the cascading foreign keys.
func (s *recipeService) DeleteRecipe(ctx context.Context, recipe *models.Recipe) error {
	result := s.db.WithContext(ctx).Delete(&models.Recipe{}, recipe.ID)
	if result.Error != nil {
		return translateError(result.Error, "recipe", "", "")
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("recipe")
	}

	s.discardImage(recipe.Image)
	log.WithField("recipe_id", recipe.ID).Info("Recipe deleted")
	return nil
}

func (s *recipeService) ImageURL(ref string) string {
	return s.store.URL(ref)
}

func (s *recipeService) uploadImage(ctx context.Context, img *storage.Image) (string, error) {
	if img == nil {
		return "", nil
	}
	ref, err := s.store.Put(ctx, storage.NewObjectKey(img.Extension), img.ContentType, img.Data)
	if err != nil {
		return "", models.NewStorageError("failed to store recipe image", err)
	}
	return ref, nil
}

// discardImage removes a blob that is no longer referenced. Failures only
// leave an orphaned object behind, so they are logged and swallowed.
func (s *recipeService) discardImage(ref string) {
	if ref == "" {
		return
	}
	if err := s.store.Delete(context.Background(), ref); err != nil {
		log.WithError(err).WithField("image", ref).Warn("Failed to delete recipe image")
	}
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_ingredients.id")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("recipe_tags.tag_id")
		}).
		Preload("Tags.Tag")
}

// checkReferences verifies that every referenced ingredient and tag exists.
func checkReferences(tx *gorm.DB, draft *recipeDraft) error {
	var found int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", draft.ingredientIDs).Count(&found).Error; err != nil {
		return err
	}
	if found != int64(len(draft.ingredientIDs)) {
		return models.NewValidationError("ingredients", "unknown ingredient")
	}

	if err := tx.Model(&models.Tag{}).Where("id IN ?", draft.tagIDs).Count(&found).Error; err != nil {
		return err
	}
	if found != int64(len(draft.tagIDs)) {
		return models.NewValidationError("tags", "unknown tag")
	}
	return nil
}

func insertCollections(tx *gorm.DB, recipeID uint, draft *recipeDraft) error {
	lines := make([]models.RecipeIngredient, len(draft.lines))
	for i, line := range draft.lines {
		lines[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: line.IngredientID, Amount: line.Amount}
	}
	if err := tx.Omit(clause.Associations).Create(&lines).Error; err != nil {
		return err
	}

	links := make([]models.RecipeTag, len(draft.tagIDs))
	for i, tagID := range draft.tagIDs {
		links[i] = models.RecipeTag{RecipeID: recipeID, TagID: tagID}
	}
	return tx.Omit(clause.Associations).Create(&links).Error
}

func translateRecipeError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflictError("name", "you already have a recipe with this name", err)
	}
	return translateError(err, "recipe", "name", "")
}
