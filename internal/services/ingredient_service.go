package services

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"gorm.io/gorm"
)

type IngredientService interface {
	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)
	CreateIngredients(ctx context.Context, inputs []models.IngredientInput) ([]models.Ingredient, error)
}

type ingredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) IngredientService {
	return &ingredientService{db: db}
}

func (s *ingredientService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := s.db.WithContext(ctx).
		Scopes(IngredientNamePrefix(namePrefix)).
		Order("name").Order("id").
		Find(&ingredients).Error
	if err != nil {
		return nil, translateError(err, "ingredient", "", "")
	}
	return ingredients, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, translateError(err, "ingredient", "", "")
	}
	return &ingredient, nil
}

// CreateIngredients inserts a batch of catalog entries in one transaction.
func (s *ingredientService) CreateIngredients(ctx context.Context, inputs []models.IngredientInput) ([]models.Ingredient, error) {
	if len(inputs) == 0 {
		return nil, models.NewValidationError("ingredients", "at least one ingredient is required")
	}

	ingredients := make([]models.Ingredient, 0, len(inputs))
	for _, in := range inputs {
		if err := validation.ValidateStruct(in); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, models.Ingredient{Name: in.Name, MeasurementUnit: in.MeasurementUnit})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&ingredients).Error
	})
	if err != nil {
		return nil, translateError(err, "ingredient", "name", "ingredient already exists")
	}

	log.WithField("count", len(ingredients)).Info("Ingredients created")
	return ingredients, nil
}
