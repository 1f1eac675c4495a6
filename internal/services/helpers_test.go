package services

import (
	"testing"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 1x1 transparent PNG
const testImage = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

// fixture holds the catalog rows created by seedFixture.
type fixture struct {
	alice, bob          models.User
	salt, sugar, flour  models.Ingredient
	morning, noon, late models.Tag
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	f := fixture{
		alice:   models.User{ID: 1, Email: "alice@example.com", Username: "alice", Role: "user"},
		bob:     models.User{ID: 2, Email: "bob@example.com", Username: "bob", Role: "user"},
		salt:    models.Ingredient{Name: "Salt", MeasurementUnit: "g"},
		sugar:   models.Ingredient{Name: "Sugar", MeasurementUnit: "g"},
		flour:   models.Ingredient{Name: "Flour", MeasurementUnit: "kg"},
		morning: models.Tag{Name: "Breakfast", Color: models.TagColorOrange, Slug: "breakfast"},
		noon:    models.Tag{Name: "Lunch", Color: models.TagColorGreen, Slug: "lunch"},
		late:    models.Tag{Name: "Dinner", Color: models.TagColorPurple, Slug: "dinner"},
	}
	require.NoError(t, db.Create(&f.alice).Error)
	require.NoError(t, db.Create(&f.bob).Error)
	require.NoError(t, db.Create(&f.salt).Error)
	require.NoError(t, db.Create(&f.sugar).Error)
	require.NoError(t, db.Create(&f.flour).Error)
	require.NoError(t, db.Create(&f.morning).Error)
	require.NoError(t, db.Create(&f.noon).Error)
	require.NoError(t, db.Create(&f.late).Error)
	return f
}

func line(id uint, amount string) models.IngredientAmountInput {
	return models.IngredientAmountInput{ID: id, Amount: models.FlexInt(amount)}
}

func validInput(f fixture) models.RecipeInput {
	return models.RecipeInput{
		Name:        "Sweet porridge",
		Text:        "Boil and stir.",
		CookingTime: "15",
		Tags:        []uint{f.morning.ID, f.noon.ID},
		Ingredients: []models.IngredientAmountInput{line(f.salt.ID, "5"), line(f.sugar.ID, "3")},
		Image:       testImage,
	}
}

// requireDomainError asserts err is a DomainError of kind reported under field.
func requireDomainError(t *testing.T, err error, kind, field string) {
	t.Helper()
	require.Error(t, err)
	de := models.AsDomainError(err)
	require.Equal(t, kind, de.Kind, "unexpected error: %v", err)
	require.Equal(t, field, de.Field, "unexpected error: %v", err)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
