package database

import (
	"fmt"
	"os"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedFixture is the YAML catalog fixture:
//
//	ingredients:
//	  - name: salt
//	    measurement_unit: g
//	tags:
//	  - name: Breakfast
//	    color: "#ffa500"
//	    slug: breakfast
type SeedFixture struct {
	Ingredients []models.IngredientInput `yaml:"ingredients"`
	Tags        []SeedTag                `yaml:"tags"`
}

type SeedTag struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
	Slug  string `yaml:"slug"`
}

// defaultTags is one tag per palette color, created on an empty database
var defaultTags = []models.Tag{
	{Name: "Завтрак", Color: models.TagColorOrange, Slug: "breakfast"},
	{Name: "Обед", Color: models.TagColorGreen, Slug: "lunch"},
	{Name: "Ужин", Color: models.TagColorPurple, Slug: "dinner"},
}

// Seed fills the catalogs. Palette tags are created only when the tags table
// is empty; fixture rows that already exist are skipped.
func Seed(db *gorm.DB, seedFile string) error {
	var count int64
	if err := db.Model(&models.Tag{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		log.Info("Tags table is empty, seeding palette tags")
		if err := db.Create(&defaultTags).Error; err != nil {
			return fmt.Errorf("failed to seed tags: %w", err)
		}
	} else {
		log.Info("Tags already seeded")
	}

	if seedFile == "" {
		return nil
	}

	fixture, err := LoadSeedFixture(seedFile)
	if err != nil {
		return err
	}
	return applyFixture(db, fixture)
}

// LoadSeedFixture reads and parses a YAML fixture file
func LoadSeedFixture(path string) (*SeedFixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var fixture SeedFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &fixture, nil
}

func applyFixture(db *gorm.DB, fixture *SeedFixture) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var created int
		for _, in := range fixture.Ingredients {
			ingredient := models.Ingredient{Name: in.Name, MeasurementUnit: in.MeasurementUnit}
			result := tx.Where(models.Ingredient{Name: in.Name, MeasurementUnit: in.MeasurementUnit}).FirstOrCreate(&ingredient)
			if result.Error != nil {
				return fmt.Errorf("failed to seed ingredient %q: %w", in.Name, result.Error)
			}
			created += int(result.RowsAffected)
		}

		var tags []models.Tag
		for _, t := range fixture.Tags {
			tags = append(tags, models.Tag{Name: t.Name, Color: t.Color, Slug: t.Slug})
		}
		if len(tags) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error; err != nil {
				return fmt.Errorf("failed to seed tags: %w", err)
			}
		}

		log.WithFields(logrus.Fields{
			"ingredients_created": created,
			"tags_in_fixture":     len(tags),
		}).Info("Seed fixture applied")
		return nil
	})
}
