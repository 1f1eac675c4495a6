package services

import (
	"context"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"gorm.io/gorm"
)

type TagService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	CreateTag(ctx context.Context, input models.TagInput) (*models.Tag, error)
}

type tagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) TagService {
	return &tagService{db: db}
}

func (s *tagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, translateError(err, "tag", "", "")
	}
	return tags, nil
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translateError(err, "tag", "", "")
	}
	return &tag, nil
}

// CreateTag validates the palette and slug rules; name, color and slug
// uniqueness is left to the unique indexes.
func (s *tagService) CreateTag(ctx context.Context, input models.TagInput) (*models.Tag, error) {
	if err := validation.ValidateStruct(input); err != nil {
		return nil, err
	}

	tag := models.Tag{Name: input.Name, Color: input.Color, Slug: input.Slug}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, translateError(err, "tag", "slug", "tag with this name, color or slug already exists")
	}
	return &tag, nil
}
