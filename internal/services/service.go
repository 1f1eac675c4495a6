package services

import (
	"errors"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination normalizes page/limit, falling back to defaultLimit.
func NewPagination(page, limit, defaultLimit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Apply limits a query to the requested page.
func (p Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset(p.Offset()).Limit(p.Limit)
}

// translateError maps gorm sentinels onto the domain taxonomy. DomainErrors
// pass through untouched.
func translateError(err error, resource, conflictField, conflictMessage string) error {
	if err == nil {
		return nil
	}
	var de *models.DomainError
	switch {
	case errors.As(err, &de):
		return de
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.NewNotFoundError(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewConflictError(conflictField, conflictMessage, err)
	default:
		return models.NewStorageError("failed to access "+resource, err)
	}
}
