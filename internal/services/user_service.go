package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"gorm.io/gorm"
)

// Identity is the subset of identity-provider claims mirrored into users.
type Identity struct {
	UserID    uint
	Email     string
	Username  string
	FirstName string
	LastName  string
	Role      string
}

// SubscribedAuthor is an author followed by the viewer with a preview of
// their recipes.
type SubscribedAuthor struct {
	Author       models.User
	Recipes      []models.Recipe
	RecipesCount int64
}

type UserService interface {
	EnsureUser(ctx context.Context, identity Identity) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	ListUsers(ctx context.Context, page Pagination) ([]models.User, int64, error)
	ListSubscriptions(ctx context.Context, userID uint, page Pagination, recipesLimit int) ([]SubscribedAuthor, int64, error)
	GetSubscribedAuthor(ctx context.Context, authorID uint, recipesLimit int) (*SubscribedAuthor, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

// EnsureUser returns the local mirror of an identity, creating it on first
// sight and refreshing profile fields that changed upstream.
func (s *userService) EnsureUser(ctx context.Context, identity Identity) (*models.User, error) {
	if identity.UserID == 0 {
		return nil, models.NewUnauthorizedError("missing user identity")
	}
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.First(&user, identity.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = newUserFromIdentity(identity)
		if err := db.Create(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, translateError(err, "user", "username", "username or email already taken")
			}
			// provisioned concurrently by another request
			if err := db.First(&user, identity.UserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, models.NewConflictError("username", "username or email already taken", err)
				}
				return nil, translateError(err, "user", "", "")
			}
		}
		log.WithField("user_id", user.ID).Info("User provisioned from identity")
		return &user, nil
	}
	if err != nil {
		return nil, translateError(err, "user", "", "")
	}

	if changes := profileChanges(&user, identity); len(changes) > 0 {
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(changes).Error; err != nil {
			return nil, translateError(err, "user", "username", "username or email already taken")
		}
		if err := db.First(&user, user.ID).Error; err != nil {
			return nil, translateError(err, "user", "", "")
		}
	}
	return &user, nil
}

func newUserFromIdentity(identity Identity) models.User {
	user := models.User{
		ID:        identity.UserID,
		Email:     identity.Email,
		Username:  identity.Username,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Role:      identity.Role,
	}
	if user.Username == "" {
		user.Username = fmt.Sprintf("user%d", identity.UserID)
	}
	if user.Email == "" {
		user.Email = fmt.Sprintf("user%d@users.foodgram.local", identity.UserID)
	}
	if user.Role == "" {
		user.Role = "user"
	}
	return user
}

func profileChanges(user *models.User, identity Identity) map[string]interface{} {
	changes := map[string]interface{}{}
	if identity.Email != "" && identity.Email != user.Email {
		changes["email"] = identity.Email
	}
	if identity.Username != "" && identity.Username != user.Username {
		changes["username"] = identity.Username
	}
	if identity.FirstName != "" && identity.FirstName != user.FirstName {
		changes["first_name"] = identity.FirstName
	}
	if identity.LastName != "" && identity.LastName != user.LastName {
		changes["last_name"] = identity.LastName
	}
	if identity.Role != "" && identity.Role != user.Role {
		changes["role"] = identity.Role
	}
	return changes
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err, "user", "", "")
	}
	return &user, nil
}

func (s *userService) ListUsers(ctx context.Context, page Pagination) ([]models.User, int64, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, translateError(err, "user", "", "")
	}

	var users []models.User
	if err := db.Order("id").Scopes(page.Apply).Find(&users).Error; err != nil {
		return nil, 0, translateError(err, "user", "", "")
	}
	return users, count, nil
}

// ListSubscriptions pages through the authors userID follows, in follow
// order. recipesLimit < 1 returns every recipe of each author.
func (s *userService) ListSubscriptions(ctx context.Context, userID uint, page Pagination, recipesLimit int) ([]SubscribedAuthor, int64, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Subscription{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, 0, translateError(err, "subscription", "", "")
	}

	var authors []models.User
	err := db.Model(&models.User{}).
		Joins("JOIN subscriptions s ON s.author_id = users.id").
		Where("s.user_id = ?", userID).
		Order("s.id").
		Scopes(page.Apply).
		Find(&authors).Error
	if err != nil {
		return nil, 0, translateError(err, "subscription", "", "")
	}

	result := make([]SubscribedAuthor, 0, len(authors))
	for _, author := range authors {
		entry, err := s.loadAuthorRecipes(db, author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *entry)
	}
	return result, count, nil
}

func (s *userService) GetSubscribedAuthor(ctx context.Context, authorID uint, recipesLimit int) (*SubscribedAuthor, error) {
	author, err := s.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.loadAuthorRecipes(s.db.WithContext(ctx), *author, recipesLimit)
}

func (s *userService) loadAuthorRecipes(db *gorm.DB, author models.User, recipesLimit int) (*SubscribedAuthor, error) {
	entry := SubscribedAuthor{Author: author}

	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&entry.RecipesCount).Error; err != nil {
		return nil, translateError(err, "recipe", "", "")
	}

	query := db.Where("author_id = ?", author.ID).Order("id DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	if err := query.Find(&entry.Recipes).Error; err != nil {
		return nil, translateError(err, "recipe", "", "")
	}
	return &entry, nil
}
