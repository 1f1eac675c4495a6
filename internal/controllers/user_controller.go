package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserController handles user profiles and subscriptions
type UserController interface {
	ListUsers(c *gin.Context)
	GetMe(c *gin.Context)
	GetUser(c *gin.Context)
	ListSubscriptions(c *gin.Context)
	Subscribe(c *gin.Context)
	Unsubscribe(c *gin.Context)
}

type userController struct {
	users    services.UserService
	ledger   services.LedgerService
	recipes  services.RecipeService
	pageSize int
}

// NewUserController creates a new instance of UserController
func NewUserController(users services.UserService, ledger services.LedgerService, recipes services.RecipeService, pageSize int) UserController {
	return &userController{users: users, ledger: ledger, recipes: recipes, pageSize: pageSize}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.Page[models.UserRead]
// @Failure 400 {object} models.APIError
// @Router /api/users/ [get]
func (c *userController) ListUsers(ctx *gin.Context) {
	page, ok := pagination(ctx, c.pageSize)
	if !ok {
		return
	}

	users, count, err := c.users.ListUsers(ctx.Request.Context(), page)
	if err != nil {
		respondError(ctx, err)
		return
	}

	subscribed := map[uint]bool{}
	if viewer := viewerID(ctx); viewer != nil {
		ids := make([]uint, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		subscribed, err = c.ledger.SubscribedTo(ctx.Request.Context(), *viewer, ids)
		if err != nil {
			respondError(ctx, err)
			return
		}
	}

	results := make([]models.UserRead, 0, len(users))
	for i := range users {
		results = append(results, models.NewUserRead(&users[i], subscribed[users[i].ID]))
	}
	ctx.JSON(http.StatusOK, newPage(ctx, page, count, results))
}

// GetMe godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Success 200 {object} models.UserRead
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/me/ [get]
func (c *userController) GetMe(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		respondError(ctx, models.NewUnauthorizedError("Authentication credentials were not provided"))
		return
	}
	ctx.JSON(http.StatusOK, models.NewUserRead(user, false))
}

// GetUser godoc
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserRead
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/users/{id}/ [get]
func (c *userController) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.users.GetUserByID(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	subscribed := false
	if viewer := viewerID(ctx); viewer != nil {
		subscribed, err = c.ledger.Has(ctx.Request.Context(), models.LedgerSubscription, *viewer, user.ID)
		if err != nil {
			respondError(ctx, err)
			return
		}
	}
	ctx.JSON(http.StatusOK, models.NewUserRead(user, subscribed))
}

// ListSubscriptions godoc
// @Summary List followed authors
// @Description Authors the caller follows, each with its newest recipes and total recipe count
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Maximum recipes per author"
// @Success 200 {object} models.Page[models.SubscriptionRead]
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/subscriptions/ [get]
func (c *userController) ListSubscriptions(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		respondError(ctx, models.NewUnauthorizedError("Authentication credentials were not provided"))
		return
	}
	page, ok := pagination(ctx, c.pageSize)
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(ctx, "recipes_limit")
	if !ok {
		return
	}

	authors, count, err := c.users.ListSubscriptions(ctx.Request.Context(), userID, page, recipesLimit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	results := make([]models.SubscriptionRead, 0, len(authors))
	for i := range authors {
		results = append(results, c.subscriptionRead(&authors[i]))
	}
	ctx.JSON(http.StatusOK, newPage(ctx, page, count, results))
}

// Subscribe godoc
// @Summary Follow an author
// @Tags users
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Maximum recipes in the response"
// @Success 201 {object} models.SubscriptionRead
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/{id}/subscribe/ [post]
func (c *userController) Subscribe(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		respondError(ctx, models.NewUnauthorizedError("Authentication credentials were not provided"))
		return
	}
	authorID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	recipesLimit, ok := queryInt(ctx, "recipes_limit")
	if !ok {
		return
	}

	if _, err := c.ledger.Add(ctx.Request.Context(), models.LedgerSubscription, userID, authorID); err != nil {
		respondError(ctx, err)
		return
	}
	log.WithFields(logrus.Fields{"user_id": userID, "author_id": authorID}).Debug("Subscribed to author")

	author, err := c.users.GetSubscribedAuthor(ctx.Request.Context(), authorID, recipesLimit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, c.subscriptionRead(author))
}

// Unsubscribe godoc
// @Summary Unfollow an author
// @Tags users
// @Param id path int true "Author ID"
// @Success 204
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/users/{id}/subscribe/ [delete]
func (c *userController) Unsubscribe(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		respondError(ctx, models.NewUnauthorizedError("Authentication credentials were not provided"))
		return
	}
	authorID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.ledger.Remove(ctx.Request.Context(), models.LedgerSubscription, userID, authorID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *userController) subscriptionRead(author *services.SubscribedAuthor) models.SubscriptionRead {
	out := models.SubscriptionRead{
		UserRead:     models.NewUserRead(&author.Author, true),
		Recipes:      make([]models.RecipeShort, 0, len(author.Recipes)),
		RecipesCount: author.RecipesCount,
	}
	for i := range author.Recipes {
		r := &author.Recipes[i]
		out.Recipes = append(out.Recipes, models.NewRecipeShort(r, c.recipes.ImageURL(r.Image)))
	}
	return out
}
