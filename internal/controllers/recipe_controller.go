package controllers

import (
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RecipeController handles HTTP requests related to recipes and the
// per-user recipe relations (favorites, shopping cart).
type RecipeController interface {
	// ListRecipes retrieves a filtered page of recipes
	ListRecipes(c *gin.Context)
	// GetRecipe retrieves a recipe by its ID
	GetRecipe(c *gin.Context)
	// CreateRecipe creates a new recipe authored by the caller
	CreateRecipe(c *gin.Context)
	// UpdateRecipe replaces the fields and collections of a recipe
	UpdateRecipe(c *gin.Context)
	// DeleteRecipe deletes a recipe by its ID
	DeleteRecipe(c *gin.Context)
	AddFavorite(c *gin.Context)
	RemoveFavorite(c *gin.Context)
	AddToShoppingCart(c *gin.Context)
	RemoveFromShoppingCart(c *gin.Context)
	// DownloadShoppingCart renders the aggregated shopping list as text
	DownloadShoppingCart(c *gin.Context)
}

type recipeController struct {
	recipes  services.RecipeService
	ledger   services.LedgerService
	shopping services.ShoppingListService
	pageSize int
}

// NewRecipeController creates a new instance of RecipeController
func NewRecipeController(recipes services.RecipeService, ledger services.LedgerService, shopping services.ShoppingListService, pageSize int) RecipeController {
	return &recipeController{recipes: recipes, ledger: ledger, shopping: shopping, pageSize: pageSize}
}

// ListRecipes godoc
// @Summary List recipes
// @Description Page through recipes, newest first. Favorite and cart filters only apply to authenticated callers.
// @Tags recipes
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param tags query []string false "Tag slugs (any of)" collectionFormat(multi)
// @Param author query int false "Author ID"
// @Param is_favorited query int false "Only favorited recipes (1)"
// @Param is_in_shopping_cart query int false "Only recipes in the shopping cart (1)"
// @Success 200 {object} models.Page[models.RecipeRead]
// @Failure 400 {object} models.APIError
// @Router /api/recipes/ [get]
func (c *recipeController) ListRecipes(ctx *gin.Context) {
	page, ok := pagination(ctx, c.pageSize)
	if !ok {
		return
	}

	filter := services.RecipeFilter{
		TagSlugs:         ctx.QueryArray("tags"),
		IsFavorited:      queryFlag(ctx, "is_favorited"),
		IsInShoppingCart: queryFlag(ctx, "is_in_shopping_cart"),
	}
	if raw := ctx.Query("author"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(ctx, "Query parameter author must be a user ID")
			return
		}
		id := uint(authorID)
		filter.AuthorID = &id
	}

	viewer := viewerID(ctx)
	recipes, count, err := c.recipes.ListRecipes(ctx.Request.Context(), filter, viewer, page)
	if err != nil {
		respondError(ctx, err)
		return
	}

	results, err := c.readModels(ctx, viewer, recipes)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, newPage(ctx, page, count, results))
}

// GetRecipe godoc
// @Summary Get recipe by ID
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.RecipeRead
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/recipes/{id}/ [get]
func (c *recipeController) GetRecipe(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	recipe, err := c.recipes.GetRecipe(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondRecipe(ctx, http.StatusOK, recipe)
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Description Create a recipe authored by the caller. The image is a base64 data URI.
// @Tags recipes
// @Accept json
// @Produce json
// @Param recipe body models.RecipeInput true "Recipe"
// @Success 201 {object} models.RecipeRead
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/ [post]
func (c *recipeController) CreateRecipe(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		respondError(ctx, models.NewUnauthorizedError("Authentication credentials were not provided"))
		return
	}

	var input models.RecipeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	recipe, err := c.recipes.CreateRecipe(ctx.Request.Context(), userID, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondRecipe(ctx, http.StatusCreated, recipe)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Replace name, text, cooking time, tags and ingredients. An empty image keeps the current one.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param recipe body models.RecipeInput true "Recipe"
// @Success 200 {object} models.RecipeRead
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/ [patch]
func (c *recipeController) UpdateRecipe(ctx *gin.Context) {
	recipe, ok := c.ownedRecipe(ctx)
	if !ok {
		return
	}

	var input models.RecipeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	updated, err := c.recipes.UpdateRecipe(ctx.Request.Context(), recipe, input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondRecipe(ctx, http.StatusOK, updated)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/ [delete]
func (c *recipeController) DeleteRecipe(ctx *gin.Context) {
	recipe, ok := c.ownedRecipe(ctx)
	if !ok {
		return
	}

	if err := c.recipes.DeleteRecipe(ctx.Request.Context(), recipe); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// AddFavorite godoc
// @Summary Add a recipe to favorites
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} models.RecipeShort
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/favorite/ [post]
func (c *recipeController) AddFavorite(ctx *gin.Context) {
	c.addRelation(ctx, models.LedgerFavorite)
}

// RemoveFavorite godoc
// @Summary Remove a recipe from favorites
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/favorite/ [delete]
func (c *recipeController) RemoveFavorite(ctx *gin.Context) {
	c.removeRelation(ctx, models.LedgerFavorite)
}

// AddToShoppingCart godoc
// @Summary Add a recipe to the shopping cart
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} models.RecipeShort
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/shopping_cart/ [post]
func (c *recipeController) AddToShoppingCart(ctx *gin.Context) {
	c.addRelation(ctx, models.LedgerCart)
}

// RemoveFromShoppingCart godoc
// @Summary Remove a recipe from the shopping cart
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/{id}/shopping_cart/ [delete]
func (c *recipeController) RemoveFromShoppingCart(ctx *gin.Context) {
	c.removeRelation(ctx, models.LedgerCart)
}

// DownloadShoppingCart godoc
// @Summary Download the shopping list
// @Description Sum the ingredients of every recipe in the caller's cart, grouped by name and unit
// @Tags recipes
// @Produce plain
// @Success 200 {string} string "shoplist.txt"
// @Failure 401 {object} models.APIError
// @Security BearerAuth
// @Router /api/recipes/download_shopping_cart/ [get]
func (c *recipeController) DownloadShoppingCart(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		respondError(ctx, models.NewUnauthorizedError("Authentication credentials were not provided"))
		return
	}

	items, err := c.shopping.Aggregate(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=shoplist.txt")
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(c.shopping.Render(items)))
}

func (c *recipeController) addRelation(ctx *gin.Context, kind models.LedgerKind) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		respondError(ctx, models.NewUnauthorizedError("Authentication credentials were not provided"))
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	recipe, err := c.recipes.GetRecipe(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if _, err := c.ledger.Add(ctx.Request.Context(), kind, userID, recipe.ID); err != nil {
		respondError(ctx, err)
		return
	}
	log.WithFields(logrus.Fields{"kind": kind, "user_id": userID, "recipe_id": recipe.ID}).Debug("Recipe relation added")
	ctx.JSON(http.StatusCreated, models.NewRecipeShort(recipe, c.recipes.ImageURL(recipe.Image)))
}

func (c *recipeController) removeRelation(ctx *gin.Context, kind models.LedgerKind) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		respondError(ctx, models.NewUnauthorizedError("Authentication credentials were not provided"))
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.ledger.Remove(ctx.Request.Context(), kind, userID, id); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ownedRecipe loads the path recipe and checks the caller authored it
func (c *recipeController) ownedRecipe(ctx *gin.Context) (*models.Recipe, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		respondError(ctx, models.NewUnauthorizedError("Authentication credentials were not provided"))
		return nil, false
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return nil, false
	}

	recipe, err := c.recipes.GetRecipe(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return nil, false
	}

	if recipe.AuthorID == nil || *recipe.AuthorID != userID {
		respondError(ctx, models.NewForbiddenError("You can only modify your own recipes"))
		return nil, false
	}
	return recipe, true
}

func (c *recipeController) respondRecipe(ctx *gin.Context, status int, recipe *models.Recipe) {
	results, err := c.readModels(ctx, viewerID(ctx), []models.Recipe{*recipe})
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(status, results[0])
}

func (c *recipeController) readModels(ctx *gin.Context, viewer *uint, recipes []models.Recipe) ([]models.RecipeRead, error) {
	flags := map[uint]models.ViewerFlags{}
	if viewer != nil {
		var err error
		flags, err = c.ledger.FlagsFor(ctx.Request.Context(), *viewer, recipes)
		if err != nil {
			return nil, err
		}
	}

	results := make([]models.RecipeRead, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		results = append(results, models.NewRecipeRead(r, c.recipes.ImageURL(r.Image), flags[r.ID]))
	}
	return results, nil
}
