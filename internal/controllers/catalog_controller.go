package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CatalogController serves the ingredient and tag catalogs. Both are small
// and returned unpaginated.
type CatalogController interface {
	ListIngredients(c *gin.Context)
	GetIngredient(c *gin.Context)
	// CreateIngredients adds a batch of ingredients (admin only)
	CreateIngredients(c *gin.Context)
	ListTags(c *gin.Context)
	GetTag(c *gin.Context)
	// CreateTag adds a tag (admin only)
	CreateTag(c *gin.Context)
}

type catalogController struct {
	ingredients services.IngredientService
	tags        services.TagService
}

// NewCatalogController creates a new instance of CatalogController
func NewCatalogController(ingredients services.IngredientService, tags services.TagService) CatalogController {
	return &catalogController{ingredients: ingredients, tags: tags}
}

// ListIngredients godoc
// @Summary List ingredients
// @Description List ingredients, optionally by case-insensitive name prefix
// @Tags ingredients
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {array} models.Ingredient
// @Router /api/ingredients/ [get]
func (c *catalogController) ListIngredients(ctx *gin.Context) {
	ingredients, err := c.ingredients.ListIngredients(ctx.Request.Context(), ctx.Query("name"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ingredients)
}

// GetIngredient godoc
// @Summary Get ingredient by ID
// @Tags ingredients
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} models.Ingredient
// @Failure 404 {object} models.APIError
// @Router /api/ingredients/{id}/ [get]
func (c *catalogController) GetIngredient(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	ingredient, err := c.ingredients.GetIngredient(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ingredient)
}

// CreateIngredients godoc
// @Summary Create ingredients
// @Tags ingredients
// @Accept json
// @Produce json
// @Param ingredients body []models.IngredientInput true "Ingredients"
// @Success 201 {array} models.Ingredient
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Security BearerAuth
// @Router /api/ingredients/ [post]
func (c *catalogController) CreateIngredients(ctx *gin.Context) {
	var inputs []models.IngredientInput
	if err := ctx.ShouldBindJSON(&inputs); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	created, err := c.ingredients.CreateIngredients(ctx.Request.Context(), inputs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// ListTags godoc
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} models.Tag
// @Router /api/tags/ [get]
func (c *catalogController) ListTags(ctx *gin.Context) {
	tags, err := c.tags.ListTags(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tags)
}

// GetTag godoc
// @Summary Get tag by ID
// @Tags tags
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} models.Tag
// @Failure 404 {object} models.APIError
// @Router /api/tags/{id}/ [get]
func (c *catalogController) GetTag(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	tag, err := c.tags.GetTag(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tag)
}

// CreateTag godoc
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param tag body models.TagInput true "Tag"
// @Success 201 {object} models.Tag
// @Failure 400 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 409 {object} models.APIError
// @Security BearerAuth
// @Router /api/tags/ [post]
func (c *catalogController) CreateTag(ctx *gin.Context) {
	var input models.TagInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBadRequest(ctx, "Invalid request body")
		return
	}

	tag, err := c.tags.CreateTag(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, tag)
}
