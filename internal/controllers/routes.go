package controllers

import (
	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Router bundles what RegisterRoutes needs to mount the API
type Router struct {
	Recipes  RecipeController
	Users    UserController
	Catalog  CatalogController
	// Identity resolves an optional bearer token into the calling user
	Identity gin.HandlerFunc
}

// RegisterRoutes mounts every /api route. Reads are open to anonymous
// callers; writes require an identity, catalog writes the admin role.
func RegisterRoutes(router *gin.Engine, r Router) {
	api := router.Group("/api")
	api.Use(r.Identity)

	authenticated := middleware.RequireUser()
	admin := middleware.RequireRole("admin")

	recipes := api.Group("/recipes")
	{
		recipes.GET("/", r.Recipes.ListRecipes)
		recipes.POST("/", authenticated, r.Recipes.CreateRecipe)
		recipes.GET("/download_shopping_cart/", authenticated, r.Recipes.DownloadShoppingCart)
		recipes.GET("/:id/", r.Recipes.GetRecipe)
		recipes.PATCH("/:id/", authenticated, r.Recipes.UpdateRecipe)
		recipes.DELETE("/:id/", authenticated, r.Recipes.DeleteRecipe)
		recipes.POST("/:id/favorite/", authenticated, r.Recipes.AddFavorite)
		recipes.DELETE("/:id/favorite/", authenticated, r.Recipes.RemoveFavorite)
		recipes.POST("/:id/shopping_cart/", authenticated, r.Recipes.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart/", authenticated, r.Recipes.RemoveFromShoppingCart)
	}

	users := api.Group("/users")
	{
		users.GET("/", r.Users.ListUsers)
		users.GET("/me/", authenticated, r.Users.GetMe)
		users.GET("/subscriptions/", authenticated, r.Users.ListSubscriptions)
		users.GET("/:id/", r.Users.GetUser)
		users.POST("/:id/subscribe/", authenticated, r.Users.Subscribe)
		users.DELETE("/:id/subscribe/", authenticated, r.Users.Unsubscribe)
	}

	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("/", r.Catalog.ListIngredients)
		ingredients.GET("/:id/", r.Catalog.GetIngredient)
		ingredients.POST("/", authenticated, admin, r.Catalog.CreateIngredients)
	}

	tags := api.Group("/tags")
	{
		tags.GET("/", r.Catalog.ListTags)
		tags.GET("/:id/", r.Catalog.GetTag)
		tags.POST("/", authenticated, admin, r.Catalog.CreateTag)
	}
}
