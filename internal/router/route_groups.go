package router

import (
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes sets up the unauthenticated surface.
func SetupPublicRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, drinkHandler *handlers.DrinkHandler, orderHandler *handlers.OrderHandler, printHandler *handlers.PrintHandler) {
	apiGroup.POST("/auth/login", authHandler.Login)
	apiGroup.GET("/menu", drinkHandler.GetMenu)
	apiGroup.POST("/orders", orderHandler.CreateOrder)
	apiGroup.POST("/print/challenge", printHandler.SignChallenge)
}

// SetupAuthenticatedAuthRoutes sets up the operator profile route.
func SetupAuthenticatedAuthRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authenticatedGroup.GET("/auth/me", authHandler.Me)
}

// SetupOrderRoutes sets up the operator order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler, printHandler *handlers.PrintHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
		orderRoutes.POST("/:id/print", printHandler.PrintOrder)
		orderRoutes.GET("/:id/ticket", printHandler.GetTicket)
	}
}

// SetupCatalogRoutes sets up the ingredient, drink and settings routes.
func SetupCatalogRoutes(authenticatedGroup *gin.RouterGroup, ingredientHandler *handlers.IngredientHandler, drinkHandler *handlers.DrinkHandler, settingHandler *handlers.SettingHandler) {
	ingredientRoutes := authenticatedGroup.Group("/ingredients")
	{
		ingredientRoutes.POST("", ingredientHandler.CreateIngredient)
		ingredientRoutes.GET("", ingredientHandler.GetIngredients)
		ingredientRoutes.GET("/:id", ingredientHandler.GetIngredientByID)
		ingredientRoutes.PUT("/:id", ingredientHandler.UpdateIngredient)
		ingredientRoutes.DELETE("/:id", ingredientHandler.DeleteIngredient)
	}

	drinkRoutes := authenticatedGroup.Group("/drinks")
	{
		drinkRoutes.POST("", drinkHandler.CreateDrink)
		drinkRoutes.GET("", drinkHandler.GetDrinks)
		drinkRoutes.GET("/:id", drinkHandler.GetDrinkByID)
		drinkRoutes.PUT("/:id", drinkHandler.UpdateDrink)
		drinkRoutes.DELETE("/:id", drinkHandler.DeleteDrink)
		drinkRoutes.GET("/:id/pricing", drinkHandler.GetDrinkQuote)
	}

	settingsRoutes := authenticatedGroup.Group("/settings")
	{
		settingsRoutes.GET("", settingHandler.GetSettings)
		settingsRoutes.PUT("", settingHandler.UpdateSettings)
	}
}

// SetupSessionRoutes sets up the service-session routes.
func SetupSessionRoutes(authenticatedGroup *gin.RouterGroup, sessionHandler *handlers.SessionHandler) {
	sessionRoutes := authenticatedGroup.Group("/sessions")
	{
		sessionRoutes.GET("/active", sessionHandler.GetActive)
		sessionRoutes.POST("/open", sessionHandler.Open)
		sessionRoutes.POST("/close", sessionHandler.Close)
	}
}

// SetupTableRoutes sets up the signed table link route.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	authenticatedGroup.GET("/tables/:code/link", tableHandler.GetTableLink)
}
