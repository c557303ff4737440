package router

import (
	"database/sql"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/handlers"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/middleware"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/printing"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/repositories"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/services"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/tableauth"

	"github.com/gin-gonic/gin"
)

// Config carries the process configuration the routed services need.
type Config struct {
	JWTSecret       []byte
	JWTTTL          time.Duration
	TableSecret     string
	PublicBaseURL   string
	Dispatcher      printing.Dispatcher
	ChallengeSigner *printing.ChallengeSigner
	DefaultPrinter  string
	AutoPrint       bool
}

// Setup initializes the routing for the application and returns the print
// service so main can stop its worker on shutdown.
func Setup(engine *gin.Engine, db *sql.DB, cfg Config) services.PrintService {
	// Repositories
	operatorRepo := repositories.NewOperatorRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)

	// Services
	authenticator := tableauth.New(cfg.TableSecret)
	authService := services.NewAuthService(operatorRepo, cfg.JWTSecret, cfg.JWTTTL)
	catalogService := services.NewCatalogService(catalogRepo, db)
	sessionService := services.NewSessionService(sessionRepo, db)
	orderService := services.NewOrderService(orderRepo, sessionRepo, catalogService, authenticator, db)
	printService := services.NewPrintService(orderService, cfg.Dispatcher, cfg.ChallengeSigner, cfg.DefaultPrinter)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	ingredientHandler := handlers.NewIngredientHandler(catalogService)
	drinkHandler := handlers.NewDrinkHandler(catalogService)
	settingHandler := handlers.NewSettingHandler(catalogService)
	orderHandler := handlers.NewOrderHandler(orderService, printService, cfg.AutoPrint)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	printHandler := handlers.NewPrintHandler(printService)
	tableHandler := handlers.NewTableHandler(authenticator, cfg.PublicBaseURL)

	apiV1 := engine.Group("/api/v1")

	// Public surface: the menu, cart submission and the bridge's challenge
	// endpoint take no operator token.
	SetupPublicRoutes(apiV1, authHandler, drinkHandler, orderHandler, printHandler)

	// Operator surface, gated by the JWT middleware.
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		SetupAuthenticatedAuthRoutes(authenticated, authHandler)
		SetupOrderRoutes(authenticated, orderHandler, printHandler)
		SetupCatalogRoutes(authenticated, ingredientHandler, drinkHandler, settingHandler)
		SetupSessionRoutes(authenticated, sessionHandler)
		SetupTableRoutes(authenticated, tableHandler)
	}

	return printService
}
