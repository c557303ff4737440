package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/database"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/printing"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/router"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is developer convenience; deployed instances configure through
	// real environment variables.
	_ = godotenv.Load()

	utils.InitLogger()

	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "barcalc")
	dbPassword := utils.Getenv("DB_PASSWORD", "barcalc")
	dbName := utils.Getenv("DB_NAME", "barcalc_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	if err := database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath); err != nil {
		utils.LogError(err, "Failed to initialize database")
		log.Fatalf("Failed to initialize database: %v", err)
	}
	utils.LogInfo("Database initialized", map[string]interface{}{"host": dbHost, "name": dbName})

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	cfg := router.Config{
		JWTSecret:      []byte(utils.Getenv("JWT_SECRET", "dev-only-jwt-secret-change-me")),
		JWTTTL:         time.Duration(utils.GetenvInt("JWT_TTL_HOURS", 12)) * time.Hour,
		TableSecret:    os.Getenv("TABLE_SECRET"),
		PublicBaseURL:  utils.Getenv("PUBLIC_BASE_URL", "http://localhost:3000"),
		DefaultPrinter: os.Getenv("PRINTER_ADDR"),
		AutoPrint:      utils.Getenv("AUTO_PRINT", "false") == "true",
		Dispatcher:     buildDispatcher(),
	}
	if keyPath := os.Getenv("PRINT_SIGNING_KEY_PATH"); keyPath != "" {
		pemBytes, err := os.ReadFile(keyPath)
		if err != nil {
			log.Fatalf("Failed to read print signing key: %v", err)
		}
		signer, err := printing.NewChallengeSigner(pemBytes)
		if err != nil {
			log.Fatalf("Failed to parse print signing key: %v", err)
		}
		cfg.ChallengeSigner = signer
	}

	printService := router.Setup(engine, database.GetDB(), cfg)
	defer printService.Shutdown()

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildDispatcher selects the print transport: an AMQP queue when a broker
// URL is configured, the raw TCP socket otherwise.
func buildDispatcher() printing.Dispatcher {
	if url := os.Getenv("PRINT_QUEUE_URL"); url != "" {
		queue := utils.Getenv("PRINT_QUEUE_NAME", "tickets")
		dispatcher, err := printing.NewQueueDispatcher(url, queue)
		if err != nil {
			log.Fatalf("Failed to connect print queue: %v", err)
		}
		return dispatcher
	}
	return printing.NewTCPDispatcher(time.Duration(utils.GetenvInt("PRINTER_TIMEOUT_SECONDS", 5)) * time.Second)
}
