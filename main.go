package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// newRouter builds the gin engine with CORS (when origins are configured) and
// all routes registered.
func newRouter(h *Handler, corsOrigins []string) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies(nil)

	if len(corsOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = corsOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		router.Use(cors.New(corsConfig))
	}

	h.registerRoutes(router)
	return router
}

func main() {
	log.SetPrefix("lg/energy-tracker-go-api: ")
	log.SetFlags(log.LstdFlags)

	// A missing .env is fine in deployments that set the environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Error loading .env: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	pool, err := getDBPool(context.Background(), cfg.DBURL)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer pool.Close()
	log.Println("DB pool ready!")

	h := newHandler(pool, cfg.Location)
	router := newRouter(h, cfg.CORSOrigins)

	log.Printf("Listening on %s (time zone %s)", cfg.Addr, cfg.Location)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
