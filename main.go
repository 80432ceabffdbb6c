package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zeeshanfreelancer/memegenerator/configs"
	"github.com/zeeshanfreelancer/memegenerator/controllers"
	"github.com/zeeshanfreelancer/memegenerator/middlewares"
	"github.com/zeeshanfreelancer/memegenerator/routes"
	"github.com/zeeshanfreelancer/memegenerator/services"
	"github.com/zeeshanfreelancer/memegenerator/stores"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	mongoClient, err := configs.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	db := mongoClient.Database(cfg.MongoDB)

	redisClient, err := configs.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Stores
	templateStore := stores.NewTemplateStore(db)
	memeStore := stores.NewMemeStore(db)
	userStore := stores.NewUserStore(db)
	seedLockStore := stores.NewSeedLockStore(db)

	// Services
	imgflipService := services.NewImgflipService(cfg.TemplateAPIURL, cfg.TemplateAPITimeout)
	assetService := services.NewAssetService(cfg.AssetHostURL, cfg.AssetAPIKey)
	seedService := services.NewSeedService(templateStore, seedLockStore, imgflipService, cfg.TemplateAPITimeout)
	snapshotCache := services.NewSnapshotCache(cfg.TemplateCacheTTL, nil)
	templateService := services.NewTemplateService(templateStore, userStore, seedService, snapshotCache, assetService)
	memeService := services.NewMemeService(memeStore, templateStore, assetService)

	// Controllers
	templateController := controllers.NewTemplateController(templateService, cfg.Debug)
	memeController := controllers.NewMemeController(memeService, cfg.Debug)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	e.Use(middlewares.RateLimit(redisClient, cfg.RateLimit, cfg.RateLimitWindow))

	auth := middlewares.Auth(userStore)
	optionalAuth := middlewares.OptionalAuth(userStore)

	api := e.Group("/api")
	routes.TemplateRoute(api, templateController, auth, optionalAuth)
	routes.MemeRoute(api, memeController, auth)

	go func() {
		log.Printf("Server starting at :%s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
}
