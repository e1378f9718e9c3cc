package main

import (
	"log"
	"net/http"

	_ "feedhub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"feedhub/internal/auth"
	"feedhub/internal/cache"
	"feedhub/internal/config"
	"feedhub/internal/db"
	"feedhub/internal/events"
	"feedhub/internal/graphql"
	"feedhub/internal/handler"
	"feedhub/internal/model"
	"feedhub/internal/repository"
	"feedhub/internal/router"
	"feedhub/internal/service"
	"feedhub/internal/storage"
)

// @title Feedhub API
// @version 1.0
// @description Blog/feed backend with JWT authentication, post CRUD with image uploads, and a GraphQL surface.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Post{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	imageStore, err := storage.NewImageStore(cfg.ImageDir)
	if err != nil {
		log.Fatalf("image store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	hasher := auth.NewPasswordHasher()

	// Initialize services
	publisher := events.NewRedisPublisher(cacheClient)
	authService := service.NewAuthService(userRepo, hasher, jwtService, cfg.VerboseLoginErrors)
	userService := service.NewUserService(userRepo, cacheClient)
	postService := service.NewPostService(postRepo, userRepo, imageStore, cacheClient, publisher)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	postHandler := handler.NewPostHandler(postService)

	schema, err := graphql.NewSchema(authService, userService)
	if err != nil {
		log.Fatalf("graphql schema: %v", err)
	}
	graphqlHandler := graphql.NewHandler(schema, jwtService)

	// Register routes
	router.Register(
		e,
		jwtService,
		cfg.ImageDir,
		authHandler,
		postHandler,
		graphqlHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
