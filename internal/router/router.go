package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"feedhub/internal/auth"
	"feedhub/internal/graphql"
	"feedhub/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	imageDir string,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	graphqlHandler *graphql.Handler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Static("/images", imageDir)

	// Public routes
	e.PUT("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// GraphQL carries its own optional authentication
	e.POST("/graphql", graphqlHandler.Serve)

	gate := auth.Gate(jwtService)

	// Secured account routes
	status := e.Group("/auth", gate)
	status.GET("/status", authHandler.GetStatus)
	status.PATCH("/status", authHandler.UpdateStatus)

	// Secured feed routes
	feed := e.Group("/feed", gate)
	feed.GET("/posts", postHandler.GetPosts)
	feed.POST("/post", postHandler.CreatePost)
	feed.GET("/post/:postId", postHandler.GetPost)
	feed.PUT("/post/:postId", postHandler.UpdatePost)
	feed.DELETE("/post/:postId", postHandler.DeletePost)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
