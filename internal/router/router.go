package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"remarkly/internal/auth"
	"remarkly/internal/config"
	"remarkly/internal/handler"
	"remarkly/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	userHandler *handler.UserHandler,
	remarkHandler *handler.RemarkHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded profile images are served as static content.
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api")

	// The guard verifies the bearer credential, then resolves it to a user
	// record attached to the context. Registration and login stay public.
	guard := []echo.MiddlewareFunc{
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:" + echo.HeaderAuthorization,
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
		}),
		auth.CurrentUser(userRepo),
	}

	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)

	profile := users.Group("/profile", guard...)
	profile.GET("", userHandler.GetProfile)
	profile.PUT("", userHandler.UpdateProfile)
	profile.PUT("/image", userHandler.UpdateProfileImage)
	profile.DELETE("/image", userHandler.DeleteProfileImage)

	remarks := api.Group("/remarks", guard...)
	remarks.POST("", remarkHandler.Create)
	remarks.GET("", remarkHandler.ListAll)
	remarks.GET("/status/:status", remarkHandler.ListByStatus)
	remarks.GET("/priority/:priority", remarkHandler.ListByPriority)
	remarks.GET("/financial/summary", remarkHandler.FinancialSummary)
	remarks.GET("/:date", remarkHandler.ListByDate)
	remarks.PUT("/:id", remarkHandler.Update)
	remarks.PATCH("/:id/toggle-done", remarkHandler.ToggleDone)
	remarks.DELETE("/:id", remarkHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
