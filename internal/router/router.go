package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cardealer/internal/auth"
	"cardealer/internal/config"
	"cardealer/internal/handler"
	"cardealer/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	vehicleHandler *handler.VehicleHandler,
	saleHandler *handler.SaleHandler,
	customerHandler *handler.CustomerHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public two-phase auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/verify-registration", authHandler.VerifyRegistration)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/verify-login", authHandler.VerifyLogin)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	// Authenticated, either role
	secured.GET("/vehicles", vehicleHandler.List)
	secured.GET("/vehicles/:id", vehicleHandler.Get)
	secured.POST("/sales/initiate-purchase", saleHandler.InitiatePurchase)
	secured.POST("/sales/purchase", saleHandler.ConfirmPurchase)
	secured.GET("/sales/my-purchases", saleHandler.MyPurchases)

	// Admin only
	admin := secured.Group("", RequireAdmin)
	admin.POST("/vehicles", vehicleHandler.Create)
	admin.POST("/vehicles/:id/initiate-update", vehicleHandler.InitiateUpdate)
	admin.PUT("/vehicles/:id", vehicleHandler.Update)
	admin.DELETE("/vehicles/:id", vehicleHandler.Delete)
	admin.GET("/sales", saleHandler.ListAll)
	admin.POST("/sales/process", saleHandler.Process)
	admin.GET("/customers", customerHandler.List)
	admin.GET("/customers/:id", customerHandler.Get)
}

// RequireAdmin rejects callers whose token does not carry the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}
		claims, ok := token.Claims.(*auth.Claims)
		if !ok || claims.Role != model.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
