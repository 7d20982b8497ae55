package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"cardealer/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"cardealer/internal/auth"
	"cardealer/internal/cache"
	"cardealer/internal/config"
	"cardealer/internal/db"
	"cardealer/internal/handler"
	"cardealer/internal/model"
	"cardealer/internal/notify"
	"cardealer/internal/repository"
	"cardealer/internal/router"
	"cardealer/internal/service"
)

// otpCleanupInterval is how often expired OTP rows are reaped.
const otpCleanupInterval = 5 * time.Minute

// @title Car Dealership API
// @version 1.0
// @description Role-gated dealership inventory and purchase API with OTP-verified registration, login and sensitive mutations.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Vehicle{},
		&model.Sale{},
		&model.OtpCode{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	vehicleRepo := repository.NewVehicleRepository(gormDB)
	saleRepo := repository.NewSaleRepository(gormDB)
	otpRepo := repository.NewOtpRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	pendingStore := auth.NewPendingStore(cacheClient)

	// Services
	notifier := notify.NewConsoleNotifier()
	otpService := service.NewOtpService(otpRepo, notifier)
	authService := service.NewAuthService(userRepo, otpService, pendingStore, jwtService)
	vehicleService := service.NewVehicleService(vehicleRepo, saleRepo, otpService, cacheClient)
	saleService := service.NewSaleService(saleRepo, vehicleRepo, otpService, cacheClient)
	customerService := service.NewCustomerService(userRepo, saleRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	saleHandler := handler.NewSaleHandler(saleService)
	customerHandler := handler.NewCustomerHandler(customerService)

	router.Register(e, cfg, authHandler, vehicleHandler, saleHandler, customerHandler)

	// Reap expired OTP rows in the background for the life of the process.
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go runOtpSweeper(sweeperCtx, otpService)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// runOtpSweeper periodically deletes expired OTP codes. Deleting used or
// expired rows never races with validation: validate only matches unexpired
// rows.
func runOtpSweeper(ctx context.Context, otpService service.OtpService) {
	ticker := time.NewTicker(otpCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deleted, err := otpService.CleanupExpired(ctx)
			if err != nil {
				log.Printf("otp cleanup: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("otp cleanup: removed %d expired codes", deleted)
			}
		case <-ctx.Done():
			return
		}
	}
}
