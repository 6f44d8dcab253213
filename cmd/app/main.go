package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"lendguard/configs"
	"lendguard/internal/database"
	httpdelivery "lendguard/internal/delivery/http"
	"lendguard/internal/delivery/ws"
	"lendguard/internal/domain"
	"lendguard/internal/infra"
	"lendguard/internal/ratelimit"
	"lendguard/internal/repository"
	"lendguard/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment variables")
	}

	cfg := configs.Load()

	logger := newLogger(cfg.Server.Env)
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		zap.L().Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	positionRepo := repository.NewLoanPositionRepository(db)
	topUpRepo := repository.NewTopUpTransactionRepository(db)
	priceRepo := repository.NewPriceHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	uow := infra.NewPgxUnitOfWork(db)

	// The demo runs a single lazily-created user; every operation still takes
	// an explicit user id so the model supports many.
	demoUserID := ensureDemoUser(ctx, userRepo)

	// Realtime hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	fallbackPrice, err := decimal.NewFromString(cfg.PriceFeed.FallbackPrice)
	if err != nil {
		zap.L().Fatal("Invalid PRICE_FALLBACK value", zap.Error(err))
	}
	autoTopUpAmount, err := decimal.NewFromString(cfg.Protection.AutoTopUpAmount)
	if err != nil {
		zap.L().Fatal("Invalid AUTO_TOPUP_AMOUNT value", zap.Error(err))
	}

	priceFeed := service.NewPriceFeedService(priceRepo, cfg.PriceFeed.APIURL, cfg.PriceFeed.RequestTimeout, fallbackPrice)
	notifications := service.NewNotificationService(notificationRepo, hub)
	guard := ratelimit.New(cfg.Protection.TriggerWindow, 64)
	topUps := service.NewTopUpService(uow, userRepo, positionRepo, topUpRepo, priceFeed, notifications, guard, autoTopUpAmount)
	loans := service.NewLoanService(uow, positionRepo, priceFeed, notifications)
	dashboard := service.NewDashboardService(userRepo, positionRepo, priceFeed)
	settings := service.NewSettingsService(uow)
	assessor := service.NewTrendVolatilityAssessor(priceRepo, cfg.Protection.RiskWindowSize)

	// Seed the price history before serving anything price-dependent
	priceFeed.Refresh(ctx)

	// Background jobs: price poll, realtime broadcast, risk sampling
	scheduler := infra.NewScheduler(priceFeed, dashboard, topUps, assessor, hub, demoUserID, cfg)
	if err := scheduler.Start(); err != nil {
		zap.L().Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	// HTTP router
	e := echo.New()
	e.HideBanner = true
	httpdelivery.SetupRoutes(e, &httpdelivery.RouterConfig{
		DashboardHandler:    httpdelivery.NewDashboardHandler(dashboard, demoUserID),
		LoanHandler:         httpdelivery.NewLoanHandler(loans, demoUserID),
		TopUpHandler:        httpdelivery.NewTopUpHandler(topUps, demoUserID),
		NotificationHandler: httpdelivery.NewNotificationHandler(notifications, topUps, demoUserID),
		SettingsHandler:     httpdelivery.NewSettingsHandler(settings, demoUserID),
		MarketHandler:       httpdelivery.NewMarketHandler("https://api.binance.com"),
		Hub:                 hub,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zap.L().Info("LendGuard starting",
		zap.String("addr", addr),
		zap.String("env", cfg.Server.Env))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exited gracefully")
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}

// ensureDemoUser returns the demo user's id, creating it with seed balances
// on first startup.
func ensureDemoUser(ctx context.Context, userRepo domain.UserRepository) uuid.UUID {
	demoUser, err := userRepo.GetByUsername(ctx, "trader.eth")
	if err == nil {
		zap.L().Info("Using existing demo user", zap.String("user_id", demoUser.ID.String()))
		return demoUser.ID
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		zap.L().Fatal("Failed to look up demo user", zap.Error(err))
	}

	now := time.Now()
	user := &domain.User{
		ID:                      uuid.New(),
		Username:                "trader.eth",
		WalletAddress:           "0x9730c4e0b01962a66b7582b7b8a7b21a329d4d4f",
		LinkedWalletBalanceBtc:  decimal.RequireFromString("0.5"),
		LinkedWalletBalanceUsdt: decimal.RequireFromString("20000"),
		AutoTopUpEnabled:        true,
		SmsAlertsEnabled:        false,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := userRepo.Create(ctx, user); err != nil {
		zap.L().Fatal("Failed to create demo user", zap.Error(err))
	}

	zap.L().Info("Demo user created", zap.String("user_id", user.ID.String()))
	return user.ID
}
