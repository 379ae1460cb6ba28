package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fincompare/internal/api"
	"fincompare/internal/api/handlers"
	"fincompare/internal/openbanking"
	"fincompare/internal/repository"
	"fincompare/internal/service"
	"fincompare/pkg/auth"
	"fincompare/pkg/config"
	"fincompare/pkg/logger"
	"fincompare/pkg/postgres"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// @title FinCompare API
// @version 1.0
// @description Financial comparison service: bank catalog, fees, FX rates and an AI assistant.

// @contact.name API Support
// @contact.email support@fincompare.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting FinCompare service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	otpRepo := repository.NewOTPRepository(db, appLogger)
	institutionRepo := repository.NewInstitutionRepository(db, appLogger)
	productRepo := repository.NewProductRepository(db, appLogger)
	feeRepo := repository.NewFeeRepository(db, appLogger)
	fxRateRepo := repository.NewFXRateRepository(db, appLogger)
	accountRepo := repository.NewAccountRepository(db, appLogger)
	chatRepo := repository.NewChatRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, otpRepo, jwtManager, &cfg.OTP, appLogger)
	catalogService := service.NewCatalogService(institutionRepo, productRepo, feeRepo, accountRepo, appLogger)
	fxService := service.NewFXService(fxRateRepo, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	chatService := service.NewChatService(llmService, chatRepo, accountRepo, userRepo, cfg.Chat.HistoryWindow, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	catalogHandler := handlers.NewCatalogHandler(catalogService, appLogger)
	fxHandler := handlers.NewFXHandler(fxService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, appLogger)

	// Setup router
	app := api.SetupRouter(authHandler, catalogHandler, fxHandler, chatHandler, jwtManager, appLogger)

	// Background jobs
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Jobs.OTPPurgeSchedule, func() {
		if err := authService.PurgeExpiredOTPs(context.Background()); err != nil {
			appLogger.Error("OTP purge failed", zap.Error(err))
		}
	}); err != nil {
		appLogger.Fatal("Failed to schedule OTP purge", zap.Error(err))
	}

	if cfg.OpenBanking.BaseURL != "" {
		gateway := openbanking.NewClient(&cfg.OpenBanking)
		syncService := service.NewSyncService(gateway, fxRateRepo, productRepo, feeRepo, institutionRepo, appLogger)
		if _, err := scheduler.AddFunc(cfg.Jobs.FXRefreshSchedule, func() {
			if err := syncService.RefreshRates(context.Background()); err != nil {
				appLogger.Error("FX refresh failed", zap.Error(err))
			}
		}); err != nil {
			appLogger.Fatal("Failed to schedule FX refresh", zap.Error(err))
		}
		if _, err := scheduler.AddFunc(cfg.Jobs.CatalogSyncSchedule, func() {
			if err := syncService.RefreshCatalog(context.Background()); err != nil {
				appLogger.Error("Catalog sync failed", zap.Error(err))
			}
		}); err != nil {
			appLogger.Fatal("Failed to schedule catalog sync", zap.Error(err))
		}
		appLogger.Info("Open-banking sync scheduled",
			zap.String("fx_schedule", cfg.Jobs.FXRefreshSchedule),
			zap.String("catalog_schedule", cfg.Jobs.CatalogSyncSchedule),
			zap.String("gateway", cfg.OpenBanking.BaseURL),
		)
	}

	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
