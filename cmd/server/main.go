package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/Otszy/Bear-App/internal/config"
	"github.com/Otszy/Bear-App/internal/handler"
	"github.com/Otszy/Bear-App/internal/middleware"
	"github.com/Otszy/Bear-App/internal/repository"
	"github.com/Otszy/Bear-App/internal/service"
	"github.com/Otszy/Bear-App/internal/telegram"
)

const (
	adVerificationDelay       = 3 * time.Second
	adVerificationSuccess     = 0.95
	followVerificationDelay   = 3 * time.Second
	followVerificationSuccess = 0.98
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil {
		log = log.Level(level)
	}

	// Connect to database
	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer repo.Close()

	// Create services
	userService := service.NewUserService(repo)
	referralSvc := service.NewReferralService(repo)
	adVerifier := service.NewSimulatedVerifier(adVerificationDelay, adVerificationSuccess)
	followVerifier := service.NewSimulatedVerifier(followVerificationDelay, followVerificationSuccess)
	taskService := service.NewTaskService(repo, referralSvc, adVerifier, followVerifier, log)
	withdrawalSvc := service.NewWithdrawalService(repo, log)

	// Create Telegram notifier
	var notifier telegram.Notifier = telegram.NopNotifier{}
	if cfg.Telegram.BotToken != "" {
		bot, err := telegram.NewBot(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("failed to create telegram bot, notifications disabled")
		} else {
			notifier = bot
		}
	}

	// Create handlers
	h := handler.New(cfg, userService, taskService, withdrawalSvc, referralSvc, notifier, log)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	// Health check
	app.Get("/health", h.Health)

	// Bot webhook (server-to-server, no CORS)
	app.Post("/webhook/telegram", h.TelegramWebhook)

	// Mini-app API, credential-authenticated per request
	api := app.Group("/api", middleware.CORS(cfg.Server.AllowedOrigins))
	api.Post("/profile", h.GetProfile)
	api.Post("/task-attempts", h.GetTaskAttempts)
	api.Post("/tasks/validate-ad", h.ValidateAdTask)
	api.Post("/tasks/validate-follow", h.ValidateFollowTask)
	api.Post("/withdrawals", h.ProcessWithdrawal)

	// Graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("shutting down server")
		cancel()
		_ = app.Shutdown()
	}()

	if err := repo.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("database ping failed")
	}

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
