package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/VS0178/move-bot-rec/internal/catalog"
	"github.com/VS0178/move-bot-rec/internal/config"
	"github.com/VS0178/move-bot-rec/internal/dialog"
	"github.com/VS0178/move-bot-rec/internal/handler"
	"github.com/VS0178/move-bot-rec/internal/middleware"
	"github.com/VS0178/move-bot-rec/internal/query"
	"github.com/VS0178/move-bot-rec/internal/telegram"
)

func main() {
	// Structured logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Load the movie catalog (fatal: nothing works without it)
	cat, err := catalog.Load(cfg.MoviesDBPath)
	if err != nil {
		slog.Error("failed to load catalog", "path", cfg.MoviesDBPath, "error", err)
		os.Exit(1)
	}

	// Core
	engine := query.NewEngine(cat, nil)
	machine := dialog.NewMachine(cat, engine)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telegram transport (optional: HTTP-only when no token is configured)
	if cfg.BotToken != "" {
		bot, err := telegram.New(cfg.BotToken, machine, cfg.MaxOverviewLen)
		if err != nil {
			slog.Error("failed to start telegram bot", "error", err)
			os.Exit(1)
		}
		go bot.Run(ctx)
	} else {
		slog.Warn("BOT_TOKEN not set, running HTTP transport only")
	}

	// HTTP transport
	h := handler.NewChatHandler(machine, cat, cfg.MaxOverviewLen)

	app := fiber.New(fiber.Config{
		AppName:      "Movie Bot",
		ServerHeader: "Movie-Bot",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("unhandled error", "error", err, "status", code)
			return c.Status(code).JSON(handler.ErrorResponse{Error: "something went wrong, please try again later"})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	// Rate limiting (non-fatal if Redis is unavailable)
	rdb, err := middleware.NewRedisClient(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without rate limiting", "error", err)
	} else {
		app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimitMax, cfg.RateLimitWindow).Handler())
	}

	// API routes
	api := app.Group("/api/v1")
	api.Get("/health", h.Health)
	api.Get("/catalog", h.Catalog)
	api.Post("/chat", h.Chat)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		slog.Info("shutting down movie bot...")
		cancel()
		_ = app.Shutdown()
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting movie bot", "addr", addr, "movies", cat.Len())
	if err := app.Listen(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
