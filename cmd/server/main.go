package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/foxxcyber/kargolojik/internal/config"
	"github.com/foxxcyber/kargolojik/internal/handlers"
	"github.com/foxxcyber/kargolojik/internal/logger"
	"github.com/foxxcyber/kargolojik/internal/middleware"
	"github.com/foxxcyber/kargolojik/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	log := logger.Must(cfg.Logging)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := services.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open branch store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer store.Close()

	svc := services.NewBranchService(store, services.OpenCache(ctx, cfg, log), cfg.CacheTTL, log)

	if cfg.StoreDriver == config.DriverMemory {
		res, err := svc.SeedSamples(ctx)
		if err != nil {
			log.Fatal("seed memory store", zap.Error(err))
		}
		log.Info(res.Message)
	}

	// nil when S3 is disabled; imports are then not archived
	storage := services.OpenStorage(ctx, cfg, log)

	h, err := handlers.New(svc, cfg, storage, log)
	if err != nil {
		log.Fatal("create handlers", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               "kargolojik-api",
		ErrorHandler:          handlers.ErrorHandler,
		BodyLimit:             handlers.MaxSheetSize + 1<<20,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	h.Routes(app)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("listen", zap.Error(err))
	}
}
