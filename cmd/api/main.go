package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	config "github.com/anjiri1684/tutor_marketplace/configs"
	"github.com/anjiri1684/tutor_marketplace/database"
	"github.com/anjiri1684/tutor_marketplace/handlers"
	"github.com/anjiri1684/tutor_marketplace/jobs"
	"github.com/anjiri1684/tutor_marketplace/repository"
	"github.com/anjiri1684/tutor_marketplace/routes"
	"github.com/anjiri1684/tutor_marketplace/services"
)

func newLogger(env string) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	log, err := cfg.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return log
}

func main() {
	cfg := config.Load()
	log := newLogger(cfg.Environment)
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("🔥 database connection failed", zap.Error(err))
	}
	log.Info("✅ database connected")

	if err := database.Migrate(db); err != nil {
		log.Fatal("🔥 database migration failed", zap.Error(err))
	}
	if err := database.SeedAdmin(db); err != nil {
		log.Fatal("🔥 admin seed failed", zap.Error(err))
	}

	store := repository.NewStore(db)
	detector := services.NewConflictDetector(store)
	lifecycle := services.NewBookingLifecycle(store, detector, nil)
	availability := services.NewAvailabilityService(store)
	earnings := services.NewEarningsAggregator(store, nil)
	reviews := services.NewReviewGate(store)

	sweep := jobs.NewCompletionSweep(lifecycle, log.Named("completion_sweep"))
	c := cron.New()
	if _, err := c.AddJob("*/5 * * * *", sweep); err != nil {
		log.Fatal("🔥 failed to schedule completion sweep", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	app := fiber.New(fiber.Config{
		AppName:       "Tutor Marketplace",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.Error("request failed",
				zap.Error(err),
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.AvailabilityRoutes(app, handlers.NewAvailabilityHandler(availability))
	routes.BookingRoutes(app, handlers.NewBookingHandler(lifecycle, reviews))
	routes.TutorRoutes(app, handlers.NewTutorHandler(lifecycle, earnings))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	log.Info("✅ server starting", zap.String("addr", cfg.ListenAddr))
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal("🔥 server failed to start", zap.Error(err))
	}
}
