package main

import (
	"time"

	basehdl "delivery_marketplace/internal/api/base/handler"
	"delivery_marketplace/internal/api/middleware"
	"delivery_marketplace/internal/api/router"
	"delivery_marketplace/internal/global"
	"delivery_marketplace/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// InitFiberApp builds the app with the middleware stack and mounts every domain route.
func InitFiberApp(regs ...router.RegisterFunc) *fiber.App {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	app := fiber.New(fiber.Config{
		AppName:       "Delivery Marketplace API",
		ServerHeader:  "Delivery Marketplace API",
		StrictRouting: true,
		CaseSensitive: true,
		BodyLimit:     4 * 1024 * 1024,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   120 * time.Second,
		ErrorHandler:  middleware.ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	// CORS first so preflight requests never hit the limiter or auth.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if cfg.EnableTLS {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	})

	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:          cfg.RateLimit_Max,
			Expiration:   time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string { return c.IP() },
			LimitReached: middleware.LimitReached,
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/v1/system/health" ||
					c.Path() == "/metrics" ||
					c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			log.WithFields(map[string]interface{}{
				"panic":  e,
				"method": c.Method(),
				"path":   c.Path(),
			}).Error("Panic recovered")
		},
	}))

	app.Use(middleware.Metrics())

	if err := router.SetupRoutes(app, cfg.JwtSecret, basehdl.NewSystemHandler(global.MongoDB_Session), regs...); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}
	return app
}
