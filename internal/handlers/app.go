package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	DefaultMaxResumes = 20

	// Per-file allowance used for the body limit when uploads are not size-limited.
	unlimitedFileAllowance = 64 << 20
	formOverhead           = 1 << 20
)

type AppConfig struct {
	// MaxFileSize is the per-resume limit; zero or less means no limit.
	MaxFileSize int64
	MaxResumes  int
	Skills      []string
	RequestLog  bool
}

// bodyLimit sizes a request that carries MaxResumes resumes of MaxFileSize
// bytes plus the job description.
func (cfg AppConfig) bodyLimit() int {
	resumes := cfg.MaxResumes
	if resumes <= 0 {
		resumes = DefaultMaxResumes
	}

	perFile := cfg.MaxFileSize
	if perFile <= 0 {
		perFile = unlimitedFileAllowance
	}

	return int(perFile)*resumes + formOverhead
}

// NewApp wires middleware and routes around the screen handler.
func NewApp(screenHandler *ScreenHandler, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    cfg.bodyLimit(),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	if cfg.RequestLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/skills", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"skills": cfg.Skills,
		})
	})

	api.Post("/screen", screenHandler.HandleScreen)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/screen",
				"POST /api/v1/screen?format=csv",
				"GET /api/v1/skills",
				"GET /api/v1/health",
			},
		})
	})

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
