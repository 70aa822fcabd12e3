package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/resumatch/resumatch/pkg/errx"
	"github.com/resumatch/resumatch/pkg/logx"
)

func main() {
	// 1. Environment and logger
	if err := godotenv.Load(); err != nil {
		logx.Debugf("No .env file loaded: %v", err)
	}
	if os.Getenv("LOG_LEVEL") == "debug" {
		logx.SetLevel(logx.LevelDebug)
	} else {
		logx.SetLevel(logx.LevelInfo)
	}

	// 2. Dependency container
	container := NewContainer()
	defer container.Redis.Close()
	if container.DB != nil {
		defer container.DB.Close()
	}

	// Offline index build: embed the vocabulary and exit
	if len(os.Args) > 1 && os.Args[1] == "build-index" {
		if err := container.BuildIndex(context.Background()); err != nil {
			logx.Fatalf("Index build failed: %v", err)
		}
		logx.Info("Index build finished")
		return
	}

	logx.Info("Starting Resumatch API Server...")
	container.VerifyIndex(context.Background())

	// 3. Fiber app
	app := fiber.New(fiber.Config{
		AppName:               "Resumatch API",
		DisableStartupMessage: true,
		BodyLimit:             25 * 1024 * 1024,
		ErrorHandler:          globalErrorHandler,
	})

	// 4. Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 5. Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		count, err := container.VectorIndex.Count(c.Context())
		return c.JSON(fiber.Map{
			"status":  "ok",
			"redis":   container.Redis.Ping(c.Context()).Err() == nil,
			"index":   err == nil,
			"indexed": count,
		})
	})

	// 6. Routes
	container.AnalysisHandlers.RegisterRoutes(app)

	// 7. Background workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	container.Worker.Start(workerCtx)

	// 8. Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		logx.Infof("Server listening on port %s", port)
		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c
	logx.Info("Shutting down server...")
	stopWorkers()

	if err := app.Shutdown(); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	logx.Info("Server exited")
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{
			"error": e.Message,
			"code":  e.Code,
		})
	}

	if e, ok := err.(*errx.Error); ok {
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
