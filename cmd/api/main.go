package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/services"
)

func main() {
	cfg, dotenv := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %v", err)
	}
	defer zl.Sync()

	if !dotenv {
		zl.Info("no .env file found, using environment and defaults")
	}

	embedder, err := services.NewEmbedder(services.EmbedderOptions{
		Provider:     cfg.Embedding.Provider,
		Model:        cfg.Embedding.Model,
		GeminiAPIKey: cfg.Embedding.GeminiAPIKey,
		OllamaURL:    cfg.Embedding.OllamaURL,
		Timeout:      cfg.Embedding.Timeout,
	}, zl)
	if err != nil {
		zl.Fatal("failed to initialize embedding model", zap.Error(err))
	}
	zl.Info("embedding model configured",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", embedder.ModelName()),
	)

	if ollama, ok := embedder.(*services.OllamaEmbedder); ok {
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := ollama.Ping(pingCtx); err != nil {
			zl.Warn("ollama is not reachable, resumes will get the fallback score", zap.Error(err))
		}
		cancel()
	}

	skills, err := services.NewSkillMatcher(cfg.Screening.Skills)
	if err != nil {
		zl.Fatal("failed to compile skill vocabulary", zap.Error(err))
	}

	reporters := services.MultiReporter{services.NewLogReporter(zl)}
	if cfg.Queue.RabbitMQURL != "" {
		amqpReporter, err := services.NewAMQPReporter(cfg.Queue.RabbitMQURL, cfg.Queue.Exchange, zl)
		if err != nil {
			zl.Fatal("failed to initialize progress publisher", zap.Error(err))
		}
		defer amqpReporter.Close()
		reporters = append(reporters, amqpReporter)
		zl.Info("publishing progress events", zap.String("exchange", cfg.Queue.Exchange))
	}

	screener := services.NewScreenerService(
		services.NewTextExtractor(cfg.Screening.MaxPages, zl),
		services.NewScorerService(embedder, skills, zl),
		skills,
		reporters,
		zl,
	)

	screenHandler := handlers.NewScreenHandler(
		screener,
		services.NewUploadReader(cfg.Storage.MaxFileSize),
		zl,
	)

	app := handlers.NewApp(screenHandler, handlers.AppConfig{
		MaxFileSize: cfg.Storage.MaxFileSize,
		MaxResumes:  handlers.DefaultMaxResumes,
		Skills:      skills.Vocabulary(),
		RequestLog:  true,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zl.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}
