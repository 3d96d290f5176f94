package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"multitalent/internal/config"
	"multitalent/internal/database"
	"multitalent/internal/llm"
	"multitalent/internal/logger"
	"multitalent/internal/mail"
	"multitalent/internal/migrations"
	"multitalent/internal/pdftext"
	"multitalent/internal/postulation"
	"multitalent/internal/realtime"
	"multitalent/internal/scoring"
	"multitalent/internal/server"
	"multitalent/internal/storage"
	"multitalent/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrations.Run(cfg, zl); err != nil {
		zl.Fatal("migrations failed", zap.Error(err))
	}

	db, err := database.New(cfg, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close(zl)

	store, err := storage.New(ctx, cfg.AWS, zl)
	if err != nil {
		zl.Fatal("storage client failed", zap.Error(err))
	}

	gateway := llm.NewClient(cfg.OpenAI, zl)
	mailer := mail.New(cfg.Mail, zl)
	hub := realtime.NewHub(zl)

	var ocr pdftext.OCREngine
	if engine, err := pdftext.NewTesseractEngine(""); err != nil {
		zl.Warn("ocr engine unavailable, scanned pages will yield no text", zap.Error(err))
	} else {
		ocr = engine
	}
	extractor := pdftext.New(ocr, zl)

	pool := worker.NewPool(cfg.Worker.Concurrency, cfg.Worker.QueueSize, zl)
	pool.Start(ctx)
	defer pool.Stop()

	orchestrator := scoring.NewOrchestrator(
		extractor,
		scoring.NewSummarizer(gateway, zl),
		scoring.NewScorer(gateway, zl),
		store,
		database.NewAIResultRepository(db.DB),
		pool,
		zl,
	)

	transitions := postulation.NewService(
		database.NewPostulationRepository(db.DB),
		database.NewVacancyRepository(db.DB),
		mailer,
		hub,
		cfg.Frontend.URL,
		zl,
	)

	srv := server.New(cfg, zl, db, transitions, orchestrator, store, hub)
	if err := srv.Run(ctx); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
