package main

import (
	"context"
	"log"

	"customhost-support/internal/llm"
	"customhost-support/internal/service"
	"customhost-support/pkg/config"
	"customhost-support/pkg/logger"

	"go.uber.org/zap"
)

// kbindex rebuilds the embedding index from the knowledge base file without
// starting the service. Run it after editing the KB to avoid the rebuild
// cost on the next startup.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	llmClient := llm.NewClient(&cfg.LLM, appLogger)
	indexService := service.NewIndexService(&cfg.KB, cfg.LLM.EmbedModel, llmClient, appLogger)

	if err := indexService.Rebuild(context.Background()); err != nil {
		appLogger.Fatal("Reindex failed", zap.Error(err))
	}

	entries, vectors, model := indexService.Info()
	appLogger.Info("Reindex completed",
		zap.Int("entries", entries),
		zap.Int("vectors", vectors),
		zap.String("model", model),
	)
}
