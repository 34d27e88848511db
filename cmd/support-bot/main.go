package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"customhost-support/internal/api"
	"customhost-support/internal/api/handlers"
	"customhost-support/internal/llm"
	"customhost-support/internal/platform"
	"customhost-support/internal/repository"
	"customhost-support/internal/service"
	"customhost-support/pkg/config"
	"customhost-support/pkg/logger"
	"customhost-support/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Customhost support service")

	ctx := context.Background()

	// Customer store is a best-effort enrichment: an unreachable database
	// must not keep the assistant from starting.
	var customers service.CustomerStore
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Warn("Customer database unavailable, contract enrichment disabled", zap.Error(err))
	} else {
		defer db.Close()
		customers = repository.NewCustomerRepository(db, appLogger)
	}

	// LLM backend
	llmClient := llm.NewClient(&cfg.LLM, appLogger)

	// Knowledge base and embedding index; queries are not served until the
	// index is loaded or rebuilt.
	indexService := service.NewIndexService(&cfg.KB, cfg.LLM.EmbedModel, llmClient, appLogger)
	if err := indexService.Ensure(ctx); err != nil {
		appLogger.Warn("Embedding index unavailable, answering without retrieval context", zap.Error(err))
	}

	// Moderation rules
	rules := service.DefaultRuleset()
	if cfg.KB.RulesPath != "" {
		rules, err = service.LoadRuleset(cfg.KB.RulesPath)
		if err != nil {
			appLogger.Fatal("Failed to load moderation rules", zap.Error(err))
		}
	}
	classifier, err := service.NewClassifier(rules)
	if err != nil {
		appLogger.Fatal("Failed to compile moderation rules", zap.Error(err))
	}

	// Escalation surface
	var notifier platform.Notifier
	if cfg.Bot.AlertWebhookURL != "" {
		notifier = platform.NewWebhookNotifier(cfg.Bot.AlertWebhookURL, nil)
	} else {
		appLogger.Warn("No admin alert webhook configured, escalations will only be logged")
	}
	escalation := service.NewEscalationService(notifier, cfg.Bot.AdminMention, appLogger)

	// Services
	searchService := service.NewSearchService(indexService, llmClient, cfg.KB.TopK, appLogger)
	answerService := service.NewAnswerService(classifier, searchService, escalation, llmClient, &cfg.LLM, cfg.Bot.MaxAnswerChars, appLogger)
	historyStore := service.NewHistoryStore(cfg.Bot.MaxHistoryTurns, cfg.Bot.MaxTurnChars)
	directory := platform.NewMemoryDirectory()
	ticketService := service.NewTicketService(directory, customers, historyStore, answerService, cfg.Bot.MaxTicketsPerUser, appLogger)

	// Handlers
	askHandler := handlers.NewAskHandler(answerService, appLogger)
	ticketHandler := handlers.NewTicketHandler(ticketService, appLogger)
	kbHandler := handlers.NewKBHandler(indexService, appLogger)

	// Setup router
	app := api.SetupRouter(askHandler, ticketHandler, kbHandler, cfg.Bot.AdminToken, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
