package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gwi.com/calorie-chat/internal/api"
	"gwi.com/calorie-chat/internal/config"
	"gwi.com/calorie-chat/internal/core"
	"gwi.com/calorie-chat/internal/food"
	"gwi.com/calorie-chat/internal/ledger"
	"gwi.com/calorie-chat/internal/lookup"
	"gwi.com/calorie-chat/internal/store"
)

type keyValueStore interface {
	store.KeyValue
	io.Closer
}

func openStore(cfg config.Config) (keyValueStore, error) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		return store.NewRedisStore(cfg.RedisURL)
	case config.StorageMemory:
		log.Println("Using in-memory storage; data is lost on restart")
		return store.NewMemoryStore(), nil
	default:
		return store.NewSQLiteStore(cfg.DatabaseURL)
	}
}

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.AppConfig

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.Debug() {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize storage
	kv, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s storage: %v", cfg.StorageBackend, err)
	}
	defer kv.Close()

	calorieLedger := ledger.New(ledger.NewKVRepository(kv))

	usda := lookup.NewClient(lookup.ClientConfig{
		Endpoint:  cfg.USDAEndpoint,
		APIKey:    cfg.USDAAPIKey,
		RateLimit: cfg.USDARateLimit,
		Timeout:   cfg.LookupTimeout,
	})

	// Keyword matching always runs; Gemini goes first when configured.
	var extractor food.Extractor = food.NewKeywordExtractor(food.DefaultLexicon)
	if cfg.GeminiAPIKey != "" {
		llmService, err := core.NewLLMService(cfg.GeminiAPIKey)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini extractor: %v", err)
		}
		defer llmService.Close()
		extractor = food.Chain(llmService, extractor)
		log.Println("Gemini food extraction enabled")
	}

	// Initialize Chat service
	chatService := core.NewChatService(usda, extractor, calorieLedger, cfg.LookupTimeout)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService, lookup.FallbackSearcher{Primary: usda}, extractor, calorieLedger)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LookupTimeout + 15*time.Second, // lookups dominate request time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
