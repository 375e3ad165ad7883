package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookrack/bookrack/internal/config"
	"github.com/bookrack/bookrack/internal/database"
	"github.com/bookrack/bookrack/internal/handlers"
	"github.com/bookrack/bookrack/internal/logger"
	"github.com/bookrack/bookrack/internal/middleware"
	"github.com/bookrack/bookrack/internal/recommend"
	"github.com/bookrack/bookrack/internal/storage"
)

func main() {
	log := logger.New("recommend-service")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	var bookStore storage.BookStore
	if cfg.Database.DSN != "" {
		pool, err := database.NewPool(ctx, database.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		bookStore = storage.NewPostgresBookStore(pool)
		log.Info("Using postgres book store")
	} else {
		bookStore = storage.NewSeededBookStore()
		log.Warn("DB_DSN not set, recommending from the seeded in-memory catalog")
	}

	recommendHandler := handlers.NewRecommendHandler(recommend.New(bookStore))

	mux := http.NewServeMux()
	mux.HandleFunc("/recommend", recommendHandler.Recommend)
	mux.HandleFunc("/health", recommendHandler.Health)

	var handler http.Handler = mux
	handler = middleware.RequestLogger(log)(handler)
	handler = middleware.NewCORS(cfg.CORS.AllowedOrigins).Middleware(handler)
	handler = middleware.Recovery(log)(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Services.RecommendPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Recommend service listening on port %s", cfg.Services.RecommendPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down recommend service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error: %v", err)
	}
	log.Info("Recommend service stopped")
}
