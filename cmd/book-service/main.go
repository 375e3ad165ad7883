package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookrack/bookrack/internal/auth"
	"github.com/bookrack/bookrack/internal/cache"
	"github.com/bookrack/bookrack/internal/config"
	"github.com/bookrack/bookrack/internal/database"
	"github.com/bookrack/bookrack/internal/handlers"
	"github.com/bookrack/bookrack/internal/logger"
	"github.com/bookrack/bookrack/internal/middleware"
	"github.com/bookrack/bookrack/internal/redis"
	"github.com/bookrack/bookrack/internal/service"
	"github.com/bookrack/bookrack/internal/storage"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	log := logger.New("book-service")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
		log.Warn("JWT_SECRET not set, using default (insecure for production)")
	}
	jwtManager := auth.NewJWTManager(jwtSecret, cfg.JWT.TTL)

	var userStore storage.UserStore
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
		userStore = storage.NewPostgresUserStore(pool)
		bookStore = storage.NewPostgresBookStore(pool)
		log.Info("Using postgres stores")
	} else {
		userStore = storage.NewMemoryUserStore()
		bookStore = storage.NewSeededBookStore()
		log.Warn("DB_DSN not set, using in-memory stores")
	}

	var l2 *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		l2 = redisClient.Raw()
	} else {
		log.Warn("REDIS_ADDR not set, book cache is L1 only")
	}
	bookCache := cache.New(cfg.Cache.L1Capacity, l2, cfg.Cache.L2TTL)

	bookService := service.NewBookService(bookStore, bookCache)
	bookHandler := handlers.NewBookHandler(bookService)
	authMW := middleware.NewAuth(jwtManager, userStore)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("Hello Elysia"))
	})
	mux.HandleFunc("/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Do you miss me?"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	// Listing is public; only adding a book sits behind the guard.
	mux.HandleFunc("/books", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			bookHandler.List(w, r)
		case http.MethodPost:
			middleware.RequireUser(http.HandlerFunc(bookHandler.Create)).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	swagger := handlers.NewSwaggerHandler("api/book-service.yaml")
	swagger.RegisterRoutes(mux)

	var handler http.Handler = authMW.WithUser(mux)
	handler = middleware.RequestLogger(log)(handler)
	handler = middleware.NewCORS(cfg.CORS.AllowedOrigins).Middleware(handler)
	handler = middleware.Recovery(log)(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Services.BookPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Book service listening on port %s", cfg.Services.BookPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down book service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error: %v", err)
	}
	log.Info("Book service stopped")
}
