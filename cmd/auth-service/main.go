package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookrack/bookrack/internal/auth"
	"github.com/bookrack/bookrack/internal/config"
	"github.com/bookrack/bookrack/internal/database"
	"github.com/bookrack/bookrack/internal/events"
	"github.com/bookrack/bookrack/internal/handlers"
	"github.com/bookrack/bookrack/internal/logger"
	"github.com/bookrack/bookrack/internal/middleware"
	"github.com/bookrack/bookrack/internal/redis"
	"github.com/bookrack/bookrack/internal/service"
	"github.com/bookrack/bookrack/internal/storage"
)

func main() {
	log := logger.New("auth-service")
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
		log.Info("Using postgres user store")
	} else {
		userStore = storage.NewMemoryUserStore()
		log.Warn("DB_DSN not set, using in-memory user store")
	}

	authService := service.NewAuthService(userStore, jwtManager)
	authHandler := handlers.NewAuthHandler(authService)
	authMW := middleware.NewAuth(jwtManager, userStore)

	// Only the credential endpoints get the sliding-window limiter, and only
	// when Redis is around.
	var rateLimiter *middleware.RateLimiter
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

		rateLimiter = middleware.NewRateLimiter(
			redisClient.Raw(),
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window,
		)
		authService.SetEventPublisher(events.NewAuthProducer(redisClient.Raw(), cfg.Redis.StreamName))
	} else {
		log.Warn("REDIS_ADDR not set, rate limiting disabled")
	}

	limited := func(h http.HandlerFunc) http.Handler {
		if rateLimiter == nil {
			return h
		}
		return rateLimiter.Middleware(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("Hello from auth!"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/signup", limited(authHandler.Signup))
	mux.Handle("/login", limited(authHandler.Login))
	mux.Handle("/me", middleware.RequireUser(http.HandlerFunc(authHandler.Me)))

	swagger := handlers.NewSwaggerHandler("api/auth-service.yaml")
	swagger.RegisterRoutes(mux)

	var handler http.Handler = authMW.WithUser(mux)
	handler = middleware.RequestLogger(log)(handler)
	handler = middleware.NewCORS(cfg.CORS.AllowedOrigins).Middleware(handler)
	handler = middleware.Recovery(log)(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Services.AuthPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Auth service listening on port %s", cfg.Services.AuthPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auth service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error: %v", err)
	}
	log.Info("Auth service stopped")
}
