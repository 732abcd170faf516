package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mdpad/mdpad/handlers"
	"github.com/mdpad/mdpad/internal/config"
	"github.com/mdpad/mdpad/internal/database"
	"github.com/mdpad/mdpad/internal/document/handler"
	"github.com/mdpad/mdpad/internal/document/repository"
	"github.com/mdpad/mdpad/internal/document/service"
	"github.com/mdpad/mdpad/internal/ratelimit"
	"github.com/mdpad/mdpad/pkg/logger"
	"github.com/mdpad/mdpad/pkg/metrics"
	"github.com/mdpad/mdpad/pkg/middleware"
)

var startTime = time.Now()

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level)
	logger.Infof("config loaded: mongo=%v redis=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "")

	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// Redis is optional: when reachable it backs the rate limiter so the
	// admission budget holds across instances.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.UseRedis && redisClient != nil {
		limiter = ratelimit.NewRedis(redisClient, "")
		logger.Infof("using Redis-backed rate limiter")
	} else {
		mem := ratelimit.NewMemory()
		mem.StartJanitor(ctx)
		limiter = mem
	}

	if cfg.RateLimit.ThrottleEnabled {
		r.Use(middleware.Throttle(cfg.RateLimit.ThrottleRPS, cfg.RateLimit.ThrottleBurst))
	}

	// Prefer the Mongo-backed store; retry with backoff to tolerate startup
	// races, then fall back to the in-memory store (documents will not
	// survive a restart; fine for development, loud warning otherwise).
	var repo repository.Repository
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var connErr error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			c, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if err == nil {
				col := c.Database(cfg.MongoDB.Database).Collection("documents")
				repo = repository.NewMongoRepo(col)
				defer func() { _ = c.Disconnect(ctx) }()
				break
			}
			connErr = err
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if repo == nil {
			logger.Warnf("could not connect to MongoDB after %d attempts (%v), using memory store", maxAttempts, connErr)
		}
	}
	if repo == nil {
		repo = repository.NewMemoryRepo()
		if cfg.Server.Environment != "development" {
			logger.Warnf("running on the in-memory store: documents will not survive a restart")
		}
	}

	svc := service.New(repo)
	limits := handler.Limits{
		CreatePerWindow: cfg.RateLimit.CreateLimit,
		CreateWindow:    cfg.RateLimit.CreateWindow,
		UpdatePerWindow: cfg.RateLimit.UpdateLimit,
		UpdateWindow:    cfg.RateLimit.UpdateWindow,
	}
	handler.New(svc, limiter, limits).Register(r)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// ready only when the configured dependencies actually came up
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		_, usingMemory := repo.(*repository.MemoryRepo)
		deps["storage"] = true
		if cfg.MongoDB.URI != "" && usingMemory {
			deps["storage"] = false
			ready = false
		}

		deps["redis"] = true
		if cfg.RateLimit.UseRedis && redisClient == nil {
			deps["redis"] = false
			ready = false
		}

		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("mdpad listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
