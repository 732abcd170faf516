package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. Everything is optional: without
// MongoDB the service runs on the in-memory store, without Redis the rate
// limiter stays process-local.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	// UseRedis moves the admission counters into Redis so the budget holds
	// across instances. Requires a reachable Redis.
	UseRedis bool
	// Per-endpoint fixed-window budgets.
	CreateLimit  int
	CreateWindow time.Duration
	UpdateLimit  int
	UpdateWindow time.Duration
	// Optional global token-bucket throttle in front of every route.
	ThrottleEnabled bool
	ThrottleRPS     float64
	ThrottleBurst   int
}

type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and an optional .env
// file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5020")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "mdpad")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("RATE_LIMIT_CREATE", 10)
	viper.SetDefault("RATE_LIMIT_CREATE_WINDOW_SECONDS", 3600)
	viper.SetDefault("RATE_LIMIT_UPDATE", 60)
	viper.SetDefault("RATE_LIMIT_UPDATE_WINDOW_SECONDS", 60)
	viper.SetDefault("RATE_LIMIT_THROTTLE_RPS", 25.0)
	viper.SetDefault("RATE_LIMIT_THROTTLE_BURST", 50)
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			UseRedis:        viper.GetBool("RATE_LIMIT_USE_REDIS"),
			CreateLimit:     viper.GetInt("RATE_LIMIT_CREATE"),
			CreateWindow:    time.Duration(viper.GetInt("RATE_LIMIT_CREATE_WINDOW_SECONDS")) * time.Second,
			UpdateLimit:     viper.GetInt("RATE_LIMIT_UPDATE"),
			UpdateWindow:    time.Duration(viper.GetInt("RATE_LIMIT_UPDATE_WINDOW_SECONDS")) * time.Second,
			ThrottleEnabled: viper.GetBool("RATE_LIMIT_THROTTLE"),
			ThrottleRPS:     viper.GetFloat64("RATE_LIMIT_THROTTLE_RPS"),
			ThrottleBurst:   viper.GetInt("RATE_LIMIT_THROTTLE_BURST"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
