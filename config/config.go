package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Environment is the deployment environment the storefront runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment falls back to Development for unknown values.
func ParseEnvironment(v string) Environment {
	switch Environment(v) {
	case Production, Staging, Testing:
		return Environment(v)
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool {
	return e == Production
}

type Config struct {
	APIBaseURL      string `envconfig:"API_BASE_URL"      required:"true"`
	HTTPPort        string `envconfig:"HTTP_PORT"         default:":3000"`
	GrpcHealthPort  string `envconfig:"GRPC_HEALTH_PORT"  default:":50051"`
	LogLevel        string `envconfig:"LOG_LEVEL"         default:"info"`
	AppEnv          string `envconfig:"APP_ENV"           default:"development"`
	APITimeout      int    `envconfig:"API_TIMEOUT"       default:"10"`  // seconds
	RedisURL        string `envconfig:"REDIS_URL"`                       // empty: in-memory sessions
	SessionTTL      int    `envconfig:"SESSION_TTL"       default:"24"`  // hours
	ProductCacheTTL int    `envconfig:"PRODUCT_CACHE_TTL" default:"300"` // seconds
	DatabaseURL     string `envconfig:"DATABASE_URL"`                    // empty: audit trail goes to the log
	PageSize        int    `envconfig:"PAGE_SIZE"         default:"10"`
	CookieSecure    bool   `envconfig:"COOKIE_SECURE"     default:"false"`
}

func (c *Config) Environment() Environment {
	return ParseEnvironment(c.AppEnv)
}

func (c *Config) APITimeoutDuration() time.Duration {
	return time.Duration(c.APITimeout) * time.Second
}

func (c *Config) SessionTTLDuration() time.Duration {
	return time.Duration(c.SessionTTL) * time.Hour
}

func (c *Config) ProductCacheTTLDuration() time.Duration {
	return time.Duration(c.ProductCacheTTL) * time.Second
}

var (
	config Config
	once   sync.Once
)

// Load reads an optional .env file and then the process environment.
func Load(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL cannot be empty")
	}
	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT must be positive, got %d", cfg.APITimeout)
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	return &cfg, nil
}

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		cfg, err := Load(logger)
		if err != nil {
			logger.Fatalf("Configuration error: %v", err)
		}
		config = *cfg

		logger.Infof("Configuration loaded: API=%s, HTTP Port=%s, gRPC health port=%s, Env=%s, LogLevel=%s",
			config.APIBaseURL, config.HTTPPort, config.GrpcHealthPort, config.AppEnv, config.LogLevel)
		if config.RedisURL == "" {
			logger.Warn("Configuration loaded: REDIS_URL is not set, sessions are kept in memory")
		}
		if config.DatabaseURL == "" {
			logger.Info("Configuration loaded: DATABASE_URL is not set, audit trail is written to the log")
		}
	})
	return &config
}

// NewLogger builds the JSON logrus logger used across the application.
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}
