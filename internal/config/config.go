package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	DatabaseURI      string
	MongoURI         string
	MongoDatabase    string
	GatewayAddress   string
	GatewayKeyID     string
	GatewayKeySecret string
	GatewayTimeout   time.Duration
	Currency         string
	JWTSecret        string
	ShutdownTimeout  time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultMongoDatabase   = "storefront"
	defaultCurrency        = "USD"
	defaultJWTSecret       = "change-me-in-production"
	defaultGatewayTimeout  = 10 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from an optional .env file, environment
// variables, and flags. Flags win over environment values.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		MongoURI:         getString(lookup, "MONGO_URI", ""),
		MongoDatabase:    getString(lookup, "MONGO_DATABASE", defaultMongoDatabase),
		GatewayAddress:   getString(lookup, "PAYMENT_GATEWAY_ADDRESS", ""),
		GatewayKeyID:     getString(lookup, "PAYMENT_GATEWAY_KEY_ID", ""),
		GatewayKeySecret: getString(lookup, "PAYMENT_GATEWAY_KEY_SECRET", ""),
		GatewayTimeout:   getDuration(lookup, "PAYMENT_GATEWAY_TIMEOUT", defaultGatewayTimeout),
		Currency:         getString(lookup, "CURRENCY", defaultCurrency),
		JWTSecret:        getString(lookup, "JWT_SECRET", defaultJWTSecret),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		gatewayTimeoutStr  = cfg.GatewayTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.MongoURI, "m", cfg.MongoURI, "MongoDB connection URI")
	fs.StringVar(&cfg.MongoDatabase, "mongo-db", cfg.MongoDatabase, "MongoDB database name")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Payment gateway base URL")
	fs.StringVar(&cfg.GatewayKeyID, "gateway-key", cfg.GatewayKeyID, "Payment gateway API key id")
	fs.StringVar(&cfg.GatewayKeySecret, "gateway-secret", cfg.GatewayKeySecret, "Payment gateway API key secret")
	fs.StringVar(&cfg.Currency, "currency", cfg.Currency, "ISO currency code for payment intents")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Payment gateway request timeout")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("mongo URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("payment gateway address must be provided")
	}

	if cfg.GatewayKeySecret == "" {
		return nil, fmt.Errorf("payment gateway key secret must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
