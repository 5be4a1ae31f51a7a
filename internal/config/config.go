package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	VariantCombined = "combined"
	VariantSingle   = "single"

	SourceBuiltin  = "builtin"
	SourceHTTP     = "http"
	SourceS3       = "s3"
	SourceDynamoDB = "dynamodb"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int
	HTTPAddr    string

	// Which page variant is served and where mobile switches to desktop
	LayoutVariant    string
	MobileBreakpoint int

	DirectorySource string
	DirectoryURL    string
	DirectoryBucket string
	DirectoryKey    string
	DirectoryTable  string
	AWSEndpoint     string
	AWSRegion       string

	RateLimitRPS   int
	RateLimitBurst int
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithHTTPAddr(addr string) Option {
	return func(c *Config) {
		c.HTTPAddr = addr
	}
}

// WithLayout sets the page variant; unknown variants fall back to combined
func WithLayout(variant string, breakpoint int) Option {
	return func(c *Config) {
		switch variant {
		case VariantSingle, VariantCombined:
			c.LayoutVariant = variant
		default:
			c.LayoutVariant = VariantCombined
		}
		if breakpoint > 0 {
			c.MobileBreakpoint = breakpoint
		}
	}
}

// WithDirectorySource selects where the station directory is loaded from
func WithDirectorySource(source, location string) Option {
	return func(c *Config) {
		c.DirectorySource = source
		switch source {
		case SourceHTTP:
			c.DirectoryURL = location
		case SourceS3:
			c.DirectoryBucket = location
		case SourceDynamoDB:
			c.DirectoryTable = location
		}
	}
}

func WithAWSEndpoint(endpoint, region string) Option {
	return func(c *Config) {
		c.AWSEndpoint = endpoint
		if region != "" {
			c.AWSRegion = region
		}
	}
}

func WithRateLimit(rps, burst int) Option {
	return func(c *Config) {
		c.RateLimitRPS = rps
		c.RateLimitBurst = burst
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "production",
		LogLevel:         zerolog.InfoLevel,
		HTTPTimeout:      10 * time.Second,
		MaxRetries:       3,
		HTTPAddr:         ":8080",
		LayoutVariant:    VariantCombined,
		MobileBreakpoint: 768,
		DirectorySource:  SourceBuiltin,
		DirectoryKey:     "stations.json",
		AWSRegion:        "us-east-1",
		RateLimitRPS:     10,
		RateLimitBurst:   20,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// IsDevelopment reports whether console logging and verbose errors are wanted
func (c *Config) IsDevelopment() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// LoadFromEnv loads configuration from environment variables, reading a .env file first when present
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env load warning")
	}

	source := getEnvOrDefault("DIRECTORY_SOURCE", SourceBuiltin)
	var location string
	switch source {
	case SourceHTTP:
		location = os.Getenv("DIRECTORY_URL")
	case SourceS3:
		location = os.Getenv("DIRECTORY_BUCKET")
	case SourceDynamoDB:
		location = os.Getenv("DIRECTORY_TABLE")
	}

	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithHTTPAddr(getEnvOrDefault("HTTP_ADDR", ":8080")),
		WithLayout(getEnvOrDefault("LAYOUT_VARIANT", VariantCombined), getIntEnvOrDefault("MOBILE_BREAKPOINT", 768)),
		WithDirectorySource(source, location),
		WithAWSEndpoint(os.Getenv("AWS_ENDPOINT"), os.Getenv("AWS_REGION")),
		WithRateLimit(getIntEnvOrDefault("RATE_LIMIT_RPS", 10), getIntEnvOrDefault("RATE_LIMIT_BURST", 20)),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnvOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
