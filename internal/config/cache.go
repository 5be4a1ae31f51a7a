package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// Client session LRU settings
	SessionLRUSize       int
	SessionLRUTTLMinutes int

	// How long a loaded station list is trusted before the source is consulted again
	StationListTTLMinutes int

	// Batch processing settings for directory publishing
	BatchSize       int
	MaxBatchRetries int
}

const (
	// Default values
	defaultSessionLRUSize        = 1000
	defaultSessionTTLMinutes     = 120
	defaultStationListTTLMinutes = 24 * 60
	defaultBatchSize             = 25
	defaultMaxBatchRetries       = 3
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		SessionLRUSize:        getEnvInt("CACHE_SESSION_LRU_SIZE", defaultSessionLRUSize),
		SessionLRUTTLMinutes:  getEnvInt("CACHE_SESSION_TTL_MINUTES", defaultSessionTTLMinutes),
		StationListTTLMinutes: getEnvInt("CACHE_STATION_LIST_TTL_MINUTES", defaultStationListTTLMinutes),
		BatchSize:             getEnvInt("CACHE_BATCH_SIZE", defaultBatchSize),
		MaxBatchRetries:       getEnvInt("CACHE_MAX_BATCH_RETRIES", defaultMaxBatchRetries),
	}

	// DynamoDB rejects batches larger than 25 items
	if config.BatchSize <= 0 || config.BatchSize > defaultBatchSize {
		config.BatchSize = defaultBatchSize
	}
	if config.MaxBatchRetries <= 0 {
		config.MaxBatchRetries = 1
	}

	log.Debug().
		Int("SessionLRUSize", config.SessionLRUSize).
		Int("SessionLRUTTLMinutes", config.SessionLRUTTLMinutes).
		Int("StationListTTLMinutes", config.StationListTTLMinutes).
		Int("BatchSize", config.BatchSize).
		Int("MaxBatchRetries", config.MaxBatchRetries).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetSessionTTL() time.Duration {
	return time.Duration(c.SessionLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetStationListTTL() time.Duration {
	return time.Duration(c.StationListTTLMinutes) * time.Minute
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}
