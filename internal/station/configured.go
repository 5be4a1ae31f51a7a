package station

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuscharge/powerbank/backend-go/internal/cache"
	"github.com/campuscharge/powerbank/backend-go/internal/config"
	"github.com/campuscharge/powerbank/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

var ErrUnknownSource = errors.New("unknown directory source")

// NewSourceFromConfig builds the Source named by cfg.DirectorySource
func NewSourceFromConfig(ctx context.Context, cfg *config.Config) (Source, error) {
	log.Info().Str("source", cfg.DirectorySource).Msg("Configuring station directory")

	switch cfg.DirectorySource {
	case "", config.SourceBuiltin:
		return StaticSource(DefaultStations()), nil

	case config.SourceHTTP:
		if cfg.DirectoryURL == "" {
			return nil, fmt.Errorf("%s source: DIRECTORY_URL is empty", config.SourceHTTP)
		}
		httpClient := client.New(client.Options{
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})
		return NewHTTPSource(httpClient, cfg.DirectoryURL), nil

	case config.SourceS3:
		s3Client, err := cache.NewS3Client(ctx, cfg.AWSEndpoint, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		return cache.NewS3StationCache(s3Client, cfg.DirectoryBucket, cfg.DirectoryKey, 0), nil

	case config.SourceDynamoDB:
		dynamoClient, err := cache.NewDynamoClient(ctx, cfg.AWSEndpoint, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		return cache.NewDynamoStationTable(dynamoClient, cfg.DirectoryTable, nil), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.DirectorySource)
}

// NewFinderFromConfig wires a DirectoryStationFinder to the configured source
func NewFinderFromConfig(ctx context.Context, cfg *config.Config) (*DirectoryStationFinder, error) {
	source, err := NewSourceFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	cacheConfig := config.GetCacheConfig()
	return NewDirectoryStationFinder(source, cache.NewStationCache(cacheConfig.GetStationListTTL())), nil
}
