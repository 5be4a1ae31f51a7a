package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const defaultDirectoryKey = "stations.json"

// S3StationCache stores a published station directory as one JSON object
type S3StationCache struct {
	client     S3Client
	bucketName string
	key        string
	ttl        time.Duration
	clock      clock
}

// StationListCacheRecord represents the stored station list with metadata.
// TTL of zero means the list never expires.
type StationListCacheRecord struct {
	Stations    []models.Station `json:"stations"`
	LastUpdated int64            `json:"lastUpdated"`
	TTL         int64            `json:"ttl"`
}

// StationListCacheProvider defines interface for station list storage
type StationListCacheProvider interface {
	GetStations(ctx context.Context) ([]models.Station, error)
	SaveStations(ctx context.Context, stations []models.Station) error
}

var _ StationListCacheProvider = (*S3StationCache)(nil)

func NewS3StationCache(client S3Client, bucketName, key string, ttl time.Duration) *S3StationCache {
	if key == "" {
		key = defaultDirectoryKey
	}
	return &S3StationCache{
		client:     client,
		bucketName: bucketName,
		key:        key,
		ttl:        ttl,
		clock:      systemClock{},
	}
}

// GetStations returns nil without error when the object is missing or expired
func (c *S3StationCache) GetStations(ctx context.Context) ([]models.Station, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting %s from S3: %w", c.key, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record StationListCacheRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding station list record: %w", err)
	}

	if record.TTL > 0 && c.clock.Now().Unix() > record.TTL {
		log.Debug().Str("bucket", c.bucketName).Msg("Station list in S3 expired")
		return nil, nil
	}

	return record.Stations, nil
}

// SaveStations publishes stations to S3
func (c *S3StationCache) SaveStations(ctx context.Context, stations []models.Station) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	now := c.clock.Now().Unix()
	record := StationListCacheRecord{
		Stations:    stripDistances(stations),
		LastUpdated: now,
	}
	if c.ttl > 0 {
		record.TTL = now + int64(c.ttl.Seconds())
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding station list record: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(c.key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().Int("station_count", len(stations)).Str("bucket", c.bucketName).Msg("Saved station list to S3")
	return nil
}

// distances are per-request data and never published
func stripDistances(stations []models.Station) []models.Station {
	out := make([]models.Station, len(stations))
	for i, s := range stations {
		s.Distance = nil
		out[i] = s
	}
	return out
}
