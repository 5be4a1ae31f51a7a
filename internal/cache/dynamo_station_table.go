package cache

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campuscharge/powerbank/backend-go/internal/config"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// DynamoDBClient defines the interface for DynamoDB operations we need
type DynamoDBClient interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// stationItem is one row of the directory table, keyed by name.
// Position preserves directory order, which a Scan does not.
type stationItem struct {
	Name      string  `dynamodbav:"name"`
	Latitude  float64 `dynamodbav:"latitude"`
	Longitude float64 `dynamodbav:"longitude"`
	Position  int     `dynamodbav:"position"`
}

// DynamoStationTable stores the station directory in a DynamoDB table
type DynamoStationTable struct {
	client    DynamoDBClient
	tableName string
	config    *config.CacheConfig
	sleep     func(time.Duration)
}

var _ StationListCacheProvider = (*DynamoStationTable)(nil)

func NewDynamoStationTable(client DynamoDBClient, tableName string, cacheConfig *config.CacheConfig) *DynamoStationTable {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &DynamoStationTable{
		client:    client,
		tableName: tableName,
		config:    cacheConfig,
		sleep:     time.Sleep,
	}
}

// GetStations scans the whole table and returns stations in directory order
func (t *DynamoStationTable) GetStations(ctx context.Context) ([]models.Station, error) {
	var items []stationItem
	var startKey map[string]types.AttributeValue

	for {
		out, err := t.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(t.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scanning station table: %w", err)
		}

		var page []stationItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshaling station items: %w", err)
		}
		items = append(items, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})

	stations := make([]models.Station, len(items))
	for i, item := range items {
		stations[i] = models.Station{
			Name:      item.Name,
			Latitude:  item.Latitude,
			Longitude: item.Longitude,
		}
	}

	log.Debug().Int("station_count", len(stations)).Str("table", t.tableName).Msg("Loaded stations from DynamoDB")
	return stations, nil
}

// SaveStations writes all stations in batches, retrying failed batches with backoff
func (t *DynamoStationTable) SaveStations(ctx context.Context, stations []models.Station) error {
	batchSize := t.config.BatchSize
	for i := 0; i < len(stations); i += batchSize {
		end := i + batchSize
		if end > len(stations) {
			end = len(stations)
		}

		var writeRequests []types.WriteRequest
		for pos := i; pos < end; pos++ {
			s := stations[pos]
			item, err := attributevalue.MarshalMap(stationItem{
				Name:      s.Name,
				Latitude:  s.Latitude,
				Longitude: s.Longitude,
				Position:  pos,
			})
			if err != nil {
				return fmt.Errorf("marshaling station %q: %w", s.Name, err)
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		if err := t.writeBatch(ctx, writeRequests); err != nil {
			return err
		}
	}

	log.Debug().Int("station_count", len(stations)).Str("table", t.tableName).Msg("Saved stations to DynamoDB")
	return nil
}

func (t *DynamoStationTable) writeBatch(ctx context.Context, requests []types.WriteRequest) error {
	var lastErr error
	pending := requests

	for retry := 0; retry < t.config.MaxBatchRetries; retry++ {
		out, err := t.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				t.tableName: pending,
			},
		})
		if err == nil && len(out.UnprocessedItems[t.tableName]) == 0 {
			return nil
		}
		if err != nil {
			lastErr = err
		} else {
			pending = out.UnprocessedItems[t.tableName]
			lastErr = fmt.Errorf("%d unprocessed items", len(pending))
		}
		t.sleep(time.Duration(1<<retry) * 100 * time.Millisecond)
	}

	return fmt.Errorf("batch writing stations after %d retries: %w", t.config.MaxBatchRetries, lastErr)
}
