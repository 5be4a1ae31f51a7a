package station

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/campuscharge/powerbank/backend-go/internal/cache"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/campuscharge/powerbank/backend-go/pkg/http/client"
)

// Source loads the raw station list. S3 and DynamoDB stores satisfy it as well.
type Source interface {
	GetStations(ctx context.Context) ([]models.Station, error)
}

var (
	_ Source = StaticSource(nil)
	_ Source = (*HTTPSource)(nil)
	_ Source = (*cache.S3StationCache)(nil)
	_ Source = (*cache.DynamoStationTable)(nil)
)

// StaticSource serves a list compiled into the binary
type StaticSource []models.Station

func (s StaticSource) GetStations(context.Context) ([]models.Station, error) {
	out := make([]models.Station, len(s))
	copy(out, s)
	return out, nil
}

// HTTPSource fetches a published directory document. The body is either a bare
// JSON array of stations or the record written by the S3 publisher.
type HTTPSource struct {
	httpClient client.Interface
	path       string
}

func NewHTTPSource(httpClient client.Interface, path string) *HTTPSource {
	return &HTTPSource{httpClient: httpClient, path: path}
}

func (s *HTTPSource) GetStations(ctx context.Context) ([]models.Station, error) {
	resp, err := s.httpClient.Get(ctx, s.path)
	if err != nil {
		return nil, fmt.Errorf("fetching stations: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching stations: unexpected status %d", resp.StatusCode)
	}

	var stations []models.Station
	if err := json.Unmarshal(resp.Body, &stations); err == nil {
		return stations, nil
	}

	var record cache.StationListCacheRecord
	if err := json.Unmarshal(resp.Body, &record); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return record.Stations, nil
}
