package station

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/campuscharge/powerbank/backend-go/internal/cache"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

var ErrStationNotFound = errors.New("station not found")

// DirectoryStationFinder answers lookups against the station directory loaded from a Source
type DirectoryStationFinder struct {
	source Source
	cache  *cache.StationCache
}

var _ models.StationFinder = (*DirectoryStationFinder)(nil)

func NewDirectoryStationFinder(source Source, stationCache *cache.StationCache) *DirectoryStationFinder {
	if stationCache == nil {
		stationCache = cache.NewStationCache(0)
	}
	return &DirectoryStationFinder{
		source: source,
		cache:  stationCache,
	}
}

func (f *DirectoryStationFinder) FindStation(ctx context.Context, name string) (*models.Station, error) {
	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	for _, station := range stations {
		if station.Name == name {
			log.Trace().Str("station", name).Msg("FindStation: Found station")
			return &station, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrStationNotFound, name)
}

// FindNearestStations ranks every station by distance from lat/lon. limit <= 0 returns all.
func (f *DirectoryStationFinder) FindNearestStations(ctx context.Context, lat, lon float64, limit int) ([]models.RankedStation, error) {
	point := models.GeoPoint{Latitude: lat, Longitude: lon}
	if err := point.Validate(); err != nil {
		return nil, err
	}

	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	// Calculate distances in parallel using worker pool
	const workerCount = 4
	work := make(chan int, len(stations))
	ranked := make([]models.RankedStation, len(stations))

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				ranked[idx] = models.RankedStation{
					Station:        stations[idx],
					DistanceMeters: Haversine(point, stations[idx].Point()),
				}
			}
		}()
	}

	for idx := range stations {
		work <- idx
	}
	close(work)
	wg.Wait()

	// Each worker wrote its own index, so ranked is still in directory order
	ranked = finishRanking(ranked)

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Directory returns a private Directory over the current station list
func (f *DirectoryStationFinder) Directory(ctx context.Context) (*Directory, error) {
	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}
	return NewDirectory(stations)
}

func (f *DirectoryStationFinder) getStationList(ctx context.Context) ([]models.Station, error) {
	if cached := f.cache.GetStations(); cached != nil {
		log.Debug().Msg("Cache HIT for station list")
		return cached, nil
	}
	log.Debug().Msg("Cache MISS for station list, loading from source")

	stations, err := f.source.GetStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stations: %w", err)
	}
	if stations == nil {
		log.Warn().Msg("Station source returned no directory")
		stations = []models.Station{}
	}

	// Reject a bad directory before it is cached
	if _, err := NewDirectory(stations); err != nil {
		return nil, err
	}

	log.Debug().Int("station_count", len(stations)).Msgf("Caching list of %d stations", len(stations))
	f.cache.SetStations(stations)

	return stations, nil
}
