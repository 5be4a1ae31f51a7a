package cache

import (
	"sync"
	"time"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
)

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// StationCache keeps the last loaded station list in memory
type StationCache struct {
	stations    []models.Station
	lastUpdated time.Time
	ttl         time.Duration
	clock       clock
	mu          sync.RWMutex
}

func NewStationCache(ttl time.Duration) *StationCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &StationCache{
		stations:    make([]models.Station, 0),
		lastUpdated: time.Time{}, // Zero time to ensure first fetch
		ttl:         ttl,
		clock:       systemClock{},
	}
}

// GetStations returns nil when nothing is cached or the list has expired
func (c *StationCache) GetStations() []models.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isExpired() {
		return nil
	}
	return c.stations
}

func (c *StationCache) SetStations(stations []models.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stations = stations
	c.lastUpdated = c.clock.Now()
}

func (c *StationCache) isExpired() bool {
	return c.lastUpdated.IsZero() || c.clock.Now().Sub(c.lastUpdated) > c.ttl
}
