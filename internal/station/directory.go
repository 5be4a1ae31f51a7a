package station

import (
	"fmt"
	"sync"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
)

// Directory is the fixed list of stations known at process start.
// Only the Distance field of its stations ever changes.
type Directory struct {
	mu       sync.RWMutex
	stations []models.Station
	index    map[string]int
}

// DefaultStations returns the built-in campus directory
func DefaultStations() []models.Station {
	return []models.Station{
		{Name: "School Canteen", Latitude: 12.667599141285237, Longitude: 123.88106065789424},
		{Name: "Library", Latitude: 12.667828642353323, Longitude: 123.88142728340732},
		{Name: "ICT Building", Latitude: 12.667455809209827, Longitude: 123.8816142627787},
		{Name: "CCB Building", Latitude: 12.66732476935383, Longitude: 123.8822385087018},
	}
}

// NewDirectory validates the stations and rejects duplicate names
func NewDirectory(stations []models.Station) (*Directory, error) {
	d := &Directory{
		stations: make([]models.Station, 0, len(stations)),
		index:    make(map[string]int, len(stations)),
	}
	for _, s := range stations {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid directory entry: %w", err)
		}
		if _, dup := d.index[s.Name]; dup {
			return nil, fmt.Errorf("duplicate station name: %s", s.Name)
		}
		s.Distance = nil
		d.index[s.Name] = len(d.stations)
		d.stations = append(d.stations, s)
	}
	return d, nil
}

// Stations returns a copy of the stations in directory order
func (d *Directory) Stations() []models.Station {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.Station, len(d.stations))
	copy(out, d.stations)
	return out
}

func (d *Directory) Find(name string) (models.Station, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.index[name]
	if !ok {
		return models.Station{}, false
	}
	return d.stations[i], true
}

// IndexOf returns the directory position of a station, or -1
func (d *Directory) IndexOf(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if i, ok := d.index[name]; ok {
		return i
	}
	return -1
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.stations)
}

// Rank computes a fresh ranking from point and records each station's distance in place
func (d *Directory) Rank(point models.GeoPoint) []models.RankedStation {
	d.mu.Lock()
	defer d.mu.Unlock()

	ranked := Rank(point, d.stations)
	for _, r := range ranked {
		dist := r.DistanceMeters
		d.stations[d.index[r.Station.Name]].Distance = &dist
	}
	return ranked
}
