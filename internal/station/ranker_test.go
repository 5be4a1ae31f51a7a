package station

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schoolCanteen = models.GeoPoint{Latitude: 12.667599141285237, Longitude: 123.88106065789424}

func TestHaversine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to models.GeoPoint
		want     float64
		delta    float64
	}{
		{name: "same point", from: schoolCanteen, to: schoolCanteen, want: 0, delta: 1e-9},
		{name: "one degree of longitude at the equator", from: models.GeoPoint{}, to: models.GeoPoint{Longitude: 1}, want: 111194.93, delta: 0.5},
		{name: "one degree of latitude", from: models.GeoPoint{Latitude: 10}, to: models.GeoPoint{Latitude: 11}, want: 111194.93, delta: 0.5},
		{name: "antipodes", from: models.GeoPoint{}, to: models.GeoPoint{Longitude: 180}, want: 20015086.8, delta: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Haversine(tt.from, tt.to), tt.delta)
		})
	}
}

func TestHaversineSymmetric(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		a := models.GeoPoint{Latitude: r.Float64()*180 - 90, Longitude: r.Float64()*360 - 180}
		b := models.GeoPoint{Latitude: r.Float64()*180 - 90, Longitude: r.Float64()*360 - 180}
		assert.InDelta(t, Haversine(a, b), Haversine(b, a), 1e-6)
		assert.GreaterOrEqual(t, Haversine(a, b), 0.0)
	}
}

func TestFormatDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		meters float64
		want   string
	}{
		{meters: 0, want: "0 meters"},
		{meters: 47.3, want: "47 meters"},
		{meters: 850.4, want: "850 meters"},
		{meters: 999.4, want: "999 meters"},
		{meters: 1000.0, want: "1.00 km"},
		{meters: 1234.5, want: "1.23 km"},
		{meters: 15678, want: "15.68 km"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FormatDistance(tt.meters))
		})
	}
}

func TestRankFromSchoolCanteen(t *testing.T) {
	t.Parallel()

	ranked := Rank(schoolCanteen, DefaultStations())
	require.Len(t, ranked, 4)

	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Station.Name
		assert.Equal(t, i, r.Rank)
		assert.Equal(t, i == 0, r.IsNearest)
		require.NotNil(t, r.Station.Distance)
		assert.Equal(t, r.DistanceMeters, *r.Station.Distance)
		assert.Equal(t, FormatDistance(r.DistanceMeters), r.DistanceText)
	}

	assert.Equal(t, []string{"School Canteen", "Library", "ICT Building", "CCB Building"}, names)
	assert.InDelta(t, 0, ranked[0].DistanceMeters, 1e-6)
	assert.Equal(t, "0 meters", ranked[0].DistanceText)
}

func TestRankProperties(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		user := models.GeoPoint{
			Latitude:  12.6676 + (r.Float64()-0.5)*0.01,
			Longitude: 123.8815 + (r.Float64()-0.5)*0.01,
		}
		stations := DefaultStations()
		ranked := Rank(user, stations)

		require.Len(t, ranked, len(stations))
		assert.True(t, sort.SliceIsSorted(ranked, func(i, j int) bool {
			return ranked[i].DistanceMeters < ranked[j].DistanceMeters
		}))

		seen := map[string]bool{}
		nearest := 0
		for _, rs := range ranked {
			seen[rs.Station.Name] = true
			if rs.IsNearest {
				nearest++
			}
		}
		assert.Len(t, seen, len(stations), "ranking is a permutation of the directory")
		assert.Equal(t, 1, nearest)
	}
}

func TestRankTiesKeepDirectoryOrder(t *testing.T) {
	t.Parallel()

	stations := []models.Station{
		{Name: "B", Latitude: 1, Longitude: 1},
		{Name: "A", Latitude: 1, Longitude: 1},
		{Name: "C", Latitude: 0, Longitude: 0},
		{Name: "D", Latitude: 1, Longitude: 1},
	}

	ranked := Rank(models.GeoPoint{Latitude: 1, Longitude: 1}, stations)
	names := make([]string, len(ranked))
	for i, r := range ranked {
		names[i] = r.Station.Name
	}
	assert.Equal(t, []string{"B", "A", "D", "C"}, names)
	assert.True(t, ranked[0].IsNearest)
	assert.False(t, ranked[1].IsNearest)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank(schoolCanteen, nil))
}

func TestRankDoesNotModifyInput(t *testing.T) {
	stations := DefaultStations()
	Rank(schoolCanteen, stations)
	for _, s := range stations {
		assert.Nil(t, s.Distance)
	}
}
