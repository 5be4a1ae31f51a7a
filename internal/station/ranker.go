package station

import (
	"fmt"
	"math"
	"sort"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
)

const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two points
func Haversine(from, to models.GeoPoint) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	dLat := toRadians(to.Latitude - from.Latitude)
	dLon := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// Rank orders stations by distance from point. Equal distances keep input order.
func Rank(point models.GeoPoint, stations []models.Station) []models.RankedStation {
	ranked := make([]models.RankedStation, len(stations))
	for i, s := range stations {
		ranked[i] = models.RankedStation{
			Station:        s,
			DistanceMeters: Haversine(point, s.Point()),
		}
	}
	return finishRanking(ranked)
}

// finishRanking expects entries in directory order
func finishRanking(ranked []models.RankedStation) []models.RankedStation {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMeters < ranked[j].DistanceMeters
	})

	for i := range ranked {
		dist := ranked[i].DistanceMeters
		ranked[i].Station.Distance = &dist
		ranked[i].DistanceText = FormatDistance(dist)
		ranked[i].Rank = i
		ranked[i].IsNearest = i == 0
	}
	return ranked
}

// FormatDistance renders whole meters below one kilometer and kilometers with two decimals otherwise
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%d meters", int64(math.Round(meters)))
	}
	return fmt.Sprintf("%.2f km", meters/1000)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
