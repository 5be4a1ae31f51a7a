package models

import "fmt"

// GeoPoint is an immutable latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"lat" validate:"lat"`
	Longitude float64 `json:"lng" validate:"lng"`
}

type InvalidCoordinatesError struct {
	Latitude  float64
	Longitude float64
}

func (e InvalidCoordinatesError) Error() string {
	return fmt.Sprintf("invalid coordinates: %f,%f", e.Latitude, e.Longitude)
}

// Validate reports an InvalidCoordinatesError for points outside [-90,90]x[-180,180]
func (p GeoPoint) Validate() error {
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return InvalidCoordinatesError{Latitude: p.Latitude, Longitude: p.Longitude}
	}
	return nil
}
