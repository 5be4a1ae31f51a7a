package models

import "fmt"

// Station is a fixed physical charging location. Name is its identity.
type Station struct {
	Name      string   `json:"name" dynamodbav:"name"`
	Latitude  float64  `json:"latitude" dynamodbav:"latitude"`
	Longitude float64  `json:"longitude" dynamodbav:"longitude"`
	Distance  *float64 `json:"distance,omitempty" dynamodbav:"-"`
}

// Point returns the station coordinates as a GeoPoint
func (s Station) Point() GeoPoint {
	return GeoPoint{Latitude: s.Latitude, Longitude: s.Longitude}
}

// Validate checks that the station has a name and valid coordinates
func (s Station) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("station name is required")
	}
	if err := s.Point().Validate(); err != nil {
		return fmt.Errorf("station %q: %w", s.Name, err)
	}
	return nil
}

// RankedStation is one entry of a ranking produced for a single locate request.
type RankedStation struct {
	Station        Station `json:"station"`
	DistanceMeters float64 `json:"distanceMeters"`
	DistanceText   string  `json:"distanceText"`
	Rank           int     `json:"rank"`
	IsNearest      bool    `json:"isNearest"`
}
