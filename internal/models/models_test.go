package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoPointValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		point   GeoPoint
		wantErr bool
	}{
		{name: "campus", point: GeoPoint{Latitude: 12.6676, Longitude: 123.8811}},
		{name: "corners", point: GeoPoint{Latitude: -90, Longitude: 180}},
		{name: "latitude too high", point: GeoPoint{Latitude: 90.1, Longitude: 0}, wantErr: true},
		{name: "longitude too low", point: GeoPoint{Latitude: 0, Longitude: -180.5}, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.point.Validate()
			if tt.wantErr {
				var coordErr InvalidCoordinatesError
				assert.ErrorAs(t, err, &coordErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestStationValidate(t *testing.T) {
	assert.Error(t, Station{Latitude: 1, Longitude: 1}.Validate())
	assert.Error(t, Station{Name: "Library", Latitude: 100}.Validate())
	assert.NoError(t, Station{Name: "Library", Latitude: 12.66, Longitude: 123.88}.Validate())
}

func TestStationDistanceOmittedUntilRanked(t *testing.T) {
	data, err := json.Marshal(Station{Name: "Library", Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "distance")

	d := 12.5
	data, err = json.Marshal(Station{Name: "Library", Distance: &d})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"distance":12.5`)
}

func TestConnectionState(t *testing.T) {
	assert.False(t, Disconnected().IsConnected())

	state := Connected(ScanPayload{Station: "Library", ID: "PB42"})
	assert.True(t, state.IsConnected())
	assert.Equal(t, "PB42", state.Payload.ID)
}
