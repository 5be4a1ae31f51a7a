package mapview

import (
	"encoding/json"
	"testing"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderQueuesCommandsInOrder(t *testing.T) {
	r := NewRecorder()
	center := models.GeoPoint{Latitude: 12.667599141285237, Longitude: 123.88191589351497}

	h := r.CreateMap("map", center, 17)
	assert.Equal(t, Handle("map"), h)

	r.AddMarker(h, models.GeoPoint{Latitude: 1, Longitude: 2}, "<strong>Library</strong>")
	r.SetView(h, center, 18)
	r.FitBounds(h, []models.GeoPoint{center, {Latitude: 1, Longitude: 2}}, 50)

	commands := r.Drain()
	ops := make([]string, len(commands))
	for i, c := range commands {
		ops[i] = c.Op
	}
	assert.Equal(t, []string{OpCreateMap, OpAddMarker, OpSetView, OpFitBounds}, ops)
	assert.Equal(t, 17, commands[0].Zoom)
	assert.Equal(t, 50, commands[3].Padding)
	assert.Len(t, commands[3].Points, 2)

	assert.Empty(t, r.Drain())
}

func TestRecorderUserMarkerCreatedOnce(t *testing.T) {
	r := NewRecorder()
	mobile := r.CreateMap("map", models.GeoPoint{}, 17)
	desktop := r.CreateMap("desktopMap", models.GeoPoint{}, 17)
	r.Drain()

	r.MoveOrCreateUserMarker(mobile, models.GeoPoint{Latitude: 1})
	r.MoveOrCreateUserMarker(mobile, models.GeoPoint{Latitude: 2})
	r.MoveOrCreateUserMarker(desktop, models.GeoPoint{Latitude: 3})

	commands := r.Drain()
	require.Len(t, commands, 3)
	assert.Equal(t, OpCreateUserMarker, commands[0].Op)
	assert.Equal(t, "You are here", commands[0].Popup)
	assert.Equal(t, OpMoveUserMarker, commands[1].Op)
	assert.Empty(t, commands[1].Popup)
	assert.Equal(t, OpCreateUserMarker, commands[2].Op, "each map has its own marker")

	// Recreating a map drops its marker
	r.CreateMap("map", models.GeoPoint{}, 17)
	r.MoveOrCreateUserMarker(mobile, models.GeoPoint{Latitude: 4})
	commands = r.Drain()
	assert.Equal(t, OpCreateUserMarker, commands[1].Op)
}

func TestCommandJSON(t *testing.T) {
	r := NewRecorder()
	r.SetView("map", models.GeoPoint{Latitude: 12.5, Longitude: 123.5}, 18)

	data, err := json.Marshal(r.Drain()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"set_view","map":"map","point":{"lat":12.5,"lng":123.5},"zoom":18}`, string(data))
}

func TestFitBoundsCopiesPoints(t *testing.T) {
	r := NewRecorder()
	points := []models.GeoPoint{{Latitude: 1}}
	r.FitBounds("map", points, 50)
	points[0].Latitude = 9

	assert.Equal(t, 1.0, r.Drain()[0].Points[0].Latitude)
}
