package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	tests := []struct {
		name     string
		response interface{ GetResponseType() string }
		want     int
	}{
		{
			name:     "stations response",
			response: NewStationsResponse(nil),
			want:     http.StatusOK,
		},
		{
			name:     "station response",
			response: NewStationResponse(models.Station{Name: "Library"}),
			want:     http.StatusOK,
		},
		{
			name:     "error body",
			response: NewErrorResponse("test error"),
			want:     http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Success(tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StatusCode)

			var resp APIResponse
			err = json.Unmarshal([]byte(got.Body), &resp)
			require.NoError(t, err)
			assert.Equal(t, tt.response.GetResponseType(), resp.ResponseType)

			// Verify CORS headers
			assert.Equal(t, "application/json", got.Headers["Content-Type"])
			assert.Equal(t, "*", got.Headers["Access-Control-Allow-Origin"])
		})
	}
}

func TestEmptyStationsSerializeAsArray(t *testing.T) {
	got, err := Success(NewStationsResponse(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"responseType":"stations","stations":[]}`, got.Body)
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		statusCode int
	}{
		{name: "basic error", message: "test error", statusCode: http.StatusBadRequest},
		{name: "server error", message: "internal server error", statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Error(tt.message, tt.statusCode)
			require.NoError(t, err)
			assert.Equal(t, tt.statusCode, got.StatusCode)

			var errorResp ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(got.Body), &errorResp))
			assert.Equal(t, "error", errorResp.ResponseType)
			assert.Equal(t, tt.message, errorResp.Error)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, "station not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"responseType":"error","error":"station not found"}`, rec.Body.String())
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]string
		wantLat float64
		wantLon float64
		wantErr error
	}{
		{
			name:    "valid coordinates",
			params:  map[string]string{"lat": "12.6676", "lon": "123.8811"},
			wantLat: 12.6676,
			wantLon: 123.8811,
		},
		{
			name:    "lng alias",
			params:  map[string]string{"lat": "12.6676", "lng": "123.8811"},
			wantLat: 12.6676,
			wantLon: 123.8811,
		},
		{
			name:    "missing coordinates",
			params:  map[string]string{},
			wantErr: ErrMissingCoordinates,
		},
		{
			name:    "missing longitude",
			params:  map[string]string{"lat": "12.6676"},
			wantErr: ErrMissingCoordinates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, err := ParseCoordinates(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLat, lat)
			assert.Equal(t, tt.wantLon, lon)
		})
	}
}

func TestParseCoordinatesInvalid(t *testing.T) {
	_, _, err := ParseCoordinates(map[string]string{"lat": "91", "lon": "0"})
	var coordErr models.InvalidCoordinatesError
	assert.ErrorAs(t, err, &coordErr)

	_, _, err = ParseCoordinates(map[string]string{"lat": "abc", "lon": "0"})
	assert.Error(t, err)
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		value   string
		set     bool
		want    int
		wantErr bool
	}{
		{set: false, want: DefaultLimit},
		{value: "", set: true, want: DefaultLimit},
		{value: "2", set: true, want: 2},
		{value: "0", set: true, want: 0},
		{value: "1000", set: true, want: MaxLimit},
		{value: "-1", set: true, wantErr: true},
		{value: "two", set: true, wantErr: true},
	}

	for _, tt := range tests {
		params := map[string]string{}
		if tt.set {
			params["limit"] = tt.value
		}
		got, err := ParseLimit(params)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidLimit, tt.value)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.value)
	}
}
