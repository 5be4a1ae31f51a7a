package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingCoordinates = errors.New("lat and lon are required")
	ErrInvalidLimit       = errors.New("limit must be a non-negative integer")
)

const (
	DefaultLimit = 5
	MaxLimit     = 100
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

type StationsResponse struct {
	APIResponse
	Stations []models.RankedStation `json:"stations"`
}

type StationResponse struct {
	APIResponse
	Station models.Station `json:"station"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewStationsResponse(stations []models.RankedStation) *StationsResponse {
	if stations == nil {
		stations = []models.RankedStation{}
	}
	return &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Stations:    stations,
	}
}

func NewStationResponse(station models.Station) *StationResponse {
	return &StationResponse{
		APIResponse: APIResponse{ResponseType: "station"},
		Station:     station,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

// Success wraps body in an API Gateway proxy response
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    jsonHeaders(),
		Body:       string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}, nil
}

// WriteJSON is the net/http counterpart of Success
func WriteJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, NewErrorResponse(message))
}

// ParseCoordinates reads lat and lon (lng is accepted as well)
func ParseCoordinates(params map[string]string) (float64, float64, error) {
	latStr, hasLat := params["lat"]
	lonStr, hasLon := params["lon"]
	if !hasLon {
		lonStr, hasLon = params["lng"]
	}

	if !hasLat || !hasLon {
		return 0, 0, ErrMissingCoordinates
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, err
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, err
	}

	if err := (models.GeoPoint{Latitude: lat, Longitude: lon}).Validate(); err != nil {
		return 0, 0, err
	}

	return lat, lon, nil
}

// ParseLimit returns DefaultLimit when absent. Zero means every station.
func ParseLimit(params map[string]string) (int, error) {
	limitStr, ok := params["limit"]
	if !ok || limitStr == "" {
		return DefaultLimit, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 0 {
		return 0, ErrInvalidLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return limit, nil
}
