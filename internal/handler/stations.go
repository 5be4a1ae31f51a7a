package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/campuscharge/powerbank/backend-go/internal/api"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/campuscharge/powerbank/backend-go/internal/station"
	"github.com/rs/zerolog/log"
)

type StationsHandler struct {
	stationFinder models.StationFinder
}

func NewStationsHandler(finder models.StationFinder) *StationsHandler {
	return &StationsHandler{
		stationFinder: finder,
	}
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	// Lookup by name or rank by coordinates
	if name, ok := params["name"]; ok {
		found, err := h.stationFinder.FindStation(ctx, name)
		if errors.Is(err, station.ErrStationNotFound) || (err == nil && found == nil) {
			return api.Error("Station not found", http.StatusNotFound)
		}
		if err != nil {
			log.Error().Err(err).Str("name", name).Msg("Error finding station")
			return api.Error("Error finding station", http.StatusInternalServerError)
		}
		return api.Success(api.NewStationResponse(*found))
	}

	lat, lon, err := api.ParseCoordinates(params)
	if err != nil {
		var invalidCoordErr models.InvalidCoordinatesError
		if errors.As(err, &invalidCoordErr) || errors.Is(err, api.ErrMissingCoordinates) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		return api.Error("Invalid parameters", http.StatusBadRequest)
	}

	limit, err := api.ParseLimit(params)
	if err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}

	stations, err := h.stationFinder.FindNearestStations(ctx, lat, lon, limit)
	if err != nil {
		log.Error().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("Error ranking stations")
		return api.Error("Error finding stations", http.StatusInternalServerError)
	}

	return api.Success(api.NewStationsResponse(stations))
}
