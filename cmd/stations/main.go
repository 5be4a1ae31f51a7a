package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/campuscharge/powerbank/backend-go/internal/api"
	"github.com/campuscharge/powerbank/backend-go/internal/config"
	"github.com/campuscharge/powerbank/backend-go/internal/handler"
	"github.com/campuscharge/powerbank/backend-go/internal/station"
	"github.com/rs/zerolog/log"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	stationsHandler *handler.StationsHandler
	setupOnce       sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		finder, err := station.NewFinderFromConfig(context.Background(), cfg)
		if err != nil {
			log.Error().Err(err).Msg("Falling back to built-in station directory")
			finder = station.NewDirectoryStationFinder(station.StaticSource(station.DefaultStations()), nil)
		}

		stationsHandler = handler.NewStationsHandler(finder)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if stationsHandler == nil {
		return api.Error("Service not initialized", http.StatusServiceUnavailable)
	}
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
