package web

import (
	"errors"
	"net/http"

	"github.com/campuscharge/powerbank/backend-go/internal/api"
	"github.com/campuscharge/powerbank/backend-go/internal/geolocation"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/campuscharge/powerbank/backend-go/internal/presenter"
	"github.com/campuscharge/powerbank/backend-go/internal/qr"
	"github.com/campuscharge/powerbank/backend-go/internal/rental"
	"github.com/campuscharge/powerbank/backend-go/internal/station"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var (
	errBadRequest    = errors.New("bad request")
	errNoSession     = errors.New("session not found")
	errViewNotActive = errors.New("layout is not active for this session")
)

func statusFor(err error) int {
	var validationErrs validator.ValidationErrors
	var coordErr models.InvalidCoordinatesError

	switch {
	case errors.Is(err, presenter.ErrStaleLocate),
		errors.Is(err, geolocation.ErrNoPendingRequest),
		errors.Is(err, rental.ErrScannerIdle),
		errors.Is(err, rental.ErrNotConnected):
		return http.StatusConflict

	case errors.Is(err, errNoSession),
		errors.Is(err, errViewNotActive),
		errors.Is(err, presenter.ErrUnknownLayout),
		errors.Is(err, presenter.ErrUnknownStation),
		errors.Is(err, presenter.ErrUnknownPanel),
		errors.Is(err, station.ErrStationNotFound):
		return http.StatusNotFound

	case errors.Is(err, errBadRequest),
		errors.Is(err, presenter.ErrUnknownVariant),
		errors.Is(err, api.ErrMissingCoordinates),
		errors.Is(err, api.ErrInvalidLimit),
		errors.Is(err, qr.ErrEmptyID),
		errors.As(err, &validationErrs),
		errors.As(err, &coordErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		api.WriteError(w, http.StatusText(status), status)
		return
	}
	log.Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("Request rejected")
	api.WriteError(w, err.Error(), status)
}
