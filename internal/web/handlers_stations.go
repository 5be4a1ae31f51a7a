package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/campuscharge/powerbank/backend-go/internal/api"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/campuscharge/powerbank/backend-go/internal/qr"
	"github.com/go-chi/chi/v5"
)

type labelQuery struct {
	Size int `validate:"omitempty,min=64,max=2048"`
}

// handleStations ranks the directory from ?lat=&lng=
func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lngParam := query.Get("lng")
	if lngParam == "" {
		lngParam = query.Get("lon")
	}
	if query.Get("lat") == "" || lngParam == "" {
		writeError(w, r, api.ErrMissingCoordinates)
		return
	}

	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(lngParam, 64)
	if errLat != nil || errLng != nil {
		writeError(w, r, fmt.Errorf("%w: coordinates must be numbers", errBadRequest))
		return
	}
	point := models.GeoPoint{Latitude: lat, Longitude: lng}
	if err := validateStruct(point); err != nil {
		writeError(w, r, err)
		return
	}

	limit, err := api.ParseLimit(map[string]string{"limit": query.Get("limit")})
	if err != nil {
		writeError(w, r, err)
		return
	}

	ranked, err := s.finder.FindNearestStations(r.Context(), point.Latitude, point.Longitude, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.NewStationsResponse(ranked))
}

func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	found, err := s.finder.FindStation(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, api.NewStationResponse(*found))
}

// handleLabel renders the QR sticker for power bank {id} docked at station {name}
func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	id, ok := strings.CutSuffix(file, ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}

	var q labelQuery
	if size := r.URL.Query().Get("size"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: size must be an integer", errBadRequest))
			return
		}
		q.Size = n
	}
	if err := validateStruct(q); err != nil {
		writeError(w, r, err)
		return
	}

	found, err := s.finder.FindStation(r.Context(), pathParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	opt := qr.DefaultOptions()
	if q.Size > 0 {
		opt.SizePx = q.Size
	}
	var buf bytes.Buffer
	if err := qr.EncodePNG(&buf, found.Name, id, opt); err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Len(),
		"cache":    s.sessions.Stats(),
	})
}
