package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/campuscharge/powerbank/backend-go/internal/api"
	"github.com/campuscharge/powerbank/backend-go/internal/geolocation"
	"github.com/campuscharge/powerbank/backend-go/internal/presenter"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type sessionRequest struct {
	Variant       string `json:"variant"`
	ViewportWidth int    `json:"viewport_width" validate:"gte=0,lte=100000"`
}

type locateAnswer struct {
	Lat       *float64 `json:"lat" validate:"required_without=ErrorCode"`
	Lng       *float64 `json:"lng" validate:"required_without=ErrorCode"`
	ErrorCode *int     `json:"error_code"`
}

type decodedRequest struct {
	Text string `json:"text"`
}

type failedRequest struct {
	Reason string `json:"reason" validate:"max=512"`
}

type confirmRequest struct {
	Confirmed bool `json:"confirmed"`
}

// handleSession picks the layout for the page and starts a fresh presenter for it
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Variant == "" {
		req.Variant = s.cfg.LayoutVariant
	}

	layout, err := presenter.Select(req.Variant, req.ViewportWidth, s.cfg.MobileBreakpoint)
	if err != nil {
		writeError(w, r, err)
		return
	}

	directory, err := s.finder.Directory(r.Context())
	if err != nil {
		writeError(w, r, fmt.Errorf("loading directory: %w", err))
		return
	}

	sess := s.sessions.lookupOrCreate(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	view := sess.activate(r.Context(), layout, directory)
	log.Info().Str("session", sess.ID).Str("layout", layout.Name).Int("width", req.ViewportWidth).Msg("Layout activated")
	writeView(w, r, view, 0)
}

// gesture runs fn against the session's view for the {layout} URL parameter
// and answers with the redrawn view
func (s *Server) gesture(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, v *layoutView) error) {
	layout, err := presenter.ByName(chi.URLParam(r, "layout"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := s.sessions.lookup(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	v, ok := sess.views[layout.Name]
	if !ok {
		writeError(w, r, fmt.Errorf("%w: %s", errViewNotActive, layout.Name))
		return
	}
	if err := fn(r.Context(), v); err != nil {
		writeError(w, r, err)
		return
	}
	writeView(w, r, v, 0)
}

func writeView(w http.ResponseWriter, r *http.Request, v *layoutView, token geolocation.Token) {
	view, err := v.render()
	if err != nil {
		writeError(w, r, err)
		return
	}
	view.LocateToken = uint64(token)
	api.WriteJSON(w, http.StatusOK, view)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.gesture(w, r, func(context.Context, *layoutView) error { return nil })
}

// handleLocate starts a location request; the browser answers it on /locate/{token}
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	layout, err := presenter.ByName(chi.URLParam(r, "layout"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := s.sessions.lookup(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	v, ok := sess.views[layout.Name]
	if !ok {
		writeError(w, r, fmt.Errorf("%w: %s", errViewNotActive, layout.Name))
		return
	}
	token := v.presenter.Locate()
	writeView(w, r, v, token)
}

func (s *Server) handleLocateAnswer(w http.ResponseWriter, r *http.Request) {
	token, err := strconv.ParseUint(chi.URLParam(r, "token"), 10, 64)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid token", errBadRequest))
		return
	}
	var answer locateAnswer
	if err := decodeJSON(r, &answer); err != nil {
		writeError(w, r, err)
		return
	}

	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		if err := v.presenter.ExpectLocation(geolocation.Token(token)); err != nil {
			return err
		}
		if answer.ErrorCode != nil {
			return v.locator.Reject(geolocation.ErrorCode(*answer.ErrorCode))
		}
		return v.locator.Resolve(*answer.Lat, *answer.Lng)
	})
}

func (s *Server) handleSelectStation(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		return v.presenter.SelectStation(ctx, name)
	})
}

func (s *Server) handleOpenPanel(w http.ResponseWriter, r *http.Request) {
	panel := presenter.Panel(chi.URLParam(r, "panel"))
	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		return v.presenter.OpenPanel(ctx, panel)
	})
}

func (s *Server) handleClosePanels(w http.ResponseWriter, r *http.Request) {
	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		v.presenter.ClosePanels(ctx)
		return nil
	})
}

func (s *Server) handleOpenScanner(w http.ResponseWriter, r *http.Request) {
	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		return v.presenter.OpenScanner(ctx)
	})
}

func (s *Server) handleDecoded(w http.ResponseWriter, r *http.Request) {
	var req decodedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		return v.presenter.Decoded(ctx, req.Text)
	})
}

func (s *Server) handleScannerFailed(w http.ResponseWriter, r *http.Request) {
	var req failedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		v.presenter.ScannerFailed(ctx, req.Reason)
		return nil
	})
}

func (s *Server) handleCloseScanner(w http.ResponseWriter, r *http.Request) {
	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		v.presenter.CloseScanner(ctx)
		return nil
	})
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		return v.presenter.RequestReturn()
	})
}

func (s *Server) handleConfirmReturn(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.gesture(w, r, func(ctx context.Context, v *layoutView) error {
		return v.presenter.ConfirmReturn(ctx, req.Confirmed)
	})
}

// pathParam returns a decoded URL parameter; station names contain spaces
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
