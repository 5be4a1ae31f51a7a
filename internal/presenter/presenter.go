package presenter

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuscharge/powerbank/backend-go/internal/geolocation"
	"github.com/campuscharge/powerbank/backend-go/internal/mapview"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/campuscharge/powerbank/backend-go/internal/rental"
	"github.com/campuscharge/powerbank/backend-go/internal/station"
	"github.com/rs/zerolog/log"
)

const (
	DefaultZoom   = 17
	FocusZoom     = 18
	BoundsPadding = 50
)

// DefaultCenter is where the map opens before the user is located
var DefaultCenter = models.GeoPoint{Latitude: 12.667599141285237, Longitude: 123.88191589351497}

var (
	ErrUnknownStation = errors.New("unknown station")
	ErrUnknownPanel   = errors.New("unknown panel")
	ErrStaleLocate    = errors.New("location request is no longer pending")
)

type Deps struct {
	Directory  *station.Directory
	Map        mapview.Map
	Scanner    rental.Scanner
	Locator    geolocation.Locator
	Connection *rental.Connection

	// Tokens numbers locate requests. Presenters of one client share it so a
	// replaced presenter's answers never match a newer request.
	Tokens *geolocation.Sequence
}

// Presenter holds the UI state of one layout for one client. It is not safe for
// concurrent use; the owning session serializes gestures.
type Presenter struct {
	layout    *Layout
	directory *station.Directory
	mapv      mapview.Map
	handle    mapview.Handle
	surface   *rental.Surface
	conn      *rental.Connection
	locator   *geolocation.Adapter

	ranked        []models.RankedStation
	located       bool
	activeStation string
	openPanel     Panel
	message       string
	prompt        string
}

var _ rental.Listener = (*Presenter)(nil)

// New creates the map with one marker per station
func New(layout *Layout, deps Deps) *Presenter {
	p := &Presenter{
		layout:    layout,
		directory: deps.Directory,
		mapv:      deps.Map,
		conn:      deps.Connection,
		surface:   rental.NewSurface(layout.Surface, deps.Scanner, deps.Connection),
		locator:   geolocation.NewAdapter(deps.Locator, deps.Tokens),
	}
	p.surface.SetListener(p)

	p.handle = p.mapv.CreateMap(layout.MapContainer, DefaultCenter, DefaultZoom)
	for _, s := range p.directory.Stations() {
		p.mapv.AddMarker(p.handle, s.Point(), stationPopup(s.Name))
	}
	return p
}

func (p *Presenter) Layout() *Layout {
	return p.layout
}

// Locate starts a location request, superseding any pending one
func (p *Presenter) Locate() geolocation.Token {
	p.clearNotices()
	return p.locator.Locate(p.handleLocation)
}

// ExpectLocation checks that token names the pending request before its answer is delivered
func (p *Presenter) ExpectLocation(token geolocation.Token) error {
	current, pending := p.locator.Current()
	if !pending || current != token {
		return fmt.Errorf("%w: %d", ErrStaleLocate, token)
	}
	p.clearNotices()
	return nil
}

func (p *Presenter) handleLocation(r geolocation.Result) {
	if r.Err != nil {
		log.Info().Err(r.Err).Str("layout", p.layout.Name).Msg("Locate failed")
		if errors.Is(r.Err, geolocation.ErrCapabilityAbsent) {
			p.message = MsgNoGeolocation
		} else {
			p.message = MsgLocationFailed
		}
		return
	}

	p.ranked = p.directory.Rank(r.Point)
	p.located = true

	bounds := make([]models.GeoPoint, 0, len(p.ranked)+1)
	bounds = append(bounds, r.Point)
	for _, rs := range p.ranked {
		bounds = append(bounds, rs.Station.Point())
	}
	p.mapv.FitBounds(p.handle, bounds, BoundsPadding)
	p.mapv.MoveOrCreateUserMarker(p.handle, r.Point)

	log.Debug().Str("layout", p.layout.Name).Int("station_count", len(p.ranked)).Msg("Ranked stations")
}

// SelectStation centres the map on a station
func (p *Presenter) SelectStation(ctx context.Context, name string) error {
	s, ok := p.directory.Find(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStation, name)
	}
	p.clearNotices()

	p.mapv.SetView(p.handle, s.Point(), FocusZoom)
	p.activeStation = name
	if p.layout.CloseOnSelect {
		p.closePanels(ctx)
	}
	return nil
}

// OpenPanel shows one panel, closing any other. Opening the scan panel starts the camera.
func (p *Presenter) OpenPanel(ctx context.Context, panel Panel) error {
	if !p.layout.hasPanel(panel) {
		return fmt.Errorf("%w: %s", ErrUnknownPanel, panel)
	}
	p.clearNotices()

	if p.openPanel == panel {
		return nil
	}
	p.closePanels(ctx)
	p.openPanel = panel

	if panel == p.layout.ScanPanel {
		if err := p.surface.Open(ctx); err != nil {
			log.Warn().Err(err).Str("layout", p.layout.Name).Msg("Scanner unavailable")
			p.openPanel = ""
			p.message = MsgCameraFailed
		}
	}
	return nil
}

func (p *Presenter) ClosePanels(ctx context.Context) {
	p.clearNotices()
	p.closePanels(ctx)
}

func (p *Presenter) OpenScanner(ctx context.Context) error {
	return p.OpenPanel(ctx, p.layout.ScanPanel)
}

// CloseScanner stops the camera and hides the scan panel
func (p *Presenter) CloseScanner(ctx context.Context) {
	p.clearNotices()
	if p.openPanel == p.layout.ScanPanel {
		p.openPanel = ""
	}
	p.surface.Close(ctx)
}

// Decoded delivers text read by the camera of this layout's surface
func (p *Presenter) Decoded(ctx context.Context, text string) error {
	p.clearNotices()
	payload, err := p.surface.HandleDecoded(ctx, text)
	if err != nil {
		return err
	}
	if payload != nil {
		p.ScanCompleted(*payload)
	}
	return nil
}

// ScanCompleted runs after the surface has connected a power bank
func (p *Presenter) ScanCompleted(payload models.ScanPayload) {
	p.closePanels(context.Background())
	if p.layout.StatusPanel != "" {
		p.openPanel = p.layout.StatusPanel
	}
	p.message = connectedMessage(payload)
}

// ScannerFailed reports that the camera could not be acquired
func (p *Presenter) ScannerFailed(ctx context.Context, reason string) {
	p.clearNotices()
	if err := p.surface.Fail(ctx, reason); err == nil {
		return
	}
	if p.openPanel == p.layout.ScanPanel {
		p.openPanel = ""
	}
	p.message = MsgCameraFailed
}

// RequestReturn asks the user to confirm the return
func (p *Presenter) RequestReturn() error {
	p.clearNotices()
	if !p.conn.State().IsConnected() {
		return rental.ErrNotConnected
	}
	p.prompt = PromptReturn
	return nil
}

// ConfirmReturn answers the return prompt. Declining leaves the rental in place.
func (p *Presenter) ConfirmReturn(ctx context.Context, confirmed bool) error {
	p.clearNotices()
	if _, err := p.conn.Return(confirmed); err != nil {
		if errors.Is(err, rental.ErrReturnNotConfirmed) {
			return nil
		}
		return err
	}
	p.message = MsgReturned
	p.closePanels(ctx)
	return nil
}

// Deactivate drops any pending locate and releases the camera
func (p *Presenter) Deactivate(ctx context.Context) {
	p.locator.Cancel()
	p.surface.Close(ctx)
	p.openPanel = ""
}

func (p *Presenter) ScannerState() models.ScannerState {
	return p.surface.State()
}

func (p *Presenter) closePanels(ctx context.Context) {
	if p.openPanel == p.layout.ScanPanel {
		p.surface.Close(ctx)
	}
	p.openPanel = ""
}

func (p *Presenter) clearNotices() {
	p.message = ""
	p.prompt = ""
}
