package web

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"sync"

	"github.com/campuscharge/powerbank/backend-go/internal/cache"
	"github.com/campuscharge/powerbank/backend-go/internal/config"
	"github.com/campuscharge/powerbank/backend-go/internal/geolocation"
	"github.com/campuscharge/powerbank/backend-go/internal/mapview"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/campuscharge/powerbank/backend-go/internal/presenter"
	"github.com/campuscharge/powerbank/backend-go/internal/rental"
	"github.com/campuscharge/powerbank/backend-go/internal/station"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const sessionCookie = "pb_session"

// layoutView is one presenter together with the browser-backed collaborators it drives
type layoutView struct {
	presenter *presenter.Presenter
	recorder  *mapview.Recorder
	scanner   *rental.RemoteScanner
	locator   *geolocation.RemoteLocator
}

func newLayoutView(layout *presenter.Layout, directory *station.Directory, conn *rental.Connection, tokens *geolocation.Sequence) *layoutView {
	v := &layoutView{
		recorder: mapview.NewRecorder(),
		scanner:  rental.NewRemoteScanner(layout.ScannerContainer),
		locator:  geolocation.NewRemoteLocator(),
	}
	v.presenter = presenter.New(layout, presenter.Deps{
		Directory:  directory,
		Map:        v.recorder,
		Scanner:    v.scanner,
		Locator:    v.locator,
		Connection: conn,
		Tokens:     tokens,
	})
	return v
}

// render draws the view and hands over the commands queued since the last render
func (v *layoutView) render() (presenter.View, error) {
	view, err := v.presenter.Render()
	if err != nil {
		return presenter.View{}, err
	}
	view.Map = v.recorder.Drain()
	view.Scanner = v.scanner.Drain()
	return view, nil
}

// Session is one browser. Its layouts share a single rental connection; mu
// serializes every gesture against them.
type Session struct {
	ID string

	hub         *Hub
	tokens      geolocation.Sequence
	mu          sync.Mutex
	conn        *rental.Connection
	views       map[string]*layoutView
	unsubscribe func()
}

// scannerPush carries the final commands of a retired view, which no longer
// answers gestures
type scannerPush struct {
	Type     string                  `json:"type"`
	Layout   string                  `json:"layout"`
	Commands []rental.ScannerCommand `json:"commands"`
}

type statusPush struct {
	Type       string                   `json:"type"`
	Connection models.ConnectionState   `json:"connection"`
	Regions    map[string]template.HTML `json:"regions"`
}

func newSession(id string, hub *Hub) *Session {
	s := &Session{
		ID:    id,
		hub:   hub,
		conn:  rental.NewConnection(),
		views: make(map[string]*layoutView),
	}
	s.unsubscribe = s.conn.Subscribe(func(state models.ConnectionState) {
		s.pushStatus(state)
	})
	return s
}

// pushStatus runs inside the gesture that changed the connection, so s.mu is already held
func (s *Session) pushStatus(state models.ConnectionState) {
	push := statusPush{Type: "status", Connection: state, Regions: make(map[string]template.HTML)}
	for name, v := range s.views {
		region, html, err := v.presenter.RenderStatus()
		if err != nil {
			log.Error().Err(err).Str("layout", name).Msg("Error rendering status")
			continue
		}
		push.Regions[region] = html
	}

	message, err := json.Marshal(push)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling status push")
		return
	}
	s.send(message)
}

func (s *Session) send(message []byte) {
	if s.hub != nil {
		s.hub.Send(s.ID, message)
	}
}

// activate installs a fresh view for layout, retiring any previous one
func (s *Session) activate(ctx context.Context, layout *presenter.Layout, directory *station.Directory) *layoutView {
	if old, ok := s.views[layout.Name]; ok {
		s.retire(ctx, old)
	}
	v := newLayoutView(layout, directory, s.conn, &s.tokens)
	s.views[layout.Name] = v
	return v
}

// retire deactivates v. Its stop commands can no longer ride on a view
// response, so they go out over the session's sockets.
func (s *Session) retire(ctx context.Context, v *layoutView) {
	v.presenter.Deactivate(ctx)

	var stops []rental.ScannerCommand
	for _, cmd := range v.scanner.Drain() {
		if cmd.Op == rental.OpStopScanner {
			stops = append(stops, cmd)
		}
	}
	if len(stops) == 0 {
		return
	}

	message, err := json.Marshal(scannerPush{Type: "scanner", Layout: v.presenter.Layout().Name, Commands: stops})
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling scanner push")
		return
	}
	log.Debug().Str("session", s.ID).Str("layout", v.presenter.Layout().Name).Msg("Stopping scanner of retired view")
	s.send(message)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.views {
		s.retire(context.Background(), v)
	}
	s.views = make(map[string]*layoutView)
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

// Sessions maps the session cookie to live sessions
type Sessions struct {
	store *cache.SessionStore[*Session]
	hub   *Hub
}

func NewSessions(cfg *config.CacheConfig, hub *Hub) (*Sessions, error) {
	store, err := cache.NewSessionStore[*Session](cfg, func(id string, s *Session) {
		log.Debug().Str("session", id).Msg("Session evicted")
		go s.close()
	})
	if err != nil {
		return nil, err
	}
	return &Sessions{store: store, hub: hub}, nil
}

func (m *Sessions) lookup(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, errNoSession
	}
	s, ok := m.store.Get(cookie.Value)
	if !ok {
		return nil, errNoSession
	}
	return s, nil
}

// lookupOrCreate returns the request's session, starting a new one and setting
// the cookie when there is none
func (m *Sessions) lookupOrCreate(w http.ResponseWriter, r *http.Request) *Session {
	if s, err := m.lookup(r); err == nil {
		return s
	}

	s := newSession(uuid.NewString(), m.hub)
	m.store.Add(s.ID, s)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info().Str("session", s.ID).Msg("Session started")
	return s
}

func (m *Sessions) Len() int {
	return m.store.Len()
}

func (m *Sessions) Stats() map[string]uint64 {
	return m.store.GetCacheStats()
}

// Close ends every session
func (m *Sessions) Close() {
	m.store.Purge()
}
