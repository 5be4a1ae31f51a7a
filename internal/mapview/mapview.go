package mapview

import (
	"sync"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
)

// Handle identifies a created map by its container element id
type Handle string

// Map is the mapping library collaborator
type Map interface {
	CreateMap(container string, center models.GeoPoint, zoom int) Handle
	AddMarker(h Handle, point models.GeoPoint, popupHTML string)
	SetView(h Handle, point models.GeoPoint, zoom int)
	FitBounds(h Handle, points []models.GeoPoint, padding int)
	MoveOrCreateUserMarker(h Handle, point models.GeoPoint)
}

const (
	OpCreateMap        = "create_map"
	OpAddMarker        = "add_marker"
	OpSetView          = "set_view"
	OpFitBounds        = "fit_bounds"
	OpCreateUserMarker = "create_user_marker"
	OpMoveUserMarker   = "move_user_marker"

	UserMarkerPopup = "You are here"
)

// Command is one recorded map call, serialized for the browser
type Command struct {
	Op      string            `json:"op"`
	Map     Handle            `json:"map"`
	Point   *models.GeoPoint  `json:"point,omitempty"`
	Points  []models.GeoPoint `json:"points,omitempty"`
	Zoom    int               `json:"zoom,omitempty"`
	Padding int               `json:"padding,omitempty"`
	Popup   string            `json:"popup,omitempty"`
}

// Recorder implements Map by queueing commands until they are drained
type Recorder struct {
	mu          sync.Mutex
	commands    []Command
	userMarkers map[Handle]bool
}

var _ Map = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{userMarkers: make(map[Handle]bool)}
}

func (r *Recorder) CreateMap(container string, center models.GeoPoint, zoom int) Handle {
	h := Handle(container)
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.userMarkers, h)
	r.commands = append(r.commands, Command{Op: OpCreateMap, Map: h, Point: &center, Zoom: zoom})
	return h
}

func (r *Recorder) AddMarker(h Handle, point models.GeoPoint, popupHTML string) {
	r.push(Command{Op: OpAddMarker, Map: h, Point: &point, Popup: popupHTML})
}

func (r *Recorder) SetView(h Handle, point models.GeoPoint, zoom int) {
	r.push(Command{Op: OpSetView, Map: h, Point: &point, Zoom: zoom})
}

func (r *Recorder) FitBounds(h Handle, points []models.GeoPoint, padding int) {
	cp := make([]models.GeoPoint, len(points))
	copy(cp, points)
	r.push(Command{Op: OpFitBounds, Map: h, Points: cp, Padding: padding})
}

// MoveOrCreateUserMarker creates the "you are here" marker the first time and moves it afterwards
func (r *Recorder) MoveOrCreateUserMarker(h Handle, point models.GeoPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := Command{Op: OpMoveUserMarker, Map: h, Point: &point}
	if !r.userMarkers[h] {
		c.Op = OpCreateUserMarker
		c.Popup = UserMarkerPopup
		r.userMarkers[h] = true
	}
	r.commands = append(r.commands, c)
}

// Drain returns the queued commands in call order and clears the queue
func (r *Recorder) Drain() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.commands
	r.commands = nil
	return out
}

func (r *Recorder) push(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, c)
}
