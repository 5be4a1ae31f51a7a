package presenter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/campuscharge/powerbank/backend-go/internal/mapview"
	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/campuscharge/powerbank/backend-go/internal/rental"
	"github.com/campuscharge/powerbank/backend-go/internal/station"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var regionTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// View is everything the browser needs to redraw one layout
type View struct {
	Layout           string                   `json:"layout"`
	MapContainer     string                   `json:"mapContainer"`
	ScannerContainer string                   `json:"scannerContainer"`
	Regions          map[string]template.HTML `json:"regions"`
	OpenPanel        Panel                    `json:"openPanel,omitempty"`
	ScannerActive    bool                     `json:"scannerActive"`
	ActiveStation    string                   `json:"activeStation,omitempty"`
	Connection       models.ConnectionState   `json:"connection"`
	Message          string                   `json:"message,omitempty"`
	Prompt           string                   `json:"prompt,omitempty"`
	LocateToken      uint64                   `json:"locateToken,omitempty"`

	// Filled in by the transport from its recording collaborators
	Map     []mapview.Command       `json:"map,omitempty"`
	Scanner []rental.ScannerCommand `json:"scanner,omitempty"`
}

type stationRow struct {
	Name         string
	DistanceText string
	Nearest      bool
	Active       bool
}

type stationsData struct {
	Located   bool
	Empty     bool
	EmptyText string
	Rows      []stationRow
}

// Render is a pure function of the presenter's state
func (p *Presenter) Render() (View, error) {
	stations, err := p.renderStations()
	if err != nil {
		return View{}, err
	}
	region, status, err := p.RenderStatus()
	if err != nil {
		return View{}, err
	}

	return View{
		Layout:           p.layout.Name,
		MapContainer:     p.layout.MapContainer,
		ScannerContainer: p.layout.ScannerContainer,
		Regions: map[string]template.HTML{
			p.layout.StationsRegion: stations,
			region:                  status,
		},
		OpenPanel:     p.openPanel,
		ScannerActive: p.surface.State() == models.ScannerActive,
		ActiveStation: p.activeStation,
		Connection:    p.conn.State(),
		Message:       p.message,
		Prompt:        p.prompt,
	}, nil
}

// RenderStatus renders only the connection status region
func (p *Presenter) RenderStatus() (string, template.HTML, error) {
	html, err := execute(p.layout.statusTemplate, p.conn.State())
	return p.layout.StatusRegion, html, err
}

func (p *Presenter) renderStations() (template.HTML, error) {
	data := stationsData{Located: p.located, EmptyText: MsgNoStations}

	if p.layout.DirectoryOrder {
		nearest := ""
		if len(p.ranked) > 0 {
			nearest = p.ranked[0].Station.Name
		}
		for _, s := range p.directory.Stations() {
			row := stationRow{Name: s.Name, Active: s.Name == p.activeStation}
			if s.Distance != nil {
				row.DistanceText = station.FormatDistance(*s.Distance)
				row.Nearest = s.Name == nearest
			}
			data.Rows = append(data.Rows, row)
		}
	} else {
		for _, rs := range p.ranked {
			data.Rows = append(data.Rows, stationRow{
				Name:         rs.Station.Name,
				DistanceText: rs.DistanceText,
				Nearest:      rs.IsNearest,
				Active:       rs.Station.Name == p.activeStation,
			})
		}
	}
	data.Empty = p.directory.Len() == 0

	return execute(p.layout.stationsTemplate, data)
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := regionTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
