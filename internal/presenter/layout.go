package presenter

import (
	"errors"
	"fmt"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
)

// Panel is the element id of a drawer or modal
type Panel string

const (
	PanelFind      Panel = "findDrawer"
	PanelScan      Panel = "scanDrawer"
	PanelStatus    Panel = "statusDrawer"
	PanelScanModal Panel = "desktopScanModal"
	PanelScanner   Panel = "scannerSection"
)

const (
	VariantCombined = "combined"
	VariantSingle   = "single"

	DefaultBreakpoint = 768
)

var (
	ErrUnknownVariant = errors.New("unknown layout variant")
	ErrUnknownLayout  = errors.New("unknown layout")
)

// Layout is a render strategy: where things live on the page and how gestures
// move panels around. The state machines behind it are the same for every layout.
type Layout struct {
	Name             string
	MapContainer     string
	ScannerContainer string
	Surface          models.SurfaceID

	Panels      []Panel
	ScanPanel   Panel
	StatusPanel Panel

	// CloseOnSelect closes open panels when a station is tapped
	CloseOnSelect bool
	// DirectoryOrder keeps stations in directory order instead of ranked order
	DirectoryOrder bool

	StationsRegion string
	StatusRegion   string

	stationsTemplate string
	statusTemplate   string
}

func (l *Layout) hasPanel(panel Panel) bool {
	for _, p := range l.Panels {
		if p == panel {
			return true
		}
	}
	return false
}

func Mobile() *Layout {
	return &Layout{
		Name:             "mobile",
		MapContainer:     "map",
		ScannerContainer: "qrReader",
		Surface:          models.SurfaceDrawer,
		Panels:           []Panel{PanelFind, PanelScan, PanelStatus},
		ScanPanel:        PanelScan,
		StatusPanel:      PanelStatus,
		CloseOnSelect:    true,
		StationsRegion:   "stationList",
		StatusRegion:     "statusContainer",
		stationsTemplate: "mobile_stations",
		statusTemplate:   "mobile_status",
	}
}

func Desktop() *Layout {
	return &Layout{
		Name:             "desktop",
		MapContainer:     "desktopMap",
		ScannerContainer: "desktopQrReader",
		Surface:          models.SurfaceModal,
		Panels:           []Panel{PanelScanModal},
		ScanPanel:        PanelScanModal,
		DirectoryOrder:   true,
		StationsRegion:   "stationCards",
		StatusRegion:     "desktopStatus",
		stationsTemplate: "desktop_cards",
		statusTemplate:   "desktop_status",
	}
}

// Single is the older one-page layout
func Single() *Layout {
	return &Layout{
		Name:             "single",
		MapContainer:     "map",
		ScannerContainer: "reader",
		Surface:          models.SurfaceSingle,
		Panels:           []Panel{PanelScanner},
		ScanPanel:        PanelScanner,
		StationsRegion:   "stationList",
		StatusRegion:     "connectionStatus",
		stationsTemplate: "single_stations",
		statusTemplate:   "single_status",
	}
}

// Select picks the layout for a page at startup
func Select(variant string, viewportWidth, breakpoint int) (*Layout, error) {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	switch variant {
	case VariantSingle:
		return Single(), nil
	case VariantCombined, "":
		if viewportWidth < breakpoint {
			return Mobile(), nil
		}
		return Desktop(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, variant)
	}
}

// ByName returns the layout used in API paths
func ByName(name string) (*Layout, error) {
	switch name {
	case "mobile":
		return Mobile(), nil
	case "desktop":
		return Desktop(), nil
	case "single":
		return Single(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, name)
	}
}
