package presenter

import (
	"fmt"
	"html"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
)

const (
	PromptReturn      = "Are you sure you want to return the power bank?"
	MsgReturned       = "Power bank returned successfully!"
	MsgLocationFailed = "Unable to access your location. Please enable location services."
	MsgNoGeolocation  = "Geolocation is not supported by your browser."
	MsgCameraFailed   = "Unable to access camera. Please allow camera permissions."
	MsgNoStations     = "No charging stations available."
)

func connectedMessage(p models.ScanPayload) string {
	if p.Raw {
		return fmt.Sprintf("Power Bank Connected!\nID: %s", p.ID)
	}
	return fmt.Sprintf("Power Bank Connected!\n\nStation: %s\nPower Bank ID: %s", p.Station, p.ID)
}

func stationPopup(name string) string {
	return fmt.Sprintf("<strong>%s</strong><br>Charging Station Available", html.EscapeString(name))
}
