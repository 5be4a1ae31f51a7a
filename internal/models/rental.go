package models

// UnknownStation is used when a scanned code does not name its station.
const UnknownStation = "Unknown"

// ScanPayload is the decoded content of a power bank QR code.
type ScanPayload struct {
	Station string `json:"station"`
	ID      string `json:"id"`
	// Raw is set when the code was not a JSON object and the whole text became the ID.
	Raw bool `json:"raw,omitempty"`
}

type ConnectionStatus string

const (
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusConnected    ConnectionStatus = "connected"
)

// ConnectionState is either Disconnected or Connected with the rented power bank.
type ConnectionState struct {
	Status  ConnectionStatus `json:"status"`
	Payload *ScanPayload     `json:"payload,omitempty"`
}

func Disconnected() ConnectionState {
	return ConnectionState{Status: StatusDisconnected}
}

func Connected(payload ScanPayload) ConnectionState {
	return ConnectionState{Status: StatusConnected, Payload: &payload}
}

func (c ConnectionState) IsConnected() bool {
	return c.Status == StatusConnected && c.Payload != nil
}

type ScannerState string

const (
	ScannerIdle   ScannerState = "idle"
	ScannerActive ScannerState = "active"
)

// SurfaceID names a UI region hosting a live camera feed.
type SurfaceID string

const (
	SurfaceDrawer SurfaceID = "drawer"
	SurfaceModal  SurfaceID = "modal"
	SurfaceSingle SurfaceID = "single"
)
