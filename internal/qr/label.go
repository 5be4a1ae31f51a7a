package qr

// Printable power bank labels. The QR code carries the JSON payload the
// scanner expects: {"station": ..., "id": ...}.

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
	qrcode "github.com/skip2/go-qrcode"
)

var ErrEmptyID = errors.New("power bank id is required")

type Options struct {
	// Output size (px)
	SizePx int
	Level  qrcode.RecoveryLevel

	Fg color.Color
	Bg color.Color
}

// DefaultOptions is what printed labels use
func DefaultOptions() Options {
	return Options{SizePx: 512, Level: qrcode.High}
}

// LabelPayload returns the text encoded on a label
func LabelPayload(station, id string) ([]byte, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if station == "" {
		station = models.UnknownStation
	}
	return json.Marshal(models.ScanPayload{Station: station, ID: id})
}

// EncodePNG writes the label QR code for one power bank
func EncodePNG(w io.Writer, station, id string, opt Options) error {
	if opt.SizePx <= 0 {
		opt.SizePx = 512
	}

	data, err := LabelPayload(station, id)
	if err != nil {
		return err
	}

	qr, err := qrcode.New(string(data), opt.Level)
	if err != nil {
		return fmt.Errorf("building QR code: %w", err)
	}
	if opt.Fg != nil {
		qr.ForegroundColor = opt.Fg
	}
	if opt.Bg != nil {
		qr.BackgroundColor = opt.Bg
	}

	if err := qr.Write(opt.SizePx, w); err != nil {
		return fmt.Errorf("writing QR code: %w", err)
	}
	return nil
}
