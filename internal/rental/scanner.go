package rental

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
)

const FacingEnvironment = "environment"

// ScanConfig holds the options understood by the scanning library
type ScanConfig struct {
	FPS   int `json:"fps"`
	QRBox int `json:"qrbox"`
}

func DefaultScanConfig() ScanConfig {
	return ScanConfig{FPS: 10, QRBox: 250}
}

// Scanner is the camera/QR decoding collaborator bound to one container.
// onDecoded fires for each decoded symbol; onFrameError for frames without one.
type Scanner interface {
	Start(ctx context.Context, facing string, cfg ScanConfig, onDecoded func(text string), onFrameError func(msg string)) error
	Stop(ctx context.Context) error
}

var (
	ErrCameraUnavailable = errors.New("camera unavailable")
	ErrScannerIdle       = errors.New("scanner is not active")
)

// CapabilityError reports that a surface could not acquire the camera
type CapabilityError struct {
	Surface models.SurfaceID
	Reason  string
	Err     error
}

func (e *CapabilityError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s scanner: %v", e.Surface, e.Err)
	}
	return fmt.Sprintf("%s scanner: %v: %s", e.Surface, e.Err, e.Reason)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}
