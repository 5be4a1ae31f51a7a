package rental

import (
	"context"
	"sync"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// Listener receives scans completed through the scanner's onDecoded callback,
// as an in-process decoder reports them. RemoteScanner never calls back; its
// text arrives through HandleDecoded instead.
type Listener interface {
	ScanCompleted(payload models.ScanPayload)
}

// Surface is the Idle/Active lifecycle of one scan surface. The camera is held
// only while Active and is released on every way out of Active.
type Surface struct {
	id      models.SurfaceID
	scanner Scanner
	conn    *Connection
	config  ScanConfig

	mu         sync.Mutex
	state      models.ScannerState
	generation uint64
	listener   Listener
}

func NewSurface(id models.SurfaceID, scanner Scanner, conn *Connection) *Surface {
	return &Surface{
		id:      id,
		scanner: scanner,
		conn:    conn,
		config:  DefaultScanConfig(),
		state:   models.ScannerIdle,
	}
}

func (s *Surface) ID() models.SurfaceID {
	return s.id
}

func (s *Surface) State() models.ScannerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Surface) SetListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// Open starts the camera. Opening an Active surface is a no-op.
func (s *Surface) Open(ctx context.Context) error {
	if s.scanner == nil {
		return &CapabilityError{Surface: s.id, Err: ErrCameraUnavailable}
	}

	s.mu.Lock()
	if s.state == models.ScannerActive {
		s.mu.Unlock()
		return nil
	}
	s.state = models.ScannerActive
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	// Decodes arrive after the opening request has finished
	callbackCtx := context.WithoutCancel(ctx)
	err := s.scanner.Start(ctx, FacingEnvironment, s.config,
		func(text string) { s.decodedFrom(callbackCtx, gen, text) },
		func(msg string) { log.Trace().Str("surface", string(s.id)).Str("msg", msg).Msg("Frame without QR code") },
	)
	if err != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.state = models.ScannerIdle
			s.generation++
		}
		s.mu.Unlock()
		s.release(ctx)
		log.Warn().Err(err).Str("surface", string(s.id)).Msg("Unable to start scanner")
		return &CapabilityError{Surface: s.id, Reason: err.Error(), Err: ErrCameraUnavailable}
	}

	// Closed while the camera was starting
	s.mu.Lock()
	stale := s.generation != gen
	s.mu.Unlock()
	if stale {
		s.release(ctx)
	}
	return nil
}

// HandleDecoded completes a scan. Empty text keeps the surface scanning.
func (s *Surface) HandleDecoded(ctx context.Context, text string) (*models.ScanPayload, error) {
	s.mu.Lock()
	if s.state != models.ScannerActive {
		s.mu.Unlock()
		return nil, ErrScannerIdle
	}
	if text == "" {
		s.mu.Unlock()
		return nil, nil
	}
	s.state = models.ScannerIdle
	s.generation++
	s.mu.Unlock()

	s.release(ctx)

	payload := ParsePayload(text)
	s.conn.Connect(payload)
	return &payload, nil
}

// Fail reports that the camera could not be acquired after Open returned
func (s *Surface) Fail(ctx context.Context, reason string) error {
	s.mu.Lock()
	if s.state != models.ScannerActive {
		s.mu.Unlock()
		return nil
	}
	s.state = models.ScannerIdle
	s.generation++
	s.mu.Unlock()

	s.release(ctx)
	log.Warn().Str("surface", string(s.id)).Str("reason", reason).Msg("Scanner failed")
	return &CapabilityError{Surface: s.id, Reason: reason, Err: ErrCameraUnavailable}
}

// Close stops the camera if Active. Closing an Idle surface does nothing.
func (s *Surface) Close(ctx context.Context) {
	s.mu.Lock()
	if s.state != models.ScannerActive {
		s.mu.Unlock()
		return
	}
	s.state = models.ScannerIdle
	s.generation++
	s.mu.Unlock()

	s.release(ctx)
}

func (s *Surface) decodedFrom(ctx context.Context, gen uint64, text string) {
	s.mu.Lock()
	current := s.generation == gen
	listener := s.listener
	s.mu.Unlock()
	if !current {
		return
	}

	payload, err := s.HandleDecoded(ctx, text)
	if err != nil || payload == nil {
		return
	}
	if listener != nil {
		listener.ScanCompleted(*payload)
	}
}

func (s *Surface) release(ctx context.Context) {
	if err := s.scanner.Stop(ctx); err != nil {
		log.Error().Err(err).Str("surface", string(s.id)).Msg("Error stopping scanner")
	}
}
