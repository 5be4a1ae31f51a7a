package rental

import (
	"context"
	"sync"
)

const (
	OpStartScanner = "start_scanner"
	OpStopScanner  = "stop_scanner"
)

// ScannerCommand is an instruction for the scanning library running in the browser
type ScannerCommand struct {
	Op        string      `json:"op"`
	Container string      `json:"container"`
	Facing    string      `json:"facingMode,omitempty"`
	Config    *ScanConfig `json:"config,omitempty"`
}

// RemoteScanner queues start/stop commands for a browser-side scanner. Decoded
// text comes back through Surface.HandleDecoded.
type RemoteScanner struct {
	container string

	mu       sync.Mutex
	running  bool
	commands []ScannerCommand
}

var _ Scanner = (*RemoteScanner)(nil)

func NewRemoteScanner(container string) *RemoteScanner {
	return &RemoteScanner{container: container}
}

func (r *RemoteScanner) Start(_ context.Context, facing string, cfg ScanConfig, _ func(string), _ func(string)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running = true
	r.commands = append(r.commands, ScannerCommand{
		Op:        OpStartScanner,
		Container: r.container,
		Facing:    facing,
		Config:    &cfg,
	})
	return nil
}

// Stop is idempotent
func (r *RemoteScanner) Stop(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return nil
	}
	r.running = false
	r.commands = append(r.commands, ScannerCommand{Op: OpStopScanner, Container: r.container})
	return nil
}

func (r *RemoteScanner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Drain returns and clears the queued commands
func (r *RemoteScanner) Drain() []ScannerCommand {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.commands
	r.commands = nil
	return out
}
