package rental

import (
	"errors"
	"sync"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotConnected       = errors.New("no power bank connected")
	ErrReturnNotConfirmed = errors.New("return not confirmed")
)

// Connection is the one rental of a client, shared by all of its scan surfaces
type Connection struct {
	mu          sync.Mutex
	state       models.ConnectionState
	subscribers map[int]func(models.ConnectionState)
	nextID      int
}

func NewConnection() *Connection {
	return &Connection{
		state:       models.Disconnected(),
		subscribers: make(map[int]func(models.ConnectionState)),
	}
}

func (c *Connection) State() models.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect records a rental. A newer scan replaces the current one.
func (c *Connection) Connect(payload models.ScanPayload) models.ConnectionState {
	c.mu.Lock()
	if c.state.IsConnected() {
		log.Info().Str("previous_id", c.state.Payload.ID).Str("id", payload.ID).Msg("Replacing connected power bank")
	}
	c.state = models.Connected(payload)
	state := c.state
	c.mu.Unlock()

	log.Info().Str("station", payload.Station).Str("id", payload.ID).Msg("Power bank connected")
	c.notify(state)
	return state
}

// Return ends the rental. Without confirmation nothing changes.
func (c *Connection) Return(confirmed bool) (models.ScanPayload, error) {
	c.mu.Lock()
	if !c.state.IsConnected() {
		c.mu.Unlock()
		return models.ScanPayload{}, ErrNotConnected
	}
	if !confirmed {
		c.mu.Unlock()
		return models.ScanPayload{}, ErrReturnNotConfirmed
	}
	returned := *c.state.Payload
	c.state = models.Disconnected()
	state := c.state
	c.mu.Unlock()

	log.Info().Str("id", returned.ID).Msg("Power bank returned")
	c.notify(state)
	return returned, nil
}

// Subscribe registers fn for every state change and returns its cancel func
func (c *Connection) Subscribe(fn func(models.ConnectionState)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

func (c *Connection) notify(state models.ConnectionState) {
	c.mu.Lock()
	subs := make([]func(models.ConnectionState), 0, len(c.subscribers))
	for i := 0; i < c.nextID; i++ {
		if fn, ok := c.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
