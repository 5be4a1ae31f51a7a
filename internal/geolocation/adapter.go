package geolocation

import (
	"sync"
	"sync/atomic"

	"github.com/campuscharge/powerbank/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// Locator is the one-shot position collaborator. Exactly one of the callbacks
// is invoked, possibly synchronously.
type Locator interface {
	GetCurrentPosition(onSuccess func(lat, lng float64), onError func(code ErrorCode))
}

// Token identifies one locate request
type Token uint64

// Sequence issues tokens. Adapters that share a Sequence never hand out the
// same token twice.
type Sequence struct {
	last atomic.Uint64
}

func (s *Sequence) next() Token {
	return Token(s.last.Add(1))
}

type Result struct {
	Token Token
	Point models.GeoPoint
	Err   error
}

// Adapter turns Locator callbacks into Results. Only the most recent request
// can complete; answers to superseded or cancelled requests are dropped.
type Adapter struct {
	locator Locator
	tokens  *Sequence

	mu      sync.Mutex
	current Token
	pending bool
}

// NewAdapter draws tokens from tokens, or from a private sequence when it is nil
func NewAdapter(locator Locator, tokens *Sequence) *Adapter {
	if tokens == nil {
		tokens = &Sequence{}
	}
	return &Adapter{locator: locator, tokens: tokens}
}

// Locate starts a new request, superseding any pending one. done runs at most once.
func (a *Adapter) Locate(done func(Result)) Token {
	token := a.tokens.next()
	a.mu.Lock()
	a.current = token
	a.pending = true
	a.mu.Unlock()

	if a.locator == nil {
		a.complete(token, done, Result{Token: token, Err: newLocateError(CodeCapabilityAbsent)})
		return token
	}

	a.locator.GetCurrentPosition(
		func(lat, lng float64) {
			point := models.GeoPoint{Latitude: lat, Longitude: lng}
			if err := point.Validate(); err != nil {
				log.Warn().Err(err).Msg("Locator returned out of range coordinates")
				a.complete(token, done, Result{Token: token, Err: newLocateError(CodePositionUnavailable)})
				return
			}
			a.complete(token, done, Result{Token: token, Point: point})
		},
		func(code ErrorCode) {
			a.complete(token, done, Result{Token: token, Err: newLocateError(code)})
		},
	)
	return token
}

func (a *Adapter) complete(token Token, done func(Result), result Result) {
	a.mu.Lock()
	if token != a.current || !a.pending {
		a.mu.Unlock()
		log.Debug().Uint64("token", uint64(token)).Msg("Dropping stale location result")
		return
	}
	a.pending = false
	a.mu.Unlock()

	done(result)
}

// Current returns the token of the latest request and whether it is still waiting
func (a *Adapter) Current() (Token, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current, a.pending
}

// Cancel drops the pending request, if any
func (a *Adapter) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = false
}
