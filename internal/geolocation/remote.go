package geolocation

import "sync"

// RemoteLocator is a Locator whose answer is delivered later, e.g. by a browser
// posting its position back. A new request replaces the previous one.
type RemoteLocator struct {
	mu        sync.Mutex
	onSuccess func(lat, lng float64)
	onError   func(code ErrorCode)
}

var _ Locator = (*RemoteLocator)(nil)

func NewRemoteLocator() *RemoteLocator {
	return &RemoteLocator{}
}

func (r *RemoteLocator) GetCurrentPosition(onSuccess func(lat, lng float64), onError func(code ErrorCode)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSuccess = onSuccess
	r.onError = onError
}

func (r *RemoteLocator) Resolve(lat, lng float64) error {
	onSuccess, _, ok := r.take()
	if !ok {
		return ErrNoPendingRequest
	}
	onSuccess(lat, lng)
	return nil
}

func (r *RemoteLocator) Reject(code ErrorCode) error {
	_, onError, ok := r.take()
	if !ok {
		return ErrNoPendingRequest
	}
	onError(code)
	return nil
}

func (r *RemoteLocator) Waiting() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.onSuccess != nil
}

func (r *RemoteLocator) take() (func(lat, lng float64), func(code ErrorCode), bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.onSuccess == nil {
		return nil, nil, false
	}
	onSuccess, onError := r.onSuccess, r.onError
	r.onSuccess, r.onError = nil, nil
	return onSuccess, onError, true
}
