package geolocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLocator struct {
	lat, lng float64
	code     ErrorCode
}

func (f fixedLocator) GetCurrentPosition(onSuccess func(lat, lng float64), onError func(code ErrorCode)) {
	if f.code != 0 {
		onError(f.code)
		return
	}
	onSuccess(f.lat, f.lng)
}

func TestAdapterLocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		locator Locator
		wantErr error
		code    ErrorCode
	}{
		{name: "success", locator: fixedLocator{lat: 12.6676, lng: 123.8811}},
		{name: "permission denied", locator: fixedLocator{code: CodePermissionDenied}, wantErr: ErrPermissionDenied, code: CodePermissionDenied},
		{name: "unavailable", locator: fixedLocator{code: CodePositionUnavailable}, wantErr: ErrPositionUnavailable, code: CodePositionUnavailable},
		{name: "timeout", locator: fixedLocator{code: CodeTimeout}, wantErr: ErrTimeout, code: CodeTimeout},
		{name: "unknown code", locator: fixedLocator{code: 9}, wantErr: ErrPositionUnavailable, code: CodePositionUnavailable},
		{name: "out of range", locator: fixedLocator{lat: 123, lng: 12}, wantErr: ErrPositionUnavailable, code: CodePositionUnavailable},
		{name: "no capability", locator: nil, wantErr: ErrCapabilityAbsent, code: CodeCapabilityAbsent},
		{name: "negative code", locator: fixedLocator{code: -1}, wantErr: ErrPositionUnavailable, code: CodePositionUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var results []Result
			a := NewAdapter(tt.locator, nil)
			token := a.Locate(func(r Result) { results = append(results, r) })

			require.Len(t, results, 1)
			assert.Equal(t, token, results[0].Token)
			_, pending := a.Current()
			assert.False(t, pending)

			if tt.wantErr == nil {
				require.NoError(t, results[0].Err)
				assert.Equal(t, 12.6676, results[0].Point.Latitude)
				return
			}
			assert.ErrorIs(t, results[0].Err, tt.wantErr)
			var locErr *LocateError
			require.ErrorAs(t, results[0].Err, &locErr)
			assert.Equal(t, tt.code, locErr.Code)
		})
	}
}

func TestAdapterDropsSupersededResults(t *testing.T) {
	remote := NewRemoteLocator()
	a := NewAdapter(remote, nil)

	var first, second []Result
	a.Locate(func(r Result) { first = append(first, r) })

	// The remote locator only keeps the latest callbacks, so capture the first ones directly
	staleSuccess := remote.onSuccess
	token := a.Locate(func(r Result) { second = append(second, r) })

	staleSuccess(1, 1)
	assert.Empty(t, first, "superseded request never completes")

	require.NoError(t, remote.Resolve(2, 2))
	require.Len(t, second, 1)
	assert.Equal(t, token, second[0].Token)
	assert.Equal(t, 2.0, second[0].Point.Latitude)
}

func TestAdapterCancel(t *testing.T) {
	remote := NewRemoteLocator()
	a := NewAdapter(remote, nil)

	called := false
	a.Locate(func(Result) { called = true })
	a.Cancel()

	require.NoError(t, remote.Resolve(1, 1))
	assert.False(t, called)
}

func TestAdapterCallbackRunsOnce(t *testing.T) {
	var onSuccess func(lat, lng float64)
	var onError func(code ErrorCode)
	a := NewAdapter(locatorFunc(func(s func(lat, lng float64), e func(code ErrorCode)) {
		onSuccess, onError = s, e
	}), nil)

	calls := 0
	a.Locate(func(Result) { calls++ })
	onSuccess(1, 1)
	onError(CodeTimeout)
	onSuccess(1, 1)
	assert.Equal(t, 1, calls)
}

func TestAdaptersSharingSequence(t *testing.T) {
	var tokens Sequence
	oldRemote, newRemote := NewRemoteLocator(), NewRemoteLocator()
	old := NewAdapter(oldRemote, &tokens)
	current := NewAdapter(newRemote, &tokens)

	first := old.Locate(func(Result) {})
	old.Cancel()
	second := current.Locate(func(Result) {})
	assert.NotEqual(t, first, second)

	got, pending := current.Current()
	assert.True(t, pending)
	assert.Equal(t, second, got)
	assert.NotEqual(t, first, got, "a retired adapter's token never names the new request")
}

func TestRemoteLocatorWithoutRequest(t *testing.T) {
	remote := NewRemoteLocator()
	assert.False(t, remote.Waiting())
	assert.ErrorIs(t, remote.Resolve(1, 1), ErrNoPendingRequest)
	assert.ErrorIs(t, remote.Reject(CodeTimeout), ErrNoPendingRequest)
}

func TestRemoteLocatorReject(t *testing.T) {
	remote := NewRemoteLocator()
	a := NewAdapter(remote, nil)

	var got Result
	a.Locate(func(r Result) { got = r })
	assert.True(t, remote.Waiting())

	require.NoError(t, remote.Reject(CodePermissionDenied))
	assert.ErrorIs(t, got.Err, ErrPermissionDenied)
	assert.False(t, remote.Waiting())
}

type locatorFunc func(onSuccess func(lat, lng float64), onError func(code ErrorCode))

func (f locatorFunc) GetCurrentPosition(onSuccess func(lat, lng float64), onError func(code ErrorCode)) {
	f(onSuccess, onError)
}

func TestRemoteLocatorRejectCapabilityAbsent(t *testing.T) {
	remote := NewRemoteLocator()
	a := NewAdapter(remote, nil)

	var got Result
	a.Locate(func(r Result) { got = r })
	require.NoError(t, remote.Reject(CodeCapabilityAbsent))
	assert.ErrorIs(t, got.Err, ErrCapabilityAbsent)
}
