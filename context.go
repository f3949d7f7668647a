package redsession

import "context"

// RequestState is the per-request channel between Find and Write. Find
// records the identifier it freshly generated; the next Write for that
// identifier consumes the marker and issues a set-if-absent instead of a
// plain set, which is what makes concurrent creation of the same identifier
// safe.
//
// A RequestState belongs to a single request and must not be shared across
// requests. Store methods accept a nil state; the marker is then simply not
// tracked and writes are unconditional.
type RequestState struct {
	freshID string
}

func (st *RequestState) markFresh(id string) {
	st.freshID = id
}

// consumeFresh reports whether id was generated by Find during this request
// and clears the marker, so a second write in the same request is treated as
// an update.
func (st *RequestState) consumeFresh(id string) bool {
	if st.freshID == "" || st.freshID != id {
		return false
	}
	st.freshID = ""
	return true
}

type requestStateContextKey struct{}

// NewRequestContext attaches a fresh [RequestState] to ctx. Middleware can
// call this once per request and hand the derived context down; handlers
// recover the state with [RequestStateFrom] without widening their
// signatures.
func NewRequestContext(ctx context.Context) (context.Context, *RequestState) {
	st := &RequestState{}
	return context.WithValue(ctx, requestStateContextKey{}, st), st
}

// RequestStateFrom returns the [RequestState] attached by
// [NewRequestContext], or nil when ctx carries none.
func RequestStateFrom(ctx context.Context) *RequestState {
	if ctx == nil {
		return nil
	}

	st, _ := ctx.Value(requestStateContextKey{}).(*RequestState)
	return st
}
