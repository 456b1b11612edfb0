package gml

import "io"

// Backend abstracts an XML event source driving a Handler.
// The two concrete implementations differ only in how they obtain
// well-formed events from bytes; both key element and attribute names on
// their bare local name (namespace prefixes are dropped at this layer),
// so Handler never has to reason about namespace resolution.
type Backend interface {
	// NextFeature drives the source until a feature completes, returning
	// it. At end of input it returns (nil, io.EOF).
	NextFeature() (*Feature, error)
}

// PushBackend is the subset of Backend that additionally exposes the
// caller-driven "feed a buffer, get back whatever features that buffer
// completed" contract, cooperating with mid-stream cancellation.
type PushBackend interface {
	Backend
	// Parse feeds buffer into the parser; isFinal marks the last call for
	// this document. Feature completions during this call are queued and
	// drained by NextFeature/DrainPending.
	Parse(buffer []byte, isFinal bool) error
	// DrainPending removes and returns every feature completed so far
	// without blocking for more input.
	DrainPending() []*Feature
}

// pullAvailable and pushAvailable model both backends being compiled in;
// both are always available in this build, so ErrNoParserAvailable is
// reachable only if a future build tag disables one of them.
const (
	pullAvailable = true
	pushAvailable = true
)

// NewPullBackend constructs the pull-contract backend over
// r, wired to h.
func NewPullBackend(r io.Reader, h *Handler) Backend {
	return newPullBackend(r, h)
}

// NewPushBackend constructs the push-contract backend, wired to h and
// driven entirely by the caller's own Parse calls. Feed it via Parse.
func NewPushBackend(h *Handler) PushBackend {
	return newPushBackend(h)
}

// NewPushBackendOverReader constructs a push-contract backend that owns r
// itself: each NextFeature call reads the next buffer from r and parses
// it synchronously, in a loop, until a feature completes or r is
// exhausted. There is no background feeder; everything runs on the
// caller's goroutine, so abandoning the parse (dropping the Backend
// without draining it to EOF) leaves nothing running behind it.
func NewPushBackendOverReader(r io.Reader, h *Handler) Backend {
	pb := newPushBackend(h)
	pb.source = r
	return pb
}

// SelectBackend implements the backend-selection rule: if both are
// available a boolean preference chooses; if only one is compiled in it is
// used unconditionally; if neither is available, construction is
// rejected.
func SelectBackend(r io.Reader, h *Handler, preferPull bool) (Backend, error) {
	switch {
	case pullAvailable && pushAvailable:
		if preferPull {
			return NewPullBackend(r, h), nil
		}
		return NewPushBackendOverReader(r, h), nil
	case pullAvailable:
		return NewPullBackend(r, h), nil
	case pushAvailable:
		return NewPushBackendOverReader(r, h), nil
	default:
		return nil, &ErrNoParserAvailable{}
	}
}
