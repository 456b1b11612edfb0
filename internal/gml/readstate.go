package gml

import "strings"

// ReadState is a stack frame tracking the feature-in-progress (if any) and
// the dotted path of element names visited since it started.
// The parent pointer is a pure tree link (a stack), never a cycle, so it
// is modeled here as an owned linked list rather than shared
// ownership.
type ReadState struct {
	feature *Feature
	path    []string
	parent  *ReadState
}

// Feature reports the feature being built in this frame, or nil for the
// sentinel/outer frames above the first feature.
func (s *ReadState) Feature() *Feature { return s.feature }

// PathLength returns the number of path components.
func (s *ReadState) PathLength() int { return len(s.path) }

// PathString returns the "|"-joined path.
func (s *ReadState) PathString() string { return strings.Join(s.path, "|") }

// LastComponent returns the innermost element name, or "" if the path is
// empty.
func (s *ReadState) LastComponent() string {
	if len(s.path) == 0 {
		return ""
	}
	return s.path[len(s.path)-1]
}

// PushPath appends an element name to the path (§4.2 rule 5).
func (s *ReadState) PushPath(name string) { s.path = append(s.path, name) }

// stateStack is the push-down stack of ReadState frames. It
// always holds exactly one sentinel root frame while parsing is active.
type stateStack struct {
	top *ReadState
}

// newStateStack returns a stack with a single sentinel root frame pushed.
func newStateStack() *stateStack {
	s := &stateStack{}
	s.top = &ReadState{}
	return s
}

// Push pushes a new frame as a child of the current top frame.
func (s *stateStack) Push(feature *Feature) *ReadState {
	frame := &ReadState{feature: feature, parent: s.top}
	s.top = frame
	return frame
}

// Top returns the current top frame, or nil if the stack is empty.
func (s *stateStack) Top() *ReadState { return s.top }

// Pop removes the top frame and returns it. Popping an empty stack is a
// no-op returning nil.
func (s *stateStack) Pop() *ReadState {
	if s.top == nil {
		return nil
	}
	popped := s.top
	s.top = s.top.parent
	return popped
}

// Empty reports whether the stack has been fully drained.
func (s *stateStack) Empty() bool { return s.top == nil }

// CurrentFeature returns state.feature where state is the topmost frame
// whose feature is non-nil.
func (s *stateStack) CurrentFeature() *Feature {
	for frame := s.top; frame != nil; frame = frame.parent {
		if frame.feature != nil {
			return frame.feature
		}
	}
	return nil
}

// Drain repeatedly pops until the stack is empty, discarding partial
// features.
func (s *stateStack) Drain() {
	for !s.Empty() {
		s.Pop()
	}
}
