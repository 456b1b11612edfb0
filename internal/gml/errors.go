package gml

import "fmt"

// ErrNoParserAvailable indicates neither XML backend was compiled in.
type ErrNoParserAvailable struct{}

func (e *ErrNoParserAvailable) Error() string {
	return "gml: no XML backend available (need pull or push adapter)"
}

// ErrSourceNotOpen indicates an operation requires an open source file.
type ErrSourceNotOpen struct {
	Op string
}

func (e *ErrSourceNotOpen) Error() string {
	return fmt.Sprintf("gml: %s: source file is not open", e.Op)
}

// ErrDuplicateClass indicates a caller tried to add a class whose name
// already exists in the registry. FeatureClass.AddProperty also returns it,
// with Name set to the source element, for a source element that is
// already registered on the class.
type ErrDuplicateClass struct {
	Name string
}

func (e *ErrDuplicateClass) Error() string {
	return fmt.Sprintf("gml: feature class %q already registered", e.Name)
}

// ErrClassListLocked indicates a new class was rejected because the class
// list is locked (e.g. a sidecar schema was loaded). FeatureClass.AddProperty
// also returns it for a new property on a class whose schema is locked.
type ErrClassListLocked struct {
	Element string
}

func (e *ErrClassListLocked) Error() string {
	return fmt.Sprintf("gml: class list locked, unknown feature element %q ignored", e.Element)
}

// ErrSidecar indicates the schema sidecar file is malformed or missing its
// root element.
type ErrSidecar struct {
	Path   string
	Reason string
}

func (e *ErrSidecar) Error() string {
	return fmt.Sprintf("gml: schema sidecar %q: %s", e.Path, e.Reason)
}

// ErrTokenizer reports a fatal condition found by the push backend, such
// as an end tag that does not match the open element, character data
// fragmented past maxConsecutiveCharacterTokens, or trailing data at end
// of input. Once it is returned, the push backend accepts no more input and
// its NextFeature returns the same error on every later call; the Handler's
// stop flag is not set. The pull backend reports its tokenizer's errors
// wrapped with github.com/pkg/errors rather than as ErrTokenizer.
type ErrTokenizer struct {
	Line, Column int
	Message      string
}

func (e *ErrTokenizer) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("gml: xml error at line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("gml: xml error: %s", e.Message)
}
