// Package gml implements the streaming reader core for GML (Geography
// Markup Language) documents: a push-down parser state machine that
// recognizes feature boundaries in an arbitrarily-nested XML stream, a
// dynamic schema inference engine, and a prescan aggregator that folds
// features into per-class statistics.
//
// The package is deliberately blind to geometry parsing and coordinate
// transforms: raw geometry XML fragments are captured verbatim on Feature
// and handed to a GeometryBuilder collaborator supplied by the caller.
//
// State machine (per read-state frame):
//
//	Outer -> InFeature -> InProperty | InGeometry | InCityGMLGenericAttribute -> InFeature -> Outer
//
// Transitions are driven entirely by start/end element events dispatched
// from one of two XML event source adapters (pull or push, see source.go).
package gml
