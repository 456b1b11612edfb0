// Package gml is the public façade over internal/gml: open a GML/CityGML
// document, optionally prescan it for a full schema, and iterate its
// features.
//
// A minimal read loop:
//
//	r, err := gml.Open("roads.gml", gml.DefaultReaderOptions())
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//	for {
//		f, err := r.NextFeature()
//		if err != nil {
//			return err
//		}
//		if f == nil {
//			break
//		}
//		// use f.Class, f.PropertyValue(i), f.GeometryElements
//	}
package gml
