package gml

import "testing"

func TestMergeGeometryTypesUnknownIsIdentity(t *testing.T) {
	if got := MergeGeometryTypes(GeometryUnknown, GeometryPoint); got != GeometryPoint {
		t.Errorf("unknown ∪ point = %v, want point", got)
	}
	if got := MergeGeometryTypes(GeometryLineString, GeometryUnknown); got != GeometryLineString {
		t.Errorf("line ∪ unknown = %v, want line", got)
	}
}

func TestMergeGeometryTypesEqualPassesThrough(t *testing.T) {
	if got := MergeGeometryTypes(GeometryPolygon, GeometryPolygon); got != GeometryPolygon {
		t.Errorf("polygon ∪ polygon = %v, want polygon", got)
	}
}

func TestMergeGeometryTypesNoneWithGeometryPromotes(t *testing.T) {
	if got := MergeGeometryTypes(GeometryNone, GeometryPoint); got != GeometryMultiPoint {
		t.Errorf("none ∪ point = %v, want multipoint", got)
	}
	if got := MergeGeometryTypes(GeometryLineString, GeometryNone); got != GeometryMultiLineString {
		t.Errorf("line ∪ none = %v, want multiline", got)
	}
}

func TestMergeGeometryTypesNoneWithNone(t *testing.T) {
	if got := MergeGeometryTypes(GeometryNone, GeometryNone); got != GeometryNone {
		t.Errorf("none ∪ none = %v, want none", got)
	}
}

func TestMergeGeometryTypesDifferingPromotesOrUnknown(t *testing.T) {
	if got := MergeGeometryTypes(GeometryPoint, GeometryLineString); got != GeometryUnknown {
		t.Errorf("point ∪ line = %v, want unknown", got)
	}
	if got := MergeGeometryTypes(GeometryPoint, GeometryMultiPoint); got != GeometryMultiPoint {
		t.Errorf("point ∪ multipoint = %v, want multipoint", got)
	}
	if got := MergeGeometryTypes(GeometryMultiPolygon, GeometryPolygon); got != GeometryMultiPolygon {
		t.Errorf("multipolygon ∪ polygon = %v, want multipolygon", got)
	}
}

func TestExtentsMerge(t *testing.T) {
	var e Extents
	e.Merge(Extents{XMin: 0, XMax: 10, YMin: 0, YMax: 10, Set: true})
	e.Merge(Extents{XMin: -5, XMax: 5, YMin: 2, YMax: 20, Set: true})

	if e.XMin != -5 || e.XMax != 10 || e.YMin != 0 || e.YMax != 20 {
		t.Errorf("merged extents = %+v, want {-5 10 0 20}", e)
	}
}

func TestExtentsMergeIgnoresUnset(t *testing.T) {
	e := Extents{XMin: 1, XMax: 2, YMin: 3, YMax: 4, Set: true}
	e.Merge(Extents{})
	if e.XMin != 1 || e.XMax != 2 {
		t.Errorf("merge with unset extents mutated e: %+v", e)
	}
}

func TestExtentsSwapAxes(t *testing.T) {
	e := Extents{XMin: 1, XMax: 2, YMin: 10, YMax: 20, Set: true}
	e.SwapAxes()
	if e.XMin != 10 || e.XMax != 20 || e.YMin != 1 || e.YMax != 2 {
		t.Errorf("swapped axes = %+v, want {10 20 1 2}", e)
	}
}

func TestClassifyGeometryElementName(t *testing.T) {
	cases := map[string]GeometryType{
		"Point":           GeometryPoint,
		"LineString":      GeometryLineString,
		"Polygon":         GeometryPolygon,
		"MultiPolygon":    GeometryMultiPolygon,
		"MultiSurface":    GeometryMultiPolygon,
		"SomethingWeird":  GeometryUnknown,
	}
	for name, want := range cases {
		if got := classifyGeometryElementName(name); got != want {
			t.Errorf("classifyGeometryElementName(%q) = %v, want %v", name, got, want)
		}
	}
}
