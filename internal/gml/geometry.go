package gml

// GeometryType is the union geometry-type code carried on a FeatureClass.
// It mirrors the abstract OGR geometry type lattice:
// "none, point, line, polygon, multi*, unknown".
type GeometryType int

const (
	// GeometryUnknown means "not yet set".
	GeometryUnknown GeometryType = iota
	// GeometryNone means "seen features without geometry".
	GeometryNone
	GeometryPoint
	GeometryLineString
	GeometryPolygon
	GeometryMultiPoint
	GeometryMultiLineString
	GeometryMultiPolygon
	GeometryGeometryCollection
)

func (t GeometryType) String() string {
	switch t {
	case GeometryUnknown:
		return "unknown"
	case GeometryNone:
		return "none"
	case GeometryPoint:
		return "point"
	case GeometryLineString:
		return "line"
	case GeometryPolygon:
		return "polygon"
	case GeometryMultiPoint:
		return "multipoint"
	case GeometryMultiLineString:
		return "multiline"
	case GeometryMultiPolygon:
		return "multipolygon"
	case GeometryGeometryCollection:
		return "geometrycollection"
	default:
		return "unknown"
	}
}

// multiVariant returns the multi- promotion of a single geometry type, and
// whether one exists: promote to a multi- variant if one exists, else to
// unknown.
func multiVariant(t GeometryType) (GeometryType, bool) {
	switch t {
	case GeometryPoint:
		return GeometryMultiPoint, true
	case GeometryLineString:
		return GeometryMultiLineString, true
	case GeometryPolygon:
		return GeometryMultiPolygon, true
	case GeometryMultiPoint, GeometryMultiLineString, GeometryMultiPolygon:
		return t, true
	default:
		return GeometryUnknown, false
	}
}

// MergeGeometryTypes implements the OGRMergeGeometryTypes-style union rule
//.6 step 3:
//
//	unknown ∪ X = X
//	none ∪ X = X if X == none else multi-or-promoted
//	equal types pass through
//	differing non-null types promote to a multi- variant if one exists, else unknown
func MergeGeometryTypes(a, b GeometryType) GeometryType {
	if a == GeometryUnknown {
		return b
	}
	if b == GeometryUnknown {
		return a
	}
	if a == GeometryNone {
		if b == GeometryNone {
			return GeometryNone
		}
		if variant, ok := multiVariant(b); ok {
			return variant
		}
		return GeometryUnknown
	}
	if b == GeometryNone {
		if variant, ok := multiVariant(a); ok {
			return variant
		}
		return GeometryUnknown
	}
	if a == b {
		return a
	}
	if variant, ok := multiVariant(a); ok {
		if v2, ok2 := multiVariant(b); ok2 && v2 == variant {
			return variant
		}
	}
	return GeometryUnknown
}

// Extents is an axis-aligned bounding rectangle in the SRS's native axis
// order.
type Extents struct {
	XMin, XMax, YMin, YMax float64
	Set                    bool
}

// Merge extends e by other, initializing e if it was unset.
func (e *Extents) Merge(other Extents) {
	if !other.Set {
		return
	}
	if !e.Set {
		*e = other
		return
	}
	if other.XMin < e.XMin {
		e.XMin = other.XMin
	}
	if other.XMax > e.XMax {
		e.XMax = other.XMax
	}
	if other.YMin < e.YMin {
		e.YMin = other.YMin
	}
	if other.YMax > e.YMax {
		e.YMax = other.YMax
	}
}

// SwapAxes exchanges the X and Y ranges, used to correct axis order for a
// lat/long-ordered CRS.
func (e *Extents) SwapAxes() {
	if !e.Set {
		return
	}
	e.XMin, e.XMax, e.YMin, e.YMax = e.YMin, e.YMax, e.XMin, e.XMax
}

// GeometryElement is a captured, unparsed XML subtree rooted at a geometry
// element: a nested tree of element
// and text nodes. It is the sole representation the core produces for
// geometry; parsing it into a real geometry is the GeometryBuilder
// collaborator's job.
type GeometryElement struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*GeometryElement
}

// Geometry is the product of a GeometryBuilder. The core reads only its
// Type and Envelope.
type Geometry struct {
	Type     GeometryType
	Envelope Extents
	// SRSName is populated by the collaborator; the core does not read it
	// (prescan takes SRS names from ExtractSrsNameFromList).
	SRSName string
}

// GeometryBuilder is the sole geometry/CRS touchpoint.
// The core reader never parses coordinates or reprojects; it only calls
// through this interface during prescan (§4.6).
type GeometryBuilder interface {
	// BuildGeometryFromList builds a geometry from one feature's captured
	// geometry elements. consolidate corresponds to GML_FETCH_ALL_GEOMETRIES
	// having merged multiple fragments into one list; invertAxis and
	// considerEPSGAsURN thread the matching ReaderOptions. A nil *Geometry
	// with a nil error means "no geometry for this feature".
	BuildGeometryFromList(elems []*GeometryElement, consolidate, invertAxis, considerEPSGAsURN bool) (*Geometry, error)

	// ExtractSrsNameFromList returns the SRS name embedded in the geometry
	// elements, or "" if none is present.
	ExtractSrsNameFromList(elems []*GeometryElement, considerEPSGAsURN bool) string

	// IsSRSLatLongOrder reports whether name denotes a lat/long-axis-ordered
	// CRS (e.g. EPSG:4326 under the EPSG axis-order convention).
	IsSRSLatLongOrder(name string) bool

	// StripAxisAndExportWKT strips AXIS nodes from a GEOGCS in the SRS
	// denoted by name and returns the resulting WKT, used by prescan step 4
	// when invertAxisOrderIfLatLong applies.
	StripAxisAndExportWKT(name string) (string, error)
}

// NopGeometryBuilder is a GeometryBuilder that never produces geometry. It
// is the default used when a caller does not supply a real collaborator,
// letting the reader still exercise schema inference and prescan counting
// (feature_count, property widening) without a geometry/SRS library wired
// in. A real deployment is expected to supply its own implementation.
type NopGeometryBuilder struct{}

func (NopGeometryBuilder) BuildGeometryFromList([]*GeometryElement, bool, bool, bool) (*Geometry, error) {
	return nil, nil
}

func (NopGeometryBuilder) ExtractSrsNameFromList([]*GeometryElement, bool) string { return "" }

func (NopGeometryBuilder) IsSRSLatLongOrder(string) bool { return false }

func (NopGeometryBuilder) StripAxisAndExportWKT(name string) (string, error) { return name, nil }

// classifyGeometryElementName guesses a GeometryType from a captured
// element's bare local name, the fallback prescan.go uses when the
// configured GeometryBuilder declines to classify a fragment (the
// geometry-type union still needs a type per feature even without a real
// coordinate parser wired in).
func classifyGeometryElementName(name string) GeometryType {
	switch name {
	case "Point":
		return GeometryPoint
	case "LineString", "Curve", "CompositeCurve", "OrientableCurve", "LinearRing", "Ring":
		return GeometryLineString
	case "Polygon", "Surface", "CompositeSurface", "OrientableSurface", "PolygonPatch", "PolyhedralSurface", "Tin", "TriangulatedSurface", "Triangle":
		return GeometryPolygon
	case "MultiPoint":
		return GeometryMultiPoint
	case "MultiLineString", "MultiCurve":
		return GeometryMultiLineString
	case "MultiPolygon", "MultiSurface":
		return GeometryMultiPolygon
	case "MultiGeometry", "GeometricComplex":
		return GeometryGeometryCollection
	default:
		return GeometryUnknown
	}
}
