package gml

import "strings"

// captureKind names which of the three text/subtree captures (§4.9:
// InProperty, InGeometry, InCityGMLGenericAttribute) is currently armed.
// At most one is active at a time; nested elements while a capture is
// active feed the capture instead of being reclassified.
type captureKind int

const (
	captureNone captureKind = iota
	captureProperty
	captureGeometry
	captureGenericAttr
)

// capture holds the state of whichever text/subtree capture is armed. It
// lives on the Handler rather than on a ReadState frame because arming a
// capture never pushes a new read-state: pushes are paired only with
// features and the sentinel.
type capture struct {
	kind captureKind

	// property / genericAttr: names of currently open descendants of the
	// armed element, used to know when the matching end_element fires
	// without needing exact name comparisons (well-formed XML nesting is
	// enough).
	childStack []string
	buf        strings.Builder
	propPath   string // captureProperty: SetFeatureProperty's elemPath key

	// genericAttr only
	attrKey string // the "name" attribute value; also the property key
	inValue bool

	// geometry only
	geomRoot  *GeometryElement
	geomStack []*GeometryElement
}

// geometryElementNames is the GML geometry vocabulary a bare element name
// is checked against for §4.2 rule 4. This is deliberately generous: any
// unrecognized geometry-shaped element still gets captured raw, since the
// core never interprets geometry content itself.
var geometryElementNames = map[string]bool{
	"Point": true, "LineString": true, "Polygon": true, "LinearRing": true,
	"MultiPoint": true, "MultiLineString": true, "MultiPolygon": true,
	"MultiCurve": true, "MultiSurface": true, "MultiGeometry": true,
	"Curve": true, "Surface": true, "CompositeCurve": true, "CompositeSurface": true,
	"OrientableCurve": true, "OrientableSurface": true, "Ring": true,
	"PolygonPatch": true, "PolyhedralSurface": true, "TriangulatedSurface": true,
	"Triangle": true, "Tin": true, "Solid": true, "MultiSolid": true,
	"CompositeSolid": true, "GeometricComplex": true, "Box": true,
}

func isGeometryElementName(local string) bool { return geometryElementNames[local] }

// genericAttrTags is the CityGML/GML generic-attribute element vocabulary
// checked for the stringAttribute/intAttribute/doubleAttribute pattern.
var genericAttrTags = map[string]bool{
	"stringAttribute": true, "intAttribute": true, "doubleAttribute": true,
}

func isGenericAttrTag(local string) bool { return genericAttrTags[local] }

// Handler is the element handler: it classifies elements
// and dispatches to the read-state stack, class registry, and feature
// builder. While parsing, it is the only component that adds classes to
// the registry; PrescanForSchema also clears, locks and updates class
// statistics.
type Handler struct {
	registry *Registry
	stack    *stateStack
	opts     Options
	sink     ErrorSink

	filter map[string]bool // lowercased class names, nil = no filter

	stopParsing bool
	capture     capture

	// onFeature is called when a feature's closing tag is reached. The pull
	// backend latches it into completedFeature; the push backend appends
	// it to pending_features.
	onFeature func(*Feature)
}

// NewHandler constructs a Handler bound to the given registry and stack.
// The backend that drives this handler supplies its completion callback
// via SetOnFeature once constructed.
func NewHandler(registry *Registry, stack *stateStack, opts Options, sink ErrorSink) *Handler {
	return &Handler{registry: registry, stack: stack, opts: opts, sink: sink}
}

// SetOnFeature installs the callback invoked when a feature's closing tag
// is reached.
func (h *Handler) SetOnFeature(fn func(*Feature)) { h.onFeature = fn }

// StopParsing reports whether a fatal condition has set the cooperative
// cancellation flag.
func (h *Handler) StopParsing() bool { return h.stopParsing }

// Stop sets the cooperative cancellation flag.
func (h *Handler) Stop() { h.stopParsing = true }

// SetFilteredClassNames restricts IsFeatureElement to the given class
// names. A nil/empty set means no filter.
func (h *Handler) SetFilteredClassNames(names []string) {
	if len(names) == 0 {
		h.filter = nil
		return
	}
	h.filter = make(map[string]bool, len(names))
	for _, n := range names {
		h.filter[strings.ToLower(n)] = true
	}
}

// AttributeValue extracts an attribute by name from a start_element's
// attribute map, the "backend-neutral helper" shared by both backends.
func AttributeValue(attrs map[string]string, name string) (string, bool) {
	v, ok := attrs[name]
	return v, ok
}

// StartElement implements the element-classification chain.
func (h *Handler) StartElement(name string, attrs map[string]string) {
	if h.stopParsing {
		return
	}

	switch h.capture.kind {
	case captureGeometry:
		h.geometryStart(name, attrs)
		return
	case captureProperty, captureGenericAttr:
		h.leafCaptureStart(name)
		return
	}

	frame := h.stack.Top()
	if frame == nil {
		return
	}

	if h.isFeatureElement(name, frame) {
		h.startFeature(name, attrs, frame)
		return
	}

	if isGenericAttrTag(name) {
		if attrName, ok := attrs["name"]; ok {
			if current := h.stack.CurrentFeature(); current != nil && h.genericAttrRecognized(current.Class, attrName) {
				h.capture = capture{kind: captureGenericAttr, attrKey: attrName}
				return
			}
		}
	}

	// Geometry-vocabulary membership is checked ahead of the attribute-element
	// test: an attribute element is defined as "any leaf element", and a
	// GML geometry container is never a leaf, so a name-vocabulary hit must
	// win before the unlocked-schema "any element is a candidate" catch-all
	// swallows it as flattened text (it would otherwise always win, since it
	// returns true unconditionally on an unlocked schema).
	if isGeometryElementName(name) {
		root := &GeometryElement{Name: name, Attrs: cloneAttrs(attrs)}
		h.capture = capture{kind: captureGeometry, geomRoot: root, geomStack: []*GeometryElement{root}}
		return
	}

	if h.isAttributeElement(name, frame) {
		h.capture = capture{kind: captureProperty, propPath: elemPath(frame, name)}
		return
	}

	frame.PushPath(name)
}

// EndElement implements the emit/attach/pop logic.
func (h *Handler) EndElement(name string) {
	if h.stopParsing {
		return
	}

	switch h.capture.kind {
	case captureGeometry:
		h.geometryEnd(name)
		return
	case captureProperty:
		if len(h.capture.childStack) > 0 {
			h.capture.childStack = h.capture.childStack[:len(h.capture.childStack)-1]
			return
		}
		if f := h.stack.CurrentFeature(); f != nil {
			SetFeatureProperty(f, h.capture.propPath, h.capture.buf.String(), h.opts, h.sink)
		}
		h.capture = capture{}
		return
	case captureGenericAttr:
		h.genericAttrEnd(name)
		return
	}

	frame := h.stack.Top()
	if frame == nil {
		return
	}
	if frame.PathLength() > 0 {
		frame.path = frame.path[:len(frame.path)-1]
		return
	}
	if frame.feature != nil {
		popped := h.stack.Pop()
		h.emitFeature(popped.feature)
	}
	// else: sentinel closing with an empty path; nothing was ever pushed
	// for this tag, a no-op (should not occur for well-formed input).
}

// Characters buffers character data into whichever capture is armed.
// Data outside any capture is discarded.
func (h *Handler) Characters(data string) {
	if h.stopParsing || data == "" {
		return
	}
	switch h.capture.kind {
	case captureProperty:
		h.capture.buf.WriteString(data)
	case captureGenericAttr:
		if h.capture.inValue {
			h.capture.buf.WriteString(data)
		}
	case captureGeometry:
		if n := len(h.capture.geomStack); n > 0 {
			h.capture.geomStack[n-1].Text += data
		}
	}
}

func (h *Handler) leafCaptureStart(name string) {
	if h.capture.kind == captureGenericAttr && len(h.capture.childStack) == 0 && strings.EqualFold(name, "value") {
		h.capture.inValue = true
	}
	h.capture.childStack = append(h.capture.childStack, name)
}

func (h *Handler) genericAttrEnd(name string) {
	if len(h.capture.childStack) == 0 {
		// outer stringAttribute/intAttribute/doubleAttribute closing.
		h.capture = capture{}
		return
	}
	closing := h.capture.childStack[len(h.capture.childStack)-1]
	h.capture.childStack = h.capture.childStack[:len(h.capture.childStack)-1]
	if len(h.capture.childStack) == 0 && h.capture.inValue && strings.EqualFold(closing, "value") {
		if f := h.stack.CurrentFeature(); f != nil {
			SetFeatureProperty(f, h.capture.attrKey, h.capture.buf.String(), h.opts, h.sink)
		}
		h.capture.inValue = false
		h.capture.buf.Reset()
	}
}

func (h *Handler) geometryStart(name string, attrs map[string]string) {
	node := &GeometryElement{Name: name, Attrs: cloneAttrs(attrs)}
	top := h.capture.geomStack[len(h.capture.geomStack)-1]
	top.Children = append(top.Children, node)
	h.capture.geomStack = append(h.capture.geomStack, node)
}

func (h *Handler) geometryEnd(name string) {
	h.capture.geomStack = h.capture.geomStack[:len(h.capture.geomStack)-1]
	if len(h.capture.geomStack) > 0 {
		return
	}
	if f := h.stack.CurrentFeature(); f != nil {
		if h.opts.FetchAllGeometries() || len(f.GeometryElements) == 0 {
			f.GeometryElements = append(f.GeometryElements, h.capture.geomRoot)
		}
	}
	h.capture = capture{}
}

func (h *Handler) startFeature(name string, attrs map[string]string, frame *ReadState) {
	class := h.registry.GetByName(name)
	if class == nil {
		if h.registry.Locked() {
			if h.sink != nil {
				h.sink.Report(LevelDebug, "unknown-class", &ErrClassListLocked{Element: name})
			}
			frame.PushPath(name)
			return
		}
		class = NewFeatureClass(name)
		if err := h.registry.AddClass(class); err != nil {
			if h.sink != nil {
				h.sink.Report(LevelWarning, "add-class-failed", err)
			}
			frame.PushPath(name)
			return
		}
	}

	f := newFeature(class)
	// gml:id (GML3) surfaces here as the bare local name "id" once a
	// backend has stripped namespace prefixes (source.go); fid (GML2) never
	// carries a prefix and is checked first.
	if fid, ok := attrs["fid"]; ok {
		f.FID = &fid
	} else if gid, ok := attrs["id"]; ok {
		f.FID = &gid
	}
	h.stack.Push(f)
}

func (h *Handler) emitFeature(f *Feature) {
	if f == nil || h.onFeature == nil {
		return
	}
	h.onFeature(f)
}

// isFeatureElement decides whether name opens a new feature.
func (h *Handler) isFeatureElement(name string, frame *ReadState) bool {
	if !classifyFeatureName(frame.LastComponent(), name) {
		return false
	}
	if h.registry.Locked() && h.registry.GetByName(name) == nil {
		return false
	}
	if h.filter != nil && !h.filter[strings.ToLower(name)] {
		return false
	}
	return true
}

// classifyFeatureName implements the ordered feature-name rules,
// resolved against original_source/gdal/ogr/ogrsf_frmts/gml/gmlreader.cpp's
// IsFeatureElement for the exact fallthrough behavior of the OpenLS
// DetermineRouteResponse branch.
func classifyFeatureName(last, elem string) bool {
	switch {
	case last == "dane":
		return true
	case last == "GeocodeResponseList" && elem == "GeocodedAddress":
		return true
	case last == "DetermineRouteResponse":
		return elem != "RouteInstructionsList"
	case elem == "RouteInstruction" && last == "RouteInstructionsList":
		return true
	case len(last) > 6 && strings.HasSuffix(last, "_layer") &&
		len(elem) > 8 && strings.HasSuffix(elem, "_feature"):
		return true
	default:
		return hasMemberSuffix(last)
	}
}

func hasMemberSuffix(last string) bool {
	l := strings.ToLower(last)
	if len(l) >= 7 && strings.HasSuffix(l, "members") {
		return true
	}
	if len(l) >= 6 && strings.HasSuffix(l, "member") {
		return true
	}
	return false
}

// isAttributeElement decides whether name should be flattened into a
// property on the enclosing feature.
func (h *Handler) isAttributeElement(name string, frame *ReadState) bool {
	f := h.stack.CurrentFeature()
	if f == nil {
		return false
	}
	if !f.Class.SchemaLocked {
		return true
	}
	_, idx := f.Class.PropertyBySrcElement(elemPath(frame, name))
	return idx >= 0
}

func elemPath(frame *ReadState, name string) string {
	if frame.PathLength() == 0 {
		return name
	}
	return frame.PathString() + "|" + name
}

// genericAttrRecognized implements the "recognized (or schema-unlocked)"
// test for a CityGML generic attribute name.
func (h *Handler) genericAttrRecognized(class *FeatureClass, attrName string) bool {
	if !class.SchemaLocked {
		return true
	}
	_, idx := class.PropertyBySrcElement(attrName)
	return idx >= 0
}

func cloneAttrs(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
