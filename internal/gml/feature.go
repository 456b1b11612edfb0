package gml

import (
	"strconv"
	"strings"
)

// Feature is a single geographic record with typed properties and optional
// geometry.
type Feature struct {
	Class *FeatureClass
	// FID is optional; it is left nil (not "") when the feature element
	// carries no fid/gml:id attribute.
	FID *string

	// properties is parallel-indexed with Class.Properties() at the time
	// each value was set; a property added after this feature was created
	// leaves earlier features with a shorter slice, so readers must index
	// via PropertyValue rather than assuming len(properties) == class size.
	properties []interface{}

	GeometryElements []*GeometryElement
}

// newFeature creates a feature of the given class with no properties or
// geometry set yet.
func newFeature(class *FeatureClass) *Feature {
	return &Feature{Class: class}
}

// PropertyValue returns the value stored at property index i, or nil if
// none was set on this feature.
func (f *Feature) PropertyValue(i int) interface{} {
	if i < 0 || i >= len(f.properties) {
		return nil
	}
	return f.properties[i]
}

func (f *Feature) ensureLen(n int) {
	for len(f.properties) < n {
		f.properties = append(f.properties, nil)
	}
}

func (f *Feature) setValueAt(i int, v interface{}) {
	f.ensureLen(i + 1)
	f.properties[i] = v
}

// deriveFieldName takes the substring after the last "|"; if that
// collides with an existing field name, fall back to the full elem_path
// (AddProperty's uniqueFieldName still appends "_" to the fallback if
// even the full path collides).
func deriveFieldName(class *FeatureClass, elemPath string) string {
	name := elemPath
	if idx := strings.LastIndex(elemPath, "|"); idx >= 0 {
		name = elemPath[idx+1:]
	}
	if nameCollides(class, name) {
		name = elemPath
	}
	return name
}

func nameCollides(class *FeatureClass, name string) bool {
	for _, p := range class.properties {
		if p.FieldName == name {
			return true
		}
	}
	return false
}

// SetFeatureProperty sets a leaf property by its dotted element path,
// inferring or widening its type as needed. options carries
// the GML_FIELDTYPES config value; sink receives the debug-log on silent
// drop.
func SetFeatureProperty(f *Feature, elemPath, value string, opts Options, sink ErrorSink) {
	class := f.Class
	pd, idx := class.PropertyBySrcElement(elemPath)
	if pd == nil {
		if class.SchemaLocked {
			if sink != nil {
				sink.Report(LevelDebug, "property-dropped", &ErrUnknownProperty{Class: class.Name, Element: elemPath})
			}
			return
		}
		fieldName := deriveFieldName(class, elemPath)
		typ := TypeUnknown
		if opts.AlwaysString() {
			typ = TypeString
		}
		var err error
		pd, err = class.AddProperty(fieldName, elemPath, typ)
		if err != nil {
			if sink != nil {
				sink.Report(LevelDebug, "property-add-failed", err)
			}
			return
		}
		idx = len(class.properties) - 1
	}
	f.setValueAt(idx, value)
	if !class.SchemaLocked && !opts.AlwaysString() {
		pd.Type = AnalysePropertyValue(pd.Type, value)
	}
}

// ErrUnknownProperty documents a value dropped because its class's schema
// is locked. Not an error condition, but still worth naming when a sink
// chooses to log it.
type ErrUnknownProperty struct {
	Class, Element string
}

func (e *ErrUnknownProperty) Error() string {
	return "gml: property " + e.Element + " dropped on locked class " + e.Class
}

// AnalysePropertyValue implements the type-widening lattice.
// Widening never narrows; string/string-list are terminal. Several
// whitespace-separated numeric tokens make a list variant; a value with a
// non-numeric token is plain text and makes a scalar property a string.
// Once a value has forced the property into a list variant, later
// single-token values never revert it to a scalar type -- that would be
// narrowing.
func AnalysePropertyValue(current PropertyType, value string) PropertyType {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return current
	}
	if current == TypeString || current == TypeStringList {
		return current
	}

	tokens := strings.Fields(trimmed)
	listSticky := current.isList() || len(tokens) > 1

	base := baseType(current)
	for _, tok := range tokens {
		switch {
		case base == TypeString:
			// already at the widest scalar type
		case isValidInteger(tok):
			if base == TypeUnknown {
				base = TypeInteger
			}
		case isValidReal(tok):
			if base == TypeUnknown || base == TypeInteger {
				base = TypeReal
			}
		default:
			base = TypeString
		}
	}

	if base == TypeString && !current.isList() {
		return TypeString
	}
	if listSticky {
		return base.listVariant()
	}
	return base
}

// baseType strips the list-ness of t so the scalar widening rule can be
// reused for list element types.
func baseType(t PropertyType) PropertyType {
	switch t {
	case TypeIntegerList:
		return TypeInteger
	case TypeRealList:
		return TypeReal
	case TypeStringList:
		return TypeString
	default:
		return t
	}
}

func isValidInteger(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isValidReal(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
