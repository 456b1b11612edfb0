package gml

import "strings"

// PropertyType is one of the widening lattice types (integer, real,
// string, and their list variants).
type PropertyType int

const (
	TypeUnknown PropertyType = iota
	TypeInteger
	TypeReal
	TypeString
	TypeIntegerList
	TypeRealList
	TypeStringList
)

func (t PropertyType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeString:
		return "string"
	case TypeIntegerList:
		return "integer-list"
	case TypeRealList:
		return "real-list"
	case TypeStringList:
		return "string-list"
	default:
		return "unknown"
	}
}

// listVariant returns the list type carrying the same widest element type.
func (t PropertyType) listVariant() PropertyType {
	switch t {
	case TypeInteger:
		return TypeIntegerList
	case TypeReal:
		return TypeRealList
	case TypeString:
		return TypeStringList
	default:
		return t
	}
}

func (t PropertyType) isList() bool {
	return t == TypeIntegerList || t == TypeRealList || t == TypeStringList
}

// PropertyDefn is a named, typed attribute of a feature class, identified
// internally by its source-element path.
type PropertyDefn struct {
	FieldName  string
	SrcElement string
	Type       PropertyType
}

// FeatureClass is the schema shared by all features originating from a
// given top-level element name.
type FeatureClass struct {
	Name        string
	ElementName string

	properties      []*PropertyDefn
	fieldIndex      map[string]int
	srcElementIndex map[string]int

	SchemaLocked bool

	// FeatureCount is >= 0, or -1 meaning "unknown".
	FeatureCount int

	GeometryType GeometryType
	Extents      Extents

	SRSName    string
	srsSet     bool
	srsAmbig   bool
}

// NewFeatureClass creates a class named after its triggering element, with
// the sentinel "unknown" feature count and geometry type.
func NewFeatureClass(elementName string) *FeatureClass {
	return &FeatureClass{
		Name:            elementName,
		ElementName:     elementName,
		fieldIndex:      make(map[string]int),
		srcElementIndex: make(map[string]int),
		FeatureCount:    -1,
		GeometryType:    GeometryUnknown,
	}
}

// Properties returns the ordered property list. Callers must not mutate
// the returned slice.
func (c *FeatureClass) Properties() []*PropertyDefn { return c.properties }

// PropertyCount returns the number of registered properties.
func (c *FeatureClass) PropertyCount() int { return len(c.properties) }

// PropertyByIndex returns the property at position i, or nil if out of range.
func (c *FeatureClass) PropertyByIndex(i int) *PropertyDefn {
	if i < 0 || i >= len(c.properties) {
		return nil
	}
	return c.properties[i]
}

// PropertyBySrcElement looks up a property by its source-element path,
// which is the lookup key.
func (c *FeatureClass) PropertyBySrcElement(srcElement string) (*PropertyDefn, int) {
	if i, ok := c.srcElementIndex[srcElement]; ok {
		return c.properties[i], i
	}
	return nil, -1
}

// uniqueFieldName resolves a collision on fieldName by appending "_"
// repeatedly until unique.
func (c *FeatureClass) uniqueFieldName(fieldName string) string {
	name := fieldName
	for {
		if _, exists := c.fieldIndex[name]; !exists {
			return name
		}
		name += "_"
	}
}

// AddProperty inserts a new property, resolving field-name collisions.
// Returns an error if the class's schema is locked or the src element is
// already registered.
func (c *FeatureClass) AddProperty(fieldName, srcElement string, typ PropertyType) (*PropertyDefn, error) {
	if c.SchemaLocked {
		return nil, &ErrClassListLocked{Element: srcElement}
	}
	if _, exists := c.srcElementIndex[srcElement]; exists {
		return nil, &ErrDuplicateClass{Name: srcElement}
	}
	fieldName = c.uniqueFieldName(fieldName)
	pd := &PropertyDefn{FieldName: fieldName, SrcElement: srcElement, Type: typ}
	c.properties = append(c.properties, pd)
	idx := len(c.properties) - 1
	c.fieldIndex[fieldName] = idx
	c.srcElementIndex[srcElement] = idx
	return pd, nil
}

// MergeSRSName remembers the first distinct SRS name seen and marks
// ambiguity if a later feature carries a different one; first-writer-wins
// is the policy this reader assumes.
func (c *FeatureClass) MergeSRSName(srs string) {
	if srs == "" {
		return
	}
	if !c.srsSet {
		c.SRSName = srs
		c.srsSet = true
		return
	}
	if c.SRSName != srs {
		c.srsAmbig = true
	}
}

// SRSAmbiguous reports whether MergeSRSName has observed conflicting names.
func (c *FeatureClass) SRSAmbiguous() bool { return c.srsAmbig }

// MergeGeometryType folds t into the class's union geometry type. The
// "first feature without geometry coerces unknown -> none" special case is
// not applied here; prescan.go applies it before calling this.
func (c *FeatureClass) MergeGeometryType(t GeometryType) {
	c.GeometryType = MergeGeometryTypes(c.GeometryType, t)
}

// Registry is the mutable collection of FeatureClass records.
type Registry struct {
	classes    []*FeatureClass
	byName     map[string]int // lowercased name -> index
	listLocked bool
}

// NewRegistry returns an empty, unlocked registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// AddClass appends a class. Adding a class with a name already present is
// forbidden, and adding while the list is locked is forbidden.
func (r *Registry) AddClass(c *FeatureClass) error {
	if r.listLocked {
		return &ErrClassListLocked{Element: c.ElementName}
	}
	key := strings.ToLower(c.Name)
	if _, exists := r.byName[key]; exists {
		return &ErrDuplicateClass{Name: c.Name}
	}
	r.classes = append(r.classes, c)
	r.byName[key] = len(r.classes) - 1
	return nil
}

// GetByIndex returns the class at the given stable index, or nil.
func (r *Registry) GetByIndex(i int) *FeatureClass {
	if i < 0 || i >= len(r.classes) {
		return nil
	}
	return r.classes[i]
}

// GetByName looks up a class case-insensitively on name.
func (r *Registry) GetByName(name string) *FeatureClass {
	if i, ok := r.byName[strings.ToLower(name)]; ok {
		return r.classes[i]
	}
	return nil
}

// IndexOf returns the stable index of c, or -1 if not registered.
func (r *Registry) IndexOf(c *FeatureClass) int {
	for i, cls := range r.classes {
		if cls == c {
			return i
		}
	}
	return -1
}

// Count returns the number of registered classes.
func (r *Registry) Count() int { return len(r.classes) }

// Clear empties the registry and unlocks the class list.
func (r *Registry) Clear() {
	r.classes = nil
	r.byName = make(map[string]int)
	r.listLocked = false
}

// Lock freezes the registry against further class additions.
func (r *Registry) Lock() { r.listLocked = true }

// Unlock allows further class additions (used at the start of a prescan).
func (r *Registry) Unlock() { r.listLocked = false }

// Locked reports whether the class list is locked.
func (r *Registry) Locked() bool { return r.listLocked }

// All returns every registered class in stable order. Callers must not
// mutate the returned slice.
func (r *Registry) All() []*FeatureClass { return r.classes }
