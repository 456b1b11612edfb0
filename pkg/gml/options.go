package gml

import internalgml "github.com/geoformat/gmlreader/internal/gml"

// ReaderOptions collects every constructor and config-source option a
// caller can set.
type ReaderOptions struct {
	// UseExpatParserPreferably prefers the pull-style backend when both
	// are available.
	UseExpatParserPreferably bool
	// InvertAxisOrderIfLatLong corrects extents and SRS WKT for
	// lat/long-ordered CRSes.
	InvertAxisOrderIfLatLong bool
	// ConsiderEPSGAsURN threads through to the GeometryBuilder collaborator.
	ConsiderEPSGAsURN bool

	// FetchAllGeometries and AlwaysString mirror the process-wide config
	// keys GML_FETCH_ALL_GEOMETRIES and GML_FIELDTYPES. When
	// Config is nil these two fields are used directly instead of
	// consulting the environment.
	FetchAllGeometries bool
	AlwaysString       bool
	Config             internalgml.ConfigSource

	// FilteredClassNames restricts feature recognition to these class
	// names.
	FilteredClassNames []string
	// GlobalSRSName is the fallback SRS name PrescanForSchema applies to
	// classes without an SRS name of their own, provided no feature in the
	// document carried an SRS name.
	GlobalSRSName string
	// QuickSchemaOnly enables the cheap prescan variant.
	QuickSchemaOnly bool

	// PresetSchema, when non-nil, replaces schema inference: the Reader
	// starts already locked to this registry (e.g. one loaded via
	// LoadClasses from a sidecar document) instead of building one from
	// scratch via PrescanForSchema or on-the-fly during NextFeature.
	PresetSchema *internalgml.Registry

	// GeometryBuilder is the geometry/CRS collaborator. A nil
	// value uses NopGeometryBuilder, which yields no coordinates or
	// extents but still exercises schema and property inference.
	GeometryBuilder internalgml.GeometryBuilder
	// Sink receives debug/warning/failure reports. A nil
	// value discards everything.
	Sink internalgml.ErrorSink
}

// DefaultReaderOptions returns the zero-value option set: both config
// keys default to their process-wide fallback values ("NO" and unset), no
// filter, no geometry builder.
func DefaultReaderOptions() ReaderOptions {
	return ReaderOptions{}
}

func (o ReaderOptions) resolveOptions() internalgml.Options {
	if o.Config != nil {
		return internalgml.ResolveOptions(o.Config)
	}
	return staticOptions{fetchAll: o.FetchAllGeometries, alwaysString: o.AlwaysString}
}

type staticOptions struct {
	fetchAll     bool
	alwaysString bool
}

func (s staticOptions) FetchAllGeometries() bool { return s.fetchAll }
func (s staticOptions) AlwaysString() bool       { return s.alwaysString }
