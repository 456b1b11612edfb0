package gml

import internalgml "github.com/geoformat/gmlreader/internal/gml"

// Type aliases re-export the core data model so callers never need to
// import internal/gml directly (they couldn't, from outside this
// module, anyway).
type (
	Feature         = internalgml.Feature
	FeatureClass    = internalgml.FeatureClass
	PropertyDefn    = internalgml.PropertyDefn
	PropertyType    = internalgml.PropertyType
	Registry        = internalgml.Registry
	GeometryType    = internalgml.GeometryType
	GeometryElement = internalgml.GeometryElement
	Geometry        = internalgml.Geometry
	GeometryBuilder = internalgml.GeometryBuilder
	Extents         = internalgml.Extents
	ErrorSink       = internalgml.ErrorSink
	ErrorLevel      = internalgml.ErrorLevel
	ConfigSource    = internalgml.ConfigSource
)

const (
	TypeUnknown     = internalgml.TypeUnknown
	TypeInteger     = internalgml.TypeInteger
	TypeReal        = internalgml.TypeReal
	TypeString      = internalgml.TypeString
	TypeIntegerList = internalgml.TypeIntegerList
	TypeRealList    = internalgml.TypeRealList
	TypeStringList  = internalgml.TypeStringList

	GeometryUnknown            = internalgml.GeometryUnknown
	GeometryNone               = internalgml.GeometryNone
	GeometryPoint              = internalgml.GeometryPoint
	GeometryLineString         = internalgml.GeometryLineString
	GeometryPolygon            = internalgml.GeometryPolygon
	GeometryMultiPoint         = internalgml.GeometryMultiPoint
	GeometryMultiLineString    = internalgml.GeometryMultiLineString
	GeometryMultiPolygon       = internalgml.GeometryMultiPolygon
	GeometryGeometryCollection = internalgml.GeometryGeometryCollection

	LevelDebug   = internalgml.LevelDebug
	LevelWarning = internalgml.LevelWarning
	LevelFailure = internalgml.LevelFailure
)

// NewStderrSink and NewDiscardSink re-export the two stock ErrorSink
// implementations.
var (
	NewStderrSink  = internalgml.NewStderrSink
	NewDiscardSink = internalgml.NewDiscardSink
)

// LoadClasses and SaveClasses re-export the schema sidecar codec.
var (
	LoadClasses = internalgml.LoadClasses
	SaveClasses = internalgml.SaveClasses
)

// NewFeatureClass and NewRegistry re-export the core data model
// constructors.
var (
	NewFeatureClass = internalgml.NewFeatureClass
	NewRegistry     = internalgml.NewRegistry
)
