package gml

import "io"

// Reader is the core orchestration object tying the class registry,
// read-state stack, element handler, and an XML backend together.
// It is deliberately small: everything it does is
// delegate to the pieces built in the other files of this package.
//
// Grounded on pkg/s57/s57.go's parserWrapper, which similarly holds a
// handle to the low-level parser plus the options that shaped it and
// exposes a small orchestration surface over it.
type Reader struct {
	registry    *Registry
	sink        ErrorSink
	opts        Options
	geomBuilder GeometryBuilder

	preferPull                bool
	invertAxisOrderIfLatLong  bool
	considerEPSGAsURN         bool
	quickSchemaOnly           bool

	globalSRSName string
	globalSRSSet  bool

	filter []string

	sourceFactory func() (io.Reader, error)

	stack   *stateStack
	handler *Handler
	backend Backend
}

// ReaderConfig collects the constructor options (the
// use_expat_parser_preferably / invert_axis_order_if_lat_long /
// consider_epsg_as_urn trio) plus the collaborators a caller supplies.
type ReaderConfig struct {
	SourceFactory            func() (io.Reader, error)
	Options                  Options
	Sink                     ErrorSink
	GeometryBuilder          GeometryBuilder
	UseExpatParserPreferably bool
	InvertAxisOrderIfLatLong bool
	ConsiderEPSGAsURN        bool

	// PresetRegistry, when non-nil, replaces the empty registry a Reader
	// would otherwise build for itself and is locked immediately: reading
	// starts directly from a schema loaded from a sidecar document
	// instead of one inferred by PrescanForSchema.
	PresetRegistry *Registry
}

// NewReader validates cfg and returns an unopened Reader. NextFeature
// calls SetupParser itself if it has not been called yet.
func NewReader(cfg ReaderConfig) (*Reader, error) {
	if !pullAvailable && !pushAvailable {
		return nil, &ErrNoParserAvailable{}
	}
	if cfg.SourceFactory == nil {
		return nil, &ErrSourceNotOpen{Op: "NewReader"}
	}
	gb := cfg.GeometryBuilder
	if gb == nil {
		gb = NopGeometryBuilder{}
	}
	opts := cfg.Options
	if opts == nil {
		opts = ResolveOptions(nil)
	}
	sink := cfg.Sink
	if sink == nil {
		sink = NewDiscardSink()
	}
	registry := cfg.PresetRegistry
	if registry == nil {
		registry = NewRegistry()
	} else {
		registry.Lock()
	}
	return &Reader{
		registry:                 registry,
		sink:                     sink,
		opts:                     opts,
		geomBuilder:              gb,
		preferPull:               cfg.UseExpatParserPreferably,
		invertAxisOrderIfLatLong: cfg.InvertAxisOrderIfLatLong,
		considerEPSGAsURN:        cfg.ConsiderEPSGAsURN,
		sourceFactory:            cfg.SourceFactory,
	}, nil
}

// Registry exposes the class registry for schema inspection and the
// sidecar codec.
func (r *Reader) Registry() *Registry { return r.registry }

// SetFilteredClassNames restricts feature recognition to the given class
// names. Passing no names clears the filter.
func (r *Reader) SetFilteredClassNames(names ...string) {
	r.filter = names
	if r.handler != nil {
		r.handler.SetFilteredClassNames(names)
	}
}

// SetGlobalSRSName installs a fallback SRS name that PrescanForSchema
// applies to classes without an SRS name of their own, provided no feature
// anywhere in the document carried an SRS name.
func (r *Reader) SetGlobalSRSName(name string) {
	r.globalSRSName = name
	r.globalSRSSet = name != ""
}

// SetQuickSchemaOnly enables the cheap prescan variant that skips
// geometry-type-union and extent merging past each class's first feature;
// property/type schema inference is unaffected since it happens
// unconditionally as features parse.
func (r *Reader) SetQuickSchemaOnly(v bool) { r.quickSchemaOnly = v }

// SetupParser opens the source and builds a fresh stack/handler/backend.
func (r *Reader) SetupParser() error {
	r.CleanupParser()

	src, err := r.sourceFactory()
	if err != nil {
		return err
	}

	r.stack = newStateStack()
	r.handler = NewHandler(r.registry, r.stack, r.opts, r.sink)
	if len(r.filter) > 0 {
		r.handler.SetFilteredClassNames(r.filter)
	}

	backend, err := SelectBackend(src, r.handler, r.preferPull)
	if err != nil {
		return err
	}
	r.backend = backend
	return nil
}

// CleanupParser releases the current backend/handler/stack, discarding
// any feature in progress.
func (r *Reader) CleanupParser() {
	if r.stack != nil {
		r.stack.Drain()
	}
	r.stack = nil
	r.handler = nil
	r.backend = nil
}

// ResetReading reopens the source from the beginning, as required
// between PrescanForSchema's scan pass and the real read pass, and by the
// public ResetReading API.
func (r *Reader) ResetReading() error {
	return r.SetupParser()
}

// NextFeature returns the next feature, or (nil, nil) at end of input,
// following the nil-at-EOF idiom used throughout this reader's public API.
func (r *Reader) NextFeature() (*Feature, error) {
	if r.backend == nil {
		if err := r.SetupParser(); err != nil {
			return nil, err
		}
	}
	f, err := r.backend.NextFeature()
	if err == io.EOF {
		return nil, nil
	}
	return f, err
}

// Stop requests cooperative cancellation of the current parse.
func (r *Reader) Stop() {
	if r.handler != nil {
		r.handler.Stop()
	}
}
