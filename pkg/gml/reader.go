package gml

import (
	"io"
	"os"

	internalgml "github.com/geoformat/gmlreader/internal/gml"
)

// Reader is the public entry point. Grounded on
// pkg/s57/s57.go's parserWrapper: a thin struct holding the low-level
// reader plus whatever resource it opened, so Close has something to
// release.
type Reader struct {
	core   *internalgml.Reader
	closer io.Closer
}

// Open opens path and returns a Reader positioned at the start of the
// document. The returned Reader can be re-scanned (PrescanForSchema,
// ResetReading) any number of times since it reopens the file each time.
func Open(path string, opts ReaderOptions) (*Reader, error) {
	r := &Reader{}
	factory := func() (io.Reader, error) {
		if r.closer != nil {
			_ = r.closer.Close()
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		r.closer = f
		return f, nil
	}
	return newReader(factory, opts, r)
}

// NewReader wraps an already-open source. If source implements io.Seeker
// it can be rescanned (PrescanForSchema, ResetReading); otherwise it is
// consumed exactly once and a second setup attempt fails.
func NewReader(source io.Reader, opts ReaderOptions) (*Reader, error) {
	var used bool
	factory := func() (io.Reader, error) {
		if seeker, ok := source.(io.Seeker); ok {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return nil, err
			}
			return source, nil
		}
		if used {
			return nil, &internalgml.ErrSourceNotOpen{Op: "reopen non-seekable source"}
		}
		used = true
		return source, nil
	}
	return newReader(factory, opts, &Reader{})
}

func newReader(factory func() (io.Reader, error), opts ReaderOptions, r *Reader) (*Reader, error) {
	cfg := internalgml.ReaderConfig{
		SourceFactory:            factory,
		Options:                  opts.resolveOptions(),
		Sink:                     opts.Sink,
		GeometryBuilder:          opts.GeometryBuilder,
		UseExpatParserPreferably: opts.UseExpatParserPreferably,
		InvertAxisOrderIfLatLong: opts.InvertAxisOrderIfLatLong,
		ConsiderEPSGAsURN:        opts.ConsiderEPSGAsURN,
		PresetRegistry:           opts.PresetSchema,
	}
	core, err := internalgml.NewReader(cfg)
	if err != nil {
		return nil, err
	}
	if len(opts.FilteredClassNames) > 0 {
		core.SetFilteredClassNames(opts.FilteredClassNames...)
	}
	if opts.GlobalSRSName != "" {
		core.SetGlobalSRSName(opts.GlobalSRSName)
	}
	core.SetQuickSchemaOnly(opts.QuickSchemaOnly)
	if err := core.SetupParser(); err != nil {
		return nil, err
	}
	r.core = core
	return r, nil
}

// NextFeature returns the next feature, or (nil, nil) at end of input.
func (r *Reader) NextFeature() (*Feature, error) { return r.core.NextFeature() }

// PrescanForSchema scans the entire document once to build a complete
// schema before any feature is returned via NextFeature.
func (r *Reader) PrescanForSchema(getExtents bool) error {
	return r.core.PrescanForSchema(getExtents)
}

// ResetReading repositions the source at the beginning.
func (r *Reader) ResetReading() error { return r.core.ResetReading() }

// Registry exposes the schema built so far.
func (r *Reader) Registry() *Registry { return r.core.Registry() }

// SetFilteredClassNames restricts feature recognition to the given class
// names.
func (r *Reader) SetFilteredClassNames(names ...string) { r.core.SetFilteredClassNames(names...) }

// SetGlobalSRSName installs a fallback SRS name for PrescanForSchema.
func (r *Reader) SetGlobalSRSName(name string) { r.core.SetGlobalSRSName(name) }

// Stop requests cooperative cancellation of the current parse.
func (r *Reader) Stop() { r.core.Stop() }

// Close releases the parser state and the file opened by Open. For readers
// created with NewReader it leaves the caller's source open.
func (r *Reader) Close() error {
	r.core.CleanupParser()
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}
