package gml

// PrescanForSchema scans the entire source once, discovering every
// feature class, its feature count, its properties (as a side effect of
// ordinary feature parsing), and, when getExtents is true, its unioned
// geometry type, merged extent and SRS name. It locks the class
// registry on completion and repositions the source for a real read pass.
//
// Grounded on internal/parser/parser.go's single-pass buildChart, which
// similarly walks every record once before the caller can query the
// resulting Chart; generalized here into five explicit steps.
func (r *Reader) PrescanForSchema(getExtents bool) error {
	// Step 1: unlock, clear, and reposition at the start of the source.
	r.registry.Unlock()
	r.registry.Clear()
	if err := r.ResetReading(); err != nil {
		return err
	}

	seenFirst := make(map[*FeatureClass]bool)

	// Step 2: canUseGlobalSRS starts true and is latched false the moment
	// any feature of any class discloses its own SRS name; once latched it
	// stays false for the rest of the document, gating every class's
	// global-SRS substitution in step 4 below (not just the disclosing
	// class's).
	canUseGlobalSRS := true

	// Step 3: per-feature counting, geometry-type union, and extent merge.
	for {
		f, err := r.backend.NextFeature()
		if err != nil {
			break // io.EOF or a fatal error; either way the scan is over
		}
		class := f.Class
		if class.FeatureCount < 0 {
			class.FeatureCount = 0
		}
		class.FeatureCount++

		doGeometry := getExtents
		if getExtents && r.quickSchemaOnly && seenFirst[class] {
			doGeometry = false
		}
		seenFirst[class] = true
		if !doGeometry {
			continue
		}

		gt := r.classifyFeatureGeometry(f)
		if class.FeatureCount == 1 && gt == GeometryNone {
			class.GeometryType = GeometryNone
		} else {
			class.MergeGeometryType(gt)
		}

		if getExtents {
			if env, srs, ok := r.featureEnvelope(f); ok {
				class.Extents.Merge(env)
				class.MergeSRSName(srs)
				if srs != "" {
					canUseGlobalSRS = false
				}
			}
		}
	}

	// Step 4: global SRS substitution and axis-order correction. Global
	// substitution only fires when no feature anywhere in the document
	// disclosed its own SRS; otherwise the document is treated as mixed
	// and every class keeps whatever SRS name (possibly none) it observed.
	if r.globalSRSSet && canUseGlobalSRS {
		for _, c := range r.registry.All() {
			if c.SRSName == "" {
				c.SRSName = r.globalSRSName
			}
		}
	}
	if r.invertAxisOrderIfLatLong {
		for _, c := range r.registry.All() {
			if r.geomBuilder.IsSRSLatLongOrder(c.SRSName) {
				c.Extents.SwapAxes()
				if wkt, err := r.geomBuilder.StripAxisAndExportWKT(c.SRSName); err == nil {
					c.SRSName = wkt
				}
			}
		}
	}

	// Step 5: lock the schema and reposition for the real read pass.
	r.registry.Lock()
	return r.ResetReading()
}

func (r *Reader) classifyFeatureGeometry(f *Feature) GeometryType {
	if len(f.GeometryElements) == 0 {
		return GeometryNone
	}
	t := GeometryUnknown
	for _, ge := range f.GeometryElements {
		gt := GeometryUnknown
		geo, err := r.geomBuilder.BuildGeometryFromList([]*GeometryElement{ge}, r.opts.FetchAllGeometries(), r.invertAxisOrderIfLatLong, r.considerEPSGAsURN)
		if err == nil && geo != nil && geo.Type != GeometryUnknown {
			gt = geo.Type
		} else {
			gt = classifyGeometryElementName(ge.Name)
		}
		t = MergeGeometryTypes(t, gt)
	}
	return t
}

func (r *Reader) featureEnvelope(f *Feature) (Extents, string, bool) {
	if len(f.GeometryElements) == 0 {
		return Extents{}, "", false
	}
	srs := r.geomBuilder.ExtractSrsNameFromList(f.GeometryElements, r.considerEPSGAsURN)
	geo, err := r.geomBuilder.BuildGeometryFromList(f.GeometryElements, r.opts.FetchAllGeometries(), r.invertAxisOrderIfLatLong, r.considerEPSGAsURN)
	if err != nil || geo == nil || !geo.Envelope.Set {
		return Extents{}, srs, srs != ""
	}
	return geo.Envelope, srs, true
}
