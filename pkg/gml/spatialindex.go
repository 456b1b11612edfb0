package gml

import "github.com/dhconnelly/rtreego"

// minRectSize keeps rtreego.NewRect happy for a class whose extent
// collapsed to a single point (rtreego requires strictly positive side
// lengths).
const minRectSize = 1e-9

// ClassExtentEntry is one FeatureClass indexed by its merged extent.
// Grounded on pkg/s57/index.go's ChartEntry, generalized from a chart's
// geographic bounds to a feature class's schema-derived extent.
type ClassExtentEntry struct {
	Class  *FeatureClass
	Extent Extents
}

// Bounds implements rtreego.Spatial.
func (e ClassExtentEntry) Bounds() rtreego.Rect {
	point := rtreego.Point{e.Extent.XMin, e.Extent.YMin}
	lengths := []float64{
		maxFloat(e.Extent.XMax-e.Extent.XMin, minRectSize),
		maxFloat(e.Extent.YMax-e.Extent.YMin, minRectSize),
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ClassExtentIndex answers "which feature classes cover this region"
// queries after a PrescanForSchema pass has populated class extents.
// Grounded on pkg/s57/index.go's ChartIndex: same R-tree-backed shape,
// generalized from indexing whole chart cells to indexing feature-class
// extents produced by prescan.
type ClassExtentIndex struct {
	entries []ClassExtentEntry
	rtree   *rtreego.Rtree
}

// BuildClassExtentIndex indexes every class in reg that has a merged
// extent. Classes without geometry, or
// scanned with getExtents=false, are omitted.
func BuildClassExtentIndex(reg *Registry) *ClassExtentIndex {
	tree := rtreego.NewTree(2, 25, 50)
	var entries []ClassExtentEntry
	for _, c := range reg.All() {
		if !c.Extents.Set {
			continue
		}
		e := ClassExtentEntry{Class: c, Extent: c.Extents}
		entries = append(entries, e)
		tree.Insert(e)
	}
	return &ClassExtentIndex{entries: entries, rtree: tree}
}

// Query returns every indexed class whose extent intersects bounds.
func (idx *ClassExtentIndex) Query(bounds Extents) []*FeatureClass {
	point := rtreego.Point{bounds.XMin, bounds.YMin}
	lengths := []float64{
		maxFloat(bounds.XMax-bounds.XMin, minRectSize),
		maxFloat(bounds.YMax-bounds.YMin, minRectSize),
	}
	rect, _ := rtreego.NewRect(point, lengths)

	hits := idx.rtree.SearchIntersect(rect)
	out := make([]*FeatureClass, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(ClassExtentEntry).Class)
	}
	return out
}

// Count returns the number of indexed classes.
func (idx *ClassExtentIndex) Count() int { return len(idx.entries) }

// All returns every indexed entry.
func (idx *ClassExtentIndex) All() []ClassExtentEntry { return idx.entries }
