package gml

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGMLDoc = `<?xml version="1.0"?>
<ogr:FeatureCollection xmlns:ogr="http://example.com/ogr" xmlns:gml="http://www.opengis.net/gml">
  <gml:featureMember>
    <ogr:Road fid="R1">
      <ogr:name>Main St</ogr:name>
      <gml:Point><gml:coordinates>1,2</gml:coordinates></gml:Point>
    </ogr:Road>
  </gml:featureMember>
  <gml:featureMember>
    <ogr:Road fid="R2">
      <ogr:name>Side St</ogr:name>
    </ogr:Road>
  </gml:featureMember>
</ogr:FeatureCollection>
`

func newTestReaderForPull(doc string) (*Registry, Backend) {
	reg := NewRegistry()
	stack := newStateStack()
	h := NewHandler(reg, stack, StaticOptions{}, NewDiscardSink())
	backend := NewPullBackend(strings.NewReader(doc), h)
	return reg, backend
}

func TestPullBackendReadsAllFeatures(t *testing.T) {
	_, backend := newTestReaderForPull(testGMLDoc)

	var got []*Feature
	for {
		f, err := backend.NextFeature()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, f)
	}

	require.Len(t, got, 2)
	assert.Equal(t, "Road", got[0].Class.Name)
	require.NotNil(t, got[0].FID)
	assert.Equal(t, "R1", *got[0].FID)

	pd, idx := got[0].Class.PropertyBySrcElement("name")
	require.NotNil(t, pd)
	assert.Equal(t, "Main St", got[0].PropertyValue(idx))

	require.Len(t, got[0].GeometryElements, 1)
	assert.Equal(t, "Point", got[0].GeometryElements[0].Name)

	require.NotNil(t, got[1].FID)
	assert.Equal(t, "R2", *got[1].FID)
	assert.Empty(t, got[1].GeometryElements)
}

func TestPullBackendEmptyDocumentYieldsEOFImmediately(t *testing.T) {
	_, backend := newTestReaderForPull(`<?xml version="1.0"?><ogr:FeatureCollection xmlns:ogr="http://example.com/ogr"></ogr:FeatureCollection>`)
	_, err := backend.NextFeature()
	assert.Equal(t, io.EOF, err)
}
