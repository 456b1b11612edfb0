package gml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPushBackend() (*Registry, PushBackend) {
	reg := NewRegistry()
	stack := newStateStack()
	h := NewHandler(reg, stack, StaticOptions{}, NewDiscardSink())
	return reg, NewPushBackend(h)
}

func TestPushBackendFeedInOneShot(t *testing.T) {
	_, pb := newTestPushBackend()

	err := pb.Parse([]byte(testGMLDoc), true)
	require.NoError(t, err)

	got := pb.DrainPending()
	require.Len(t, got, 2)
	assert.Equal(t, "R1", *got[0].FID)
	assert.Equal(t, "R2", *got[1].FID)
}

func TestPushBackendFeedInSmallFragmentsAcrossTagBoundaries(t *testing.T) {
	_, pb := newTestPushBackend()

	const chunkSize = 11 // deliberately small and not aligned with any tag
	doc := []byte(testGMLDoc)
	var all []*Feature
	for i := 0; i < len(doc); i += chunkSize {
		end := i + chunkSize
		isFinal := false
		if end >= len(doc) {
			end = len(doc)
			isFinal = true
		}
		err := pb.Parse(doc[i:end], isFinal)
		require.NoError(t, err)
		all = append(all, pb.DrainPending()...)
	}

	require.Len(t, all, 2)
	assert.Equal(t, "Road", all[0].Class.Name)
	assert.Equal(t, "R1", *all[0].FID)
	pd, idx := all[0].Class.PropertyBySrcElement("name")
	require.NotNil(t, pd)
	assert.Equal(t, "Main St", all[0].PropertyValue(idx))
	require.Len(t, all[0].GeometryElements, 1)

	assert.Equal(t, "R2", *all[1].FID)
}

func TestPushBackendMismatchedClosingTagIsFatalOnlyAtFinal(t *testing.T) {
	_, pb := newTestPushBackend()

	// A well-formed, still-open prefix should parse without error while more
	// input is expected: an unclosed root is not itself a syntax error.
	err := pb.Parse([]byte(`<ogr:FeatureCollection xmlns:ogr="http://example.com/ogr">`), false)
	require.NoError(t, err)

	// A closing tag that names the wrong element is a genuine XML syntax
	// error, but must only surface once isFinal says no more data is coming.
	err = pb.Parse([]byte(`</WrongTag>`), true)
	assert.Error(t, err)
}

func TestPushBackendNextFeatureReturnsQueuedFeatureWithoutBlocking(t *testing.T) {
	_, pb := newTestPushBackend()
	require.NoError(t, pb.Parse([]byte(testGMLDoc), true))

	f, err := pb.NextFeature()
	require.NoError(t, err)
	assert.Equal(t, "R1", *f.FID)

	f, err = pb.NextFeature()
	require.NoError(t, err)
	assert.Equal(t, "R2", *f.FID)

	_, err = pb.NextFeature()
	assert.Error(t, err)
}

// TestPushBackendThrottlesMaliciouslyFragmentedCharacterData reproduces one
// property body's text run split into many thousands of one-byte fragments
// interleaved with comments -- encoding/xml returns each comment as its own
// Comment token, which the backend does not forward to the handler, but the
// comments still force adjacent text into separate CharData tokens, so a
// naive forward-everything push path would call Characters once per byte. The backend must give up once the streak of CharData
// tokens since the last element boundary crosses the cap, rather than
// forwarding all of them.
func TestPushBackendThrottlesMaliciouslyFragmentedCharacterData(t *testing.T) {
	_, pb := newTestPushBackend()

	var body strings.Builder
	for i := 0; i < maxConsecutiveCharacterTokens+1; i++ {
		body.WriteString("a<!--x-->")
	}
	doc := `<ogr:FeatureCollection xmlns:ogr="http://example.com/ogr" xmlns:gml="http://www.opengis.net/gml">` +
		`<gml:featureMember><ogr:Road fid="R1"><ogr:name>` + body.String() + `</ogr:name></ogr:Road></gml:featureMember>` +
		`</ogr:FeatureCollection>`

	err := pb.Parse([]byte(doc), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maliciously fragmented")
}

// TestPushBackendOrdinaryCommentsDoNotTriggerThrottle guards against a
// false positive: a handful of comments scattered through an otherwise
// normal document must not come anywhere near the cap.
func TestPushBackendOrdinaryCommentsDoNotTriggerThrottle(t *testing.T) {
	_, pb := newTestPushBackend()

	doc := `<ogr:FeatureCollection xmlns:ogr="http://example.com/ogr" xmlns:gml="http://www.opengis.net/gml">` +
		`<!-- a comment --><gml:featureMember><ogr:Road fid="R1"><ogr:name>Main St</ogr:name>` +
		`<!-- another --><gml:Point><gml:coordinates>1,2</gml:coordinates></gml:Point></ogr:Road></gml:featureMember>` +
		`</ogr:FeatureCollection>`

	err := pb.Parse([]byte(doc), true)
	require.NoError(t, err)

	got := pb.DrainPending()
	require.Len(t, got, 1)
	assert.Equal(t, "R1", *got[0].FID)
}
