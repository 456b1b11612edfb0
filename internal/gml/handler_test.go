package gml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*Handler, *[]*Feature) {
	reg := NewRegistry()
	stack := newStateStack()
	h := NewHandler(reg, stack, StaticOptions{}, NewDiscardSink())
	var emitted []*Feature
	h.SetOnFeature(func(f *Feature) { emitted = append(emitted, f) })
	return h, &emitted
}

func TestHandlerEmitsFeatureWithPropertyAndGeometry(t *testing.T) {
	h, emitted := newTestHandler()

	h.StartElement("FeatureCollection", nil)
	h.StartElement("featureMember", nil)
	h.StartElement("Road", map[string]string{"fid": "R1"})
	h.StartElement("name", nil)
	h.Characters("Main St")
	h.EndElement("name")
	h.StartElement("Point", nil)
	h.StartElement("coordinates", nil)
	h.Characters("1,2")
	h.EndElement("coordinates")
	h.EndElement("Point")
	h.EndElement("Road")
	h.EndElement("featureMember")
	h.EndElement("FeatureCollection")

	require.Len(t, *emitted, 1)
	f := (*emitted)[0]
	require.NotNil(t, f.FID)
	assert.Equal(t, "R1", *f.FID)
	assert.Equal(t, "Road", f.Class.Name)

	pd, idx := f.Class.PropertyBySrcElement("name")
	require.NotNil(t, pd)
	assert.Equal(t, "Main St", f.PropertyValue(idx))

	require.Len(t, f.GeometryElements, 1)
	root := f.GeometryElements[0]
	assert.Equal(t, "Point", root.Name)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "coordinates", root.Children[0].Name)
	assert.Equal(t, "1,2", root.Children[0].Text)
}

func TestHandlerGml2FidFallsBackToId(t *testing.T) {
	h, emitted := newTestHandler()
	h.StartElement("featureMember", nil)
	h.StartElement("Road", map[string]string{"id": "gmlid.1"})
	h.EndElement("Road")
	h.EndElement("featureMember")

	require.Len(t, *emitted, 1)
	require.NotNil(t, (*emitted)[0].FID)
	assert.Equal(t, "gmlid.1", *(*emitted)[0].FID)
}

func TestHandlerFeatureWithoutFidLeavesNilNotEmptyString(t *testing.T) {
	h, emitted := newTestHandler()
	h.StartElement("featureMember", nil)
	h.StartElement("Road", nil)
	h.EndElement("Road")
	h.EndElement("featureMember")

	require.Len(t, *emitted, 1)
	assert.Nil(t, (*emitted)[0].FID)
}

func TestHandlerOpenLSGeocodedAddressIsFeature(t *testing.T) {
	h, emitted := newTestHandler()
	h.StartElement("GeocodeResponseList", nil)
	h.StartElement("GeocodedAddress", nil)
	h.EndElement("GeocodedAddress")
	h.EndElement("GeocodeResponseList")

	require.Len(t, *emitted, 1)
	assert.Equal(t, "GeocodedAddress", (*emitted)[0].Class.Name)
}

func TestHandlerRouteInstructionsListIsNotAFeatureBoundary(t *testing.T) {
	h, emitted := newTestHandler()
	h.StartElement("DetermineRouteResponse", nil)
	h.StartElement("RouteInstructionsList", nil)
	h.StartElement("RouteInstruction", nil)
	h.EndElement("RouteInstruction")
	h.EndElement("RouteInstructionsList")
	h.EndElement("DetermineRouteResponse")

	require.Len(t, *emitted, 1)
	assert.Equal(t, "RouteInstruction", (*emitted)[0].Class.Name)
}

func TestHandlerMapServerLayerFeatureSuffixPattern(t *testing.T) {
	h, emitted := newTestHandler()
	h.StartElement("roads_layer", nil)
	h.StartElement("roads_feature", nil)
	h.EndElement("roads_feature")
	h.EndElement("roads_layer")

	require.Len(t, *emitted, 1)
	assert.Equal(t, "roads_feature", (*emitted)[0].Class.Name)
}

func TestHandlerCityGMLGenericAttribute(t *testing.T) {
	h, emitted := newTestHandler()
	h.StartElement("featureMember", nil)
	h.StartElement("Building", nil)
	h.StartElement("stringAttribute", map[string]string{"name": "roofType"})
	h.StartElement("value", nil)
	h.Characters("gabled")
	h.EndElement("value")
	h.EndElement("stringAttribute")
	h.EndElement("Building")
	h.EndElement("featureMember")

	require.Len(t, *emitted, 1)
	f := (*emitted)[0]
	pd, idx := f.Class.PropertyBySrcElement("roofType")
	require.NotNil(t, pd)
	assert.Equal(t, "gabled", f.PropertyValue(idx))
}

func TestHandlerCityGMLGenericAttributeIgnoresOtherChildren(t *testing.T) {
	h, emitted := newTestHandler()
	h.StartElement("featureMember", nil)
	h.StartElement("Building", nil)
	h.StartElement("intAttribute", map[string]string{"name": "floors"})
	h.StartElement("uom", nil)
	h.Characters("units")
	h.EndElement("uom")
	h.StartElement("value", nil)
	h.Characters("4")
	h.EndElement("value")
	h.EndElement("intAttribute")
	h.EndElement("Building")
	h.EndElement("featureMember")

	require.Len(t, *emitted, 1)
	pd, idx := (*emitted)[0].Class.PropertyBySrcElement("floors")
	require.NotNil(t, pd)
	assert.Equal(t, "4", (*emitted)[0].PropertyValue(idx))
}

func TestHandlerClassListLockedSkipsUnknownElements(t *testing.T) {
	h, emitted := newTestHandler()
	h.registry.Lock()

	h.StartElement("featureMember", nil)
	h.StartElement("Road", nil)
	h.EndElement("Road")
	h.EndElement("featureMember")

	assert.Empty(t, *emitted, "a locked, empty class list should recognize no feature elements")
}

func TestHandlerClassListLockedAllowsRegisteredClasses(t *testing.T) {
	h, emitted := newTestHandler()
	_ = h.registry.AddClass(NewFeatureClass("Road"))
	h.registry.Lock()

	h.StartElement("featureMember", nil)
	h.StartElement("Road", nil)
	h.EndElement("Road")
	h.EndElement("featureMember")

	require.Len(t, *emitted, 1)
	assert.Equal(t, "Road", (*emitted)[0].Class.Name)
}

func TestHandlerFilteredClassNamesSkipsOthers(t *testing.T) {
	h, emitted := newTestHandler()
	h.SetFilteredClassNames([]string{"Road"})

	h.StartElement("featureMember", nil)
	h.StartElement("River", nil)
	h.EndElement("River")
	h.EndElement("featureMember")

	assert.Empty(t, *emitted, "River should be filtered out")

	h.StartElement("featureMember", nil)
	h.StartElement("Road", nil)
	h.EndElement("Road")
	h.EndElement("featureMember")

	require.Len(t, *emitted, 1)
	assert.Equal(t, "Road", (*emitted)[0].Class.Name)
}

func TestHandlerStopParsingIsCooperative(t *testing.T) {
	h, emitted := newTestHandler()
	h.Stop()
	assert.True(t, h.StopParsing())

	h.StartElement("featureMember", nil)
	h.StartElement("Road", nil)
	h.EndElement("Road")
	h.EndElement("featureMember")

	assert.Empty(t, *emitted, "no events should be processed once stopped")
}

func TestClassifyFeatureNameRules(t *testing.T) {
	cases := []struct {
		name string
		last string
		elem string
		want bool
	}{
		{"dane children are features", "dane", "AnythingAtAll", true},
		{"openls geocoded address", "GeocodeResponseList", "GeocodedAddress", true},
		{"openls unrelated child", "GeocodeResponseList", "Other", false},
		{"route instructions list is not a boundary itself", "DetermineRouteResponse", "RouteInstructionsList", false},
		{"other children of DetermineRouteResponse are features", "DetermineRouteResponse", "Anything", true},
		{"route instruction inside its list", "RouteInstructionsList", "RouteInstruction", true},
		{"mapserver layer/feature suffix pattern", "roads_layer", "roads_feature", true},
		{"mapserver layer suffix without feature suffix", "roads_layer", "roads", false},
		{"generic member suffix", "featureMember", "Road", true},
		{"generic members suffix", "roadMembers", "Road", true},
		{"no suffix match", "Container", "Road", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyFeatureName(tc.last, tc.elem))
		})
	}
}

func TestIsAttributeElementLockedSchemaRequiresRegisteredPath(t *testing.T) {
	h, emitted := newTestHandler()

	h.StartElement("featureMember", nil)
	h.StartElement("Road", nil)
	h.StartElement("name", nil)
	h.Characters("Main St")
	h.EndElement("name")
	h.EndElement("Road")
	h.EndElement("featureMember")
	require.Len(t, *emitted, 1)
	class := (*emitted)[0].Class
	class.SchemaLocked = true

	// A second feature of the same (now locked) class should still accept
	// "name" (registered) but silently drop an unknown property.
	h.StartElement("featureMember", nil)
	h.StartElement("Road", nil)
	h.StartElement("name", nil)
	h.Characters("Second St")
	h.EndElement("name")
	h.StartElement("unknownField", nil)
	h.Characters("dropped")
	h.EndElement("unknownField")
	h.EndElement("Road")
	h.EndElement("featureMember")

	require.Len(t, *emitted, 2)
	f2 := (*emitted)[1]
	_, idx := class.PropertyBySrcElement("name")
	assert.Equal(t, "Second St", f2.PropertyValue(idx))
	assert.Equal(t, 1, class.PropertyCount(), "locked schema must not gain new properties")
}
