package gml

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
)

// Sidecar element names.
const (
	sidecarRoot  = "GMLFeatureClassList"
	sidecarClass = "GMLFeatureClass"
)

var (
	xpClasses      = xpath.MustCompile("//" + sidecarClass)
	xpName         = xpath.MustCompile("Name")
	xpElementPath  = xpath.MustCompile("ElementPath")
	xpGeometryType = xpath.MustCompile("GeometryType")
	xpSRSName      = xpath.MustCompile("SRSName")
	xpFeatureCount = xpath.MustCompile("FeatureCount")
	xpExtent       = xpath.MustCompile("Extent")
	xpProperties   = xpath.MustCompile("PropertyDefn")
	xpPropName     = xpath.MustCompile("Name")
	xpPropElemPath = xpath.MustCompile("ElementPath")
	xpPropType     = xpath.MustCompile("Type")
)

// LoadClasses reads a schema sidecar document and returns a
// locked Registry built from it. It rejects a document whose root is not
// GMLFeatureClassList.
//
// Grounded on andaru-netconf/session/session.go's xmlquery.Parse +
// xmlquery.QuerySelector(doc, xpath.MustCompile(...)) pattern.
func LoadClasses(r io.Reader) (*Registry, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "gml: sidecar parse")
	}
	root := xmlquery.FindOne(doc, "/"+sidecarRoot)
	if root == nil {
		return nil, &ErrSidecar{Reason: "missing " + sidecarRoot + " root element"}
	}

	reg := NewRegistry()
	for _, cn := range xmlquery.QuerySelectorAll(doc, xpClasses) {
		class, err := classFromNode(cn)
		if err != nil {
			return nil, err
		}
		if err := reg.AddClass(class); err != nil {
			return nil, errors.Wrap(err, "gml: sidecar")
		}
	}
	reg.Lock()
	return reg, nil
}

func classFromNode(cn *xmlquery.Node) (*FeatureClass, error) {
	name := textOf(cn, xpName)
	if name == "" {
		return nil, &ErrSidecar{Reason: "GMLFeatureClass missing Name"}
	}
	elementName := textOf(cn, xpElementPath)
	if elementName == "" {
		elementName = name
	}

	class := NewFeatureClass(elementName)
	class.Name = name
	class.GeometryType = parseGeometryTypeName(textOf(cn, xpGeometryType))
	class.SRSName = textOf(cn, xpSRSName)

	if fc := textOf(cn, xpFeatureCount); fc != "" {
		if n, err := strconv.Atoi(fc); err == nil {
			class.FeatureCount = n
		}
	}

	if ext := xmlquery.QuerySelector(cn, xpExtent); ext != nil {
		var e Extents
		e.XMin, _ = strconv.ParseFloat(ext.SelectAttr("xmin"), 64)
		e.XMax, _ = strconv.ParseFloat(ext.SelectAttr("xmax"), 64)
		e.YMin, _ = strconv.ParseFloat(ext.SelectAttr("ymin"), 64)
		e.YMax, _ = strconv.ParseFloat(ext.SelectAttr("ymax"), 64)
		e.Set = true
		class.Extents = e
	}

	for _, pn := range xmlquery.QuerySelectorAll(cn, xpProperties) {
		fieldName := textOf(pn, xpPropName)
		srcElement := textOf(pn, xpPropElemPath)
		if srcElement == "" {
			srcElement = fieldName
		}
		typ := parsePropertyTypeName(textOf(pn, xpPropType))
		if _, err := class.AddProperty(fieldName, srcElement, typ); err != nil {
			return nil, errors.Wrap(err, "gml: sidecar property")
		}
	}
	class.SchemaLocked = true
	return class, nil
}

func textOf(n *xmlquery.Node, expr *xpath.Expr) string {
	target := xmlquery.QuerySelector(n, expr)
	if target == nil {
		return ""
	}
	return target.InnerText()
}

func parseGeometryTypeName(s string) GeometryType {
	for t := GeometryUnknown; t <= GeometryGeometryCollection; t++ {
		if t.String() == s {
			return t
		}
	}
	return GeometryUnknown
}

func parsePropertyTypeName(s string) PropertyType {
	for t := TypeUnknown; t <= TypeStringList; t++ {
		if t.String() == s {
			return t
		}
	}
	return TypeUnknown
}

// sidecar output shapes for SaveClasses. xmlquery is a read-only DOM
// query library with no document-building API, so serialization uses
// encoding/xml the way push.go already does for the parsing side.
type sidecarDoc struct {
	XMLName xml.Name        `xml:"GMLFeatureClassList"`
	Classes []sidecarClassT `xml:"GMLFeatureClass"`
}

type sidecarClassT struct {
	Name         string             `xml:"Name"`
	ElementPath  string             `xml:"ElementPath"`
	GeometryType string             `xml:"GeometryType"`
	SRSName      string             `xml:"SRSName,omitempty"`
	FeatureCount int                `xml:"FeatureCount"`
	Extent       *sidecarExtentT    `xml:"Extent"`
	Properties   []sidecarPropertyT `xml:"PropertyDefn"`
}

type sidecarExtentT struct {
	XMin float64 `xml:"xmin,attr"`
	XMax float64 `xml:"xmax,attr"`
	YMin float64 `xml:"ymin,attr"`
	YMax float64 `xml:"ymax,attr"`
}

type sidecarPropertyT struct {
	Name        string `xml:"Name"`
	ElementPath string `xml:"ElementPath"`
	Type        string `xml:"Type"`
}

// SaveClasses writes reg as a schema sidecar document.
func SaveClasses(w io.Writer, reg *Registry) error {
	doc := sidecarDoc{}
	for _, c := range reg.All() {
		ct := sidecarClassT{
			Name:         c.Name,
			ElementPath:  c.ElementName,
			GeometryType: c.GeometryType.String(),
			SRSName:      c.SRSName,
			FeatureCount: c.FeatureCount,
		}
		if c.Extents.Set {
			ct.Extent = &sidecarExtentT{
				XMin: c.Extents.XMin, XMax: c.Extents.XMax,
				YMin: c.Extents.YMin, YMax: c.Extents.YMax,
			}
		}
		for _, p := range c.Properties() {
			ct.Properties = append(ct.Properties, sidecarPropertyT{
				Name:        p.FieldName,
				ElementPath: p.SrcElement,
				Type:        p.Type.String(),
			})
		}
		doc.Classes = append(doc.Classes, ct)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "gml: sidecar encode")
	}
	return nil
}
