package gml

import (
	"io"

	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// pullBackend implements the pull contract: the host
// drives NextFeature, which advances the tokenizer one event at a time
// until a single feature buffer fills or the input is exhausted.
//
// Grounded on other_examples/muktihari-xmltokenizer__gpx.go's Token()
// loop; unlike that recursive-descent example, this backend has no
// static schema to unmarshal into, so it drives the loop itself and
// forwards every event to Handler.
type pullBackend struct {
	tok       *xmltokenizer.Tokenizer
	handler   *Handler
	completed *Feature
}

func newPullBackend(r io.Reader, h *Handler) *pullBackend {
	b := &pullBackend{tok: xmltokenizer.New(r), handler: h}
	h.SetOnFeature(func(f *Feature) { b.completed = f })
	return b
}

// NextFeature implements Backend.
func (b *pullBackend) NextFeature() (*Feature, error) {
	for {
		if b.handler.StopParsing() {
			return nil, io.EOF
		}
		tok, err := b.tok.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, errors.Wrap(err, "gml: tokenize")
		}
		b.dispatch(&tok)
		if b.completed != nil {
			f := b.completed
			b.completed = nil
			return f, nil
		}
	}
}

func (b *pullBackend) dispatch(tok *xmltokenizer.Token) {
	if len(tok.Name.Full) > 0 && (tok.Name.Full[0] == '?' || tok.Name.Full[0] == '!') {
		return // proc-inst, comment, or CDATA marker with no element identity
	}
	if tok.IsEndElement {
		b.handler.EndElement(string(tok.Name.Local))
		return
	}

	local := string(tok.Name.Local)
	attrs := attrMapFromTokenizer(tok.Attrs)
	b.handler.StartElement(local, attrs)
	if len(tok.Data) > 0 {
		b.handler.Characters(string(tok.Data))
	}
	if tok.SelfClosing {
		b.handler.EndElement(local)
	}
}

func attrMapFromTokenizer(attrs []xmltokenizer.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out[string(a.Name.Local)] = string(a.Value)
	}
	return out
}
