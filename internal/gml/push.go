package gml

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

// pushBackend implements the push contract: Parse feeds a
// buffer and isFinal flag; feature completions during that call become
// visible immediately in the pending queue. Unlike the pull backend it
// does not own the byte source when driven externally -- a host that calls
// Parse directly decides when and how much to feed it. When source is
// non-nil (wired by NewPushBackendOverReader), NextFeature instead drives
// itself: read the next buffer from source, parse it, repeat until a
// feature completes or the source is exhausted. Either way, everything
// happens on the caller's goroutine; there is no background feeder and
// nothing to leak if the caller abandons the parse midway.
//
// Grounded on other_examples/muktihari-xmltokenizer__gpx.go's stdlib
// fallback (UnmarshalWithStdlibXML): since no example repo wires a true
// SAX push-callback library, encoding/xml.Decoder stands in as the event
// source. A fresh Decoder is built over the unconsumed tail on every
// Parse call rather than fed through an io.Pipe, so that "not enough
// bytes yet" and "malformed XML" can both be handled without a second
// goroutine: any tokenizer error while !isFinal is treated as "wait for
// more data" and retried once the next chunk arrives. Because each Decoder
// only sees the tail, tokens are read with RawToken and end tags are
// matched against the open-element stack kept in open across calls.
type pushBackend struct {
	handler *Handler

	// source is nil for a purely host-driven backend (the caller supplies
	// buffers via Parse). When set, NextFeature reads from it directly
	// instead of blocking for an external Parse call.
	source io.Reader

	buf      []byte
	open     []xml.Name // elements started and not yet ended, across Parse calls
	pending  []*Feature
	finished bool
	fatal    error

	// charStreak counts xml.CharData tokens dispatched since the last real
	// element boundary (StartElement/EndElement), guarding against a
	// caller feeding one logical text run split into many tiny fragments
	// to force many cheap-looking Characters calls. Comments and
	// processing instructions do not reset it, since interleaving those
	// between one-byte text runs is itself a common fragmentation trick.
	charStreak int
}

// maxConsecutiveCharacterTokens caps how many xml.CharData tokens the
// push backend forwards back-to-back before treating the input as
// maliciously fragmented and aborting the parse. The pull backend has no
// equivalent guard: xmltokenizer hands the handler one CharData per
// element body already, so nothing under this backend's control can
// force it to split a single text run into thousands of callbacks.
const maxConsecutiveCharacterTokens = 4096

func newPushBackend(h *Handler) *pushBackend {
	b := &pushBackend{handler: h}
	h.SetOnFeature(func(f *Feature) {
		b.pending = append(b.pending, f)
	})
	return b
}

// Parse implements PushBackend.
func (b *pushBackend) Parse(buffer []byte, isFinal bool) error {
	if b.finished {
		return &ErrSourceNotOpen{Op: "Parse"}
	}
	if b.handler.StopParsing() {
		b.finished = true
		return nil
	}

	b.buf = append(b.buf, buffer...)

	dec := xml.NewDecoder(bytes.NewReader(b.buf))
	var consumed int64
	for {
		tok, err := dec.RawToken()
		if err == nil {
			switch t := tok.(type) {
			case xml.StartElement:
				b.open = append(b.open, t.Name)
			case xml.EndElement:
				if n := len(b.open); n > 0 && b.open[n-1] == t.Name {
					b.open = b.open[:n-1]
				} else {
					err = &ErrTokenizer{Message: "unexpected end element </" + t.Name.Local + ">"}
				}
			}
		}
		if err != nil {
			if err != io.EOF && isFinal {
				b.fatal = errors.Wrap(err, "gml: push parse")
				b.finished = true
				return b.fatal
			}
			break // EOF, or a mid-stream error we'll retry with more data
		}
		consumed = dec.InputOffset()
		switch tok.(type) {
		case xml.CharData:
			b.charStreak++
			if b.charStreak > maxConsecutiveCharacterTokens {
				b.fatal = &ErrTokenizer{Message: "too many consecutive character callbacks: input looks maliciously fragmented"}
				b.finished = true
				return b.fatal
			}
		case xml.StartElement, xml.EndElement:
			// A genuine element boundary; whatever text run was building up
			// is done. Comments and processing instructions deliberately do
			// NOT reset the streak: interleaving <!-- --> between one-byte
			// text runs is exactly the fragmentation this guards against.
			b.charStreak = 0
		}
		dispatchXMLToken(b.handler, tok)
	}
	if consumed > 0 {
		b.buf = b.buf[consumed:]
	}

	if isFinal {
		b.finished = true
		if len(bytes.TrimSpace(b.buf)) > 0 || len(b.open) > 0 {
			b.fatal = &ErrTokenizer{Message: "trailing data or unclosed element at end of input"}
			return b.fatal
		}
	}
	return nil
}

// DrainPending implements PushBackend.
func (b *pushBackend) DrainPending() []*Feature {
	out := b.pending
	b.pending = nil
	return out
}

// NextFeature implements Backend. When source is wired it reads and parses
// one buffer at a time, synchronously, until a feature is queued or the
// source is exhausted. Without a wired source it only drains what earlier
// Parse calls already queued: it never blocks waiting for a Parse that
// might never come.
func (b *pushBackend) NextFeature() (*Feature, error) {
	for len(b.pending) == 0 {
		if b.finished {
			if b.fatal != nil {
				return nil, b.fatal
			}
			return nil, io.EOF
		}
		if b.source == nil {
			return nil, &ErrSourceNotOpen{Op: "NextFeature: no feature queued and no source wired"}
		}
		if err := b.readAndParseNext(); err != nil {
			return nil, err
		}
	}
	f := b.pending[0]
	b.pending = b.pending[1:]
	return f, nil
}

func (b *pushBackend) readAndParseNext() error {
	chunk := make([]byte, 32*1024)
	n, err := b.source.Read(chunk)
	isFinal := err == io.EOF
	if n == 0 && !isFinal && err != nil {
		return errors.Wrap(err, "gml: push read")
	}
	return b.Parse(chunk[:n], isFinal)
}

func dispatchXMLToken(h *Handler, tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		h.StartElement(t.Name.Local, attrMapFromXML(t.Attr))
	case xml.EndElement:
		h.EndElement(t.Name.Local)
	case xml.CharData:
		h.Characters(string(t))
	}
}

func attrMapFromXML(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out[a.Name.Local] = a.Value
	}
	return out
}
