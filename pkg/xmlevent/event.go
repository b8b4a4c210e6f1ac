package xmlevent

import (
	"bytes"
	"strconv"
)

// Name is a lexical XML name split at the first colon.
type Name struct {
	Prefix string
	Local  string
}

// String returns the lexical form of the name.
func (n Name) String() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

// Attr is a start element attribute with its entity-expanded value.
type Attr struct {
	Name  Name
	Value []byte
}

// Standalone records the standalone pseudo-attribute of the XML declaration.
type Standalone byte

const (
	StandaloneUnset Standalone = iota
	StandaloneYes
	StandaloneNo
)

// String returns the declaration spelling, or an empty string when unset.
func (s Standalone) String() string {
	switch s {
	case StandaloneYes:
		return "yes"
	case StandaloneNo:
		return "no"
	default:
		return ""
	}
}

// Declaration holds the values of the XML declaration.
type Declaration struct {
	Version    string
	Encoding   string
	Standalone Standalone
}

// Event is one item of a raw or normalized XML event stream.
//
// Name is set for StartElement, EndElement and ProcessingInstruction (target).
// Attrs is set for StartElement. Text is set for Characters, Whitespace, CData,
// Comment, ProcessingInstruction (data) and Doctype. Decl is set for StartDocument.
//
// Text and attribute values are owned by the producer and valid until its next
// Next call. Use Clone to retain an event.
type Event struct {
	Name   Name
	Attrs  []Attr
	Text   []byte
	Decl   Declaration
	Kind   Kind
	Line   int
	Column int
}

// Clone returns a deep copy of the event that does not alias producer buffers.
func (e Event) Clone() Event {
	out := e
	if e.Text != nil {
		out.Text = bytes.Clone(e.Text)
	}
	if e.Attrs != nil {
		out.Attrs = make([]Attr, len(e.Attrs))
		for i, attr := range e.Attrs {
			out.Attrs[i] = Attr{Name: attr.Name, Value: bytes.Clone(attr.Value)}
		}
	}
	return out
}

// Equal reports whether a and b describe the same event, ignoring positions.
func Equal(a, b Event) bool {
	if a.Kind != b.Kind || a.Name != b.Name || a.Decl != b.Decl {
		return false
	}
	if !bytes.Equal(a.Text, b.Text) || len(a.Attrs) != len(b.Attrs) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i].Name != b.Attrs[i].Name || !bytes.Equal(a.Attrs[i].Value, b.Attrs[i].Value) {
			return false
		}
	}
	return true
}

// String renders the event for debugging, e.g. Characters("hi").
func (e Event) String() string {
	buf := []byte(e.Kind.String())
	switch e.Kind {
	case KindStartElement, KindEndElement:
		buf = append(buf, '(')
		buf = append(buf, e.Name.String()...)
		buf = append(buf, ')')
	case KindProcessingInstruction:
		buf = append(buf, '(')
		buf = append(buf, e.Name.String()...)
		buf = append(buf, ", "...)
		buf = strconv.AppendQuote(buf, string(e.Text))
		buf = append(buf, ')')
	case KindCharacters, KindWhitespace, KindCData, KindComment, KindDoctype:
		buf = append(buf, '(')
		buf = strconv.AppendQuote(buf, string(e.Text))
		buf = append(buf, ')')
	}
	return string(buf)
}

// Characters returns a Characters event carrying text.
func Characters(text string) Event {
	return Event{Kind: KindCharacters, Text: []byte(text)}
}

// Whitespace returns a Whitespace event carrying text.
func Whitespace(text string) Event {
	return Event{Kind: KindWhitespace, Text: []byte(text)}
}

// CData returns a CData event carrying text.
func CData(text string) Event {
	return Event{Kind: KindCData, Text: []byte(text)}
}

// Comment returns a Comment event carrying text.
func Comment(text string) Event {
	return Event{Kind: KindComment, Text: []byte(text)}
}

// StartElement returns a StartElement event for an unprefixed local name.
func StartElement(local string, attrs ...Attr) Event {
	return Event{Kind: KindStartElement, Name: Name{Local: local}, Attrs: attrs}
}

// EndElement returns an EndElement event for an unprefixed local name.
func EndElement(local string) Event {
	return Event{Kind: KindEndElement, Name: Name{Local: local}}
}
