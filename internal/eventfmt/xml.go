package eventfmt

import (
	"bufio"
	"bytes"
	"io"

	"github.com/jacoelho/xmlpull/pkg/xmlevent"
)

// XMLWriter serializes events back to XML text.
// Empty elements are written in self-closing form.
type XMLWriter struct {
	w         *bufio.Writer
	depth     int
	openStart bool
}

// NewXMLWriter returns an XMLWriter writing to w. Call Flush when done.
func NewXMLWriter(w io.Writer) *XMLWriter {
	return &XMLWriter{w: bufio.NewWriter(w)}
}

// WriteEvent appends the markup for ev.
func (x *XMLWriter) WriteEvent(ev xmlevent.Event) error {
	if x.openStart {
		x.openStart = false
		if ev.Kind == xmlevent.KindEndElement {
			x.depth--
			_, err := x.w.WriteString("/>")
			return err
		}
		if err := x.w.WriteByte('>'); err != nil {
			return err
		}
	}

	switch ev.Kind {
	case xmlevent.KindStartDocument:
		x.w.WriteString(`<?xml version="`)
		x.w.WriteString(ev.Decl.Version)
		x.w.WriteString(`" encoding="`)
		x.w.WriteString(ev.Decl.Encoding)
		x.w.WriteByte('"')
		if ev.Decl.Standalone != xmlevent.StandaloneUnset {
			x.w.WriteString(` standalone="`)
			x.w.WriteString(ev.Decl.Standalone.String())
			x.w.WriteByte('"')
		}
		x.w.WriteString("?>\n")
	case xmlevent.KindEndDocument:
		x.w.WriteByte('\n')
	case xmlevent.KindStartElement:
		x.w.WriteByte('<')
		x.w.WriteString(ev.Name.String())
		for _, attr := range ev.Attrs {
			x.w.WriteByte(' ')
			x.w.WriteString(attr.Name.String())
			x.w.WriteString(`="`)
			escapeAttr(x.w, attr.Value)
			x.w.WriteByte('"')
		}
		x.depth++
		x.openStart = true
	case xmlevent.KindEndElement:
		x.depth--
		x.w.WriteString("</")
		x.w.WriteString(ev.Name.String())
		x.w.WriteByte('>')
	case xmlevent.KindCharacters, xmlevent.KindWhitespace:
		escapeText(x.w, ev.Text)
	case xmlevent.KindCData:
		writeCData(x.w, ev.Text)
	case xmlevent.KindComment:
		x.w.WriteString("<!--")
		x.w.Write(ev.Text)
		x.w.WriteString("-->")
		x.prologBreak()
	case xmlevent.KindProcessingInstruction:
		x.w.WriteString("<?")
		x.w.WriteString(ev.Name.String())
		if len(ev.Text) > 0 {
			x.w.WriteByte(' ')
			x.w.Write(ev.Text)
		}
		x.w.WriteString("?>")
		x.prologBreak()
	case xmlevent.KindDoctype:
		x.w.WriteString("<!")
		x.w.Write(ev.Text)
		x.w.WriteByte('>')
		x.prologBreak()
	}
	// an empty Write reports the sticky bufio error
	_, err := x.w.Write(nil)
	return err
}

// prologBreak puts markup outside the root element on its own line.
func (x *XMLWriter) prologBreak() {
	if x.depth == 0 {
		x.w.WriteByte('\n')
	}
}

// Flush writes any buffered output.
func (x *XMLWriter) Flush() error {
	if x.openStart {
		x.openStart = false
		if err := x.w.WriteByte('>'); err != nil {
			return err
		}
	}
	return x.w.Flush()
}

func escapeText(w *bufio.Writer, text []byte) {
	last := 0
	for i, b := range text {
		var esc string
		switch b {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '\r':
			esc = "&#xD;"
		default:
			continue
		}
		w.Write(text[last:i])
		w.WriteString(esc)
		last = i + 1
	}
	w.Write(text[last:])
}

func escapeAttr(w *bufio.Writer, value []byte) {
	last := 0
	for i, b := range value {
		var esc string
		switch b {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '"':
			esc = "&quot;"
		case '\t':
			esc = "&#x9;"
		case '\n':
			esc = "&#xA;"
		case '\r':
			esc = "&#xD;"
		default:
			continue
		}
		w.Write(value[last:i])
		w.WriteString(esc)
		last = i + 1
	}
	w.Write(value[last:])
}

// writeCData writes text as a CDATA section, splitting around "]]>".
func writeCData(w *bufio.Writer, text []byte) {
	w.WriteString("<![CDATA[")
	for {
		i := bytes.Index(text, []byte("]]>"))
		if i < 0 {
			break
		}
		w.Write(text[:i+2])
		w.WriteString("]]><![CDATA[")
		text = text[i+2:]
	}
	w.Write(text)
	w.WriteString("]]>")
}
