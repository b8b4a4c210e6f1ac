// Package eventfmt renders normalized events for the command line.
package eventfmt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/jacoelho/xmlpull/pkg/xmlevent"
)

// ErrUnknownFormat reports an output format name that is not supported.
var ErrUnknownFormat = errors.New("unknown output format")

// ErrUnknownColor reports a color mode name that is not supported.
var ErrUnknownColor = errors.New("unknown color mode")

// Format names an output rendering.
type Format string

const (
	FormatEvents Format = "events"
	FormatXML    Format = "xml"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatEvents, FormatXML:
		return Format(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// ColorMode selects when the event listing is styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a color mode name.
func ParseColorMode(name string) (ColorMode, error) {
	switch ColorMode(name) {
	case ColorAuto, ColorAlways, ColorNever:
		return ColorMode(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
}

// Styled reports whether output to w should be styled under mode.
// Auto styles only terminals.
func (mode ColorMode) Styled(w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer renders a stream of events.
type Writer interface {
	WriteEvent(ev xmlevent.Event) error
	Flush() error
}

// New returns the writer for format.
func New(w io.Writer, format Format, color ColorMode) (Writer, error) {
	switch format {
	case FormatEvents:
		return NewListing(w, color.Styled(w)), nil
	case FormatXML:
		return NewXMLWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type listingStyles struct {
	kind   lipgloss.Style
	name   lipgloss.Style
	text   lipgloss.Style
	detail lipgloss.Style
}

// Listing writes one line per event.
type Listing struct {
	w      io.Writer
	styles listingStyles
	buf    strings.Builder
	styled bool
}

// NewListing returns a Listing writing to w. When styled is set, kinds,
// names and text are colored with ANSI sequences.
func NewListing(w io.Writer, styled bool) *Listing {
	l := &Listing{w: w, styled: styled}
	if styled {
		r := lipgloss.NewRenderer(w)
		r.SetColorProfile(termenv.ANSI256)
		l.styles = listingStyles{
			kind:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
			name:   r.NewStyle().Foreground(lipgloss.Color("10")),
			text:   r.NewStyle().Foreground(lipgloss.Color("11")),
			detail: r.NewStyle().Faint(true),
		}
	}
	return l
}

func (l *Listing) paint(s lipgloss.Style, text string) string {
	if !l.styled {
		return text
	}
	return s.Render(text)
}

// WriteEvent writes ev as a single line.
func (l *Listing) WriteEvent(ev xmlevent.Event) error {
	st := &l.styles
	l.buf.Reset()
	l.buf.WriteString(l.paint(st.kind, ev.Kind.String()))
	switch ev.Kind {
	case xmlevent.KindStartDocument:
		l.buf.WriteString(" ")
		l.buf.WriteString(l.paint(st.detail, "version="+ev.Decl.Version+" encoding="+ev.Decl.Encoding))
		if ev.Decl.Standalone != xmlevent.StandaloneUnset {
			l.buf.WriteString(l.paint(st.detail, " standalone="+ev.Decl.Standalone.String()))
		}
	case xmlevent.KindStartElement:
		l.buf.WriteString(" ")
		l.buf.WriteString(l.paint(st.name, ev.Name.String()))
		for _, attr := range ev.Attrs {
			l.buf.WriteString(" ")
			l.buf.WriteString(l.paint(st.detail, attr.Name.String()+"="+quote(attr.Value)))
		}
	case xmlevent.KindEndElement:
		l.buf.WriteString(" ")
		l.buf.WriteString(l.paint(st.name, ev.Name.String()))
	case xmlevent.KindProcessingInstruction:
		l.buf.WriteString(" ")
		l.buf.WriteString(l.paint(st.name, ev.Name.String()))
		l.buf.WriteString(" ")
		l.buf.WriteString(l.paint(st.text, quote(ev.Text)))
	case xmlevent.KindCharacters, xmlevent.KindWhitespace, xmlevent.KindCData,
		xmlevent.KindComment, xmlevent.KindDoctype:
		l.buf.WriteString(" ")
		l.buf.WriteString(l.paint(st.text, quote(ev.Text)))
	}
	l.buf.WriteByte('\n')
	_, err := io.WriteString(l.w, l.buf.String())
	return err
}

// Flush is a no-op; every line is written as it is rendered.
func (l *Listing) Flush() error {
	return nil
}

func quote(text []byte) string {
	return fmt.Sprintf("%q", text)
}
