package xmlpull

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/jacoelho/xmlpull/pkg/xmlevent"
	"github.com/jacoelho/xmlpull/pkg/xmllex"
	"github.com/jacoelho/xmlpull/pkg/xmlnorm"
)

func readStrings(t *testing.T, doc string, cfg xmlnorm.Config) []string {
	t.Helper()
	events, err := ReadAll(strings.NewReader(doc), cfg)
	if err != nil {
		t.Fatalf("ReadAll error = %v", err)
	}
	var out []string
	for _, ev := range events {
		switch ev.Kind {
		case xmlevent.KindStartDocument, xmlevent.KindEndDocument:
			continue
		}
		out = append(out, ev.String())
	}
	return out
}

func TestReaderOptionScenarios(t *testing.T) {
	padded := `<r>  <!--a-->hi<!--b-->  </r>`
	tests := []struct {
		name string
		doc  string
		cfg  xmlnorm.Config
		want []string
	}{
		{
			name: "defaults keep whitespace events",
			doc:  padded,
			cfg:  xmlnorm.NewConfig(),
			want: []string{"StartElement(r)", `Whitespace("  ")`, `Characters("hi")`, `Whitespace("  ")`, "EndElement(r)"},
		},
		{
			name: "whitespace to characters merges",
			doc:  padded,
			cfg:  xmlnorm.NewConfig().WithWhitespaceToCharacters(true),
			want: []string{"StartElement(r)", `Characters("  hi  ")`, "EndElement(r)"},
		},
		{
			name: "merged run trimmed",
			doc:  padded,
			cfg:  xmlnorm.NewConfig().WithWhitespaceToCharacters(true).WithTrimWhitespace(true),
			want: []string{"StartElement(r)", `Characters("hi")`, "EndElement(r)"},
		},
		{
			name: "comments kept separate text",
			doc:  padded,
			cfg:  xmlnorm.NewConfig().WithIgnoreComments(false).WithWhitespaceToCharacters(true),
			want: []string{"StartElement(r)", `Characters("  ")`, `Comment("a")`, `Characters("hi")`, `Comment("b")`, `Characters("  ")`, "EndElement(r)"},
		},
		{
			name: "comment drop joins text",
			doc:  `<r>a<!--x-->b</r>`,
			cfg:  xmlnorm.NewConfig(),
			want: []string{"StartElement(r)", `Characters("ab")`, "EndElement(r)"},
		},
		{
			name: "standalone whitespace removed",
			doc:  `<r><!--x-->   <!--y--></r>`,
			cfg:  xmlnorm.NewConfig().WithTrimWhitespace(true),
			want: []string{"StartElement(r)", "EndElement(r)"},
		},
		{
			name: "cdata merged with text",
			doc:  `<r>x = <![CDATA[a<b]]>;</r>`,
			cfg:  xmlnorm.NewConfig().WithCDataToCharacters(true),
			want: []string{"StartElement(r)", `Characters("x = a<b;")`, "EndElement(r)"},
		},
		{
			name: "indented document trimmed",
			doc:  "<list>\n  <item> a </item>\n  <item>b</item>\n</list>",
			cfg:  xmlnorm.NewConfig().WithTrimWhitespace(true),
			want: []string{
				"StartElement(list)",
				"StartElement(item)", `Characters("a")`, "EndElement(item)",
				"StartElement(item)", `Characters("b")`, "EndElement(item)",
				"EndElement(list)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readStrings(t, tt.doc, tt.cfg)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("events = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReaderDocumentEvents(t *testing.T) {
	events, err := ReadAll(strings.NewReader(`<?xml version="1.0" encoding="UTF-8"?><r/>`), xmlnorm.NewConfig())
	if err != nil {
		t.Fatalf("ReadAll error = %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	if events[0].Kind != xmlevent.KindStartDocument || events[0].Decl.Version != "1.0" {
		t.Fatalf("first event = %v %+v, want StartDocument 1.0", events[0].Kind, events[0].Decl)
	}
	if events[3].Kind != xmlevent.KindEndDocument {
		t.Fatalf("last event = %v, want EndDocument", events[3].Kind)
	}
}

func TestReaderSyntaxErrorPassesThrough(t *testing.T) {
	events, err := ReadAll(strings.NewReader(`<r>text<!--c--></s>`), xmlnorm.NewConfig())
	var syntax *xmllex.SyntaxError
	if !errors.As(err, &syntax) {
		t.Fatalf("error = %v, want *xmllex.SyntaxError", err)
	}
	for _, ev := range events {
		if ev.Kind == xmlevent.KindCharacters {
			t.Fatalf("pending text emitted after error: %v", ev)
		}
	}
}

func TestReaderAllStopsEarly(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<r><a/><b/></r>`), xmlnorm.NewConfig())
	if err != nil {
		t.Fatalf("NewReader error = %v", err)
	}
	count := 0
	for _, err := range r.All() {
		if err != nil {
			t.Fatalf("All error = %v", err)
		}
		count++
		if count == 2 {
			break
		}
	}
	ev, err := r.Next()
	if err != nil {
		t.Fatalf("Next error = %v", err)
	}
	if ev.Kind != xmlevent.KindStartElement || ev.Name.Local != "a" {
		t.Fatalf("event after break = %v, want StartElement(a)", ev)
	}
}

func TestReaderAllYieldsErrorOnce(t *testing.T) {
	r, err := NewReader(strings.NewReader(`<r>`), xmlnorm.NewConfig())
	if err != nil {
		t.Fatalf("NewReader error = %v", err)
	}
	errs := 0
	for _, err := range r.All() {
		if err != nil {
			errs++
		}
	}
	if errs != 1 {
		t.Fatalf("errors yielded = %d, want 1", errs)
	}
}

func TestReaderResetAndAccessors(t *testing.T) {
	cfg := xmlnorm.NewConfig().WithTrimWhitespace(true)
	r, err := NewReader(strings.NewReader(`<bad`), cfg, xmllex.MaxDepth(4))
	if err != nil {
		t.Fatalf("NewReader error = %v", err)
	}
	if r.Config() != cfg {
		t.Fatalf("Config() = %v, want %v", r.Config(), cfg)
	}
	for _, err = range r.All() {
	}
	if err == nil {
		t.Fatalf("malformed input error = nil, want error")
	}
	if err := r.Reset(strings.NewReader("<good>\n <x/></good>")); err != nil {
		t.Fatalf("Reset error = %v", err)
	}
	var names []string
	for ev, err := range r.All() {
		if err != nil {
			t.Fatalf("All error = %v", err)
		}
		if ev.Kind == xmlevent.KindStartElement {
			names = append(names, ev.Name.Local)
		}
		if ev.Name.Local == "x" {
			if line, _ := r.CurrentPos(); line != 2 {
				t.Fatalf("CurrentPos line = %d, want 2", line)
			}
		}
	}
	if !slices.Equal(names, []string{"good", "x"}) {
		t.Fatalf("names = %q, want [good x]", names)
	}
	if r.InputOffset() == 0 {
		t.Fatalf("InputOffset = 0, want > 0")
	}
}

func TestReaderNil(t *testing.T) {
	if _, err := NewReader(nil, xmlnorm.NewConfig()); !errors.Is(err, errNilReader) {
		t.Fatalf("NewReader(nil) error = %v, want %v", err, errNilReader)
	}
	var r *Reader
	if _, err := r.Next(); !errors.Is(err, errNilReader) {
		t.Fatalf("nil Next error = %v, want %v", err, errNilReader)
	}
	if err := r.Reset(strings.NewReader("<r/>")); !errors.Is(err, errNilReader) {
		t.Fatalf("nil Reset error = %v, want %v", err, errNilReader)
	}
}
