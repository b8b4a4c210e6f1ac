package xmlevent

import "testing"

func TestNameString(t *testing.T) {
	if got := (Name{Local: "root"}).String(); got != "root" {
		t.Fatalf("Name.String() = %q, want root", got)
	}
	if got := (Name{Prefix: "xs", Local: "element"}).String(); got != "xs:element" {
		t.Fatalf("Name.String() = %q, want xs:element", got)
	}
}

func TestEventCloneDetaches(t *testing.T) {
	text := []byte("hello")
	value := []byte("1")
	ev := Event{
		Kind:  KindStartElement,
		Name:  Name{Local: "a"},
		Attrs: []Attr{{Name: Name{Local: "x"}, Value: value}},
		Text:  text,
	}
	clone := ev.Clone()
	text[0] = 'J'
	value[0] = '2'
	if string(clone.Text) != "hello" {
		t.Fatalf("clone text = %q, want hello", clone.Text)
	}
	if string(clone.Attrs[0].Value) != "1" {
		t.Fatalf("clone attr = %q, want 1", clone.Attrs[0].Value)
	}
}

func TestEqualIgnoresPosition(t *testing.T) {
	a := Characters("hi")
	b := Characters("hi")
	b.Line, b.Column = 4, 2
	if !Equal(a, b) {
		t.Fatalf("Equal(%v, %v) = false, want true", a, b)
	}
	if Equal(a, Whitespace("hi")) {
		t.Fatalf("Equal across kinds = true, want false")
	}
	x := StartElement("a", Attr{Name: Name{Local: "k"}, Value: []byte("1")})
	y := StartElement("a", Attr{Name: Name{Local: "k"}, Value: []byte("2")})
	if Equal(x, y) {
		t.Fatalf("Equal with different attribute values = true, want false")
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Characters("hi"), `Characters("hi")`},
		{Whitespace("\n"), `Whitespace("\n")`},
		{StartElement("root"), "StartElement(root)"},
		{EndElement("root"), "EndElement(root)"},
		{Event{Kind: KindProcessingInstruction, Name: Name{Local: "pi"}, Text: []byte("x")}, `ProcessingInstruction(pi, "x")`},
		{Event{Kind: KindEndDocument}, "EndDocument"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStandaloneString(t *testing.T) {
	if StandaloneUnset.String() != "" || StandaloneYes.String() != "yes" || StandaloneNo.String() != "no" {
		t.Fatalf("Standalone strings = %q %q %q", StandaloneUnset, StandaloneYes, StandaloneNo)
	}
}
