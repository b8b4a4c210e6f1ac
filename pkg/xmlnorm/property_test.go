package xmlnorm

import (
	"math/rand/v2"
	"testing"

	"github.com/jacoelho/xmlpull/pkg/xmlevent"
)

var textPool = []string{"", " ", "\n\t", "a", " b ", "c\n", "  d e  "}
var spacePool = []string{"", " ", "\n", "\t \r\n"}

func randomEvents(rng *rand.Rand, n int) []xmlevent.Event {
	events := make([]xmlevent.Event, 0, n)
	for range n {
		switch rng.IntN(8) {
		case 0:
			events = append(events, xmlevent.StartElement("e"))
		case 1:
			events = append(events, xmlevent.EndElement("e"))
		case 2, 3:
			events = append(events, xmlevent.Characters(textPool[rng.IntN(len(textPool))]))
		case 4:
			events = append(events, xmlevent.Whitespace(spacePool[rng.IntN(len(spacePool))]))
		case 5:
			events = append(events, xmlevent.CData(textPool[rng.IntN(len(textPool))]))
		case 6:
			events = append(events, xmlevent.Comment("c"))
		default:
			events = append(events, xmlevent.Event{Kind: xmlevent.KindProcessingInstruction, Name: xmlevent.Name{Local: "p"}})
		}
	}
	return events
}

func allConfigs() []Config {
	configs := make([]Config, 0, 32)
	for mask := range 32 {
		configs = append(configs, Config{
			trimWhitespace:            mask&1 != 0,
			whitespaceToCharacters:    mask&2 != 0,
			cdataToCharacters:         mask&4 != 0,
			ignoreComments:            mask&8 != 0,
			mergeSequentialCharacters: mask&16 != 0,
		})
	}
	return configs
}

func checkInvariants(t *testing.T, cfg Config, in, out []xmlevent.Event) {
	t.Helper()
	for i, ev := range out {
		switch ev.Kind {
		case xmlevent.KindComment:
			if cfg.ignoreComments {
				t.Fatalf("%v: comment emitted at %d for %q", cfg, i, render(in))
			}
		case xmlevent.KindWhitespace:
			if cfg.whitespaceToCharacters {
				t.Fatalf("%v: whitespace emitted at %d for %q", cfg, i, render(in))
			}
		case xmlevent.KindCData:
			if cfg.cdataToCharacters {
				t.Fatalf("%v: CDATA emitted at %d for %q", cfg, i, render(in))
			}
		case xmlevent.KindCharacters:
			if len(ev.Text) == 0 {
				t.Fatalf("%v: empty characters at %d for %q", cfg, i, render(in))
			}
			if cfg.mergeSequentialCharacters && i > 0 && out[i-1].Kind == xmlevent.KindCharacters {
				t.Fatalf("%v: adjacent characters at %d: %q", cfg, i, render(out))
			}
		}
	}
}

// textContent concatenates the character content of all text-bearing events.
func textContent(events []xmlevent.Event) string {
	var buf []byte
	for _, ev := range events {
		if ev.Kind.IsText() {
			buf = append(buf, ev.Text...)
		}
	}
	return string(buf)
}

func structure(events []xmlevent.Event) []xmlevent.Kind {
	var kinds []xmlevent.Kind
	for _, ev := range events {
		switch ev.Kind {
		case xmlevent.KindStartElement, xmlevent.KindEndElement, xmlevent.KindProcessingInstruction:
			kinds = append(kinds, ev.Kind)
		}
	}
	return kinds
}

func TestNormalizeProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for iter := range 300 {
		in := randomEvents(rng, 1+iter%24)
		for _, cfg := range allConfigs() {
			out, err := Normalize(in, cfg)
			if err != nil {
				t.Fatalf("Normalize error = %v", err)
			}
			checkInvariants(t, cfg, in, out)

			again, err := Normalize(out, cfg)
			if err != nil {
				t.Fatalf("second Normalize error = %v", err)
			}
			if len(again) != len(out) {
				t.Fatalf("%v: not idempotent: %q -> %q", cfg, render(out), render(again))
			}
			for i := range out {
				if !xmlevent.Equal(out[i], again[i]) {
					t.Fatalf("%v: not idempotent at %d: %q -> %q", cfg, i, render(out), render(again))
				}
			}

			if !cfg.trimWhitespace {
				if got, want := textContent(out), textContent(in); got != want {
					t.Fatalf("%v: text content = %q, want %q", cfg, got, want)
				}
			}
			if got, want := structure(out), structure(in); len(got) != len(want) {
				t.Fatalf("%v: structure changed: %v -> %v", cfg, want, got)
			}
		}
	}
}

func TestWhitespaceConversionKeepsText(t *testing.T) {
	cfg := NewConfig().WithWhitespaceToCharacters(true).WithMergeSequentialCharacters(false)
	for _, ws := range spacePool[1:] {
		out, err := Normalize([]xmlevent.Event{xmlevent.Whitespace(ws)}, cfg)
		if err != nil {
			t.Fatalf("Normalize error = %v", err)
		}
		if len(out) != 1 || out[0].Kind != xmlevent.KindCharacters || string(out[0].Text) != ws {
			t.Fatalf("Normalize(Whitespace(%q)) = %q, want Characters(%q)", ws, render(out), ws)
		}
	}
}
