package xmlnorm

import (
	"bytes"
	"errors"
	"io"

	"github.com/jacoelho/xmlpull/pkg/xmlevent"
)

var errNilSource = errors.New("nil event source")

// Source is a pull source of raw events.
// It returns io.EOF once the stream is exhausted.
type Source interface {
	Next() (xmlevent.Event, error)
}

// action is the fate of a raw event after the per-event rules are applied.
type action uint8

const (
	actionEmit action = iota
	actionDrop
	actionText
)

// Normalizer applies a Config to the events of a Source.
//
// Text returned by Next is valid until the following call to Next.
// A Normalizer is not safe for concurrent use.
type Normalizer struct {
	src     Source
	err     error
	text    []byte
	pending xmlevent.Event
	cfg     Config
	// position of the first fragment of the buffered run
	textLine   int
	textColumn int
	buffering  bool
	hasPending bool
}

// New returns a Normalizer reading raw events from src.
func New(src Source, cfg Config) *Normalizer {
	n := &Normalizer{cfg: cfg}
	n.Reset(src)
	return n
}

// Reset discards any buffered state and starts reading from src.
// The configuration is kept.
func (n *Normalizer) Reset(src Source) {
	if n == nil {
		return
	}
	n.src = src
	n.err = nil
	if src == nil {
		n.err = errNilSource
	}
	n.text = n.text[:0]
	n.pending = xmlevent.Event{}
	n.textLine = 0
	n.textColumn = 0
	n.buffering = false
	n.hasPending = false
}

// Config returns the configuration the normalizer applies.
func (n *Normalizer) Config() Config {
	return n.cfg
}

// Next returns the next normalized event.
// It returns io.EOF after the last event; any other source error is returned
// immediately, discarding a pending text run, and every later call repeats it.
func (n *Normalizer) Next() (xmlevent.Event, error) {
	if n == nil {
		return xmlevent.Event{}, errNilSource
	}
	if n.hasPending {
		ev := n.pending
		n.pending = xmlevent.Event{}
		n.hasPending = false
		return ev, nil
	}
	if n.err != nil {
		return xmlevent.Event{}, n.err
	}

	for {
		ev, err := n.src.Next()
		if err != nil {
			return n.fail(err)
		}

		ev, act := n.classify(ev)
		switch act {
		case actionDrop:
			continue
		case actionText:
			if n.cfg.mergeSequentialCharacters {
				n.appendText(ev)
				continue
			}
			if n.cfg.trimWhitespace {
				ev.Text = trimSpace(ev.Text)
			}
			if len(ev.Text) == 0 {
				continue
			}
			return ev, nil
		default:
			if run, ok := n.flush(); ok {
				n.pending = ev
				n.hasPending = true
				return run, nil
			}
			return ev, nil
		}
	}
}

func (n *Normalizer) fail(err error) (xmlevent.Event, error) {
	if errors.Is(err, io.EOF) {
		n.err = io.EOF
		if run, ok := n.flush(); ok {
			return run, nil
		}
		return xmlevent.Event{}, io.EOF
	}
	n.err = err
	n.buffering = false
	n.text = n.text[:0]
	return xmlevent.Event{}, err
}

// classify applies the comment, CDATA and whitespace rules to ev.
// Events reported as actionText have already been retagged as Characters.
func (n *Normalizer) classify(ev xmlevent.Event) (xmlevent.Event, action) {
	switch ev.Kind {
	case xmlevent.KindComment:
		if n.cfg.ignoreComments {
			return ev, actionDrop
		}
		return ev, actionEmit
	case xmlevent.KindCData:
		if !n.cfg.cdataToCharacters {
			return ev, actionEmit
		}
		ev.Kind = xmlevent.KindCharacters
		return ev, actionText
	case xmlevent.KindWhitespace:
		switch {
		case n.cfg.whitespaceToCharacters:
			ev.Kind = xmlevent.KindCharacters
			return ev, actionText
		case n.cfg.trimWhitespace:
			return ev, actionDrop
		default:
			return ev, actionEmit
		}
	case xmlevent.KindCharacters:
		return ev, actionText
	default:
		return ev, actionEmit
	}
}

func (n *Normalizer) appendText(ev xmlevent.Event) {
	if !n.buffering {
		n.text = n.text[:0]
		n.textLine = ev.Line
		n.textColumn = ev.Column
		n.buffering = true
	}
	n.text = append(n.text, ev.Text...)
}

// flush ends the buffered run. Trimming applies to the outer edges of the
// whole run. An empty run reports false.
func (n *Normalizer) flush() (xmlevent.Event, bool) {
	if !n.buffering {
		return xmlevent.Event{}, false
	}
	n.buffering = false
	text := n.text
	if n.cfg.trimWhitespace {
		text = trimSpace(text)
	}
	if len(text) == 0 {
		return xmlevent.Event{}, false
	}
	return xmlevent.Event{
		Kind:   xmlevent.KindCharacters,
		Text:   text,
		Line:   n.textLine,
		Column: n.textColumn,
	}, true
}

// trimSpace removes leading and trailing XML whitespace.
func trimSpace(text []byte) []byte {
	return bytes.Trim(text, " \t\r\n")
}
