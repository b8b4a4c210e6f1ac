package xmlpull

import (
	"errors"
	"io"
	"iter"

	"github.com/jacoelho/xmlpull/pkg/xmlevent"
	"github.com/jacoelho/xmlpull/pkg/xmllex"
	"github.com/jacoelho/xmlpull/pkg/xmlnorm"
)

var errNilReader = errors.New("nil XML reader")

// Reader streams normalized XML events.
// A Reader is not safe for concurrent use.
type Reader struct {
	lex  *xmllex.Lexer
	norm *xmlnorm.Normalizer
	opts []xmllex.Options
}

// NewReader returns a Reader over r that applies cfg to the raw events.
func NewReader(r io.Reader, cfg xmlnorm.Config, opts ...xmllex.Options) (*Reader, error) {
	if r == nil {
		return nil, errNilReader
	}
	lex := xmllex.New(r, opts...)
	return &Reader{
		lex:  lex,
		norm: xmlnorm.New(lex, cfg),
		opts: opts,
	}, nil
}

// Reset prepares the reader for a new input, keeping configuration and options.
func (r *Reader) Reset(src io.Reader) error {
	if r == nil || src == nil {
		return errNilReader
	}
	r.lex.Reset(src, r.opts...)
	r.norm.Reset(r.lex)
	return nil
}

// Next returns the next normalized event, or io.EOF at end of document.
// Syntax errors are reported as *xmllex.SyntaxError.
func (r *Reader) Next() (xmlevent.Event, error) {
	if r == nil || r.norm == nil {
		return xmlevent.Event{}, errNilReader
	}
	return r.norm.Next()
}

// All returns an iterator over the remaining events.
// It stops at end of document; any other error is yielded once and ends
// the iteration.
func (r *Reader) All() iter.Seq2[xmlevent.Event, error] {
	return func(yield func(xmlevent.Event, error) bool) {
		for {
			ev, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(xmlevent.Event{}, err)
				return
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// Config returns the normalization options the reader applies.
func (r *Reader) Config() xmlnorm.Config {
	if r == nil || r.norm == nil {
		return xmlnorm.Config{}
	}
	return r.norm.Config()
}

// CurrentPos returns the line and column of the most recent raw event.
func (r *Reader) CurrentPos() (line, column int) {
	if r == nil {
		return 0, 0
	}
	return r.lex.CurrentPos()
}

// InputOffset returns the number of input bytes consumed.
func (r *Reader) InputOffset() int64 {
	if r == nil {
		return 0
	}
	return r.lex.InputOffset()
}

// ReadAll reads every normalized event from src.
// Returned events are cloned. On error the events read so far are returned.
func ReadAll(src io.Reader, cfg xmlnorm.Config, opts ...xmllex.Options) ([]xmlevent.Event, error) {
	r, err := NewReader(src, cfg, opts...)
	if err != nil {
		return nil, err
	}
	var events []xmlevent.Event
	for ev, err := range r.All() {
		if err != nil {
			return events, err
		}
		events = append(events, ev.Clone())
	}
	return events, nil
}
