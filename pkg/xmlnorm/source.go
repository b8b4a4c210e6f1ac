package xmlnorm

import (
	"errors"
	"io"

	"github.com/jacoelho/xmlpull/pkg/xmlevent"
)

// SliceSource replays an in-memory sequence of events.
type SliceSource struct {
	events []xmlevent.Event
	pos    int
}

// NewSliceSource returns a Source over events. The slice is not copied.
func NewSliceSource(events []xmlevent.Event) *SliceSource {
	return &SliceSource{events: events}
}

// Next returns the next event, or io.EOF when the slice is exhausted.
func (s *SliceSource) Next() (xmlevent.Event, error) {
	if s.pos >= len(s.events) {
		return xmlevent.Event{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// Normalize applies cfg to events and returns the normalized sequence.
// Returned events are cloned and do not alias the input.
func Normalize(events []xmlevent.Event, cfg Config) ([]xmlevent.Event, error) {
	n := New(NewSliceSource(events), cfg)
	out := make([]xmlevent.Event, 0, len(events))
	for {
		ev, err := n.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, ev.Clone())
	}
}
