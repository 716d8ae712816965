package engine

import (
	"context"
)

// Stream is the lazily-produced event sequence of one run. Events are
// delivered as the run makes them, not collected up front; a builder that
// produces an artifact blocks until the consumer has taken it. The channel
// closes when the run ends. The caller must drain Events or cancel the run
// context, otherwise the run goroutine stays blocked on its next event.
type Stream struct {
	events chan Event
	err    error
}

func newStream() *Stream {
	return &Stream{events: make(chan Event)}
}

// Events returns the event channel. It closes when the run is over.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Err reports how the run ended. It must only be called after Events has
// closed; before that the result is unspecified.
func (s *Stream) Err() error {
	return s.err
}

// emit delivers one event, giving up when ctx is canceled so abandoned
// runs unwind instead of blocking forever.
func (s *Stream) emit(ctx context.Context, ev Event) error {
	select {
	case s.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close finalizes the stream. The error store happens before the channel
// close, so readers that observe the close see the final error.
func (s *Stream) close(err error) {
	s.err = err
	close(s.events)
}
