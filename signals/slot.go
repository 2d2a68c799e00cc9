package signals

import (
	"fmt"
	"reflect"

	"github.com/glimte/meta-go/internal/adapter"
)

// Slot is a receive endpoint. It holds one callable of type F and a FIFO
// queue of argument tuples delivered by delayed connections.
type Slot[F any] struct {
	endpoint
	callable reflect.Value
	queue    [][]reflect.Value
}

// NewSlot creates a slot on r. F must be a non-variadic function type; any
// results it returns are ignored.
func NewSlot[F any](r *Registry, opts ...EndpointOption) (*Slot[F], error) {
	if r == nil {
		return nil, ErrNilRegistry
	}

	sig, err := adapter.SignatureFor[F]()
	if err != nil {
		var zero F
		return nil, &SignatureError{Op: "slot", Receiver: fmt.Sprintf("%T", zero), Err: err}
	}

	return &Slot[F]{endpoint: newEndpoint(r, "slot", sig, opts)}, nil
}

// MustSlot works like NewSlot, but panics if there's an error.
func MustSlot[F any](r *Registry, opts ...EndpointOption) *Slot[F] {
	s, err := NewSlot[F](r, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// SetCallable installs fn, replacing any previous callable. Queued entries
// are kept and will be delivered to fn. A nil fn clears the callable.
func (s *Slot[F]) SetCallable(fn F) {
	v := reflect.ValueOf(fn)
	if v.IsValid() && v.IsNil() {
		v = reflect.Value{}
	}
	s.callable = v
}

// Pending returns the number of queued argument tuples
func (s *Slot[F]) Pending() int {
	return len(s.queue)
}

// DoWork drains the queue in FIFO order, calling the callable once per
// entry. Each entry is dequeued before its call, and entries queued by those
// calls are drained too. It returns the number of entries delivered.
func (s *Slot[F]) DoWork() int {
	n := 0
	for len(s.queue) > 0 && !s.closed {
		args := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.reg.stats.Drained++

		s.invoke(args)
		n++
	}
	if len(s.queue) == 0 {
		s.queue = nil
	}
	return n
}

func (s *Slot[F]) invoke(args []reflect.Value) {
	if s.closed {
		return
	}
	if !s.callable.IsValid() {
		s.reg.logger.Debug("slot has no callable", "slot", s.name)
		return
	}
	s.callable.Call(args)
}

func (s *Slot[F]) enqueue(args []reflect.Value) {
	if s.closed {
		return
	}
	s.queue = append(s.queue, args)
	s.reg.stats.Enqueued++
}

// Close destroys the slot. Every connection it still holds is removed from
// its signal, and queued entries are dropped without being delivered. Close
// is idempotent.
func (s *Slot[F]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.reg.teardown(&s.endpoint)

	if n := len(s.queue); n > 0 {
		s.queue = nil
		s.reg.dropped(&s.endpoint, n)
	}
}
