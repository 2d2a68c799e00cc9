package signals

import (
	"fmt"

	"github.com/glimte/meta-go/internal/adapter"
)

const funcReceiver = "func"

// endpoint is the state shared by signals and slots: the registry they
// belong to and the IDs of the connections they take part in.
type endpoint struct {
	reg    *Registry
	name   string
	sig    *adapter.Signature
	conns  connSet
	closed bool
}

func newEndpoint(r *Registry, kind string, sig *adapter.Signature, opts []EndpointOption) endpoint {
	e := endpoint{
		reg:  r,
		name: fmt.Sprintf("%s(%s)", kind, sig),
		sig:  sig,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func (e *endpoint) label() string {
	if e == nil {
		return funcReceiver
	}
	return e.name
}

// Name returns the endpoint label
func (e *endpoint) Name() string {
	return e.name
}

// NumConnections returns the number of connections this endpoint takes part in
func (e *endpoint) NumConnections() int {
	return e.conns.len()
}

// Closed reports whether the endpoint has been closed
func (e *endpoint) Closed() bool {
	return e.closed
}

// connSet keeps connection IDs in registration order
type connSet struct {
	ids []ConnID
}

func (s *connSet) add(id ConnID) {
	s.ids = append(s.ids, id)
}

func (s *connSet) remove(id ConnID) bool {
	for i, v := range s.ids {
		if v == id {
			copy(s.ids[i:], s.ids[i+1:])
			s.ids = s.ids[:len(s.ids)-1]
			return true
		}
	}
	return false
}

func (s *connSet) len() int {
	return len(s.ids)
}

func (s *connSet) snapshot() []ConnID {
	if len(s.ids) == 0 {
		return nil
	}
	out := make([]ConnID, len(s.ids))
	copy(out, s.ids)
	return out
}
