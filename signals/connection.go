package signals

import (
	"reflect"

	"github.com/glimte/meta-go/internal/adapter"
	"github.com/glimte/meta-go/journal"
)

// Connection is a handle to one signal-to-receiver link. It does not own the
// link; the Registry does. A handle outliving its link simply reports
// Connected() == false.
type Connection struct {
	reg  *Registry
	id   ConnID
	mode Mode
}

// ID returns the connection identity in its registry
func (c *Connection) ID() ConnID {
	return c.id
}

// Mode returns the dispatch mode
func (c *Connection) Mode() Mode {
	return c.mode
}

// Connected reports whether the link is still registered
func (c *Connection) Connected() bool {
	return c.reg.lookup(c.id) != nil
}

// Disconnect removes the link from its signal and, if present, its slot.
// It returns false, with no side effects, if the link was already removed.
//
// Calling Disconnect from inside a delivery of the same signal is allowed:
// the link is not invoked again, and if its turn in the running emission has
// not come yet it is skipped.
func (c *Connection) Disconnect() bool {
	return c.reg.remove(c.id, journal.EntryDisconnect)
}

// Connect links sig to slot. The slot receives the leading arguments of each
// emission, so its callable may take fewer parameters than the signal emits;
// the parameter types of that prefix are checked here, before any dispatch.
// Numeric parameters of different types are accepted and converted as a Go
// conversion would: float to int truncates toward zero, and a value out of
// range for a narrower or unsigned type wraps.
//
// In Direct mode the slot's callable runs during the emission. In Delayed
// mode the projected arguments are queued on the slot until Slot.DoWork.
func Connect[E, R any](sig *Signal[E], slot *Slot[R], mode Mode) (*Connection, error) {
	if sig == nil || slot == nil {
		return nil, ErrNilEndpoint
	}
	if sig.reg != slot.reg {
		return nil, ErrRegistryMismatch
	}
	if sig.closed || slot.closed {
		return nil, ErrClosed
	}

	proj, err := adapter.Project(sig.sig, slot.sig)
	if err != nil {
		return nil, &SignatureError{Op: "connect", Emitter: sig.name, Receiver: slot.name, Err: err}
	}

	var dispatch func([]reflect.Value)
	switch mode {
	case Direct:
		dispatch = func(args []reflect.Value) {
			slot.invoke(proj.Apply(args))
		}
	case Delayed:
		dispatch = func(args []reflect.Value) {
			slot.enqueue(proj.Apply(args))
		}
	default:
		return nil, ErrInvalidMode
	}

	id := sig.reg.register(&sig.endpoint, &slot.endpoint, mode, dispatch)
	return &Connection{reg: sig.reg, id: id, mode: mode}, nil
}

// ConnectFunc links sig directly to fn. There is no slot, so the link is
// always Direct and is held only by the signal.
func ConnectFunc[E, R any](sig *Signal[E], fn R) (*Connection, error) {
	if sig == nil {
		return nil, ErrNilEndpoint
	}
	if sig.closed {
		return nil, ErrClosed
	}

	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || (fv.Kind() == reflect.Func && fv.IsNil()) {
		return nil, ErrNilCallable
	}

	target, err := adapter.SignatureOf(fv.Type())
	if err != nil {
		return nil, &SignatureError{Op: "connect", Emitter: sig.name, Receiver: fv.Type().String(), Err: err}
	}

	proj, err := adapter.Project(sig.sig, target)
	if err != nil {
		return nil, &SignatureError{Op: "connect", Emitter: sig.name, Receiver: target.String(), Err: err}
	}

	dispatch := func(args []reflect.Value) {
		fv.Call(proj.Apply(args))
	}

	id := sig.reg.register(&sig.endpoint, nil, Direct, dispatch)
	return &Connection{reg: sig.reg, id: id, mode: Direct}, nil
}
