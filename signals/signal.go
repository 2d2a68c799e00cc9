package signals

import (
	"fmt"
	"reflect"

	"github.com/glimte/meta-go/internal/adapter"
)

// Signal is a broadcast endpoint. F is the function type describing the
// emitted arguments, e.g. Signal[func(string, int)].
type Signal[F any] struct {
	endpoint
	emitter F
}

// NewSignal creates a signal on r. F must be a non-variadic function type
// without results.
func NewSignal[F any](r *Registry, opts ...EndpointOption) (*Signal[F], error) {
	if r == nil {
		return nil, ErrNilRegistry
	}

	sig, err := adapter.SignatureFor[F]()
	if err == nil && sig.HasResults() {
		err = fmt.Errorf("%w: %v", adapter.ErrHasResult, sig.Type)
	}
	if err != nil {
		var zero F
		return nil, &SignatureError{Op: "signal", Emitter: fmt.Sprintf("%T", zero), Err: err}
	}

	s := &Signal[F]{endpoint: newEndpoint(r, "signal", sig, opts)}
	fn := reflect.MakeFunc(sig.Type, func(args []reflect.Value) []reflect.Value {
		s.emit(args)
		return nil
	})
	s.emitter = fn.Interface().(F)

	return s, nil
}

// MustSignal works like NewSignal, but panics if there's an error.
func MustSignal[F any](r *Registry, opts ...EndpointOption) *Signal[F] {
	s, err := NewSignal[F](r, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Emitter returns a function of type F that emits the signal when called.
// Calling it after Close does nothing.
func (s *Signal[F]) Emitter() F {
	return s.emitter
}

// Emit emits the signal with dynamically typed arguments. Numeric arguments
// are converted to the declared parameter type.
func (s *Signal[F]) Emit(args ...interface{}) error {
	if s.closed {
		return ErrClosed
	}
	if len(args) != s.sig.Arity() {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArgumentMismatch, s.name, s.sig.Arity(), len(args))
	}

	values := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := adapter.Coerce(arg, s.sig.Params[i])
		if err != nil {
			return fmt.Errorf("%w: argument %d: %v", ErrArgumentMismatch, i, err)
		}
		values[i] = v
	}

	s.emit(values)
	return nil
}

func (s *Signal[F]) emit(args []reflect.Value) {
	if s.closed {
		return
	}
	s.reg.emit(&s.endpoint, args)
}

// Close destroys the signal. Every connection it still holds is removed from
// its slot; no deliveries run. Close is idempotent.
func (s *Signal[F]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.reg.teardown(&s.endpoint)
}
