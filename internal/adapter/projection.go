package adapter

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrArity        = errors.New("adapter: receiver takes more arguments than the emitter provides")
	ErrIncompatible = errors.New("adapter: argument types are not compatible")
)

// MismatchError reports why a projection could not be built
type MismatchError struct {
	Index int
	Have  reflect.Type
	Want  reflect.Type
	Err   error
}

func (e *MismatchError) Error() string {
	if errors.Is(e.Err, ErrArity) {
		return fmt.Sprintf("%v: %v provides %d, %v expects %d", e.Err, e.Have, e.Have.NumIn(), e.Want, e.Want.NumIn())
	}
	return fmt.Sprintf("%v: argument %d is %v, receiver expects %v", e.Err, e.Index, e.Have, e.Want)
}

func (e *MismatchError) Unwrap() error {
	return e.Err
}

// Projection forwards the leading arguments of an emitter call to a receiver.
// It is validated once when built; Apply performs no type checks.
type Projection struct {
	From     *Signature
	To       *Signature
	converts []reflect.Type
}

// Project builds the projection from an emitter signature onto a receiver
// signature. The receiver gets the first To.Arity() emitter arguments, in
// order; the rest are dropped.
func Project(from, to *Signature) (*Projection, error) {
	if to.Arity() > from.Arity() {
		return nil, &MismatchError{Index: from.Arity(), Want: to.Type, Have: from.Type, Err: ErrArity}
	}

	p := &Projection{
		From:     from,
		To:       to,
		converts: make([]reflect.Type, to.Arity()),
	}

	for i, want := range to.Params {
		have := from.Params[i]
		switch {
		case have.AssignableTo(want):
		case isNumeric(have) && isNumeric(want):
			p.converts[i] = want
		default:
			return nil, &MismatchError{Index: i, Have: have, Want: want, Err: ErrIncompatible}
		}
	}

	return p, nil
}

// Width returns the number of forwarded arguments
func (p *Projection) Width() int {
	return len(p.converts)
}

// Apply selects and converts the forwarded arguments into a new slice.
// Numeric conversions follow reflect.Value.Convert and may truncate or wrap.
func (p *Projection) Apply(args []reflect.Value) []reflect.Value {
	out := make([]reflect.Value, len(p.converts))
	for i, conv := range p.converts {
		if conv != nil {
			out[i] = args[i].Convert(conv)
			continue
		}
		out[i] = args[i]
	}
	return out
}

// Coerce turns a dynamically typed argument into a value of type to, using
// the same compatibility rules as Project.
func Coerce(arg interface{}, to reflect.Type) (reflect.Value, error) {
	if arg == nil {
		if nillable(to) {
			return reflect.Zero(to), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil is not a valid %v", ErrIncompatible, to)
	}

	v := reflect.ValueOf(arg)
	switch {
	case v.Type() == to:
		return v, nil
	case v.Type().AssignableTo(to):
		out := reflect.New(to).Elem()
		out.Set(v)
		return out, nil
	case isNumeric(v.Type()) && isNumeric(to):
		return v.Convert(to), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %v is not a valid %v", ErrIncompatible, v.Type(), to)
}

func isNumeric(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
