// Package property provides observable values built on signals.
//
// A Property holds a value, emits Changed whenever the value is assigned,
// and exposes Set as a slot so other signals can drive it:
//
//	width := property.MustComparable(registry, 640, property.WithName("width"))
//	signals.Connect(resized, width.Set, signals.Direct)
package property

import (
	"fmt"
	"reflect"

	"github.com/glimte/meta-go/signals"
)

// Option configures a Property
type Option func(*options)

type options struct {
	name string
}

// WithName labels the property's endpoints as "<name>.changed" and "<name>.set"
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Property is a value that announces its changes
type Property[T any] struct {
	value    T
	name     string
	equal    func(a, b T) bool
	emitting bool
	emitted  bool
	last     T

	Changed *signals.Signal[func(T)]
	Set     *signals.Slot[func(T)]
}

// New creates a property holding initial. Every Assign emits Changed.
func New[T any](r *signals.Registry, initial T, opts ...Option) (*Property[T], error) {
	return newProperty(r, initial, nil, opts)
}

// NewComparable creates a property that only emits Changed when the assigned
// value differs from the current one.
func NewComparable[T comparable](r *signals.Registry, initial T, opts ...Option) (*Property[T], error) {
	return newProperty(r, initial, func(a, b T) bool { return a == b }, opts)
}

// Must works like New, but panics if there's an error.
func Must[T any](r *signals.Registry, initial T, opts ...Option) *Property[T] {
	p, err := New(r, initial, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// MustComparable works like NewComparable, but panics if there's an error.
func MustComparable[T comparable](r *signals.Registry, initial T, opts ...Option) *Property[T] {
	p, err := NewComparable(r, initial, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func newProperty[T any](r *signals.Registry, initial T, equal func(a, b T) bool, opts []Option) (*Property[T], error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name == "" {
		o.name = fmt.Sprintf("property(%v)", reflect.TypeOf((*T)(nil)).Elem())
	}

	changed, err := signals.NewSignal[func(T)](r, signals.WithName(o.name+".changed"))
	if err != nil {
		return nil, fmt.Errorf("failed to create changed signal: %w", err)
	}
	set, err := signals.NewSlot[func(T)](r, signals.WithName(o.name+".set"))
	if err != nil {
		changed.Close()
		return nil, fmt.Errorf("failed to create set slot: %w", err)
	}

	p := &Property[T]{
		value:   initial,
		name:    o.name,
		equal:   equal,
		Changed: changed,
		Set:     set,
	}
	set.SetCallable(p.receive)

	return p, nil
}

// Name returns the property label
func (p *Property[T]) Name() string {
	return p.name
}

// Get returns the current value
func (p *Property[T]) Get() T {
	return p.value
}

// Assign stores v and emits Changed(v). An assignment made by a receiver
// while Changed is being emitted is stored but not re-emitted, so a property
// wired back to itself does not recurse. With Delayed wiring, Set drops the
// echo of the last emitted value; see receive.
func (p *Property[T]) Assign(v T) T {
	return p.assign(v)
}

// receive is the Set callable. A value equal to the one Changed last emitted
// is stored without emitting again, which ends Delayed cycles through Set.
func (p *Property[T]) receive(v T) {
	if p.emitted && p.same(p.last, v) {
		p.value = v
		return
	}
	p.assign(v)
}

func (p *Property[T]) same(a, b T) bool {
	if p.equal != nil {
		return p.equal(a, b)
	}
	return reflect.DeepEqual(a, b)
}

func (p *Property[T]) assign(v T) T {
	if p.equal != nil && p.equal(p.value, v) {
		return p.value
	}

	p.value = v
	if p.emitting {
		return v
	}

	p.emitting = true
	p.emitted = true
	p.last = v
	defer func() { p.emitting = false }()
	p.Changed.Emitter()(v)

	return p.value
}

// Close destroys both endpoints, removing every connection they hold
func (p *Property[T]) Close() {
	p.Changed.Close()
	p.Set.Close()
}
