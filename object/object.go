// Package object groups named properties and batches their change
// notifications.
//
// Each registered property's Changed signal is connected to a delayed slot
// owned by the Object, so assignments only mark the property as changed.
// Flush drains those slots and emits Object.Changed once with the names of
// every property that changed since the previous flush:
//
//	obj := object.MustNew(registry, object.WithName("window"))
//	object.Register(obj, "width", width)
//	object.Register(obj, "height", height)
//
//	width.Assign(800)
//	height.Assign(600)
//	obj.Flush() // Changed([]string{"width", "height"})
package object

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/glimte/meta-go/property"
	"github.com/glimte/meta-go/signals"
)

var (
	ErrEmptyName         = errors.New("object: property name cannot be empty")
	ErrNilProperty       = errors.New("object: property cannot be nil")
	ErrDuplicateProperty = errors.New("object: property already registered")
	ErrUnknownProperty   = errors.New("object: unknown property")
	ErrPropertyType      = errors.New("object: property has a different type")
)

// drain is the type-independent view of a per-property delayed slot
type drain interface {
	DoWork() int
	Pending() int
	Close()
}

type binding struct {
	prop interface{}
	slot drain
	conn *signals.Connection
}

// Object aggregates named properties
type Object struct {
	reg      *signals.Registry
	name     string
	logger   *slog.Logger
	props    map[string]*binding
	order    []string
	dirty    []string
	dirtySet map[string]struct{}
	closed   bool

	Changed *signals.Signal[func([]string)]
}

// Option configures an Object
type Option func(*Object)

// WithName labels the object's endpoints
func WithName(name string) Option {
	return func(o *Object) {
		o.name = name
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Object) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an empty object on r
func New(r *signals.Registry, opts ...Option) (*Object, error) {
	o := &Object{
		reg:      r,
		name:     "object",
		logger:   slog.Default(),
		props:    make(map[string]*binding),
		dirtySet: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(o)
	}

	changed, err := signals.NewSignal[func([]string)](r, signals.WithName(o.name+".changed"))
	if err != nil {
		return nil, fmt.Errorf("failed to create changed signal: %w", err)
	}
	o.Changed = changed

	return o, nil
}

// MustNew works like New, but panics if there's an error.
func MustNew(r *signals.Registry, opts ...Option) *Object {
	o, err := New(r, opts...)
	if err != nil {
		panic(err)
	}
	return o
}

// Register adds p under name. Its changes are batched until Flush.
func Register[T any](o *Object, name string, p *property.Property[T]) error {
	if o.closed {
		return signals.ErrClosed
	}
	if name == "" {
		return ErrEmptyName
	}
	if p == nil {
		return ErrNilProperty
	}
	if _, exists := o.props[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProperty, name)
	}

	slot, err := signals.NewSlot[func(T)](o.reg, signals.WithName(o.name+"."+name))
	if err != nil {
		return fmt.Errorf("failed to create slot for %s: %w", name, err)
	}
	slot.SetCallable(func(T) { o.markDirty(name) })

	conn, err := signals.Connect(p.Changed, slot, signals.Delayed)
	if err != nil {
		slot.Close()
		return fmt.Errorf("failed to connect %s: %w", name, err)
	}

	o.props[name] = &binding{prop: p, slot: slot, conn: conn}
	o.order = append(o.order, name)

	o.logger.Debug("registered property", "object", o.name, "property", name)

	return nil
}

// Lookup returns the property registered under name
func Lookup[T any](o *Object, name string) (*property.Property[T], error) {
	b, exists := o.props[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}

	p, ok := b.prop.(*property.Property[T])
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", ErrPropertyType, name, b.prop)
	}

	return p, nil
}

// Unregister stops tracking the named property. Undelivered changes are
// discarded. It returns false if no such property is registered.
func (o *Object) Unregister(name string) bool {
	b, exists := o.props[name]
	if !exists {
		return false
	}

	b.slot.Close()
	delete(o.props, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}

	return true
}

// Bound reports whether the named property is still connected to the object.
// It turns false once the property itself is closed.
func (o *Object) Bound(name string) bool {
	b, exists := o.props[name]
	return exists && b.conn.Connected()
}

// Names returns the registered property names in registration order
func (o *Object) Names() []string {
	names := make([]string, len(o.order))
	copy(names, o.order)
	return names
}

// Pending returns the number of undelivered property changes
func (o *Object) Pending() int {
	n := 0
	for _, b := range o.props {
		n += b.slot.Pending()
	}
	return n
}

// Flush delivers every batched property change and, if any property changed,
// emits Changed once with their names in registration order. The names are
// also returned; receivers get their own copy.
func (o *Object) Flush() []string {
	if o.closed {
		return nil
	}

	for _, name := range o.Names() {
		if b, exists := o.props[name]; exists {
			b.slot.DoWork()
		}
	}

	if len(o.dirty) == 0 {
		return nil
	}

	names := o.dirty
	o.dirty = nil
	o.dirtySet = make(map[string]struct{})

	o.logger.Debug("flushed property changes", "object", o.name, "properties", names)
	o.Changed.Emitter()(slices.Clone(names))

	return names
}

// Close tears down every property binding and the Changed signal. The
// registered properties themselves stay open.
func (o *Object) Close() {
	if o.closed {
		return
	}
	o.closed = true

	for _, name := range o.order {
		o.props[name].slot.Close()
	}
	o.props = make(map[string]*binding)
	o.order = nil
	o.dirty = nil
	o.Changed.Close()
}

func (o *Object) markDirty(name string) {
	if _, seen := o.dirtySet[name]; seen {
		return
	}
	o.dirtySet[name] = struct{}{}
	o.dirty = append(o.dirty, name)
}
