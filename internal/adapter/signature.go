package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrNotFunc   = errors.New("adapter: type is not a function type")
	ErrVariadic  = errors.New("adapter: variadic functions are not supported")
	ErrHasResult = errors.New("adapter: function type must not return values")
)

// Signature describes the parameter list of a function type
type Signature struct {
	Type   reflect.Type
	Params []reflect.Type
}

// Arity returns the number of parameters
func (s *Signature) Arity() int {
	return len(s.Params)
}

// HasResults reports whether the function type returns values
func (s *Signature) HasResults() bool {
	return s.Type.NumOut() > 0
}

func (s *Signature) String() string {
	return s.Type.String()
}

// SignatureOf extracts the signature of a function type
func SignatureOf(t reflect.Type) (*Signature, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrNotFunc)
	}
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %v", ErrNotFunc, t)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("%w: %v", ErrVariadic, t)
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	return &Signature{Type: t, Params: params}, nil
}

// SignatureCache memoizes signatures by function type
type SignatureCache struct {
	sigs map[reflect.Type]*Signature
	mu   sync.RWMutex
}

// NewSignatureCache creates an empty cache
func NewSignatureCache() *SignatureCache {
	return &SignatureCache{
		sigs: make(map[reflect.Type]*Signature),
	}
}

// Get returns the cached signature for t, extracting it on first use
func (c *SignatureCache) Get(t reflect.Type) (*Signature, error) {
	c.mu.RLock()
	sig, exists := c.sigs[t]
	c.mu.RUnlock()
	if exists {
		return sig, nil
	}

	sig, err := SignatureOf(t)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.sigs[t]; exists {
		return existing, nil
	}
	c.sigs[t] = sig

	return sig, nil
}

// Len returns the number of cached signatures
func (c *SignatureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sigs)
}

var defaultCache = NewSignatureCache()

// SignatureFor returns the signature of the function type F
func SignatureFor[F any]() (*Signature, error) {
	return defaultCache.Get(reflect.TypeOf((*F)(nil)).Elem())
}
