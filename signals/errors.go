package signals

import (
	"errors"
	"fmt"
)

var (
	ErrIncompatibleSignature = errors.New("signals: incompatible signature")
	ErrArgumentMismatch      = errors.New("signals: arguments do not match signal signature")
	ErrClosed                = errors.New("signals: endpoint is closed")
	ErrRegistryMismatch      = errors.New("signals: endpoints belong to different registries")
	ErrNilRegistry           = errors.New("signals: registry cannot be nil")
	ErrNilEndpoint           = errors.New("signals: endpoint cannot be nil")
	ErrNilCallable           = errors.New("signals: callable cannot be nil")
	ErrInvalidMode           = errors.New("signals: invalid dispatch mode")
)

// SignatureError reports a signature rejected when an endpoint or connection
// is built
type SignatureError struct {
	Op       string
	Emitter  string
	Receiver string
	Err      error
}

func (e *SignatureError) Error() string {
	if e.Receiver == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Emitter, e.Err)
	}
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Emitter, e.Receiver, e.Err)
}

func (e *SignatureError) Unwrap() []error {
	return []error{ErrIncompatibleSignature, e.Err}
}
