package signals

import (
	"log/slog"

	"github.com/glimte/meta-go/interceptors"
	"github.com/glimte/meta-go/journal"
)

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithJournal records connection lifecycle entries in j
func WithJournal(j journal.Recorder) RegistryOption {
	return func(r *Registry) {
		r.journal = j
	}
}

// WithInterceptors appends interceptors that wrap every delivery
func WithInterceptors(list ...interceptors.Interceptor) RegistryOption {
	return func(r *Registry) {
		for _, interceptor := range list {
			r.chain.Add(interceptor)
		}
	}
}

// WithInterceptorChain replaces the delivery chain
func WithInterceptorChain(chain *interceptors.InterceptorChain) RegistryOption {
	return func(r *Registry) {
		if chain != nil {
			r.chain = chain
		}
	}
}

// EndpointOption configures a Signal or Slot
type EndpointOption func(*endpoint)

// WithName labels the endpoint in logs, journal entries and deliveries
func WithName(name string) EndpointOption {
	return func(e *endpoint) {
		e.name = name
	}
}
