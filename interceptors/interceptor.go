package interceptors

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Delivery describes one dispatch of a signal emission through one connection
type Delivery struct {
	ConnID string
	Mode   string
	Signal string
	Slot   string
	Args   []interface{}
}

// Handler represents a delivery handler in the interceptor chain
type Handler interface {
	Handle(d *Delivery) error
}

// HandlerFunc is a function adapter for Handler
type HandlerFunc func(d *Delivery) error

// Handle implements Handler
func (f HandlerFunc) Handle(d *Delivery) error {
	return f(d)
}

// Interceptor wraps a delivery before it reaches the connection's receiver
type Interceptor interface {
	// Intercept processes a delivery and calls the next handler in the chain.
	// Returning without calling next skips the delivery.
	Intercept(d *Delivery, next Handler) error

	// Name returns the interceptor name for logging and debugging
	Name() string
}

// InterceptorFunc is a function adapter for Interceptor
type InterceptorFunc struct {
	name string
	fn   func(d *Delivery, next Handler) error
}

// NewInterceptorFunc creates a new function-based interceptor
func NewInterceptorFunc(name string, fn func(d *Delivery, next Handler) error) *InterceptorFunc {
	return &InterceptorFunc{name: name, fn: fn}
}

// Intercept implements Interceptor
func (i *InterceptorFunc) Intercept(d *Delivery, next Handler) error {
	return i.fn(d, next)
}

// Name implements Interceptor
func (i *InterceptorFunc) Name() string {
	return i.name
}

// InterceptorChain manages a chain of interceptors
type InterceptorChain struct {
	interceptors []Interceptor
}

// NewInterceptorChain creates a new interceptor chain
func NewInterceptorChain(interceptors ...Interceptor) *InterceptorChain {
	c := &InterceptorChain{
		interceptors: make([]Interceptor, 0, len(interceptors)),
	}
	for _, interceptor := range interceptors {
		c.Add(interceptor)
	}
	return c
}

// Add adds an interceptor to the end of the chain
func (c *InterceptorChain) Add(interceptor Interceptor) *InterceptorChain {
	if interceptor != nil {
		c.interceptors = append(c.interceptors, interceptor)
	}
	return c
}

// Len returns the number of interceptors
func (c *InterceptorChain) Len() int {
	return len(c.interceptors)
}

// Names returns the interceptor names in execution order
func (c *InterceptorChain) Names() []string {
	names := make([]string, len(c.interceptors))
	for i, interceptor := range c.interceptors {
		names[i] = interceptor.Name()
	}
	return names
}

// Execute runs the delivery through every interceptor and then finalHandler
func (c *InterceptorChain) Execute(d *Delivery, finalHandler Handler) error {
	if len(c.interceptors) == 0 {
		return finalHandler.Handle(d)
	}

	// Build the chain in reverse order
	handler := finalHandler
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		interceptor := c.interceptors[i]
		currentHandler := handler
		handler = HandlerFunc(func(d *Delivery) error {
			return interceptor.Intercept(d, currentHandler)
		})
	}

	return handler.Handle(d)
}

// LoggingInterceptor logs every delivery at debug level
type LoggingInterceptor struct {
	logger *slog.Logger
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingInterceptor{logger: logger}
}

// Intercept implements Interceptor
func (i *LoggingInterceptor) Intercept(d *Delivery, next Handler) error {
	start := time.Now()

	err := next.Handle(d)
	duration := time.Since(start)

	if err != nil {
		i.logger.Debug("delivery failed",
			"connId", d.ConnID,
			"signal", d.Signal,
			"slot", d.Slot,
			"mode", d.Mode,
			"duration", duration,
			"error", err,
		)
	} else {
		i.logger.Debug("delivered",
			"connId", d.ConnID,
			"signal", d.Signal,
			"slot", d.Slot,
			"mode", d.Mode,
			"args", len(d.Args),
			"duration", duration,
		)
	}

	return err
}

// Name implements Interceptor
func (i *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}

// MetricsInterceptor collects metrics about deliveries
type MetricsInterceptor struct {
	collector MetricsCollector
}

// NewMetricsInterceptor creates a new metrics interceptor
func NewMetricsInterceptor(collector MetricsCollector) *MetricsInterceptor {
	return &MetricsInterceptor{collector: collector}
}

// Intercept implements Interceptor
func (i *MetricsInterceptor) Intercept(d *Delivery, next Handler) error {
	start := time.Now()

	i.collector.IncrementDeliveryCount(d.Signal)

	err := next.Handle(d)

	i.collector.RecordDispatchTime(d.Signal, time.Since(start))

	if err != nil {
		i.collector.IncrementErrorCount(d.Signal, errorType(err))
	}

	return err
}

// Name implements Interceptor
func (i *MetricsInterceptor) Name() string {
	return "MetricsInterceptor"
}

// RecoveryInterceptor turns a panicking receiver into a delivery error so the
// rest of the emission still runs. Delayed deliveries only enqueue inside the
// chain, so panics raised later by Slot.DoWork are not covered.
type RecoveryInterceptor struct {
	logger *slog.Logger
}

// PanicError carries the value recovered from a panicking receiver
type PanicError struct {
	ConnID string
	Value  interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("receiver panicked on connection %s: %v", e.ConnID, e.Value)
}

// NewRecoveryInterceptor creates a new recovery interceptor
func NewRecoveryInterceptor(logger *slog.Logger) *RecoveryInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecoveryInterceptor{logger: logger}
}

// Intercept implements Interceptor
func (i *RecoveryInterceptor) Intercept(d *Delivery, next Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("receiver panicked",
				"connId", d.ConnID,
				"signal", d.Signal,
				"slot", d.Slot,
				"panic", r,
			)
			err = &PanicError{ConnID: d.ConnID, Value: r}
		}
	}()

	return next.Handle(d)
}

// Name implements Interceptor
func (i *RecoveryInterceptor) Name() string {
	return "RecoveryInterceptor"
}

// ConditionalInterceptor executes an interceptor only if a condition is met
type ConditionalInterceptor struct {
	condition   DeliveryFilter
	interceptor Interceptor
}

// NewConditionalInterceptor creates a new conditional interceptor
func NewConditionalInterceptor(condition DeliveryFilter, interceptor Interceptor) *ConditionalInterceptor {
	return &ConditionalInterceptor{
		condition:   condition,
		interceptor: interceptor,
	}
}

// Intercept implements Interceptor
func (i *ConditionalInterceptor) Intercept(d *Delivery, next Handler) error {
	shouldExecute, err := i.condition.ShouldDeliver(d)
	if err != nil {
		return err
	}

	if shouldExecute {
		return i.interceptor.Intercept(d, next)
	}

	return next.Handle(d)
}

// Name implements Interceptor
func (i *ConditionalInterceptor) Name() string {
	return fmt.Sprintf("ConditionalInterceptor[%s]", i.interceptor.Name())
}

// ChainBuilder provides a fluent interface for building interceptor chains
type ChainBuilder struct {
	chain  *InterceptorChain
	logger *slog.Logger
}

// NewChainBuilder creates a new chain builder
func NewChainBuilder(logger *slog.Logger) *ChainBuilder {
	if logger == nil {
		logger = slog.Default()
	}

	return &ChainBuilder{
		chain:  NewInterceptorChain(),
		logger: logger,
	}
}

// WithRecovery adds a recovery interceptor
func (b *ChainBuilder) WithRecovery() *ChainBuilder {
	b.chain.Add(NewRecoveryInterceptor(b.logger))
	return b
}

// WithLogging adds a logging interceptor
func (b *ChainBuilder) WithLogging() *ChainBuilder {
	b.chain.Add(NewLoggingInterceptor(b.logger))
	return b
}

// WithMetrics adds a metrics interceptor
func (b *ChainBuilder) WithMetrics(collector MetricsCollector) *ChainBuilder {
	b.chain.Add(NewMetricsInterceptor(collector))
	return b
}

// WithFilter adds a filtering interceptor
func (b *ChainBuilder) WithFilter(filter DeliveryFilter, skipBehavior SkipBehavior) *ChainBuilder {
	b.chain.Add(NewFilteringInterceptor(filter, skipBehavior, b.logger))
	return b
}

// WithCustom adds a custom interceptor
func (b *ChainBuilder) WithCustom(interceptor Interceptor) *ChainBuilder {
	b.chain.Add(interceptor)
	return b
}

// Build returns the constructed chain
func (b *ChainBuilder) Build() *InterceptorChain {
	return b.chain
}

func errorType(err error) string {
	var panicErr *PanicError
	switch {
	case errors.As(err, &panicErr):
		return "panic"
	case errors.Is(err, ErrFiltered):
		return "filtered"
	default:
		return "delivery_error"
	}
}
