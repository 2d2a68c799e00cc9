package interceptors

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrFiltered is returned when a filter rejects a delivery under SkipWithError
var ErrFiltered = errors.New("delivery filtered")

// DeliveryFilter decides whether a delivery should reach its receiver
type DeliveryFilter interface {
	// ShouldDeliver returns true if the delivery should proceed
	ShouldDeliver(d *Delivery) (bool, error)
}

// DeliveryFilterFunc is a function adapter for DeliveryFilter
type DeliveryFilterFunc func(d *Delivery) (bool, error)

// ShouldDeliver implements DeliveryFilter
func (f DeliveryFilterFunc) ShouldDeliver(d *Delivery) (bool, error) {
	return f(d)
}

// SkipBehavior defines what happens when a delivery is filtered out
type SkipBehavior int

const (
	// SkipSilently skips the delivery without error
	SkipSilently SkipBehavior = iota
	// SkipWithError returns ErrFiltered when a delivery is filtered
	SkipWithError
	// SkipWithLog logs that the delivery was skipped
	SkipWithLog
)

// FilteringInterceptor filters deliveries based on conditions
type FilteringInterceptor struct {
	filter       DeliveryFilter
	skipBehavior SkipBehavior
	logger       *slog.Logger
}

// NewFilteringInterceptor creates a new filtering interceptor
func NewFilteringInterceptor(filter DeliveryFilter, skipBehavior SkipBehavior, logger *slog.Logger) *FilteringInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &FilteringInterceptor{
		filter:       filter,
		skipBehavior: skipBehavior,
		logger:       logger,
	}
}

// Intercept implements Interceptor
func (i *FilteringInterceptor) Intercept(d *Delivery, next Handler) error {
	shouldDeliver, err := i.filter.ShouldDeliver(d)
	if err != nil {
		return fmt.Errorf("filter error: %w", err)
	}

	if !shouldDeliver {
		switch i.skipBehavior {
		case SkipWithError:
			return fmt.Errorf("%w: signal=%s, conn=%s", ErrFiltered, d.Signal, d.ConnID)
		case SkipWithLog:
			i.logger.Info("delivery skipped by filter",
				"connId", d.ConnID,
				"signal", d.Signal,
				"slot", d.Slot,
			)
			return nil
		default: // SkipSilently
			return nil
		}
	}

	return next.Handle(d)
}

// Name implements Interceptor
func (i *FilteringInterceptor) Name() string {
	return "FilteringInterceptor"
}

// CompositeFilter combines multiple filters with AND logic
type CompositeFilter struct {
	filters []DeliveryFilter
}

// NewCompositeFilter creates a new composite filter
func NewCompositeFilter(filters ...DeliveryFilter) *CompositeFilter {
	return &CompositeFilter{filters: filters}
}

// ShouldDeliver implements DeliveryFilter - all filters must return true
func (f *CompositeFilter) ShouldDeliver(d *Delivery) (bool, error) {
	for _, filter := range f.filters {
		ok, err := filter.ShouldDeliver(d)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// OrFilter combines multiple filters with OR logic
type OrFilter struct {
	filters []DeliveryFilter
}

// NewOrFilter creates a new OR filter
func NewOrFilter(filters ...DeliveryFilter) *OrFilter {
	return &OrFilter{filters: filters}
}

// ShouldDeliver implements DeliveryFilter - at least one filter must return true
func (f *OrFilter) ShouldDeliver(d *Delivery) (bool, error) {
	for _, filter := range f.filters {
		ok, err := filter.ShouldDeliver(d)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// SignalFilter only lets deliveries from the named signals through
type SignalFilter struct {
	allowed map[string]bool
}

// NewSignalFilter creates a filter that only allows the given signal names
func NewSignalFilter(names ...string) *SignalFilter {
	allowed := make(map[string]bool)
	for _, name := range names {
		allowed[name] = true
	}
	return &SignalFilter{allowed: allowed}
}

// ShouldDeliver implements DeliveryFilter
func (f *SignalFilter) ShouldDeliver(d *Delivery) (bool, error) {
	return f.allowed[d.Signal], nil
}

// ModeFilter only lets deliveries with the given dispatch mode through
type ModeFilter struct {
	mode string
}

// NewModeFilter creates a filter matching a dispatch mode ("direct" or "delayed")
func NewModeFilter(mode string) *ModeFilter {
	return &ModeFilter{mode: mode}
}

// ShouldDeliver implements DeliveryFilter
func (f *ModeFilter) ShouldDeliver(d *Delivery) (bool, error) {
	return d.Mode == f.mode, nil
}
