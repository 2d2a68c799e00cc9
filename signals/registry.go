package signals

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/glimte/meta-go/interceptors"
	"github.com/glimte/meta-go/journal"
)

// Mode selects how a connection delivers an emission to its slot
type Mode int

const (
	// Direct calls the slot's callable during the emission
	Direct Mode = iota
	// Delayed queues the arguments on the slot until Slot.DoWork
	Delayed
)

func (m Mode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Delayed:
		return "delayed"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ConnID addresses a connection record in its Registry. The generation
// changes every time an index is reused, so an old ConnID never matches a
// newer connection.
type ConnID struct {
	Index      uint32
	Generation uint32
}

func (id ConnID) String() string {
	return fmt.Sprintf("%d.%d", id.Index, id.Generation)
}

type record struct {
	generation uint32
	connected  bool
	mode       Mode
	emitter    *endpoint
	receiver   *endpoint // nil for function connections
	dispatch   func(args []reflect.Value)
}

// Registry owns every connection made between its signals and slots.
// Signals and slots only hold ConnIDs; removing a connection updates both
// sides in one step.
//
// A Registry is not safe for concurrent use. Emission, connection,
// disconnection and draining are expected to run on a single goroutine.
type Registry struct {
	id      uuid.UUID
	records []record
	free    []uint32
	live    int
	logger  *slog.Logger
	journal journal.Recorder
	chain   *interceptors.InterceptorChain
	stats   Stats
}

// NewRegistry creates an empty connection registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		id:     uuid.New(),
		logger: slog.Default(),
		chain:  interceptors.NewInterceptorChain(),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.logger = r.logger.With("registry", r.id.String())

	return r
}

// ID returns the registry identity
func (r *Registry) ID() uuid.UUID {
	return r.id
}

// NumConnections returns the number of live connections
func (r *Registry) NumConnections() int {
	return r.live
}

// Stats returns a snapshot of the registry counters
func (r *Registry) Stats() Stats {
	s := r.stats
	s.Live = r.live
	return s
}

func (r *Registry) register(emitter, receiver *endpoint, mode Mode, dispatch func([]reflect.Value)) ConnID {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.records = append(r.records, record{})
		index = uint32(len(r.records) - 1)
	}

	rec := &r.records[index]
	rec.generation++
	rec.connected = true
	rec.mode = mode
	rec.emitter = emitter
	rec.receiver = receiver
	rec.dispatch = dispatch

	id := ConnID{Index: index, Generation: rec.generation}
	emitter.conns.add(id)
	if receiver != nil {
		receiver.conns.add(id)
	}
	r.live++

	r.logger.Debug("connected",
		"connId", id.String(),
		"signal", emitter.name,
		"slot", receiver.label(),
		"mode", mode.String(),
	)
	r.record(journal.EntryConnect, id, rec)

	return id
}

func (r *Registry) lookup(id ConnID) *record {
	if int(id.Index) >= len(r.records) {
		return nil
	}
	rec := &r.records[id.Index]
	if rec.generation != id.Generation || !rec.connected {
		return nil
	}
	return rec
}

// remove unregisters a connection from both endpoints and frees its record.
// It returns false if the connection was already gone.
func (r *Registry) remove(id ConnID, reason journal.EntryType) bool {
	rec := r.lookup(id)
	if rec == nil {
		return false
	}

	rec.emitter.conns.remove(id)
	if rec.receiver != nil {
		rec.receiver.conns.remove(id)
	}

	r.logger.Debug("disconnected",
		"connId", id.String(),
		"signal", rec.emitter.name,
		"slot", rec.receiver.label(),
		"reason", string(reason),
	)
	r.record(reason, id, rec)

	rec.connected = false
	rec.emitter = nil
	rec.receiver = nil
	rec.dispatch = nil
	r.free = append(r.free, id.Index)
	r.live--

	return true
}

// teardown removes every connection of a closing endpoint. No dispatch
// closures run.
func (r *Registry) teardown(e *endpoint) {
	for _, id := range e.conns.snapshot() {
		r.remove(id, journal.EntryTeardown)
	}
}

// emit delivers args through every connection the emitter held when the
// emission started. A connection removed before its turn is skipped; one
// added during the emission waits for the next.
func (r *Registry) emit(e *endpoint, args []reflect.Value) {
	r.stats.Emissions++
	for _, id := range e.conns.snapshot() {
		r.deliver(id, args)
	}
}

func (r *Registry) deliver(id ConnID, args []reflect.Value) {
	rec := r.lookup(id)
	if rec == nil {
		return
	}
	dispatch := rec.dispatch

	if r.chain.Len() == 0 {
		r.stats.Dispatches++
		dispatch(args)
		return
	}

	d := &interceptors.Delivery{
		ConnID: id.String(),
		Mode:   rec.mode.String(),
		Signal: rec.emitter.name,
		Slot:   rec.receiver.label(),
		Args:   interfaces(args),
	}
	err := r.chain.Execute(d, interceptors.HandlerFunc(func(*interceptors.Delivery) error {
		r.stats.Dispatches++
		dispatch(args)
		return nil
	}))
	if err != nil {
		r.stats.Rejected++
		r.logger.Warn("delivery failed",
			"connId", d.ConnID,
			"signal", d.Signal,
			"slot", d.Slot,
			"error", err,
		)
	}
}

func (r *Registry) dropped(e *endpoint, count int) {
	r.stats.Dropped += uint64(count)
	r.logger.Debug("dropped queued deliveries", "slot", e.name, "count", count)
	if r.journal != nil {
		r.write(&journal.Entry{
			Type:     journal.EntryDrop,
			Registry: r.id.String(),
			Receiver: e.name,
			Count:    count,
		})
	}
}

func (r *Registry) record(kind journal.EntryType, id ConnID, rec *record) {
	if r.journal == nil {
		return
	}
	r.write(&journal.Entry{
		Type:     kind,
		Registry: r.id.String(),
		ConnID:   id.String(),
		Mode:     rec.mode.String(),
		Emitter:  rec.emitter.name,
		Receiver: rec.receiver.label(),
	})
}

func (r *Registry) write(entry *journal.Entry) {
	if err := r.journal.Record(entry); err != nil {
		r.logger.Warn("failed to record journal entry", "type", string(entry.Type), "error", err)
	}
}

func interfaces(args []reflect.Value) []interface{} {
	out := make([]interface{}, len(args))
	for i, arg := range args {
		out[i] = arg.Interface()
	}
	return out
}
