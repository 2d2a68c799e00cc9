package signals

// Stats is a point-in-time snapshot of registry counters
type Stats struct {
	Emissions  uint64 // signal emissions
	Dispatches uint64 // connection dispatches that reached their receiver or queue
	Enqueued   uint64 // argument tuples queued by delayed connections
	Drained    uint64 // queued tuples delivered by Slot.DoWork
	Dropped    uint64 // queued tuples discarded by Slot.Close
	Rejected   uint64 // deliveries stopped by an interceptor error
	Live       int    // connections currently registered
}
