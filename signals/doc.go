// Package signals implements typed, in-process signals and slots.
//
// A Signal broadcasts argument tuples to every connected receiver. A receiver
// is either a Slot, which owns a callable and a queue, or a plain function.
// Argument lists are written as function types:
//
//	clicked := signals.MustSignal[func(x, y int, button string)](registry)
//	onClick := signals.MustSlot[func(x, y int)](registry)
//	onClick.SetCallable(func(x, y int) { ... })
//
//	conn, err := signals.Connect(clicked, onClick, signals.Direct)
//	clicked.Emitter()(10, 20, "left") // onClick receives (10, 20)
//
// A receiver may take fewer parameters than its signal emits: it gets the
// leading arguments, in order. Connect checks that those parameter types
// match (or are both numeric, in which case values are converted with Go
// conversion rules, so float to int truncates and narrowing wraps) and
// returns a *SignatureError wrapping ErrIncompatibleSignature otherwise.
// Nothing is checked again at emission time.
//
// Dispatch modes:
//   - Direct: the slot's callable runs synchronously during the emission
//   - Delayed: the arguments are queued on the slot and delivered, in order,
//     the next time Slot.DoWork is called
//
// Connections live in a Registry, addressed by generation-tagged ConnIDs.
// Signals and slots hold only IDs. Closing either endpoint removes each of
// its connections from the other side before releasing it, so a closed
// receiver is never called. Connection.Disconnect does the same for one link
// and reports false when the link is already gone.
//
// Emission order is registration order. Each emission works from the list of
// connections present when it started: links removed mid-emission are skipped
// if not yet reached, and links added mid-emission wait for the next one.
//
// Nothing in this package is safe for concurrent use. Signals, slots and
// their registry belong to one goroutine; Delayed mode is explicit batching,
// not a hand-off to another thread.
package signals
