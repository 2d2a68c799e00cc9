// Package journal records the lifecycle of signal/slot connections.
//
// Every connection made through a signals.Registry configured with a journal
// produces entries as it moves through its life:
//   - EntryConnect: the connection was registered with both endpoints
//   - EntryDisconnect: the connection was removed through Connection.Disconnect
//   - EntryTeardown: the connection was removed because an endpoint was closed
//   - EntryDrop: a closed slot discarded queued deliveries that were never drained
//
// The InMemoryJournal keeps a bounded history and rotates the oldest entries
// out once the limit is reached.
//
// Example usage:
//
//	j := journal.NewInMemoryJournal(journal.WithMaxEntries(1000))
//	registry := signals.NewRegistry(signals.WithJournal(j))
//	...
//	for _, entry := range j.ByConnection(conn.ID().String()) {
//		fmt.Println(entry.Type, entry.Emitter, entry.Receiver)
//	}
package journal
