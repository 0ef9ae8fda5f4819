// Package event provides a pub-sub event bus connecting the simulation
// loop to the viewer and logs.
//
// The loop publishes events as it drains control commands and publishes
// snapshots; the TUI subscribes to surface attach results and lifecycle
// changes in its status line, and the headless runner logs them. Neither
// side knows about the other.
//
// # Main Types
//
//   - [Event]: Interface all events implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub dispatcher, safe for concurrent use
//   - [Handler]: Function type for event handlers (func(Event))
//
// Handlers are called synchronously on the publisher's goroutine and are
// protected against panics: a panicking handler does not prevent delivery
// to the remaining handlers.
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - probe.attached, probe.rejected, probe.detached
//   - traces.cleared
//   - snapshot.published
//   - run.shutdown, run.completed
package event
