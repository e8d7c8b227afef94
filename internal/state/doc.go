// Package state provides thread-safe state management for the status widget.
//
// # Overview
//
// The Store is the coordination point between fetches and rendering. Fetches
// come from two independent sources, the widget's periodic timer and manual
// refreshes issued by the UI, and both write their outcome here. The UI reads
// snapshots on its own tick.
//
//	Timer goroutine ──┐
//	                  ├──> store.Update() ──(mutex)──> store.Snapshot() ──> render
//	Manual refresh ───┘
//
// # Update Semantics
//
// Every Update replaces the stored record wholesale. Failures are not kept
// aside: the caller stores the Offline record and passes the error along so
// the UI can show it in the debug line.
//
//	store.Update(record, nil, now)              // success or empty collection
//	store.Update(status.Offline(), err, now)    // any failure
//
// Overlapping fetches are not ordered. Whichever Update runs last is what the
// UI shows; since both fetches read the same endpoint the difference is
// cosmetic. The mutex guarantees a snapshot never mixes fields from two
// updates.
//
// # Loading
//
// The zero Store is ready to use and reports Loading() until the first
// Update, which is the only time the widget has no record to show.
package state
