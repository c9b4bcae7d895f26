// Package state provides the thread-safe container shared between the
// background poller and the UI.
//
// The poller writes whole feeds (roster, swap mailbox, unavailability
// inbox) with Update; the UI reads defensive copies with Snapshot. A
// failed poll keeps the previous data and records the error, so the UI
// can keep rendering the last known good state while showing that the
// backend is unreachable. Per-feed fetch timestamps back the ~30 second
// freshness window that gates navigation-triggered refetches.
package state
