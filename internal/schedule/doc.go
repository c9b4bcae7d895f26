// Package schedule holds the grid's business state: what every cell
// displays, which cells are selected or being edited, the unsaved
// change set, and the draft overlay.
//
// The package is deliberately free of rendering and transport concerns.
// A Store is the single source of truth for cell values; a Session owns
// the edit-mode state machine and is the only writer of the pending
// change set; Saver submits batches through a SaveClient; Draft stages
// an unpublished overlay on top of the official snapshot; Mailbox
// builds swap, give and take requests from live cell values. None of
// these types are safe for concurrent use: they belong to the UI loop.
package schedule
