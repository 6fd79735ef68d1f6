// Package skills keeps the UI's view of skill sources in sync with the
// external backend that owns and resolves them.
//
// An edit runs one cycle:
//
//	validate locally (no duplicates) -> write the whole Config -> adopt it
//	optimistically -> settle -> refetch sources -> push skills.reconciled
//
// The backend re-scans paths and URLs asynchronously and never says when it is
// done, so the refetch is timed by a SettleStrategy (a fixed delay by default,
// or a bounded poll with backoff). Between the write and the refetch the
// snapshot is marked Pending and further edits are rejected with ErrBusy.
package skills
