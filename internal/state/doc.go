// Package state keeps client-side mirrors of catalog collections.
//
// # Overview
//
// A List holds one ordered collection (or one page of it) exactly as the
// server returned it, plus a loading flag and the last refresh error. Views
// read it through Snapshot, which returns copies, while Bubble Tea
// commands drive Refresh, Create, Update and Remove from their own goroutines.
//
// # Reconciliation
//
//	Refresh  success → items replaced, error cleared
//	         failure → items kept (stale but available), error recorded
//	Create   success → returned entity appears exactly once
//	Update   success → entity with the same id replaced in place
//	Remove   success → entity with the id dropped; a 404 counts as success
//	any mutation failure → collection untouched, error returned to caller
//
// Nothing is applied before the server confirms it. Lists built WithResync
// reconcile mutations by refetching instead, which paged lists need.
//
// # Ordering
//
// Operations on a List are serialized. A Refresh issued after a mutation waits
// for the mutation to finish, so it can never be overwritten by a request that
// was still in flight.
//
// # Lifetime
//
// A List belongs to the screen that created it. When the screen goes away it
// calls Close; results that arrive afterwards are dropped and later calls
// return ErrClosed.
//
// # Sorting
//
// Sorted returns a stably sorted copy and never reorders the server-order
// items held by the List:
//
//	byYear := state.Sorted(snap.Items, catalog.CompareYearDesc)
package state
