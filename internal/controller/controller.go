// Package controller holds the fetch-lifecycle state machines behind every
// screen: a generic cursor-paginated list controller and a single-entity
// detail controller.
//
// Both follow the same single-threaded apply model. Public operations
// mutate controller state synchronously and hand back an Effect: a closure
// that performs the network round-trip off the update loop and yields an
// Event. The caller (the bubbletea program, or a test) feeds the Event back
// through Apply, which runs on the update loop again. No controller state
// is ever touched from two goroutines.
//
// Every Effect is tagged at issue time with the generation it was issued
// under. Refresh and filter changes advance the generation; Apply drops any
// event whose tag no longer matches. That one rule suppresses stale
// load-more pages after a refresh, interleaved results from rapid filter
// changes, and double-refresh races — without cancelling the underlying
// requests.
package controller

import "context"

// Entity is anything addressable by an opaque server-issued id.
type Entity interface {
	EntityID() string
}

// Page is one response from a collection endpoint. NextCursor is opaque;
// empty means the chain is exhausted.
type Page[T any] struct {
	Items      []T
	NextCursor string
	TotalCount *int
}

// Request describes one list fetch. Filters is a snapshot taken at issue
// time, so a later filter change cannot leak into an in-flight request.
type Request struct {
	Cursor  string
	Limit   int
	Filters map[string]string
}

// FetchFunc performs one page fetch against the remote collection.
type FetchFunc[T Entity] func(ctx context.Context, req Request) (Page[T], error)

// Phase is the fetch lifecycle. Exactly one phase is active per controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading     // initial load, nothing to show yet
	PhaseRefreshing  // replace-in-place, stale data stays visible
	PhaseLoadingMore // appending a page to the tail
	PhaseFailed
)

// Effect is deferred work that ends in an Event. Effects run off the update
// loop; they close over everything they need and never touch controller
// state directly.
type Effect func(ctx context.Context) Event

// Event is the resolution of an Effect, routed back to the controller that
// issued it.
type Event interface {
	apply() Effect
}

// Apply feeds a resolved event back into its controller. It must be called
// from the update loop. The returned Effect, if any, is follow-up work to
// schedule (e.g. the fetch behind an elapsed debounce window).
func Apply(ev Event) Effect {
	if ev == nil {
		return nil
	}
	return ev.apply()
}

func cloneFilters(f map[string]string) map[string]string {
	if len(f) == 0 {
		return nil
	}
	out := make(map[string]string, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
