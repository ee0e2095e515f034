package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type item struct {
	ID     string
	Active bool
}

func (i item) EntityID() string { return i.ID }

func ids(items []item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

// scriptedFetch replays canned pages keyed by cursor and records every
// request it served.
type scriptedFetch struct {
	pages    map[string]Page[item]
	err      error
	requests []Request
}

func (s *scriptedFetch) fn(_ context.Context, req Request) (Page[item], error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return Page[item]{}, s.err
	}
	return s.pages[req.Cursor], nil
}

func run(t *testing.T, eff Effect) {
	t.Helper()
	for eff != nil {
		ev := eff(context.Background())
		eff = Apply(ev)
	}
}

func newTestList(fetch FetchFunc[item]) *List[item] {
	return NewList(ListConfig[item]{Fetch: fetch, PageSize: 2, Debounce: time.Millisecond})
}

func TestLoadMore_AppendsPagesInCallOrder(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"":   {Items: []item{{ID: "a"}, {ID: "b"}}, NextCursor: "c1"},
		"c1": {Items: []item{{ID: "c"}, {ID: "d"}}, NextCursor: "c2"},
		"c2": {Items: []item{{ID: "e"}}},
	}}
	l := newTestList(fetch.fn)

	run(t, l.Refresh())
	run(t, l.LoadMore())
	run(t, l.LoadMore())

	got := ids(l.Snapshot().Items)
	want := []string{"a", "b", "c", "d", "e"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("item sequence mismatch (-want +got):\n%s", diff)
	}
	if l.Snapshot().HasMore {
		t.Fatalf("expected exhausted chain")
	}
}

func TestRefreshThenLoadMore_ScenarioA(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"":   {Items: []item{{ID: "a"}, {ID: "b"}}, NextCursor: "c1"},
		"c1": {Items: []item{{ID: "c"}}},
	}}
	l := newTestList(fetch.fn)

	run(t, l.Refresh())
	run(t, l.LoadMore())

	snap := l.Snapshot()
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids(snap.Items)); diff != "" {
		t.Fatalf("items (-want +got):\n%s", diff)
	}
	if snap.HasMore {
		t.Fatalf("hasMore should be false after cursor-less page")
	}
}

func TestSetFilter_ClearsSnapshotSynchronously(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "a"}, {ID: "b"}}, NextCursor: "c1"},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())
	if len(l.Snapshot().Items) == 0 {
		t.Fatalf("precondition: snapshot should be populated")
	}

	// Do not resolve the effect: inspect the synchronous part only.
	_ = l.SetFilter("status", "error")

	snap := l.Snapshot()
	if len(snap.Items) != 0 {
		t.Fatalf("expected empty items, got %v", ids(snap.Items))
	}
	if !snap.HasMore {
		t.Fatalf("expected hasMore=true after filter reset")
	}
	if !snap.Loading {
		t.Fatalf("expected loading state after filter reset")
	}
}

func TestStaleLoadMore_DroppedAfterFilterChange(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"":   {Items: []item{{ID: "a"}, {ID: "b"}}, NextCursor: "c1"},
		"c1": {Items: []item{{ID: "c"}, {ID: "d"}}, NextCursor: "c2"},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())

	// Issue but do not resolve the load-more, then change the filter.
	pending := l.LoadMore()
	if pending == nil {
		t.Fatalf("expected a load-more effect")
	}

	fetch.pages = map[string]Page[item]{
		"": {Items: []item{{ID: "x"}}},
	}
	run(t, l.SetFilter("status", "error"))

	// The stale page resolves now; it must not be appended.
	run(t, pending)

	got := ids(l.Snapshot().Items)
	if diff := cmp.Diff([]string{"x"}, got); diff != "" {
		t.Fatalf("stale load-more leaked into snapshot (-want +got):\n%s", diff)
	}
}

func TestStaleLoadMore_DroppedAfterRefresh(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"":   {Items: []item{{ID: "a"}, {ID: "b"}}, NextCursor: "c1"},
		"c1": {Items: []item{{ID: "c"}}, NextCursor: ""},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())

	pending := l.LoadMore()
	run(t, l.Refresh())
	run(t, pending)

	if diff := cmp.Diff([]string{"a", "b"}, ids(l.Snapshot().Items)); diff != "" {
		t.Fatalf("post-refresh append leaked (-want +got):\n%s", diff)
	}
}

func TestDoubleRefresh_SecondWins(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "first"}}},
	}}
	l := newTestList(fetch.fn)

	eff1 := l.Refresh()
	fetch.pages = map[string]Page[item]{
		"": {Items: []item{{ID: "second"}}},
	}
	eff2 := l.Refresh()

	// Resolve out of program order: the superseded fetch lands last.
	run(t, eff2)
	run(t, eff1)

	got := ids(l.Snapshot().Items)
	if diff := cmp.Diff([]string{"second"}, got); diff != "" {
		t.Fatalf("expected exactly the newer snapshot (-want +got):\n%s", diff)
	}
}

func TestLoadMore_NoOpWhileInFlightOrExhausted(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "a"}}},
	}}
	l := newTestList(fetch.fn)

	pending := l.Refresh()
	if eff := l.LoadMore(); eff != nil {
		t.Fatalf("load-more should no-op while a refresh is in flight")
	}
	run(t, pending)

	if eff := l.LoadMore(); eff != nil {
		t.Fatalf("load-more should no-op once exhausted")
	}
}

func TestEmptyPageWithCursor_TreatedAsExhausted(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: nil, NextCursor: "c1"},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())

	if l.Snapshot().HasMore {
		t.Fatalf("empty page with cursor must exhaust the chain")
	}
}

func TestFailedLoadMore_KeepsSnapshot(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "a"}, {ID: "b"}}, NextCursor: "c1"},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())

	fetch.err = errors.New("boom")
	run(t, l.LoadMore())

	snap := l.Snapshot()
	if diff := cmp.Diff([]string{"a", "b"}, ids(snap.Items)); diff != "" {
		t.Fatalf("failed load-more must leave items intact (-want +got):\n%s", diff)
	}
	if snap.Err == nil {
		t.Fatalf("expected surfaced error")
	}
	if !snap.HasMore {
		t.Fatalf("failed load-more must not consume the cursor")
	}
}

func TestMutate_OptimisticThenConfirmed(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "w1", Active: true}, {ID: "w2", Active: true}}},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())

	eff := l.Mutate("w1",
		func(it item) item { it.Active = false; return it },
		func(context.Context) (item, error) { return item{ID: "w1", Active: false}, nil },
	)

	// Optimistic value visible before the call resolves.
	if l.Snapshot().Items[0].Active {
		t.Fatalf("expected optimistic active=false")
	}
	run(t, eff)
	if l.Snapshot().Items[0].Active {
		t.Fatalf("expected active=false to stick after confirmation")
	}
	if l.Snapshot().Items[1].ID != "w2" || !l.Snapshot().Items[1].Active {
		t.Fatalf("sibling item must be untouched")
	}
}

func TestMutate_RollbackOnFailure(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "w1", Active: false}}},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())

	eff := l.Mutate("w1",
		func(it item) item { it.Active = true; return it },
		func(context.Context) (item, error) { return item{}, errors.New("rejected") },
	)
	if !l.Snapshot().Items[0].Active {
		t.Fatalf("expected optimistic active=true")
	}
	run(t, eff)

	snap := l.Snapshot()
	if snap.Items[0].Active {
		t.Fatalf("expected rollback to active=false")
	}
	if snap.Err == nil {
		t.Fatalf("expected surfaced mutate error")
	}
}

func TestMutate_UnknownIDIsNoOp(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "w1"}}},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())

	if eff := l.Mutate("nope", func(it item) item { return it }, nil); eff != nil {
		t.Fatalf("mutate on absent id should no-op")
	}
}

func TestSetQuery_CoalescesKeystrokes(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "hit"}}},
	}}
	l := newTestList(fetch.fn)

	// Three keystrokes in rapid succession; only the last should fetch.
	eff1 := l.SetQuery("o")
	eff2 := l.SetQuery("or")
	eff3 := l.SetQuery("ord")

	run(t, eff1)
	run(t, eff2)
	run(t, eff3)

	if len(fetch.requests) != 1 {
		t.Fatalf("expected 1 request after coalescing, got %d", len(fetch.requests))
	}
	if got := fetch.requests[0].Filters["query"]; got != "ord" {
		t.Fatalf("expected final query %q, got %q", "ord", got)
	}
	if diff := cmp.Diff([]string{"hit"}, ids(l.Snapshot().Items)); diff != "" {
		t.Fatalf("items (-want +got):\n%s", diff)
	}
}

func TestSetQuery_ClearsSynchronously(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "a"}}},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())

	_ = l.SetQuery("needle")

	snap := l.Snapshot()
	if len(snap.Items) != 0 || !snap.Loading {
		t.Fatalf("expected immediate cleared loading state, got %+v", snap)
	}
}

func TestFetchRequest_SnapshotsFiltersAtIssueTime(t *testing.T) {
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "a"}}, NextCursor: "c1"},
	}}
	l := newTestList(fetch.fn)
	run(t, l.SetFilter("status", "error"))

	pending := l.LoadMore()
	l.filters["status"] = "success" // later change must not leak in
	run(t, pending)

	last := fetch.requests[len(fetch.requests)-1]
	if last.Filters["status"] != "error" {
		t.Fatalf("in-flight request must carry issue-time filters, got %v", last.Filters)
	}
}

func TestTotalCountHint(t *testing.T) {
	total := 41
	fetch := &scriptedFetch{pages: map[string]Page[item]{
		"": {Items: []item{{ID: "a"}}, NextCursor: "c1", TotalCount: &total},
	}}
	l := newTestList(fetch.fn)
	run(t, l.Refresh())

	snap := l.Snapshot()
	if !snap.HasTotal || snap.TotalCount != 41 {
		t.Fatalf("expected total hint 41, got %+v", snap)
	}
}
