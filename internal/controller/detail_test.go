package controller

import (
	"context"
	"errors"
	"testing"
)

type exec struct {
	ID      string
	Status  string
	RetryOf string
}

func (e exec) EntityID() string { return e.ID }

func newTestDetail(store map[string]exec) *Detail[exec] {
	return NewDetail(func(_ context.Context, id string) (exec, error) {
		e, ok := store[id]
		if !ok {
			return exec{}, errors.New("not found")
		}
		return e, nil
	})
}

func TestDetailFetch_LoadingVsRefreshing(t *testing.T) {
	store := map[string]exec{"e1": {ID: "e1", Status: "error"}}
	d := newTestDetail(store)

	eff := d.Fetch("e1")
	if snap := d.Snapshot(); !snap.Loading || snap.Refreshing {
		t.Fatalf("first fetch should be a blank loading state, got %+v", snap)
	}
	run(t, eff)
	if snap := d.Snapshot(); snap.Entity == nil || snap.Entity.ID != "e1" {
		t.Fatalf("expected loaded entity, got %+v", d.Snapshot())
	}

	// Same id again: stale entity stays visible while refreshing.
	eff = d.Fetch("e1")
	snap := d.Snapshot()
	if !snap.Refreshing || snap.Entity == nil {
		t.Fatalf("expected refresh-in-place with entity visible, got %+v", snap)
	}
	run(t, eff)
}

func TestDetailFetch_DifferentIDResetsEntity(t *testing.T) {
	store := map[string]exec{
		"e1": {ID: "e1"},
		"e2": {ID: "e2"},
	}
	d := newTestDetail(store)
	run(t, d.Fetch("e1"))

	eff := d.Fetch("e2")
	if snap := d.Snapshot(); snap.Entity != nil || !snap.Loading {
		t.Fatalf("switching subjects must clear the old entity, got %+v", snap)
	}
	run(t, eff)
	if d.Snapshot().Entity.ID != "e2" {
		t.Fatalf("expected e2, got %+v", d.Snapshot().Entity)
	}
}

func TestDetailFetch_StaleResultDropped(t *testing.T) {
	store := map[string]exec{
		"e1": {ID: "e1"},
		"e2": {ID: "e2"},
	}
	d := newTestDetail(store)

	pending := d.Fetch("e1")
	run(t, d.Fetch("e2"))
	run(t, pending) // e1 resolves after the view moved to e2

	if got := d.Snapshot().Entity.ID; got != "e2" {
		t.Fatalf("stale fetch overwrote subject: got %q", got)
	}
}

func TestDetailFetch_FailureKeepsEntity(t *testing.T) {
	store := map[string]exec{"e1": {ID: "e1"}}
	d := newTestDetail(store)
	run(t, d.Fetch("e1"))

	delete(store, "e1")
	run(t, d.Fetch("e1"))

	snap := d.Snapshot()
	if snap.Entity == nil || snap.Entity.ID != "e1" {
		t.Fatalf("failed refresh must keep displayed entity, got %+v", snap)
	}
	if snap.Err == nil {
		t.Fatalf("expected surfaced error")
	}
}

func TestDetailAct_RetryRetargetsToNewExecution(t *testing.T) {
	store := map[string]exec{"e1": {ID: "e1", Status: "error"}}
	d := newTestDetail(store)
	run(t, d.Fetch("e1"))

	eff := d.Act(func(context.Context) (exec, error) {
		return exec{ID: "e2", Status: "running", RetryOf: "e1"}, nil
	})
	if !d.Snapshot().Acting {
		t.Fatalf("expected acting state while the call runs")
	}
	run(t, eff)

	snap := d.Snapshot()
	if snap.Acting {
		t.Fatalf("acting should clear on resolution")
	}
	if snap.ID != "e2" || snap.Entity == nil || snap.Entity.ID != "e2" {
		t.Fatalf("retry must re-target to the new execution, got %+v", snap)
	}
	if snap.Entity.RetryOf != "e1" {
		t.Fatalf("expected retryOf back-reference, got %+v", snap.Entity)
	}
}

func TestDetailAct_FailureLeavesEntity(t *testing.T) {
	store := map[string]exec{"e1": {ID: "e1", Status: "error"}}
	d := newTestDetail(store)
	run(t, d.Fetch("e1"))

	run(t, d.Act(func(context.Context) (exec, error) {
		return exec{}, errors.New("retry rejected")
	}))

	snap := d.Snapshot()
	if snap.Entity == nil || snap.Entity.ID != "e1" {
		t.Fatalf("failed act must not lose the displayed entity, got %+v", snap)
	}
	if snap.ActErr == nil {
		t.Fatalf("expected act error surfaced")
	}
}

func TestDetailAct_SerializedPerController(t *testing.T) {
	d := newTestDetail(map[string]exec{"e1": {ID: "e1"}})
	run(t, d.Fetch("e1"))

	first := d.Act(func(context.Context) (exec, error) { return exec{ID: "e1"}, nil })
	if first == nil {
		t.Fatalf("expected act effect")
	}
	if second := d.Act(nil); second != nil {
		t.Fatalf("second act while one is in flight must no-op")
	}
	run(t, first)
}

func TestDetailDelete_WaitsForConfirmation(t *testing.T) {
	d := newTestDetail(map[string]exec{"e1": {ID: "e1"}})
	run(t, d.Fetch("e1"))

	eff := d.Delete(func(context.Context) error { return nil })
	if d.Snapshot().Deleted {
		t.Fatalf("deleted must not be signalled before server confirmation")
	}
	run(t, eff)

	snap := d.Snapshot()
	if !snap.Deleted || snap.Entity != nil {
		t.Fatalf("expected confirmed deletion, got %+v", snap)
	}
}

func TestDetailDelete_FailureKeepsEntity(t *testing.T) {
	d := newTestDetail(map[string]exec{"e1": {ID: "e1"}})
	run(t, d.Fetch("e1"))

	run(t, d.Delete(func(context.Context) error { return errors.New("denied") }))

	snap := d.Snapshot()
	if snap.Deleted {
		t.Fatalf("failed delete must not signal completion")
	}
	if snap.Entity == nil || snap.ActErr == nil {
		t.Fatalf("expected entity kept and error surfaced, got %+v", snap)
	}
}
