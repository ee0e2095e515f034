package controller

import "context"

// Detail owns one entity's fetch-and-act lifecycle: load by id, refresh in
// place, perform side-effecting actions, delete. Same generation discipline
// as List, minus pagination.
type Detail[T Entity] struct {
	fetch func(ctx context.Context, id string) (T, error)

	gen     uint64
	id      string
	entity  *T
	phase   Phase
	err     error
	acting  bool
	actErr  error
	deleted bool
}

func NewDetail[T Entity](fetch func(ctx context.Context, id string) (T, error)) *Detail[T] {
	return &Detail[T]{fetch: fetch}
}

// DetailSnapshot is the read-only view handed to the UI layer.
type DetailSnapshot[T Entity] struct {
	ID         string
	Entity     *T
	Loading    bool
	Refreshing bool
	Err        error
	Acting     bool
	ActErr     error
	Deleted    bool
}

func (d *Detail[T]) Snapshot() DetailSnapshot[T] {
	return DetailSnapshot[T]{
		ID:         d.id,
		Entity:     d.entity,
		Loading:    d.phase == PhaseLoading,
		Refreshing: d.phase == PhaseRefreshing,
		Err:        d.err,
		Acting:     d.acting,
		ActErr:     d.actErr,
		Deleted:    d.deleted,
	}
}

// Fetch loads the entity with the given id. Fetching the id already held
// is a refresh (stale entity stays visible); a different id starts from a
// blank loading state.
func (d *Detail[T]) Fetch(id string) Effect {
	d.gen++
	d.err = nil
	d.deleted = false
	if d.entity != nil && d.id == id {
		d.phase = PhaseRefreshing
	} else {
		d.entity = nil
		d.phase = PhaseLoading
	}
	d.id = id
	gen := d.gen
	fetch := d.fetch
	return func(ctx context.Context) Event {
		entity, err := fetch(ctx, id)
		return detailResolved[T]{detail: d, gen: gen, entity: entity, err: err}
	}
}

// Act runs a side-effecting call (retry, toggle, …) and adopts the entity
// the server returns. For a retry that entity is a brand-new record; the
// controller re-targets itself to the returned id rather than patching the
// old subject in place. Failure leaves the displayed entity untouched.
func (d *Detail[T]) Act(call func(ctx context.Context) (T, error)) Effect {
	if d.acting {
		return nil
	}
	d.acting = true
	d.actErr = nil
	gen := d.gen
	return func(ctx context.Context) Event {
		entity, err := call(ctx)
		return actResolved[T]{detail: d, gen: gen, entity: entity, err: err}
	}
}

// Delete has no optimistic phase: there is nothing to roll back to after
// removal, so completion is only signalled once the server confirms.
func (d *Detail[T]) Delete(call func(ctx context.Context) error) Effect {
	if d.acting {
		return nil
	}
	d.acting = true
	d.actErr = nil
	gen := d.gen
	return func(ctx context.Context) Event {
		return deleteResolved[T]{detail: d, gen: gen, err: call(ctx)}
	}
}

type detailResolved[T Entity] struct {
	detail *Detail[T]
	gen    uint64
	entity T
	err    error
}

func (e detailResolved[T]) apply() Effect {
	d := e.detail
	if e.gen != d.gen {
		return nil
	}
	if e.err != nil {
		d.phase = PhaseFailed
		d.err = e.err
		return nil
	}
	entity := e.entity
	d.entity = &entity
	d.id = entity.EntityID()
	d.phase = PhaseIdle
	d.err = nil
	return nil
}

type actResolved[T Entity] struct {
	detail *Detail[T]
	gen    uint64
	entity T
	err    error
}

func (e actResolved[T]) apply() Effect {
	d := e.detail
	d.acting = false
	if e.gen != d.gen {
		// The view moved on to another subject while the action ran.
		return nil
	}
	if e.err != nil {
		d.actErr = e.err
		return nil
	}
	entity := e.entity
	d.entity = &entity
	d.id = entity.EntityID()
	return nil
}

type deleteResolved[T Entity] struct {
	detail *Detail[T]
	gen    uint64
	err    error
}

func (e deleteResolved[T]) apply() Effect {
	d := e.detail
	d.acting = false
	if e.gen != d.gen {
		return nil
	}
	if e.err != nil {
		d.actErr = e.err
		return nil
	}
	d.deleted = true
	d.entity = nil
	return nil
}
