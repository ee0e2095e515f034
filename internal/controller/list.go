package controller

import (
	"context"
	"time"
)

const (
	defaultPageSize = 25
	defaultDebounce = 300 * time.Millisecond
	defaultQueryKey = "query"
)

// ListConfig configures a List. Fetch is required; the rest defaults.
type ListConfig[T Entity] struct {
	Fetch    FetchFunc[T]
	PageSize int
	// QueryKey is the filter key SetQuery writes to.
	QueryKey string
	// Debounce is the coalescing window for SetQuery. Keystrokes inside
	// the window supersede each other; only the last issues a request.
	Debounce time.Duration
}

// List owns a growing view over one cursor-paginated collection: the item
// sequence, cursor, filter set and fetch lifecycle. The sequence is a
// strict concatenation of the pages fetched since the last refresh or
// filter change; the controller never reorders or deduplicates it.
type List[T Entity] struct {
	fetch    FetchFunc[T]
	pageSize int
	queryKey string
	debounce time.Duration

	gen        uint64
	items      []T
	cursor     string
	hasMore    bool
	totalCount *int
	filters    map[string]string
	phase      Phase
	err        error
}

func NewList[T Entity](cfg ListConfig[T]) *List[T] {
	l := &List[T]{
		fetch:    cfg.Fetch,
		pageSize: cfg.PageSize,
		queryKey: cfg.QueryKey,
		debounce: cfg.Debounce,
		hasMore:  true,
		filters:  map[string]string{},
	}
	if l.pageSize <= 0 {
		l.pageSize = defaultPageSize
	}
	if l.queryKey == "" {
		l.queryKey = defaultQueryKey
	}
	if l.debounce <= 0 {
		l.debounce = defaultDebounce
	}
	return l
}

// ListSnapshot is the read-only view handed to the UI layer.
type ListSnapshot[T Entity] struct {
	Items       []T
	HasMore     bool
	TotalCount  int
	HasTotal    bool
	Loading     bool
	Refreshing  bool
	LoadingMore bool
	Err         error
}

func (l *List[T]) Snapshot() ListSnapshot[T] {
	s := ListSnapshot[T]{
		Items:       l.items,
		HasMore:     l.hasMore,
		Loading:     l.phase == PhaseLoading,
		Refreshing:  l.phase == PhaseRefreshing,
		LoadingMore: l.phase == PhaseLoadingMore,
		Err:         l.err,
	}
	if l.totalCount != nil {
		s.TotalCount = *l.totalCount
		s.HasTotal = true
	}
	return s
}

// Filter reports the current value for a filter key.
func (l *List[T]) Filter(key string) string { return l.filters[key] }

func (l *List[T]) inFlight() bool {
	switch l.phase {
	case PhaseLoading, PhaseRefreshing, PhaseLoadingMore:
		return true
	}
	return false
}

// Refresh re-fetches the first page under the current filter set. Existing
// items stay visible until the result lands. A refresh supersedes anything
// in flight: the generation advances, so an earlier refresh or a pending
// load-more resolves into a dropped event.
func (l *List[T]) Refresh() Effect {
	l.gen++
	l.err = nil
	if len(l.items) == 0 {
		l.phase = PhaseLoading
	} else {
		l.phase = PhaseRefreshing
	}
	return l.fetchEffect(l.gen, "", true)
}

// LoadMore fetches the next page and appends it. No-op while any fetch is
// in flight or when the chain is exhausted.
func (l *List[T]) LoadMore() Effect {
	if !l.hasMore || l.inFlight() {
		return nil
	}
	l.err = nil
	l.phase = PhaseLoadingMore
	return l.fetchEffect(l.gen, l.cursor, false)
}

// SetFilter sets (or, with empty value, removes) one filter key and resets
// the view: the snapshot clears synchronously so the UI shows a loading
// state immediately, then the returned effect fetches under the new set.
func (l *List[T]) SetFilter(key, value string) Effect {
	l.writeFilter(key, value)
	l.resetView()
	l.gen++
	l.err = nil
	l.phase = PhaseLoading
	return l.fetchEffect(l.gen, "", true)
}

// SetQuery is SetFilter for the free-text key, debounced. The snapshot
// still clears synchronously per keystroke; the network call only happens
// for the keystroke whose debounce window survives.
func (l *List[T]) SetQuery(value string) Effect {
	l.writeFilter(l.queryKey, value)
	l.resetView()
	l.gen++
	l.err = nil
	l.phase = PhaseLoading
	gen := l.gen
	wait := l.debounce
	return func(ctx context.Context) Event {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
		return queryElapsed[T]{list: l, gen: gen}
	}
}

// Mutate optimistically applies patch to the item with the given id, then
// runs call in the background. The server's returned entity is merged back
// by id; on failure the item reverts to its pre-mutation value. Items are
// never evicted and the fetch lifecycle is not occupied.
func (l *List[T]) Mutate(id string, patch func(T) T, call func(ctx context.Context) (T, error)) Effect {
	idx := l.indexOf(id)
	if idx < 0 {
		return nil
	}
	prev := l.items[idx]
	l.items[idx] = patch(prev)
	return func(ctx context.Context) Event {
		entity, err := call(ctx)
		return mutateResolved[T]{list: l, id: id, prev: prev, entity: entity, err: err}
	}
}

func (l *List[T]) writeFilter(key, value string) {
	if value == "" {
		delete(l.filters, key)
		return
	}
	l.filters[key] = value
}

func (l *List[T]) resetView() {
	l.items = nil
	l.cursor = ""
	l.hasMore = true
	l.totalCount = nil
}

func (l *List[T]) fetchEffect(gen uint64, cursor string, replace bool) Effect {
	req := Request{
		Cursor:  cursor,
		Limit:   l.pageSize,
		Filters: cloneFilters(l.filters),
	}
	fetch := l.fetch
	return func(ctx context.Context) Event {
		page, err := fetch(ctx, req)
		return pageResolved[T]{list: l, gen: gen, replace: replace, page: page, err: err}
	}
}

func (l *List[T]) indexOf(id string) int {
	for i := range l.items {
		if l.items[i].EntityID() == id {
			return i
		}
	}
	return -1
}

// pageResolved carries a completed page fetch back to its list.
type pageResolved[T Entity] struct {
	list    *List[T]
	gen     uint64
	replace bool
	page    Page[T]
	err     error
}

func (e pageResolved[T]) apply() Effect {
	l := e.list
	if e.gen != l.gen {
		// Issued under a superseded filter/cursor context; drop.
		return nil
	}
	if e.err != nil {
		l.phase = PhaseFailed
		l.err = e.err
		return nil
	}
	l.err = nil
	l.phase = PhaseIdle
	if e.replace {
		l.items = e.page.Items
	} else {
		l.items = append(l.items, e.page.Items...)
	}
	l.cursor = e.page.NextCursor
	// A cursor alongside an empty page is treated as exhausted so a
	// misbehaving endpoint cannot induce an infinite load-more loop.
	l.hasMore = e.page.NextCursor != "" && len(e.page.Items) > 0
	if e.page.TotalCount != nil {
		l.totalCount = e.page.TotalCount
	}
	return nil
}

// queryElapsed fires when a SetQuery debounce window ends. If the
// generation still matches, the actual fetch is issued as a follow-up
// effect under that same generation.
type queryElapsed[T Entity] struct {
	list *List[T]
	gen  uint64
}

func (e queryElapsed[T]) apply() Effect {
	l := e.list
	if e.gen != l.gen {
		return nil
	}
	return l.fetchEffect(e.gen, "", true)
}

// mutateResolved reconciles an optimistic mutation by id, independent of
// generation: a refresh in between does not orphan the server's answer as
// long as the item is still present.
type mutateResolved[T Entity] struct {
	list   *List[T]
	id     string
	prev   T
	entity T
	err    error
}

func (e mutateResolved[T]) apply() Effect {
	l := e.list
	idx := l.indexOf(e.id)
	if e.err != nil {
		if idx >= 0 {
			l.items[idx] = e.prev
		}
		l.err = e.err
		return nil
	}
	if idx >= 0 {
		l.items[idx] = e.entity
	}
	return nil
}
