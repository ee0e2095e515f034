package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/controller"
)

type workflowsScreen struct {
	client *api.Client
	ctl    *controller.List[api.Workflow]
	table  table.Model
	search textinput.Model
	// searching routes keystrokes into the search input; every edit goes
	// through the controller's debounced SetQuery.
	searching bool
	width     int
}

func newWorkflowsScreen(client *api.Client, pageSize int, debounce time.Duration) workflowsScreen {
	ctl := controller.NewList(controller.ListConfig[api.Workflow]{
		Fetch:    workflowFetch(client),
		PageSize: pageSize,
		QueryKey: filterQuery,
		Debounce: debounce,
	})

	tbl := table.New(table.WithFocused(true))
	tbl.SetStyles(deckTableStyles())

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search workflows"
	search.CharLimit = 80

	return workflowsScreen{client: client, ctl: ctl, table: tbl, search: search}
}

func (s *workflowsScreen) setSize(width, height int) {
	s.width = width
	nameW := maxInt(20, width-46)
	s.table.SetColumns([]table.Column{
		{Title: "Name", Width: nameW},
		{Title: "State", Width: 10},
		{Title: "Tags", Width: 14},
		{Title: "Updated", Width: 14},
	})
	s.table.SetWidth(width)
	s.table.SetHeight(maxInt(3, height))
}

func (s *workflowsScreen) syncRows() {
	snap := s.ctl.Snapshot()
	rows := make([]table.Row, 0, len(snap.Items))
	for _, wf := range snap.Items {
		rows = append(rows, table.Row{
			truncate(wf.Name, 60),
			activeLabel(wf.Active),
			truncate(tagNames(wf.Tags), 14),
			relTime(wf.UpdatedAt),
		})
	}
	s.table.SetRows(rows)
	if c := s.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		s.table.SetCursor(len(rows) - 1)
	}
}

func (s *workflowsScreen) selected() (api.Workflow, bool) {
	items := s.ctl.Snapshot().Items
	c := s.table.Cursor()
	if c < 0 || c >= len(items) {
		return api.Workflow{}, false
	}
	return items[c], true
}

func (s *workflowsScreen) init() controller.Effect {
	return s.ctl.Refresh()
}

// update handles screen-local keys. The boolean reports whether the key was
// consumed; unconsumed keys bubble to the root model.
func (s *workflowsScreen) update(msg tea.Msg, keys keyMap) (controller.Effect, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	if s.searching {
		switch key.String() {
		case "enter":
			s.searching = false
			s.search.Blur()
			return nil, true
		case "esc":
			s.searching = false
			s.search.Blur()
			s.search.SetValue("")
			return s.ctl.SetQuery(""), true
		default:
			before := s.search.Value()
			var cmd tea.Cmd
			s.search, cmd = s.search.Update(msg)
			_ = cmd
			if v := s.search.Value(); v != before {
				return s.ctl.SetQuery(v), true
			}
			return nil, true
		}
	}

	switch {
	case keyMatches(key, keys.Search):
		s.searching = true
		s.search.Focus()
		return nil, true

	case keyMatches(key, keys.Refresh):
		return s.ctl.Refresh(), true

	case keyMatches(key, keys.CycleFilter):
		next := cycleActiveFilter(s.ctl.Filter(filterActive))
		return s.ctl.SetFilter(filterActive, next), true

	case keyMatches(key, keys.Toggle):
		wf, ok := s.selected()
		if !ok {
			return nil, true
		}
		target := !wf.Active
		client := s.client
		return s.ctl.Mutate(wf.ID,
			func(w api.Workflow) api.Workflow { w.Active = target; return w },
			func(ctx context.Context) (api.Workflow, error) {
				return client.SetWorkflowActive(ctx, wf.ID, target)
			},
		), true

	case keyMatches(key, keys.LoadMore):
		return s.ctl.LoadMore(), true
	}

	prev := s.table.Cursor()
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	_ = cmd
	// Walking off the last row pulls the next page in.
	if s.table.Cursor() == prev && atBottom(s.table) && isDownKey(key) {
		return s.ctl.LoadMore(), true
	}
	return nil, true
}

func (s *workflowsScreen) statusLine() string {
	snap := s.ctl.Snapshot()
	parts := []string{}
	if f := filterLabel("active", s.ctl.Filter(filterActive)); f != "" {
		parts = append(parts, f)
	}
	if q := s.ctl.Filter(filterQuery); q != "" {
		parts = append(parts, "query="+q)
	}
	return listStatus(len(snap.Items), snap, parts)
}

func (s *workflowsScreen) view() string {
	lines := s.table.View()
	if s.searching || s.search.Value() != "" {
		lines = s.search.View() + "\n" + lines
	}
	return lines
}

func atBottom(t table.Model) bool {
	rows := t.Rows()
	return len(rows) > 0 && t.Cursor() >= len(rows)-1
}

func isDownKey(key tea.KeyMsg) bool {
	switch key.String() {
	case "down", "j", "pgdown":
		return true
	}
	return false
}

// listStatus renders the shared "N items · filters · lifecycle" line.
func listStatus[T controller.Entity](count int, snap controller.ListSnapshot[T], filters []string) string {
	out := fmt.Sprintf("%d items", count)
	if snap.HasTotal {
		out = fmt.Sprintf("%d of %d", count, snap.TotalCount)
	}
	for _, f := range filters {
		out += " · " + f
	}
	switch {
	case snap.Loading:
		out += " · loading"
	case snap.Refreshing:
		out += " · refreshing"
	case snap.LoadingMore:
		out += " · more…"
	case snap.HasMore:
		out += " · ↓ more"
	}
	return out
}
