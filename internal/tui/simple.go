package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/controller"
)

// simpleListScreen is the read-only screen shared by credentials and tags:
// a paginated table with refresh and load-more, no filters or actions.
type simpleListScreen[T controller.Entity] struct {
	ctl     *controller.List[T]
	table   table.Model
	columns func(width int) []table.Column
	row     func(T) table.Row
}

func newSimpleListScreen[T controller.Entity](
	fetch controller.FetchFunc[T],
	pageSize int,
	columns func(width int) []table.Column,
	row func(T) table.Row,
) simpleListScreen[T] {
	ctl := controller.NewList(controller.ListConfig[T]{Fetch: fetch, PageSize: pageSize})
	tbl := table.New(table.WithFocused(true))
	tbl.SetStyles(deckTableStyles())
	return simpleListScreen[T]{ctl: ctl, table: tbl, columns: columns, row: row}
}

func (s *simpleListScreen[T]) setSize(width, height int) {
	s.table.SetColumns(s.columns(width))
	s.table.SetWidth(width)
	s.table.SetHeight(maxInt(3, height))
}

func (s *simpleListScreen[T]) syncRows() {
	snap := s.ctl.Snapshot()
	rows := make([]table.Row, 0, len(snap.Items))
	for _, it := range snap.Items {
		rows = append(rows, s.row(it))
	}
	s.table.SetRows(rows)
	if c := s.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		s.table.SetCursor(len(rows) - 1)
	}
}

func (s *simpleListScreen[T]) init() controller.Effect {
	return s.ctl.Refresh()
}

func (s *simpleListScreen[T]) update(msg tea.Msg, keys keyMap) (controller.Effect, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	switch {
	case keyMatches(key, keys.Refresh):
		return s.ctl.Refresh(), true
	case keyMatches(key, keys.LoadMore):
		return s.ctl.LoadMore(), true
	}
	prev := s.table.Cursor()
	var cmd tea.Cmd
	s.table, cmd = s.table.Update(msg)
	_ = cmd
	if s.table.Cursor() == prev && atBottom(s.table) && isDownKey(key) {
		return s.ctl.LoadMore(), true
	}
	return nil, true
}

func (s *simpleListScreen[T]) statusLine() string {
	snap := s.ctl.Snapshot()
	return listStatus(len(snap.Items), snap, nil)
}

func (s *simpleListScreen[T]) view() string {
	return s.table.View()
}

func newCredentialsScreen(client *api.Client, pageSize int) simpleListScreen[api.Credential] {
	return newSimpleListScreen(credentialFetch(client), pageSize,
		func(width int) []table.Column {
			nameW := maxInt(16, width-40)
			return []table.Column{
				{Title: "Name", Width: nameW},
				{Title: "Type", Width: 14},
				{Title: "Updated", Width: 14},
			}
		},
		func(c api.Credential) table.Row {
			return table.Row{truncate(c.Name, 48), c.Type, relTime(c.UpdatedAt)}
		},
	)
}

func newTagsScreen(client *api.Client, pageSize int) simpleListScreen[api.Tag] {
	return newSimpleListScreen(tagFetch(client), pageSize,
		func(width int) []table.Column {
			return []table.Column{
				{Title: "ID", Width: 12},
				{Title: "Name", Width: maxInt(16, width-20)},
			}
		},
		func(t api.Tag) table.Row {
			return table.Row{t.ID, truncate(t.Name, 48)}
		},
	)
}
