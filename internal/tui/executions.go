package tui

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/controller"
)

type executionsScreen struct {
	ctl   *controller.List[api.Execution]
	table table.Model
}

func newExecutionsScreen(client *api.Client, pageSize int) executionsScreen {
	ctl := controller.NewList(controller.ListConfig[api.Execution]{
		Fetch:    executionFetch(client),
		PageSize: pageSize,
	})
	tbl := table.New(table.WithFocused(true))
	tbl.SetStyles(deckTableStyles())
	return executionsScreen{ctl: ctl, table: tbl}
}

func (s *executionsScreen) setSize(width, height int) {
	wfW := maxInt(18, width-52)
	s.table.SetColumns([]table.Column{
		{Title: "ID", Width: 10},
		{Title: "Workflow", Width: wfW},
		{Title: "Status", Width: 10},
		{Title: "Started", Width: 14},
		{Title: "Took", Width: 8},
	})
	s.table.SetWidth(width)
	s.table.SetHeight(maxInt(3, height))
}

func (s *executionsScreen) syncRows() {
	snap := s.ctl.Snapshot()
	rows := make([]table.Row, 0, len(snap.Items))
	for _, e := range snap.Items {
		rows = append(rows, table.Row{
			e.ID,
			truncate(e.WorkflowName, 40),
			statusStyle(e.Status).Render(e.Status),
			relTime(e.StartedAt),
			execDuration(e),
		})
	}
	s.table.SetRows(rows)
	if c := s.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		s.table.SetCursor(len(rows) - 1)
	}
}

func (s *executionsScreen) selected() (api.Execution, bool) {
	items := s.ctl.Snapshot().Items
	c := s.table.Cursor()
	if c < 0 || c >= len(items) {
		return api.Execution{}, false
	}
	return items[c], true
}

func (s *executionsScreen) init() controller.Effect {
	return s.ctl.Refresh()
}

// focusWorkflow narrows the screen to one workflow's executions.
func (s *executionsScreen) focusWorkflow(id string) controller.Effect {
	if s.ctl.Filter(filterWorkflow) == id {
		return s.ctl.Refresh()
	}
	return s.ctl.SetFilter(filterWorkflow, id)
}

func (s *executionsScreen) update(msg tea.Msg, keys keyMap) (controller.Effect, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}

	switch {
	case keyMatches(key, keys.Refresh):
		return s.ctl.Refresh(), true

	case keyMatches(key, keys.CycleFilter):
		next := cycleStatusFilter(s.ctl.Filter(filterStatus))
		return s.ctl.SetFilter(filterStatus, next), true

	case keyMatches(key, keys.ClearFilter):
		if s.ctl.Filter(filterWorkflow) != "" {
			return s.ctl.SetFilter(filterWorkflow, ""), true
		}
		return nil, true

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

func (s *executionsScreen) statusLine() string {
	snap := s.ctl.Snapshot()
	parts := []string{}
	if f := filterLabel("status", s.ctl.Filter(filterStatus)); f != "" {
		parts = append(parts, f)
	}
	if f := filterLabel("workflow", s.ctl.Filter(filterWorkflow)); f != "" {
		parts = append(parts, f)
	}
	return listStatus(len(snap.Items), snap, parts)
}

func (s *executionsScreen) view() string {
	return s.table.View()
}
