package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/controller"
)

type workflowDetailScreen struct {
	client *api.Client
	ctl    *controller.Detail[api.Workflow]
	vp     viewport.Model
}

func newWorkflowDetailScreen(client *api.Client) workflowDetailScreen {
	ctl := controller.NewDetail(func(ctx context.Context, id string) (api.Workflow, error) {
		return client.GetWorkflow(ctx, id)
	})
	return workflowDetailScreen{client: client, ctl: ctl, vp: viewport.New(0, 0)}
}

func (s *workflowDetailScreen) setSize(width, height int) {
	s.vp.Width = width
	s.vp.Height = maxInt(3, height)
}

func (s *workflowDetailScreen) open(id string) controller.Effect {
	return s.ctl.Fetch(id)
}

func (s *workflowDetailScreen) update(msg tea.Msg, keys keyMap) (controller.Effect, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	snap := s.ctl.Snapshot()

	switch {
	case keyMatches(key, keys.Refresh):
		if snap.ID != "" {
			return s.ctl.Fetch(snap.ID), true
		}
		return nil, true

	case keyMatches(key, keys.Toggle):
		if snap.Entity == nil {
			return nil, true
		}
		id := snap.Entity.ID
		target := !snap.Entity.Active
		client := s.client
		return s.ctl.Act(func(ctx context.Context) (api.Workflow, error) {
			return client.SetWorkflowActive(ctx, id, target)
		}), true
	}

	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	_ = cmd
	return nil, true
}

func (s *workflowDetailScreen) sync() {
	snap := s.ctl.Snapshot()
	if snap.Entity == nil {
		if snap.Loading {
			s.vp.SetContent(mutedStyle.Render("Loading…"))
		} else {
			s.vp.SetContent(mutedStyle.Render("No workflow selected."))
		}
		return
	}
	wf := snap.Entity
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(wf.Name))
	fmt.Fprintf(&b, "ID        %s\n", wf.ID)
	fmt.Fprintf(&b, "State     %s\n", activeLabel(wf.Active))
	fmt.Fprintf(&b, "Tags      %s\n", tagNames(wf.Tags))
	fmt.Fprintf(&b, "Nodes     %d\n", wf.NodeCount)
	fmt.Fprintf(&b, "Created   %s\n", relTime(wf.CreatedAt))
	fmt.Fprintf(&b, "Updated   %s\n", relTime(wf.UpdatedAt))
	b.WriteString("\n" + mutedStyle.Render("a toggle active · o open in browser · e executions · r refresh · esc back"))
	s.vp.SetContent(b.String())
}

func (s *workflowDetailScreen) statusLine() string {
	snap := s.ctl.Snapshot()
	switch {
	case snap.Loading:
		return "loading"
	case snap.Refreshing:
		return "refreshing"
	case snap.Acting:
		return "applying…"
	}
	return ""
}

func (s *workflowDetailScreen) view() string {
	return s.vp.View()
}

type executionDetailScreen struct {
	client *api.Client
	ctl    *controller.Detail[api.Execution]
	vp     viewport.Model
}

func newExecutionDetailScreen(client *api.Client) executionDetailScreen {
	ctl := controller.NewDetail(func(ctx context.Context, id string) (api.Execution, error) {
		return client.GetExecution(ctx, id)
	})
	return executionDetailScreen{client: client, ctl: ctl, vp: viewport.New(0, 0)}
}

func (s *executionDetailScreen) setSize(width, height int) {
	s.vp.Width = width
	s.vp.Height = maxInt(3, height)
}

func (s *executionDetailScreen) open(id string) controller.Effect {
	return s.ctl.Fetch(id)
}

// retry re-runs the execution. The platform answers with a brand-new
// execution; the controller re-targets the screen to it.
func (s *executionDetailScreen) retry() controller.Effect {
	snap := s.ctl.Snapshot()
	if snap.Entity == nil {
		return nil
	}
	id := snap.Entity.ID
	client := s.client
	return s.ctl.Act(func(ctx context.Context) (api.Execution, error) {
		return client.RetryExecution(ctx, id)
	})
}

func (s *executionDetailScreen) deleteCurrent() controller.Effect {
	snap := s.ctl.Snapshot()
	if snap.Entity == nil {
		return nil
	}
	id := snap.Entity.ID
	client := s.client
	return s.ctl.Delete(func(ctx context.Context) error {
		return client.DeleteExecution(ctx, id)
	})
}

func (s *executionDetailScreen) update(msg tea.Msg, keys keyMap) (controller.Effect, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	snap := s.ctl.Snapshot()

	switch {
	case keyMatches(key, keys.Refresh):
		if snap.ID != "" {
			return s.ctl.Fetch(snap.ID), true
		}
		return nil, true

	case keyMatches(key, keys.Retry):
		return s.retry(), true
	}

	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	_ = cmd
	return nil, true
}

func (s *executionDetailScreen) sync() {
	snap := s.ctl.Snapshot()
	if snap.Entity == nil {
		switch {
		case snap.Deleted:
			s.vp.SetContent(mutedStyle.Render("Execution deleted."))
		case snap.Loading:
			s.vp.SetContent(mutedStyle.Render("Loading…"))
		default:
			s.vp.SetContent(mutedStyle.Render("No execution selected."))
		}
		return
	}
	e := snap.Entity
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Execution "+e.ID))
	fmt.Fprintf(&b, "Workflow  %s (%s)\n", e.WorkflowName, e.WorkflowID)
	fmt.Fprintf(&b, "Status    %s\n", statusStyle(e.Status).Render(e.Status))
	fmt.Fprintf(&b, "Mode      %s\n", e.Mode)
	if e.RetryOf != "" {
		fmt.Fprintf(&b, "Retry of  %s\n", e.RetryOf)
	}
	fmt.Fprintf(&b, "Started   %s\n", relTime(e.StartedAt))
	fmt.Fprintf(&b, "Took      %s\n", execDuration(*e))
	b.WriteString("\n" + mutedStyle.Render("R retry · x delete · r refresh · esc back"))
	s.vp.SetContent(b.String())
}

func (s *executionDetailScreen) statusLine() string {
	snap := s.ctl.Snapshot()
	switch {
	case snap.Loading:
		return "loading"
	case snap.Refreshing:
		return "refreshing"
	case snap.Acting:
		return "working…"
	}
	return ""
}

func (s *executionDetailScreen) view() string {
	return s.vp.View()
}
