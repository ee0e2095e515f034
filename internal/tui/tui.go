package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/browseropen"
	"github.com/flowdeck/flowdeck-cli/internal/config"
	"github.com/flowdeck/flowdeck-cli/internal/controller"
)

type mode int

const (
	modeWorkflows mode = iota
	modeExecutions
	modeCredentials
	modeTags
	modeWorkflowDetail
	modeExecutionDetail
)

type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Refresh     key.Binding
	Search      key.Binding
	CycleFilter key.Binding
	ClearFilter key.Binding
	Toggle      key.Binding
	Retry       key.Binding
	Delete      key.Binding
	LoadMore    key.Binding
	Web         key.Binding
	Open        key.Binding
	Back        key.Binding
	Executions  key.Binding
	Workflows   key.Binding
	Credentials key.Binding
	Tags        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		CycleFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "cycle filter")),
		ClearFilter: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear workflow filter")),
		Toggle:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle active")),
		Retry:       key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "retry")),
		Delete:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		LoadMore:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Web:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:        key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Workflows:   key.NewBinding(key.WithKeys("1", "w"), key.WithHelp("1", "workflows")),
		Executions:  key.NewBinding(key.WithKeys("2", "e"), key.WithHelp("2", "executions")),
		Credentials: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "credentials")),
		Tags:        key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "tags")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Refresh, k.Search, k.CycleFilter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Workflows, k.Executions, k.Credentials, k.Tags},
		{k.Open, k.Back, k.Refresh, k.LoadMore},
		{k.Search, k.CycleFilter, k.ClearFilter},
		{k.Toggle, k.Retry, k.Delete, k.Web},
		{k.Help, k.Quit},
	}
}

func keyMatches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

// confirmState is a yes/no prompt blocking input until answered.
type confirmState struct {
	prompt string
	run    func() controller.Effect
}

type Model struct {
	ctx    context.Context
	client *api.Client
	keys   keyMap
	help   help.Model
	spin   spinner.Model

	mode    mode
	width   int
	height  int
	confirm *confirmState
	// spinning tracks whether a spinner tick loop is already scheduled.
	spinning bool

	workflows   workflowsScreen
	executions  executionsScreen
	credentials simpleListScreen[api.Credential]
	tags        simpleListScreen[api.Tag]
	wfDetail    workflowDetailScreen
	execDetail  executionDetailScreen
}

func NewModel(client *api.Client, cfg *config.Store) Model {
	pageSize := cfg.EffectivePageSize()
	debounce := time.Duration(cfg.EffectiveDebounceMS()) * time.Millisecond

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = accentStyle

	return Model{
		ctx:         context.Background(),
		client:      client,
		keys:        defaultKeyMap(),
		help:        help.New(),
		spin:        sp,
		workflows:   newWorkflowsScreen(client, pageSize, debounce),
		executions:  newExecutionsScreen(client, pageSize),
		credentials: newCredentialsScreen(client, pageSize),
		tags:        newTagsScreen(client, pageSize),
		wfDetail:    newWorkflowDetailScreen(client),
		execDetail:  newExecutionDetailScreen(client),
	}
}

func Run(client *api.Client, cfg *config.Store) error {
	p := tea.NewProgram(NewModel(client, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) run(eff controller.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg { return eff(ctx) }
}

// issue schedules an effect and keeps the spinner ticking while anything
// is in flight.
func (m *Model) issue(eff controller.Effect) tea.Cmd {
	cmds := []tea.Cmd{}
	if cmd := m.run(eff); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.busy() && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spin.Tick)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) busy() bool {
	if s := m.workflows.ctl.Snapshot(); s.Loading || s.Refreshing || s.LoadingMore {
		return true
	}
	if s := m.executions.ctl.Snapshot(); s.Loading || s.Refreshing || s.LoadingMore {
		return true
	}
	if s := m.credentials.ctl.Snapshot(); s.Loading || s.Refreshing || s.LoadingMore {
		return true
	}
	if s := m.tags.ctl.Snapshot(); s.Loading || s.Refreshing || s.LoadingMore {
		return true
	}
	if s := m.wfDetail.ctl.Snapshot(); s.Loading || s.Refreshing || s.Acting {
		return true
	}
	if s := m.execDetail.ctl.Snapshot(); s.Loading || s.Refreshing || s.Acting {
		return true
	}
	return false
}

func (m *Model) syncAll() {
	m.workflows.syncRows()
	m.executions.syncRows()
	m.credentials.syncRows()
	m.tags.syncRows()
	m.wfDetail.sync()
	m.execDetail.sync()
}

func (m *Model) layout() {
	bodyH := m.height - 6
	bodyW := m.width - 4
	m.workflows.setSize(bodyW, bodyH)
	m.executions.setSize(bodyW, bodyH)
	m.credentials.setSize(bodyW, bodyH)
	m.tags.setSize(bodyW, bodyH)
	m.wfDetail.setSize(bodyW, bodyH)
	m.execDetail.setSize(bodyW, bodyH)
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.run(m.workflows.init()),
		m.run(m.executions.init()),
		m.spin.Tick,
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.syncAll()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		m.spinning = true
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case controller.Event:
		followUp := controller.Apply(msg)
		m.syncAll()

		cmds := []tea.Cmd{}
		if cmd := m.issue(followUp); cmd != nil {
			cmds = append(cmds, cmd)
		}
		// A confirmed delete pops the detail view and refreshes the list
		// it came from.
		if m.mode == modeExecutionDetail && m.execDetail.ctl.Snapshot().Deleted {
			m.mode = modeExecutions
			if cmd := m.issue(m.executions.ctl.Refresh()); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			c := m.confirm
			m.confirm = nil
			return m, m.issue(c.run())
		case "n", "N", "esc":
			m.confirm = nil
		}
		return m, nil
	}

	// Search capture: all keys go to the input except enter/esc.
	if m.mode == modeWorkflows && m.workflows.searching {
		eff, _ := m.workflows.update(msg, m.keys)
		m.syncAll()
		return m, m.issue(eff)
	}

	switch {
	case keyMatches(msg, m.keys.Quit):
		return m, tea.Quit

	case keyMatches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case keyMatches(msg, m.keys.Workflows):
		m.mode = modeWorkflows
		return m, nil

	case keyMatches(msg, m.keys.Executions):
		if m.mode == modeWorkflowDetail {
			// Narrow the executions screen to this workflow.
			if snap := m.wfDetail.ctl.Snapshot(); snap.Entity != nil {
				m.mode = modeExecutions
				eff := m.executions.focusWorkflow(snap.Entity.ID)
				m.syncAll()
				return m, m.issue(eff)
			}
		}
		m.mode = modeExecutions
		return m, nil

	case keyMatches(msg, m.keys.Credentials):
		m.mode = modeCredentials
		if len(m.credentials.ctl.Snapshot().Items) == 0 {
			return m, m.issue(m.credentials.init())
		}
		return m, nil

	case keyMatches(msg, m.keys.Tags):
		m.mode = modeTags
		if len(m.tags.ctl.Snapshot().Items) == 0 {
			return m, m.issue(m.tags.init())
		}
		return m, nil

	case keyMatches(msg, m.keys.Open):
		switch m.mode {
		case modeWorkflows:
			if wf, ok := m.workflows.selected(); ok {
				m.mode = modeWorkflowDetail
				eff := m.wfDetail.open(wf.ID)
				m.syncAll()
				return m, m.issue(eff)
			}
		case modeExecutions:
			if e, ok := m.executions.selected(); ok {
				m.mode = modeExecutionDetail
				eff := m.execDetail.open(e.ID)
				m.syncAll()
				return m, m.issue(eff)
			}
		}
		return m, nil

	case keyMatches(msg, m.keys.Back):
		switch m.mode {
		case modeWorkflowDetail:
			m.mode = modeWorkflows
		case modeExecutionDetail:
			m.mode = modeExecutions
		}
		return m, nil

	case keyMatches(msg, m.keys.Web):
		var id string
		switch m.mode {
		case modeWorkflows:
			if wf, ok := m.workflows.selected(); ok {
				id = wf.ID
			}
		case modeWorkflowDetail:
			if snap := m.wfDetail.ctl.Snapshot(); snap.Entity != nil {
				id = snap.Entity.ID
			}
		}
		if id == "" {
			return m, nil
		}
		u := m.client.EditorURL(id)
		return m, func() tea.Msg {
			_ = browseropen.Open(u)
			return nil
		}

	case keyMatches(msg, m.keys.Delete) && m.mode == modeExecutionDetail:
		if snap := m.execDetail.ctl.Snapshot(); snap.Entity != nil {
			id := snap.Entity.ID
			screen := &m.execDetail
			m.confirm = &confirmState{
				prompt: "Delete execution " + id + "? (y/n)",
				run:    screen.deleteCurrent,
			}
		}
		return m, nil
	}

	var eff controller.Effect
	switch m.mode {
	case modeWorkflows:
		eff, _ = m.workflows.update(msg, m.keys)
	case modeExecutions:
		eff, _ = m.executions.update(msg, m.keys)
	case modeCredentials:
		eff, _ = m.credentials.update(msg, m.keys)
	case modeTags:
		eff, _ = m.tags.update(msg, m.keys)
	case modeWorkflowDetail:
		eff, _ = m.wfDetail.update(msg, m.keys)
	case modeExecutionDetail:
		eff, _ = m.execDetail.update(msg, m.keys)
	}
	m.syncAll()
	return m, m.issue(eff)
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading…"
	}

	header := m.renderTabs()
	status := m.renderStatus()

	var body, line string
	switch m.mode {
	case modeWorkflows:
		body = m.workflows.view()
		line = m.workflows.statusLine()
	case modeExecutions:
		body = m.executions.view()
		line = m.executions.statusLine()
	case modeCredentials:
		body = m.credentials.view()
		line = m.credentials.statusLine()
	case modeTags:
		body = m.tags.view()
		line = m.tags.statusLine()
	case modeWorkflowDetail:
		body = m.wfDetail.view()
		line = m.wfDetail.statusLine()
	case modeExecutionDetail:
		body = m.execDetail.view()
		line = m.execDetail.statusLine()
	}

	pane := paneStyle.Width(maxInt(10, m.width-2)).Render(body)

	rows := []string{header, pane}
	if line != "" {
		rows = append(rows, mutedStyle.Render(line))
	}
	rows = append(rows, status)
	rows = append(rows, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderTabs() string {
	tabs := []struct {
		label string
		modes []mode
	}{
		{"1 Workflows", []mode{modeWorkflows, modeWorkflowDetail}},
		{"2 Executions", []mode{modeExecutions, modeExecutionDetail}},
		{"3 Credentials", []mode{modeCredentials}},
		{"4 Tags", []mode{modeTags}},
	}
	out := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := tabStyle
		for _, md := range t.modes {
			if md == m.mode {
				style = activeTabStyle
			}
		}
		out = append(out, style.Render(t.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

// renderStatus shows the spinner, any pending confirmation prompt, and the
// most relevant error. Prior data stays on screen; errors ride alongside.
func (m Model) renderStatus() string {
	if m.confirm != nil {
		return warnStyle.Render(m.confirm.prompt)
	}
	if err := m.currentError(); err != nil {
		return dangerStyle.Render(api.UserMessage(err))
	}
	if m.busy() {
		return m.spin.View() + mutedStyle.Render(" working")
	}
	return mutedStyle.Render(m.client.BaseURL)
}

func (m Model) currentError() error {
	switch m.mode {
	case modeWorkflows:
		return m.workflows.ctl.Snapshot().Err
	case modeExecutions:
		return m.executions.ctl.Snapshot().Err
	case modeCredentials:
		return m.credentials.ctl.Snapshot().Err
	case modeTags:
		return m.tags.ctl.Snapshot().Err
	case modeWorkflowDetail:
		snap := m.wfDetail.ctl.Snapshot()
		if snap.ActErr != nil {
			return snap.ActErr
		}
		return snap.Err
	case modeExecutionDetail:
		snap := m.execDetail.ctl.Snapshot()
		if snap.ActErr != nil {
			return snap.ActErr
		}
		return snap.Err
	}
	return nil
}
