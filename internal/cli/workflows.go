package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/browseropen"
)

func newWorkflowsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "workflows", Short: "Inspect and control workflows"}
	cmd.AddCommand(newWorkflowsListCmd(app))
	cmd.AddCommand(newWorkflowsGetCmd(app))
	cmd.AddCommand(newWorkflowsActivateCmd(app, true))
	cmd.AddCommand(newWorkflowsActivateCmd(app, false))
	cmd.AddCommand(newWorkflowsDeleteCmd(app))
	cmd.AddCommand(newWorkflowsOpenCmd(app))
	return cmd
}

func newWorkflowsListCmd(app *App) *cobra.Command {
	var limit int
	var cursor, name, tag, activeFlag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workflows (one page per call)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			opt := api.WorkflowListOptions{
				Limit:  limit,
				Cursor: strings.TrimSpace(cursor),
				Name:   strings.TrimSpace(name),
				Tag:    strings.TrimSpace(tag),
			}
			switch strings.TrimSpace(activeFlag) {
			case "":
			case "true":
				v := true
				opt.Active = &v
			case "false":
				v := false
				opt.Active = &v
			default:
				return writeFailure(cmd, app, errors.New("--active must be true or false"))
			}
			out, err := client.ListWorkflows(cmd.Context(), opt)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, listMeta(out), out.Data)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", api.DefaultPageSize, "Max results per page")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.Flags().StringVar(&name, "name", "", "Filter by name substring")
	cmd.Flags().StringVar(&tag, "tag", "", "Filter by tag")
	cmd.Flags().StringVar(&activeFlag, "active", "", "Filter by activation state (true|false)")
	return cmd
}

func newWorkflowsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <workflow-id>",
		Short: "Show one workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			wf, err := client.GetWorkflow(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, nil, wf)
		},
	}
}

func newWorkflowsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <workflow-id>",
		Short: "Delete a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			id := strings.TrimSpace(args[0])
			if err := client.DeleteWorkflow(cmd.Context(), id); err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, nil, map[string]any{"deleted": id})
		},
	}
}

func newWorkflowsOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open <workflow-id>",
		Short: "Open a workflow in the instance's web editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			u := client.EditorURL(strings.TrimSpace(args[0]))
			if err := browseropen.Open(u); err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, nil, map[string]any{"opened": u})
		},
	}
}

func newWorkflowsActivateCmd(app *App, active bool) *cobra.Command {
	use, short := "activate <workflow-id>", "Activate a workflow"
	if !active {
		use, short = "deactivate <workflow-id>", "Deactivate a workflow"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			wf, err := client.SetWorkflowActive(cmd.Context(), strings.TrimSpace(args[0]), active)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, nil, wf)
		},
	}
}
