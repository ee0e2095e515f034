package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck-cli/internal/api"
)

func newExecutionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "executions", Short: "Inspect and act on executions"}
	cmd.AddCommand(newExecutionsListCmd(app))
	cmd.AddCommand(newExecutionsGetCmd(app))
	cmd.AddCommand(newExecutionsRetryCmd(app))
	cmd.AddCommand(newExecutionsDeleteCmd(app))
	return cmd
}

func newExecutionsListCmd(app *App) *cobra.Command {
	var limit int
	var cursor, status, workflowID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List executions (one page per call)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			out, err := client.ListExecutions(cmd.Context(), api.ExecutionListOptions{
				Limit:      limit,
				Cursor:     strings.TrimSpace(cursor),
				Status:     strings.TrimSpace(status),
				WorkflowID: strings.TrimSpace(workflowID),
			})
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, listMeta(out), out.Data)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", api.DefaultPageSize, "Max results per page")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (success|error|running|waiting|canceled)")
	cmd.Flags().StringVar(&workflowID, "workflow", "", "Filter by workflow id")
	return cmd
}

func newExecutionsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <execution-id>",
		Short: "Show one execution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			e, err := client.GetExecution(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, nil, e)
		},
	}
}

func newExecutionsRetryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <execution-id>",
		Short: "Retry a finished execution (creates a new execution)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			e, err := client.RetryExecution(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, map[string]any{"retryOf": e.RetryOf}, e)
		},
	}
}

func newExecutionsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <execution-id>",
		Short: "Delete an execution record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			id := strings.TrimSpace(args[0])
			if err := client.DeleteExecution(cmd.Context(), id); err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, nil, map[string]any{"deleted": id})
		},
	}
}
