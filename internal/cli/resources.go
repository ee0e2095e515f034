package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck-cli/internal/api"
)

func newCredentialsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "credentials", Short: "Inspect stored credentials"}
	var limit int
	var cursor string
	list := &cobra.Command{
		Use:   "list",
		Short: "List credentials (names and types only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			out, err := client.ListCredentials(cmd.Context(), api.CredentialListOptions{
				Limit:  limit,
				Cursor: strings.TrimSpace(cursor),
			})
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, listMeta(out), out.Data)
		},
	}
	list.Flags().IntVar(&limit, "limit", api.DefaultPageSize, "Max results per page")
	list.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.AddCommand(list)
	return cmd
}

func newTagsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{Use: "tags", Short: "Inspect workflow tags"}
	var limit int
	var cursor string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			out, err := client.ListTags(cmd.Context(), api.TagListOptions{
				Limit:  limit,
				Cursor: strings.TrimSpace(cursor),
			})
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, listMeta(out), out.Data)
		},
	}
	list.Flags().IntVar(&limit, "limit", api.DefaultPageSize, "Max results per page")
	list.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from a previous page")
	cmd.AddCommand(list)
	return cmd
}
