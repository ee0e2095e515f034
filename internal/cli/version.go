package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck-cli/internal/buildinfo"
	"github.com/flowdeck/flowdeck-cli/internal/updatecheck"
)

func newVersionCmd(app *App) *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			ver := buildinfo.DisplayVersion()
			data := map[string]any{
				"version": ver,
				"commit":  buildinfo.Commit,
				"date":    buildinfo.Date,
			}
			notice := updatecheck.CachedNotice(ver)
			if check {
				n, err := updatecheck.CheckNow(cmd.Context(), ver, time.Hour)
				if err != nil {
					return writeFailure(cmd, app, err)
				}
				notice = n
			}
			if notice != nil {
				data["update"] = notice
			}
			return writeData(cmd, app, nil, data)
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "Check for a newer release")
	return cmd
}
