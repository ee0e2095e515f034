package cli

import (
	"net/http/httptest"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/config"
	"github.com/flowdeck/flowdeck-cli/internal/mock"
	"github.com/flowdeck/flowdeck-cli/internal/tui"
)

func newDemoCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Explore the TUI against a built-in seeded instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := httptest.NewServer(mock.NewSeeded().Handler())
			defer srv.Close()

			cfg, err := config.LoadOrDefault(app.ConfigPath)
			if err != nil {
				cfg = &config.Store{}
			}
			return tui.Run(api.New(srv.URL, mock.DefaultAPIKey), cfg)
		},
	}
}
