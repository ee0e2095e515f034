package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/session"
)

func newLoginCmd(app *App) *cobra.Command {
	var key string
	var skipVerify bool
	cmd := &cobra.Command{
		Use:   "login <instance-url>",
		Short: "Store an API key for an instance and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instance := strings.TrimSpace(args[0])
			if instance == "" {
				return writeFailure(cmd, app, errors.New("missing instance url"))
			}
			key = strings.TrimSpace(key)
			if key == "" {
				key = strings.TrimSpace(app.APIKey)
			}
			if key == "" {
				return writeFailure(cmd, app, errors.New("missing --api-key"))
			}

			if !skipVerify {
				ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
				defer cancel()
				if err := api.New(instance, key).CheckAuth(ctx); err != nil {
					return writeFailure(cmd, app, fmt.Errorf("verify key against %s: %w", instance, err))
				}
			}

			st, err := session.LoadOrEmpty(app.SessionPath)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			st.Set(instance, key)
			if err := session.SaveAtomic(app.SessionPath, st); err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, nil, map[string]any{"instance": st.Current, "verified": !skipVerify})
		},
	}
	cmd.Flags().StringVar(&key, "api-key", "", "API key for the instance")
	cmd.Flags().BoolVar(&skipVerify, "no-verify", false, "Skip the key check against the instance")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout [instance-url]",
		Short: "Forget the stored API key for an instance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := session.LoadOrEmpty(app.SessionPath)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			target := st.Current
			if len(args) == 1 {
				target = strings.TrimSpace(args[0])
			}
			if target == "" {
				return writeFailure(cmd, app, errors.New("no instance to log out of"))
			}
			st.Delete(target)
			if err := session.SaveAtomic(app.SessionPath, st); err != nil {
				return writeFailure(cmd, app, err)
			}
			return writeData(cmd, app, nil, map[string]any{"instance": target})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current instance and key status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := resolveClient(app)
			if err != nil {
				return writeFailure(cmd, app, err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			reachable := client.CheckAuth(ctx) == nil
			return writeData(cmd, app, nil, map[string]any{
				"instance":  client.BaseURL,
				"reachable": reachable,
			})
		},
	}
}
