package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowdeck/flowdeck-cli/internal/api"
	"github.com/flowdeck/flowdeck-cli/internal/config"
	"github.com/flowdeck/flowdeck-cli/internal/session"
	"github.com/flowdeck/flowdeck-cli/internal/tui"
)

// App carries the resolved invocation context: flags first, then
// environment, then the session/config files.
type App struct {
	InstanceURL string
	APIKey      string
	SessionPath string
	ConfigPath  string
	PrettyJSON  bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "flowdeck",
		Short:        "Terminal client for your workflow automation instance",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	defaultSession, _ := session.DefaultPath()
	defaultConfig, _ := config.DefaultPath()

	cmd.PersistentFlags().StringVar(&app.InstanceURL, "instance", envOr("FLOWDECK_INSTANCE", ""), "Instance base URL (e.g. https://flows.example.com)")
	cmd.PersistentFlags().StringVar(&app.APIKey, "api-key", envOr("FLOWDECK_API_KEY", ""), "API key (or set FLOWDECK_API_KEY)")
	cmd.PersistentFlags().StringVar(&app.SessionPath, "session", envOr("FLOWDECK_SESSION", defaultSession), "Path to session file")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("FLOWDECK_CONFIG", defaultConfig), "Path to config file")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newWorkflowsCmd(app))
	cmd.AddCommand(newExecutionsCmd(app))
	cmd.AddCommand(newCredentialsCmd(app))
	cmd.AddCommand(newTagsCmd(app))
	cmd.AddCommand(newDemoCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

// resolveClient builds the api client from flags, environment and the
// session file, in that order. It is constructed once per invocation and
// passed down; nothing looks credentials up ambiently after this point.
func resolveClient(app *App) (*api.Client, error) {
	instance := strings.TrimSpace(app.InstanceURL)
	key := strings.TrimSpace(app.APIKey)

	if instance == "" || key == "" {
		st, err := session.LoadOrEmpty(app.SessionPath)
		if err != nil {
			return nil, fmt.Errorf("read session: %w", err)
		}
		if instance == "" {
			if cfg, err := config.LoadOrDefault(app.ConfigPath); err == nil && cfg.InstanceURL != "" {
				instance = cfg.InstanceURL
			}
			if instance == "" {
				instance = st.Current
			}
		}
		if key == "" && instance != "" {
			if k, ok := st.Get(instance); ok {
				key = k
			}
		}
	}

	if instance == "" {
		return nil, errors.New("no instance configured; run `flowdeck login <url>` or pass --instance")
	}
	if key == "" {
		return nil, errors.New("no api key for " + instance + "; run `flowdeck login " + instance + "`")
	}
	return api.New(instance, key), nil
}

func runTUI(app *App) error {
	client, err := resolveClient(app)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(app.ConfigPath)
	if err != nil {
		return err
	}
	return tui.Run(client, cfg)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeData(cmd *cobra.Command, app *App, meta map[string]any, data any) error {
	out := map[string]any{
		"ok":   true,
		"data": data,
	}
	if meta != nil {
		out["meta"] = meta
	}
	return writeOut(cmd, app, out)
}

func writeFailure(cmd *cobra.Command, app *App, err error) error {
	if err == nil {
		err = errors.New("unknown error")
	}
	out := map[string]any{
		"ok": false,
		"error": map[string]any{
			"kind":    api.KindOf(err).String(),
			"message": err.Error(),
			"hint":    api.UserMessage(err),
		},
	}
	// Still return the error so cobra exits non-zero.
	_ = writeOut(cmd, app, out)
	return err
}

func listMeta[T any](out api.List[T]) map[string]any {
	meta := map[string]any{"count": len(out.Data)}
	if out.NextCursor != "" {
		meta["nextCursor"] = out.NextCursor
	}
	if out.TotalCount != nil {
		meta["totalCount"] = *out.TotalCount
	}
	return meta
}
