package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/flowdeck/flowdeck-cli/internal/cli"
	"github.com/flowdeck/flowdeck-cli/internal/mock"
	"github.com/flowdeck/flowdeck-cli/internal/session"
)

func runCLI(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()

	var payload map[string]any
	if out.Len() > 0 {
		if jsonErr := json.Unmarshal(out.Bytes(), &payload); jsonErr != nil {
			t.Fatalf("non-json output: %v\n%s", jsonErr, out.String())
		}
	}
	return payload, err
}

func demoServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(mock.NewSeeded().Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestWorkflowsList_Envelope(t *testing.T) {
	url := demoServer(t)
	out, err := runCLI(t,
		"workflows", "list", "--limit", "5",
		"--instance", url, "--api-key", mock.DefaultAPIKey,
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out["ok"] != true {
		t.Fatalf("expected ok envelope, got %v", out)
	}
	data, _ := out["data"].([]any)
	if len(data) != 5 {
		t.Fatalf("expected 5 workflows, got %d", len(data))
	}
	meta, _ := out["meta"].(map[string]any)
	if meta["nextCursor"] == "" || meta["nextCursor"] == nil {
		t.Fatalf("expected a next cursor in meta, got %v", meta)
	}
}

func TestWorkflowsList_CursorPagesThrough(t *testing.T) {
	url := demoServer(t)
	first, err := runCLI(t,
		"workflows", "list", "--limit", "10",
		"--instance", url, "--api-key", mock.DefaultAPIKey,
	)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	cursor, _ := first["meta"].(map[string]any)["nextCursor"].(string)
	if cursor == "" {
		t.Fatalf("expected next cursor")
	}

	second, err := runCLI(t,
		"workflows", "list", "--limit", "10", "--cursor", cursor,
		"--instance", url, "--api-key", mock.DefaultAPIKey,
	)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	meta, _ := second["meta"].(map[string]any)
	if _, ok := meta["nextCursor"]; ok {
		t.Fatalf("expected exhausted chain, got %v", meta)
	}
	data, _ := second["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("expected remaining 2 workflows, got %d", len(data))
	}
}

func TestBadKey_FailureEnvelope(t *testing.T) {
	url := demoServer(t)
	out, err := runCLI(t,
		"workflows", "list",
		"--instance", url, "--api-key", "wrong",
	)
	if err == nil {
		t.Fatalf("expected non-zero result")
	}
	if out["ok"] != false {
		t.Fatalf("expected failure envelope, got %v", out)
	}
	errObj, _ := out["error"].(map[string]any)
	if errObj["kind"] != "auth" {
		t.Fatalf("expected auth kind, got %v", errObj)
	}
}

func TestLogin_PersistsSessionAndWhoami(t *testing.T) {
	url := demoServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")

	out, err := runCLI(t,
		"login", url, "--api-key", mock.DefaultAPIKey,
		"--session", sessionPath,
	)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out["ok"] != true {
		t.Fatalf("expected ok login, got %v", out)
	}

	st, err := session.Load(sessionPath)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	instance, key, ok := st.CurrentRecord()
	if !ok || instance != url || key != mock.DefaultAPIKey {
		t.Fatalf("unexpected session record: %q %q %v", instance, key, ok)
	}

	// whoami resolves the client from the stored session alone.
	out, err = runCLI(t, "whoami", "--session", sessionPath)
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	data, _ := out["data"].(map[string]any)
	if data["instance"] != url || data["reachable"] != true {
		t.Fatalf("unexpected whoami data %v", data)
	}
}

func TestLogin_RejectsBadKey(t *testing.T) {
	url := demoServer(t)
	sessionPath := filepath.Join(t.TempDir(), "session.json")

	_, err := runCLI(t, "login", url, "--api-key", "wrong", "--session", sessionPath)
	if err == nil {
		t.Fatalf("expected login verification failure")
	}
	if _, loadErr := session.Load(sessionPath); loadErr == nil {
		t.Fatalf("rejected key must not be persisted")
	}
}

func TestExecutionsRetry_ReturnsNewExecution(t *testing.T) {
	url := demoServer(t)

	list, err := runCLI(t,
		"executions", "list", "--status", "error", "--limit", "1",
		"--instance", url, "--api-key", mock.DefaultAPIKey,
	)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	data, _ := list["data"].([]any)
	if len(data) == 0 {
		t.Fatalf("expected a failed execution in seed")
	}
	id, _ := data[0].(map[string]any)["id"].(string)

	out, err := runCLI(t,
		"executions", "retry", id,
		"--instance", url, "--api-key", mock.DefaultAPIKey,
	)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	retried, _ := out["data"].(map[string]any)
	if retried["id"] == id {
		t.Fatalf("expected a new execution id")
	}
	if retried["retryOf"] != id {
		t.Fatalf("expected retryOf=%s, got %v", id, retried["retryOf"])
	}
}
