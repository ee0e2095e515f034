package browseropen

import (
	"errors"
	"testing"
)

func withRecordedCommands(t *testing.T) *[][]string {
	t.Helper()
	var calls [][]string
	prev := startCommand
	startCommand = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}
	t.Cleanup(func() { startCommand = prev })
	return &calls
}

func TestOpenRejectsEmptyURL(t *testing.T) {
	if err := Open("   "); err == nil {
		t.Fatal("expected error for blank url")
	}
}

func TestOpenForDarwin(t *testing.T) {
	calls := withRecordedCommands(t)
	if err := openFor("darwin", false, "", "https://flows.example.com/workflow/wf-1"); err != nil {
		t.Fatalf("openFor: %v", err)
	}
	if len(*calls) != 1 || (*calls)[0][0] != "open" {
		t.Fatalf("unexpected calls: %v", *calls)
	}
}

func TestOpenForLinuxPrefersBrowserEnv(t *testing.T) {
	calls := withRecordedCommands(t)
	if err := openFor("linux", false, "firefox", "https://flows.example.com"); err != nil {
		t.Fatalf("openFor: %v", err)
	}
	got := (*calls)[0]
	if got[0] != "firefox" || got[1] != "https://flows.example.com" {
		t.Fatalf("unexpected command: %v", got)
	}
}

func TestOpenForLinuxFallsBackToXdgOpen(t *testing.T) {
	var calls [][]string
	prev := startCommand
	startCommand = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		if name != "xdg-open" {
			return errors.New("not installed")
		}
		return nil
	}
	t.Cleanup(func() { startCommand = prev })

	if err := openFor("linux", false, "does-not-exist", "https://flows.example.com"); err != nil {
		t.Fatalf("openFor: %v", err)
	}
	last := calls[len(calls)-1]
	if last[0] != "xdg-open" {
		t.Fatalf("expected xdg-open fallback, got %v", last)
	}
}
