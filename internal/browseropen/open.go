package browseropen

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Indirection for tests.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open launches the system browser at u. Best effort: on linux the
// BROWSER environment variable is tried first, then xdg-open; under WSL
// the Windows-side openers are preferred.
func Open(u string) error {
	u = strings.TrimSpace(u)
	if u == "" {
		return errors.New("missing url")
	}
	return openFor(runtime.GOOS, isWSL(), os.Getenv("BROWSER"), u)
}

func openFor(goos string, wsl bool, browserEnv, u string) error {
	switch goos {
	case "darwin":
		return startCommand("open", u)
	case "windows":
		return tryEach(u, [][]string{
			{"rundll32", "url.dll,FileProtocolHandler"},
			{"cmd", "/c", "start", ""},
			{"explorer"},
		})
	default:
		if wsl {
			if err := tryEach(u, [][]string{
				{"wslview"},
				{"cmd.exe", "/c", "start", ""},
				{"explorer.exe"},
			}); err == nil {
				return nil
			}
		}
		if err := openViaBrowserEnv(browserEnv, u); err == nil {
			return nil
		}
		return startCommand("xdg-open", u)
	}
}

func tryEach(u string, candidates [][]string) error {
	var errs []error
	for _, argv := range candidates {
		args := append(append([]string{}, argv[1:]...), u)
		if err := startCommand(argv[0], args...); err == nil {
			return nil
		} else {
			errs = append(errs, err)
		}
	}
	return fmt.Errorf("open browser failed: %v", errs)
}

// openViaBrowserEnv honors the colon-separated BROWSER convention.
func openViaBrowserEnv(raw, u string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("BROWSER not set")
	}
	var errs []error
	for _, part := range strings.Split(raw, ":") {
		argv := strings.Fields(part)
		if len(argv) == 0 {
			continue
		}
		argv = append(argv, u)
		if err := startCommand(argv[0], argv[1:]...); err == nil {
			return nil
		} else {
			errs = append(errs, err)
		}
	}
	return fmt.Errorf("open via BROWSER failed: %v", errs)
}

func isWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	if os.Getenv("WSL_INTEROP") != "" || os.Getenv("WSL_DISTRO_NAME") != "" {
		return true
	}
	if b, err := os.ReadFile("/proc/sys/kernel/osrelease"); err == nil {
		return strings.Contains(strings.ToLower(string(b)), "microsoft")
	}
	return false
}
