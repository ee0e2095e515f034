package buildinfo

import (
	"runtime/debug"
	"strings"
)

// Set at release time via -ldflags -X. The defaults keep local
// `go run` builds usable.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// DisplayVersion returns the version string shown to users. Bare numeric
// versions get a "v" prefix; when Version was never stamped it falls back
// to the module version embedded by `go install`.
func DisplayVersion() string {
	v := strings.TrimSpace(Version)
	if v == "" || v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			if mv := strings.TrimSpace(bi.Main.Version); mv != "" && mv != "(devel)" {
				v = mv
			}
		}
	}
	if v == "" || v == "dev" || v == "(devel)" {
		return "dev"
	}
	if v[0] >= '0' && v[0] <= '9' {
		return "v" + v
	}
	return v
}
