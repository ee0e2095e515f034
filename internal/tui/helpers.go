package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/flowdeck/flowdeck-cli/internal/api"
)

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func relTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return humanize.Time(t)
}

func activeLabel(active bool) string {
	if active {
		return "● active"
	}
	return "○ inactive"
}

func tagNames(tags []api.Tag) string {
	if len(tags) == 0 {
		return "—"
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

func execDuration(e api.Execution) string {
	if e.StoppedAt == nil {
		return "…"
	}
	d := e.StoppedAt.Sub(e.StartedAt)
	if d < 0 {
		return "—"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}

// cycleActiveFilter walks "" -> "true" -> "false" -> "".
func cycleActiveFilter(current string) string {
	switch current {
	case "":
		return "true"
	case "true":
		return "false"
	default:
		return ""
	}
}

var statusCycle = []string{
	"",
	api.ExecutionStatusSuccess,
	api.ExecutionStatusError,
	api.ExecutionStatusRunning,
	api.ExecutionStatusWaiting,
	api.ExecutionStatusCanceled,
}

// cycleStatusFilter walks the status filter through every known status and
// back to unfiltered.
func cycleStatusFilter(current string) string {
	for i, s := range statusCycle {
		if s == current {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return ""
}

func filterLabel(name, value string) string {
	if value == "" {
		return ""
	}
	return name + "=" + value
}
