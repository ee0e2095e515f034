package updatecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const latestReleaseURL = "https://api.github.com/repos/flowdeck/flowdeck-cli/releases/latest"

func fetchLatestReleaseTag(ctx context.Context, client *http.Client, ifNoneMatch string) (tag, etag string, notModified bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestReleaseURL, nil)
	if err != nil {
		return "", "", false, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "flowdeck-cli")
	if s := strings.TrimSpace(ifNoneMatch); s != "" {
		req.Header.Set("If-None-Match", s)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return "", resp.Header.Get("ETag"), true, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", false, fmt.Errorf("latest release: http %d", resp.StatusCode)
	}

	var out struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", false, err
	}
	tag = strings.TrimSpace(out.TagName)
	if tag == "" {
		return "", "", false, fmt.Errorf("latest release: missing tag_name")
	}
	return tag, resp.Header.Get("ETag"), false, nil
}

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}
