// Package updatecheck tells the user when a newer flowdeck release is
// available. Releases are tagged vYYYY.M.PATCH; the latest tag comes from
// the GitHub releases API and is cached so most invocations never hit the
// network.
package updatecheck

import (
	"context"
	"os"
	"strings"
	"time"
)

const ReleasePageURL = "https://github.com/flowdeck/flowdeck-cli/releases/latest"

const (
	testLatestTagEnv   = "FLOWDECK_UPDATE_TEST_LATEST_TAG"
	testForceUpdateEnv = "FLOWDECK_UPDATE_TEST_FORCE"
	forcedLatestTag    = "v3000.12.9999"
)

type Notice struct {
	Available      bool      `json:"available"`
	CurrentVersion string    `json:"currentVersion,omitempty"`
	LatestVersion  string    `json:"latestVersion,omitempty"`
	CheckedAt      time.Time `json:"checkedAt,omitempty"`
	ReleaseURL     string    `json:"releaseUrl,omitempty"`
}

// CachedNotice reports an update using only the on-disk cache. It returns
// nil for dev builds and whenever nothing newer is known.
func CachedNotice(currentVersion string) *Notice {
	currentVersion = strings.TrimSpace(currentVersion)
	if currentVersion == "" || currentVersion == "dev" {
		return nil
	}

	if latest, ok := testLatestTagOverride(); ok {
		return noticeFor(currentVersion, latest, time.Now())
	}

	c, err := loadCache()
	if err != nil || strings.TrimSpace(c.LatestTag) == "" {
		return nil
	}
	return noticeFor(currentVersion, c.LatestTag, c.CheckedAt)
}

// CheckNow refreshes the cache when it is older than maxAge and returns
// the resulting notice. Network failures surface as errors; callers treat
// the check as best effort.
func CheckNow(ctx context.Context, currentVersion string, maxAge time.Duration) (*Notice, error) {
	currentVersion = strings.TrimSpace(currentVersion)
	if currentVersion == "" || currentVersion == "dev" {
		return nil, nil
	}
	if _, ok := testLatestTagOverride(); ok {
		return CachedNotice(currentVersion), nil
	}

	c, _ := loadCache()
	if !c.CheckedAt.IsZero() && time.Since(c.CheckedAt) <= maxAge {
		return CachedNotice(currentVersion), nil
	}

	tag, etag, notModified, err := fetchLatestReleaseTag(ctx, defaultHTTPClient(), c.ETag)
	if err != nil {
		return nil, err
	}
	if !notModified {
		c.LatestTag = tag
	}
	if strings.TrimSpace(etag) != "" {
		c.ETag = strings.TrimSpace(etag)
	}
	c.CheckedAt = time.Now()
	_ = saveCache(c)
	return CachedNotice(currentVersion), nil
}

func noticeFor(current, latest string, checkedAt time.Time) *Notice {
	newer, err := isNewer(current, latest)
	if err != nil || !newer {
		return nil
	}
	return &Notice{
		Available:      true,
		CurrentVersion: current,
		LatestVersion:  latest,
		CheckedAt:      checkedAt,
		ReleaseURL:     ReleasePageURL,
	}
}

func isNewer(current, latest string) (bool, error) {
	cur, err := ParseCalVer(current)
	if err != nil {
		return false, err
	}
	lat, err := ParseCalVer(latest)
	if err != nil {
		return false, err
	}
	return cur.Compare(lat) < 0, nil
}

func testLatestTagOverride() (string, bool) {
	if v := strings.TrimSpace(os.Getenv(testLatestTagEnv)); v != "" {
		return v, true
	}
	if strings.TrimSpace(os.Getenv(testForceUpdateEnv)) != "" {
		return forcedLatestTag, true
	}
	return "", false
}
