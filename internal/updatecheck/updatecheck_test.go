package updatecheck

import (
	"context"
	"testing"
	"time"
)

func TestParseCalVer(t *testing.T) {
	c, err := ParseCalVer("v2026.8.5")
	if err != nil {
		t.Fatalf("ParseCalVer: %v", err)
	}
	if c.Year != 2026 || c.Month != 8 || c.Patch != 5 {
		t.Fatalf("unexpected parsed calver: %+v", c)
	}
}

func TestParseCalVerAllowsSuffix(t *testing.T) {
	c, err := ParseCalVer("v2026.1.2-17-g2376d07-dirty")
	if err != nil {
		t.Fatalf("ParseCalVer: %v", err)
	}
	if c.Year != 2026 || c.Month != 1 || c.Patch != 2 {
		t.Fatalf("unexpected parsed calver: %+v", c)
	}
}

func TestParseCalVerRejectsGarbage(t *testing.T) {
	for _, v := range []string{"", "v1.2", "v2026.13.0", "abc.def.ghi"} {
		if _, err := ParseCalVer(v); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}

func TestCalVerCompare(t *testing.T) {
	a := CalVer{Year: 2026, Month: 8, Patch: 1}
	b := CalVer{Year: 2026, Month: 8, Patch: 2}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Fatalf("compare ordering wrong for %+v vs %+v", a, b)
	}
}

func TestCheckNowWithOverride(t *testing.T) {
	t.Setenv(testLatestTagEnv, "v3000.12.9999")

	n, err := CheckNow(context.Background(), "v2026.8.1", 24*time.Hour)
	if err != nil {
		t.Fatalf("CheckNow: %v", err)
	}
	if n == nil || !n.Available {
		t.Fatalf("expected available notice, got %+v", n)
	}
	if n.LatestVersion != "v3000.12.9999" {
		t.Fatalf("unexpected latest version %q", n.LatestVersion)
	}
	if n.ReleaseURL != ReleasePageURL {
		t.Fatalf("unexpected release url %q", n.ReleaseURL)
	}
}

func TestCachedNoticeSkipsDevBuilds(t *testing.T) {
	t.Setenv(testForceUpdateEnv, "1")
	if n := CachedNotice("dev"); n != nil {
		t.Fatalf("expected nil notice for dev build, got %+v", n)
	}
}
