package updatecheck

import (
	"fmt"
	"strconv"
	"strings"
)

type CalVer struct {
	Year  int
	Month int
	Patch int
}

// ParseCalVer accepts release tags like v2026.8.3, tolerating dirty/dev
// suffixes such as v2026.8.3-4-gdeadbee or v2026.8.3+local.
func ParseCalVer(v string) (CalVer, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return CalVer{}, fmt.Errorf("invalid calver %q (expected vYYYY.M.PATCH)", v)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return CalVer{}, fmt.Errorf("invalid calver %q", v)
		}
		nums[i] = n
	}
	c := CalVer{Year: nums[0], Month: nums[1], Patch: nums[2]}
	if c.Year < 2000 || c.Year > 3000 || c.Month < 1 || c.Month > 12 || c.Patch < 0 {
		return CalVer{}, fmt.Errorf("calver %q out of range", v)
	}
	return c, nil
}

func (c CalVer) Compare(other CalVer) int {
	pairs := [][2]int{{c.Year, other.Year}, {c.Month, other.Month}, {c.Patch, other.Patch}}
	for _, p := range pairs {
		if p[0] < p[1] {
			return -1
		}
		if p[0] > p[1] {
			return 1
		}
	}
	return 0
}
