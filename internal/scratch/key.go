package scratch

import (
	"cmp"
	"fmt"
	"strings"
)

// Kinds of scratch files.
const (
	KindTimestamp = "Timestamp"
	KindStation   = "Station"
)

// Key identifies one (year, month) bucket.
type Key struct {
	Year  int
	Month int
}

// Compare orders keys chronologically.
func (k Key) Compare(o Key) int {
	if c := cmp.Compare(k.Year, o.Year); c != 0 {
		return c
	}
	return cmp.Compare(k.Month, o.Month)
}

// FileName returns "{kind}_{year}_{month}.txt".
func FileName(kind string, k Key) string {
	return fmt.Sprintf("%s_%d_%d.txt", kind, k.Year, k.Month)
}

// ParseFileName is the inverse of FileName.
func ParseFileName(name string) (kind string, k Key, ok bool) {
	base, found := strings.CutSuffix(name, ".txt")
	if !found {
		return "", Key{}, false
	}
	parts := strings.Split(base, "_")
	if len(parts) != 3 {
		return "", Key{}, false
	}
	if _, err := fmt.Sscanf(parts[1]+" "+parts[2], "%d %d", &k.Year, &k.Month); err != nil {
		return "", Key{}, false
	}
	if k.Month < 1 || k.Month > 12 {
		return "", Key{}, false
	}
	return parts[0], k, true
}
