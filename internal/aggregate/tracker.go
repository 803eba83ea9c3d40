package aggregate

import (
	"math"
	"slices"
	"sort"
)

// Tracker is a running min or max with its tie set.
type Tracker struct {
	max   bool
	value float64
	text  string
	dates map[string]struct{}
}

// NewMinTracker returns a Tracker starting at +Inf.
func NewMinTracker() *Tracker {
	return &Tracker{value: math.Inf(1)}
}

// NewMaxTracker returns a Tracker starting at -Inf.
func NewMaxTracker() *Tracker {
	return &Tracker{max: true, value: math.Inf(-1)}
}

// Observe feeds one reading. text is the cell as written; it is kept for the
// first occurrence of the extreme.
func (t *Tracker) Observe(v float64, text, date string) {
	better := v < t.value
	if t.max {
		better = v > t.value
	}
	switch {
	case better:
		t.value = v
		t.text = text
		t.dates = map[string]struct{}{date: {}}
	case v == t.value && t.dates != nil:
		t.dates[date] = struct{}{}
	}
}

// Seen reports whether any reading was observed.
func (t *Tracker) Seen() bool { return t.dates != nil }

// Value returns the extreme and its text.
func (t *Tracker) Value() (float64, string) { return t.value, t.text }

// Dates returns the tie set in ascending order.
func (t *Tracker) Dates() []string {
	dates := make([]string, 0, len(t.dates))
	for d := range t.dates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return slices.Clip(dates)
}
