package scratch

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/zonescan/model"
)

// PositionSet is the sorted, deduplicated set of positions of one scratch
// file, backed by a roaring bitmap, with the entry of every position.
type PositionSet struct {
	bm      *roaring.Bitmap
	entries []Entry
}

// NewPositionSet builds a set from entries with strictly ascending positions.
func NewPositionSet(entries []Entry) (*PositionSet, error) {
	if err := checkSorted(entries); err != nil {
		return nil, err
	}
	bm := roaring.New()
	for _, e := range entries {
		bm.Add(uint32(e.Position))
	}
	bm.RunOptimize()
	return &PositionSet{bm: bm, entries: entries}, nil
}

// Len returns the number of positions.
func (s *PositionSet) Len() int { return len(s.entries) }

// IsEmpty reports whether the set has no positions.
func (s *PositionSet) IsEmpty() bool { return len(s.entries) == 0 }

// Min returns the smallest position. The set must not be empty.
func (s *PositionSet) Min() model.Position { return model.Position(s.bm.Minimum()) }

// Max returns the largest position. The set must not be empty.
func (s *PositionSet) Max() model.Position { return model.Position(s.bm.Maximum()) }

// Range calls fn for every entry with lo <= position <= hi, in ascending
// order, until fn returns false.
func (s *PositionSet) Range(lo, hi model.Position, fn func(Entry) bool) {
	if s.IsEmpty() || lo > hi {
		return
	}
	it := s.bm.Iterator()
	it.AdvanceIfNeeded(uint32(lo))
	for it.HasNext() {
		p := it.Next()
		if p > uint32(hi) {
			return
		}
		// Rank counts positions <= p, so it is one past the entry's index.
		if !fn(s.entries[s.bm.Rank(p)-1]) {
			return
		}
	}
}

// Count returns the number of positions in [lo, hi].
func (s *PositionSet) Count(lo, hi model.Position) uint64 {
	if s.IsEmpty() || lo > hi {
		return 0
	}
	n := s.bm.Rank(uint32(hi))
	if lo > 0 {
		n -= s.bm.Rank(uint32(lo) - 1)
	}
	return n
}

func checkSorted(entries []Entry) error {
	for i := 1; i < len(entries); i++ {
		if entries[i].Position <= entries[i-1].Position {
			return &UnsortedError{Index: i, Prev: entries[i-1].Position, Got: entries[i].Position}
		}
	}
	return nil
}

// UnsortedError reports where a file stops being strictly ascending.
type UnsortedError struct {
	Name  string
	Index int
	Prev  model.Position
	Got   model.Position
}

func (e *UnsortedError) Error() string {
	name := e.Name
	if name == "" {
		name = "entries"
	}
	return fmt.Sprintf("%s line %d: %v: position %d after %d", name, e.Index+1, ErrUnsortedPositions, e.Got, e.Prev)
}

func (e *UnsortedError) Unwrap() error { return ErrUnsortedPositions }
