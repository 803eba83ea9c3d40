package join

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/zonescan/internal/scratch"
	"github.com/hupe1980/zonescan/internal/shard"
	"github.com/hupe1980/zonescan/internal/zonemap"
	"github.com/hupe1980/zonescan/model"
)

// ErrShardTooShort is returned when a shard has fewer lines than its summary claims.
var ErrShardTooShort = errors.New("shard shorter than zone")

// WalkStats counts the zones a walk touched.
type WalkStats struct {
	// Scanned zones were loaded.
	Scanned int
	// Pruned zones overlapped the set but their summary ruled out a match.
	Pruned int
	// Skipped zones overlapped the set's range but held none of its positions.
	Skipped int
}

// Add accumulates o into s.
func (s *WalkStats) Add(o WalkStats) {
	s.Scanned += o.Scanned
	s.Pruned += o.Pruned
	s.Skipped += o.Skipped
}

// Walker resolves values of indexed columns for a PositionSet.
type Walker struct {
	index  *zonemap.Index
	loader *shard.Loader
}

// NewWalker creates a Walker.
func NewWalker(index *zonemap.Index, loader *shard.Loader) *Walker {
	return &Walker{index: index, loader: loader}
}

// Walk calls fn with the entry and the column value of every position in set,
// in ascending position order. keep, when not nil, is asked before a zone is
// loaded; returning false prunes the zone.
func (w *Walker) Walk(ctx context.Context, column string, set *scratch.PositionSet, keep func(zonemap.Summary) bool, fn func(e scratch.Entry, value string) error) (WalkStats, error) {
	var stats WalkStats
	if set.IsEmpty() {
		return stats, nil
	}

	summaries, err := w.index.Summaries(column)
	if err != nil {
		return stats, err
	}
	zoneSize := w.index.ZoneSize()
	first, last := set.Min(), set.Max()

	for _, s := range summaries {
		if s.Rows == 0 {
			continue
		}
		lo, hi := s.MinPosition(zoneSize), s.MaxPosition(zoneSize)
		if hi < first {
			continue
		}
		if lo > last {
			break
		}
		if set.Count(lo, hi) == 0 {
			stats.Skipped++
			continue
		}
		if keep != nil && !keep(s) {
			stats.Pruned++
			continue
		}

		if err := w.visit(ctx, column, s.Zone, lo, hi, set, fn); err != nil {
			return stats, err
		}
		stats.Scanned++
	}
	return stats, nil
}

func (w *Walker) visit(ctx context.Context, column string, zone model.ZoneID, lo, hi model.Position, set *scratch.PositionSet, fn func(scratch.Entry, string) error) error {
	zd, err := w.loader.Load(ctx, column, zone)
	if err != nil {
		return err
	}
	defer zd.Release()

	var ferr error
	set.Range(lo, hi, func(e scratch.Entry) bool {
		off := int(e.Position - lo)
		if off >= len(zd.Lines) {
			ferr = fmt.Errorf("%s zone %d offset %d: %w", column, zone, off, ErrShardTooShort)
			return false
		}
		ferr = fn(e, zd.Lines[off])
		return ferr == nil
	})
	return ferr
}
