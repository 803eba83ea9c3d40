package join

import (
	"context"
	"fmt"

	"github.com/hupe1980/zonescan/internal/scratch"
	"github.com/hupe1980/zonescan/internal/zonemap"
	"github.com/hupe1980/zonescan/model"
)

// Options configures a Joiner.
type Options struct {
	// DisablePruning loads every overlapping Station zone, ignoring summaries.
	DisablePruning bool
}

// Result summarizes one Join call.
type Result struct {
	// Files is the number of Timestamp files consumed.
	Files int
	// Rows is the number of positions read.
	Rows int
	// Matched is the number of positions written to Station files.
	Matched int
	Zones   WalkStats
}

// Joiner narrows Timestamp scratch files to one station.
type Joiner struct {
	walker *Walker
	area   *scratch.Area
	opts   Options
}

// New creates a Joiner.
func New(walker *Walker, area *scratch.Area, opts Options) *Joiner {
	return &Joiner{walker: walker, area: area, opts: opts}
}

// Join writes, for every Timestamp scratch file, the entries whose Station
// value equals station to the Station file of the same month. A Station file
// is written only when it has entries. The Timestamp files are archived once
// all of them have been processed.
func (j *Joiner) Join(ctx context.Context, station string) (*Result, error) {
	keys, err := j.area.Keys(ctx, scratch.KindTimestamp)
	if err != nil {
		return nil, err
	}

	var keep func(zonemap.Summary) bool
	if !j.opts.DisablePruning {
		keep = func(s zonemap.Summary) bool { return s.Contains(station) }
	}

	res := &Result{}
	for _, k := range keys {
		set, err := j.area.ReadSet(ctx, scratch.KindTimestamp, k)
		if err != nil {
			return nil, err
		}
		res.Files++
		res.Rows += set.Len()

		var matches []scratch.Entry
		stats, err := j.walker.Walk(ctx, model.ColumnStation, set, keep, func(e scratch.Entry, v string) error {
			if v == station {
				matches = append(matches, e)
			}
			return nil
		})
		res.Zones.Add(stats)
		if err != nil {
			return nil, fmt.Errorf("join %s: %w", scratch.FileName(scratch.KindTimestamp, k), err)
		}

		if err := j.area.Write(ctx, scratch.KindStation, k, matches); err != nil {
			return nil, err
		}
		res.Matched += len(matches)
	}

	for _, k := range keys {
		if err := j.area.Archive(ctx, scratch.KindTimestamp, k); err != nil {
			return nil, err
		}
	}
	return res, nil
}
