package aggregate

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hupe1980/zonescan/internal/join"
	"github.com/hupe1980/zonescan/internal/scratch"
	"github.com/hupe1980/zonescan/internal/zonemap"
	"github.com/hupe1980/zonescan/model"
)

// ErrInvalidValue is returned for a reading that is neither numeric nor missing.
var ErrInvalidValue = errors.New("invalid reading")

// TieKey selects how tied rows are told apart.
type TieKey int

const (
	// TieByTimestamp keys ties by full timestamp.
	TieByTimestamp TieKey = iota
	// TieByDay keys ties by calendar day, so rows of one day count once.
	TieByDay
)

// String returns the name of the tie key.
func (k TieKey) String() string {
	if k == TieByDay {
		return "day"
	}
	return "timestamp"
}

// Options configures an Aggregator.
type Options struct {
	TieKey TieKey
	// StationLabel is written to the Station field of every record.
	StationLabel string
}

// Result summarizes one Aggregate call.
type Result struct {
	Records []model.Extremum
	// Files is the number of Station files consumed.
	Files int
	// Rows is the number of positions read.
	Rows int
	// Missing counts "M" readings met in loaded zones.
	Missing int
	Zones   join.WalkStats
}

// Aggregator turns Station scratch files into extremum records.
type Aggregator struct {
	walker *join.Walker
	area   *scratch.Area
	opts   Options
}

// New creates an Aggregator.
func New(walker *join.Walker, area *scratch.Area, opts Options) *Aggregator {
	return &Aggregator{walker: walker, area: area, opts: opts}
}

// metric pairs a column with its min and max categories.
type metric struct {
	column   string
	min, max model.Category
}

var metrics = []metric{
	{model.ColumnTemperature, model.MinTemperature, model.MaxTemperature},
	{model.ColumnHumidity, model.MinHumidity, model.MaxHumidity},
}

// Aggregate emits, month by month in chronological order, the records of
// Min Temperature, Max Temperature, Min Humidity and Max Humidity, one per
// tied date. A metric without any reading in a month emits nothing. The
// Station files are archived once all of them have been processed.
func (a *Aggregator) Aggregate(ctx context.Context) (*Result, error) {
	keys, err := a.area.Keys(ctx, scratch.KindStation)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, k := range keys {
		if err := a.month(ctx, k, res); err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", scratch.FileName(scratch.KindStation, k), err)
		}
	}

	for _, k := range keys {
		if err := a.area.Archive(ctx, scratch.KindStation, k); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (a *Aggregator) month(ctx context.Context, k scratch.Key, res *Result) error {
	set, err := a.area.ReadSet(ctx, scratch.KindStation, k)
	if err != nil {
		return err
	}
	res.Files++
	res.Rows += set.Len()

	// Zones of only missing readings cannot move an extreme.
	keep := func(s zonemap.Summary) bool { return !s.Empty() }

	for _, m := range metrics {
		lo, hi := NewMinTracker(), NewMaxTracker()
		stats, err := a.walker.Walk(ctx, m.column, set, keep, func(e scratch.Entry, text string) error {
			if text == model.MissingValue {
				res.Missing++
				return nil
			}
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return fmt.Errorf("%s at position %d: %q: %w", m.column, e.Position, text, ErrInvalidValue)
			}
			date := a.tieKey(e)
			lo.Observe(v, text, date)
			hi.Observe(v, text, date)
			return nil
		})
		res.Zones.Add(stats)
		if err != nil {
			return err
		}

		res.Records = a.emit(res.Records, m.min, lo)
		res.Records = a.emit(res.Records, m.max, hi)
	}
	return nil
}

func (a *Aggregator) tieKey(e scratch.Entry) string {
	if a.opts.TieKey == TieByDay {
		return e.Date()
	}
	return e.Timestamp
}

func (a *Aggregator) emit(out []model.Extremum, c model.Category, t *Tracker) []model.Extremum {
	if !t.Seen() {
		return out
	}
	_, text := t.Value()
	for _, d := range t.Dates() {
		out = append(out, model.Extremum{Date: d, Station: a.opts.StationLabel, Category: c, Value: text})
	}
	return out
}
