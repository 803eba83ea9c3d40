package locate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/hupe1980/zonescan/internal/scratch"
	"github.com/hupe1980/zonescan/internal/shard"
	"github.com/hupe1980/zonescan/internal/zonemap"
	"github.com/hupe1980/zonescan/model"
)

// ErrMalformedTimestamp is returned for a timestamp whose month cannot be read.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// BoundaryTimestamp returns the first possible timestamp of year.
func BoundaryTimestamp(year int) string {
	return fmt.Sprintf("%04d-01-01 00:00", year)
}

// BinarySearch returns the smallest i with lines[i] >= target, or len(lines).
// lines must be sorted.
func BinarySearch(target string, lines []string) int {
	return sort.SearchStrings(lines, target)
}

// Result summarizes one Locate call.
type Result struct {
	Year int
	// StartZone is the zone the scan started in.
	StartZone model.ZoneID
	// Rows is the number of rows located.
	Rows int
	// Months maps month (1-12) to the number of rows located in it.
	Months map[int]int
	// ZonesScanned is the number of Timestamp shards loaded.
	ZonesScanned int
}

// Locator writes the positions of a year's rows to scratch files.
type Locator struct {
	index  *zonemap.Index
	loader *shard.Loader
	area   *scratch.Area
}

// New creates a Locator.
func New(index *zonemap.Index, loader *shard.Loader, area *scratch.Area) *Locator {
	return &Locator{index: index, loader: loader, area: area}
}

// Locate writes one Timestamp scratch file per month of year that has rows.
// It fails with zonemap.ErrZoneNotFound when the year lies past every zone.
func (l *Locator) Locate(ctx context.Context, year int) (*Result, error) {
	target := BoundaryTimestamp(year)

	zone, err := l.index.Seek(model.ColumnTimestamp, target)
	if err != nil {
		return nil, fmt.Errorf("year %d: %w", year, err)
	}

	w := l.area.Writers(scratch.KindTimestamp)
	res, err := l.WriteFromZone(ctx, zone, year, w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("year %d: %w", year, err)
	}
	return res, nil
}

// WriteFromZone scans forward from the first row >= the year boundary in
// zone, appending every row of year to w. When a zone is exhausted while rows
// still match, the scan continues at offset 0 of the next zone. It stops at
// the first row of another year or after the last zone.
func (l *Locator) WriteFromZone(ctx context.Context, zone model.ZoneID, year int, w *scratch.Writers) (*Result, error) {
	res := &Result{Year: year, StartZone: zone, Months: make(map[int]int)}
	prefix := fmt.Sprintf("%04d-", year)
	target := BoundaryTimestamp(year)
	zoneSize := l.index.ZoneSize()

	for z := zone; int(z) < l.index.NumZones(); z++ {
		zd, err := l.loader.Load(ctx, model.ColumnTimestamp, z)
		if err != nil {
			return nil, err
		}
		res.ZonesScanned++

		start := 0
		if z == zone {
			start = BinarySearch(target, zd.Lines)
		}
		done, err := l.scan(ctx, zd, start, prefix, zoneSize, year, w, res)
		zd.Release()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return res, nil
}

// scan appends the rows of year in zd from offset start. It reports whether
// a row of another year was reached.
func (l *Locator) scan(ctx context.Context, zd *shard.Zone, start int, prefix string, zoneSize, year int, w *scratch.Writers, res *Result) (bool, error) {
	base := model.FirstPosition(zd.ID, zoneSize)
	for i := start; i < len(zd.Lines); i++ {
		ts := zd.Lines[i]
		if !strings.HasPrefix(ts, prefix) {
			return true, nil
		}
		month, err := Month(ts)
		if err != nil {
			return false, err
		}
		e := scratch.Entry{Timestamp: ts, Position: base + model.Position(i)}
		if err := w.Append(ctx, scratch.Key{Year: year, Month: month}, e); err != nil {
			return false, err
		}
		res.Rows++
		res.Months[month]++
	}
	return false, nil
}

// Month returns the month of a "YYYY-MM-..." timestamp.
func Month(ts string) (int, error) {
	if len(ts) < 7 || ts[4] != '-' {
		return 0, fmt.Errorf("%q: %w", ts, ErrMalformedTimestamp)
	}
	m, err := strconv.Atoi(ts[5:7])
	if err != nil || m < 1 || m > 12 {
		return 0, fmt.Errorf("%q: %w", ts, ErrMalformedTimestamp)
	}
	return m, nil
}
