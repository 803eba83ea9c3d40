package zonemap

import (
	"fmt"
	"slices"
	"time"

	"github.com/hupe1980/zonescan/model"
)

// Index is an immutable zone index over a set of columns.
type Index struct {
	id        uint64
	createdAt time.Time
	source    string
	zoneSize  int
	totalRows uint64
	columns   []string
	zones     map[string][]Summary
}

// ID returns the snapshot version the index was saved or loaded as, 0 if never saved.
func (ix *Index) ID() uint64 { return ix.id }

// CreatedAt returns the build time of the index.
func (ix *Index) CreatedAt() time.Time { return ix.createdAt }

// Source returns the data file the index was built from.
func (ix *Index) Source() string { return ix.source }

// ZoneSize returns the number of rows per zone.
func (ix *Index) ZoneSize() int { return ix.zoneSize }

// TotalRows returns the number of data rows in the source table.
func (ix *Index) TotalRows() uint64 { return ix.totalRows }

// NumZones returns the number of zones.
func (ix *Index) NumZones() int {
	if len(ix.columns) == 0 {
		return 0
	}
	return len(ix.zones[ix.columns[0]])
}

// Columns returns the indexed column names in insertion order.
func (ix *Index) Columns() []string {
	return slices.Clone(ix.columns)
}

// Has reports whether column is indexed.
func (ix *Index) Has(column string) bool {
	_, ok := ix.zones[column]
	return ok
}

// Summaries returns a copy of the summaries of column in zone order.
func (ix *Index) Summaries(column string) ([]Summary, error) {
	zs, ok := ix.zones[column]
	if !ok {
		return nil, fmt.Errorf("%s: %w", column, ErrUnknownColumn)
	}
	return slices.Clone(zs), nil
}

// Summary returns the summary of column for zone.
func (ix *Index) Summary(column string, zone model.ZoneID) (Summary, bool) {
	zs, ok := ix.zones[column]
	if !ok || int(zone) >= len(zs) {
		return Summary{}, false
	}
	return zs[zone], true
}

// FindZone returns the first zone of column whose [Min, Max] contains target.
func (ix *Index) FindZone(column, target string) (model.ZoneID, error) {
	zs, ok := ix.zones[column]
	if !ok {
		return 0, fmt.Errorf("%s: %w", column, ErrUnknownColumn)
	}
	for _, s := range zs {
		if s.Contains(target) {
			return s.Zone, nil
		}
	}
	return 0, fmt.Errorf("%s %q: %w", column, target, ErrZoneNotFound)
}

// Seek returns the zone where a forward scan for target must start.
//
// It is FindZone, falling back to the first zone whose Min is greater than
// target when target falls before the first zone or in a gap between two
// zones. It fails only when target is past every zone. Column values must be
// non-decreasing across zones.
func (ix *Index) Seek(column, target string) (model.ZoneID, error) {
	zs, ok := ix.zones[column]
	if !ok {
		return 0, fmt.Errorf("%s: %w", column, ErrUnknownColumn)
	}
	for _, s := range zs {
		if s.Empty() {
			continue
		}
		if s.Max >= target {
			return s.Zone, nil
		}
	}
	return 0, fmt.Errorf("%s %q: %w", column, target, ErrZoneNotFound)
}

// Builder constructs an Index. It is not safe for concurrent use.
type Builder struct {
	source    string
	zoneSize  int
	columns   []string
	zones     map[string][]Summary
	createdAt time.Time
}

// NewBuilder creates a builder for the given columns.
func NewBuilder(source string, zoneSize int, columns []string) *Builder {
	zones := make(map[string][]Summary, len(columns))
	for _, c := range columns {
		zones[c] = nil
	}
	return &Builder{
		source:   source,
		zoneSize: zoneSize,
		columns:  slices.Clone(columns),
		zones:    zones,
	}
}

// Add appends the summary of the next zone of column.
func (b *Builder) Add(column string, s Summary) error {
	zs, ok := b.zones[column]
	if !ok {
		return fmt.Errorf("%s: %w", column, ErrUnknownColumn)
	}
	if int(s.Zone) != len(zs) {
		return fmt.Errorf("%s: got zone %d, want %d: %w", column, s.Zone, len(zs), ErrZoneOrder)
	}
	if int(s.Rows) > b.zoneSize || s.Missing > s.Rows {
		return fmt.Errorf("%s zone %d: %d rows (%d missing) with zone size %d: %w",
			column, s.Zone, s.Rows, s.Missing, b.zoneSize, ErrCorrupt)
	}
	b.zones[column] = append(zs, s)
	return nil
}

// Build validates the summaries and returns the immutable Index.
// Every column must have the same zones, and only the last zone may be partial.
func (b *Builder) Build() (*Index, error) {
	if b.zoneSize <= 0 {
		return nil, fmt.Errorf("zone size %d: %w", b.zoneSize, ErrCorrupt)
	}

	var ref []Summary
	if len(b.columns) > 0 {
		ref = b.zones[b.columns[0]]
	}

	var total uint64
	for i, s := range ref {
		if i < len(ref)-1 && int(s.Rows) != b.zoneSize {
			return nil, fmt.Errorf("zone %d is partial but not last: %w", s.Zone, ErrCorrupt)
		}
		total += uint64(s.Rows)
	}

	zones := make(map[string][]Summary, len(b.columns))
	for _, c := range b.columns {
		zs := b.zones[c]
		if len(zs) != len(ref) {
			return nil, fmt.Errorf("%s has %d zones, want %d: %w", c, len(zs), len(ref), ErrCorrupt)
		}
		for i := range zs {
			if zs[i].Rows != ref[i].Rows {
				return nil, fmt.Errorf("%s zone %d has %d rows, want %d: %w", c, i, zs[i].Rows, ref[i].Rows, ErrCorrupt)
			}
		}
		zones[c] = slices.Clone(zs)
	}

	createdAt := b.createdAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return &Index{
		createdAt: createdAt,
		source:    b.source,
		zoneSize:  b.zoneSize,
		totalRows: total,
		columns:   slices.Clone(b.columns),
		zones:     zones,
	}, nil
}
