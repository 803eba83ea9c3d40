package zonemap

import (
	"github.com/hupe1980/zonescan/model"
)

// Summary describes the values of one column within one zone.
type Summary struct {
	Zone model.ZoneID
	// Min and Max are the lexicographic bounds of the non-missing values.
	// Both are empty when every value in the zone is missing.
	Min string
	Max string
	// Rows is the number of rows in the zone.
	Rows uint32
	// Missing counts values equal to model.MissingValue.
	Missing uint32
}

// Empty reports whether the zone has no comparable value.
func (s Summary) Empty() bool {
	return s.Rows == s.Missing
}

// Contains reports whether v lies within [Min, Max].
func (s Summary) Contains(v string) bool {
	return !s.Empty() && s.Min <= v && v <= s.Max
}

// MinPosition returns the absolute position of the zone's first row.
func (s Summary) MinPosition(zoneSize int) model.Position {
	return model.FirstPosition(s.Zone, zoneSize)
}

// MaxPosition returns the absolute position of the zone's last row.
// Only meaningful when Rows > 0.
func (s Summary) MaxPosition(zoneSize int) model.Position {
	return s.MinPosition(zoneSize) + model.Position(s.Rows) - 1
}

// Overlaps reports whether the zone shares any position with [lo, hi].
func (s Summary) Overlaps(lo, hi model.Position, zoneSize int) bool {
	if s.Rows == 0 {
		return false
	}
	return s.MinPosition(zoneSize) <= hi && lo <= s.MaxPosition(zoneSize)
}

// Collector accumulates one column's summary while a zone is written.
// It is designed for single-threaded use by the splitter; call Flush at
// every zone boundary.
type Collector struct {
	min, max string
	rows     uint32
	missing  uint32
	seen     bool
}

// Add observes one value.
func (c *Collector) Add(v string) {
	c.rows++
	if v == model.MissingValue {
		c.missing++
		return
	}
	if !c.seen {
		c.min, c.max, c.seen = v, v, true
		return
	}
	if v < c.min {
		c.min = v
	}
	if v > c.max {
		c.max = v
	}
}

// Rows returns the number of values observed since the last flush.
func (c *Collector) Rows() uint32 { return c.rows }

// Flush returns the summary for zone and resets the collector.
func (c *Collector) Flush(zone model.ZoneID) Summary {
	s := Summary{Zone: zone, Min: c.min, Max: c.max, Rows: c.rows, Missing: c.missing}
	*c = Collector{}
	return s
}
