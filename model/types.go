package model

import (
	"fmt"
)

// Well-known column names of the weather table.
const (
	ColumnTimestamp   = "Timestamp"
	ColumnStation     = "Station"
	ColumnTemperature = "Temperature"
	ColumnHumidity    = "Humidity"
)

// MissingValue marks a missing temperature or humidity reading.
const MissingValue = "M"

// ZoneID identifies a zone (a contiguous block of at most zoneSize rows).
type ZoneID uint32

// Position is the absolute index of a record in the source table.
// It is the join key across all column shards.
type Position uint32

// Locate splits an absolute position into its zone and local offset.
func Locate(p Position, zoneSize int) (ZoneID, int) {
	return ZoneID(int(p) / zoneSize), int(p) % zoneSize
}

// FirstPosition returns the absolute position of the first row of zone z.
func FirstPosition(z ZoneID, zoneSize int) Position {
	return Position(int(z) * zoneSize)
}

// Category is an extremum category.
type Category uint8

const (
	MinTemperature Category = iota
	MaxTemperature
	MinHumidity
	MaxHumidity
)

// Categories lists all categories in output order.
var Categories = []Category{MinTemperature, MaxTemperature, MinHumidity, MaxHumidity}

// String returns the display name used in result files.
func (c Category) String() string {
	switch c {
	case MinTemperature:
		return "Min Temperature"
	case MaxTemperature:
		return "Max Temperature"
	case MinHumidity:
		return "Min Humidity"
	case MaxHumidity:
		return "Max Humidity"
	default:
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Extremum is one result row. Several records share a category and value
// when multiple dates tie at the extreme.
type Extremum struct {
	Date     string
	Station  string
	Category Category
	Value    string
}

// String returns a string representation of the Extremum.
func (e Extremum) String() string {
	return fmt.Sprintf("%s,%s,%s,%s", e.Date, e.Station, e.Category, e.Value)
}
