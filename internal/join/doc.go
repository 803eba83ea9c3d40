// Package join resolves column values for scratch positions.
//
// A position p lives in zone p / zoneSize at offset p % zoneSize. Walk visits
// every zone of a column that overlaps a PositionSet, loads its shard once and
// hands each position's value to a callback. Zones lying entirely before the
// set are skipped, the walk stops at the first zone lying entirely after it,
// and zones whose summary rules out a match are never loaded.
//
// Joiner uses Walk to filter Timestamp scratch files by station into Station
// scratch files.
package join
