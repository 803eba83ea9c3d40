// Package scratch manages the per-query intermediate position files.
//
// The range locate stage writes "Timestamp_{year}_{month}.txt" files and the
// station join writes "Station_{year}_{month}.txt" files. Each line is
//
//	{timestamp} {absolute_position}
//
// Positions within a file are strictly ascending. Readers verify this and
// fail with ErrUnsortedPositions otherwise, because the zone walk in the
// join stops at the first zone past the file's largest position.
//
// Consumed files are moved to the archive area. Both areas are cleared at the
// start of every query.
package scratch
