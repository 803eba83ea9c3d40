// Package locate finds the rows of a year in the Timestamp column.
//
// The zone map narrows the search to the first zone that can hold
// "{year}-01-01 00:00"; a binary search inside that zone finds the first row
// of the year, and a forward scan collects rows until the year ends, crossing
// into following zones as needed. Matching rows are written to per-month
// Timestamp scratch files as "{timestamp} {position}".
package locate
