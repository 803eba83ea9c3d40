// Package aggregate computes monthly extrema with ties from Station scratch
// files.
//
// For each metric a Tracker keeps the running extreme and the set of dates
// that attain it. A strictly better value replaces the extreme and resets the
// set; an equal value adds its date. Missing readings ("M") never take part.
package aggregate
