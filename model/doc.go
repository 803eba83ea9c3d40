// Package model defines core types shared by the zonescan packages.
//
// # Identity Types
//
//   - ZoneID: Index of a fixed-size block of rows (uint32)
//   - Position: Absolute row index in the unsplit table (uint32)
//
// # Data Types
//
//   - Category: One of the four extremum categories
//   - Extremum: A single result row (date, station, category, value)
//
// Row position p lives in zone p / zoneSize at local offset p % zoneSize:
//
//	zone, off := model.Locate(p, zoneSize)
package model
