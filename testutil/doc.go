// Package testutil provides testing utilities for zonescan.
//
// This package is intended for use in tests only. It provides a seeded RNG,
// weather table generators and a brute-force extrema oracle to check the
// zone-pruned pipeline against.
//
// # Table Generation
//
//	rng := testutil.NewRNG(seed)
//	rows := rng.WeatherRows(testutil.TableOptions{Rows: 5000})
//	csv := testutil.CSV(rows)
//
// # Ground Truth
//
//	want := testutil.ExactExtrema(rows, 2013, "Changi", false)
package testutil
