// Package zonescan answers monthly weather extrema queries over a large
// observation table without loading it into memory.
//
// The table (Timestamp, Station, Temperature, Humidity) is split once into
// per-column shards of ZoneSize rows. Each shard carries a zone summary
// (min/max of its values), and the summaries form a zone map that lets
// queries skip shards that cannot hold matching rows.
//
// # Quick Start
//
//	ctx := context.Background()
//	cfg := zonescan.DefaultConfig()
//	cfg.DataFile = "SingaporeWeather.csv"
//
//	eng, err := zonescan.Open(ctx, cfg, zonescan.WithBlobStore(blobstore.NewLocalStore(".")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	q, _ := zonescan.ParseMatriculation("U1923456C")
//	report, err := eng.Query(ctx, q)
//
// # Query Pipeline
//
// A query for year digit d and a station runs, for every year of the
// configured range ending in d:
//
//  1. Locate: zone map lookup plus binary search for "{year}-01-01 00:00",
//     then a forward scan writing per-month Timestamp scratch files.
//  2. Join: Station values are resolved by position (zone = p / ZoneSize,
//     offset = p % ZoneSize) and matching rows go to Station scratch files.
//  3. Aggregate: running min/max with tie sets per month and metric.
//
// Records are appended to results/ScanResult_{Label}.csv. Scratch files are
// moved to the archive as they are consumed.
//
// # Storage
//
// All shards, scratch files, the persisted zone map and results go through a
// blobstore.BlobStore: the local filesystem, MinIO or Amazon S3, optionally
// fronted by a block cache.
package zonescan
