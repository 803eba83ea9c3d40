// Package shard reads and writes column shards: one column's values for one
// zone, one value per line, in original row order.
//
// Shards are named "{prefix}/{Column}_{zone}.txt", with a ".lz4" or ".zst"
// suffix when compressed. Writes stream through a bufio.Writer, the optional
// compressor and the IO limiter into a blob. Loads charge the decoded size of
// the zone against the memory budget until Release is called.
package shard
