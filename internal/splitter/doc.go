// Package splitter partitions a comma-separated table column-wise into
// fixed-size zone shards and builds the zone index in a single forward pass.
//
// Only one record is held in memory at a time. Every ZoneSize rows the
// current shards are closed, the zone summaries of the indexed columns are
// added to the index builder and fresh shards are opened. The final partial
// zone is flushed at end of input.
package splitter
