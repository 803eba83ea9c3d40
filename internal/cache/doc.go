// Package cache provides an LRU cache for immutable blob blocks.
//
// Shards written by the splitter never change, so fixed-size blocks read
// from a remote blob store can be kept in RAM and shared by every stage of
// every query in the session. Overwriting or deleting a blob invalidates its
// blocks.
package cache
