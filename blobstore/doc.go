// Package blobstore provides the storage abstraction for column shards,
// scratch position files, archived files, zone index snapshots and results.
//
// Names are slash-separated and relative to the store root, e.g.
// "split_data/Timestamp_0.txt" or "temp/Station_2013_7.txt".
//
// # Built-in Implementations
//
//   - LocalStore: local file system, mmap reads, atomic temp+rename writes
//   - MemoryStore: in-memory, for tests
//   - CachingStore: block cache in front of any other store
//   - minio.Store / s3.Store: object storage (subpackages)
//
// # Optional Interfaces
//
// Stores that can move a blob cheaply implement Renamer; Move falls back to
// copy+delete otherwise. Blobs that expose their bytes without copying
// implement Mappable.
package blobstore
