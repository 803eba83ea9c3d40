// Package mmap provides read-only memory-mapped file access.
//
// The local blob store maps column shards instead of reading them through
// kernel buffers; a shard is scanned front to back once per stage, so the
// mapping is advised as sequential.
//
//	m, err := mmap.Open("split_data/Timestamp_0.txt")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Unix uses mmap(2)/madvise(2); Windows uses MapViewOfFile and ignores hints.
// Bytes must not be used after Close.
package mmap
