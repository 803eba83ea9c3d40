// Package fs abstracts the file system operations used by the local blob store.
//
//   - [FileSystem]: open, remove, rename, stat, mkdir and readdir
//   - [LocalFS]: the os-backed implementation ([Default])
//   - [FaultyFS]: a wrapper that injects write, sync and close failures
//
// Splitting a table writes one shard per column per zone, so tests use
// [FaultyFS] to make a single shard fail and check that the split aborts:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("Humidity_1", fs.Fault{FailAfterBytes: 0})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// Calls take no context: local syscalls cannot be interrupted. Remote
// storage goes through the blobstore package, which does take one.
package fs
