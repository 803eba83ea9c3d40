// Package resource bounds the memory and IO a query may use.
//
// Zone shards are loaded into memory one at a time; the Controller keeps a
// running total of the bytes held and refuses a load that would exceed the
// configured budget, so a query can never hold the whole table at once:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   64 << 20,
//	    IOLimitBytesPerSec: 32 << 20,
//	})
//
//	if err := rc.AcquireMemory(int64(len(shard))); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(int64(len(shard)))
//
// IO throttling is a token bucket shared by shard readers and writers; wrap
// streams with NewRateLimitedReader / NewRateLimitedWriter.
//
// A nil *Controller is valid and imposes no limits.
package resource
