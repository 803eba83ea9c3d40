// Package hash provides the CRC32-Castagnoli checksums used for zone map
// snapshots and S3 uploads.
package hash
