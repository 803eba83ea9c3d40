package hash

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

// ErrMismatch is returned by Verify when data does not match its checksum.
var ErrMismatch = errors.New("checksum mismatch")

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// Base64CRC32C returns the checksum of data big-endian and base64 encoded,
// the form S3 expects in ChecksumCRC32C.
func Base64CRC32C(data []byte) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], CRC32C(data))
	return base64.StdEncoding.EncodeToString(b[:])
}

// Verify returns ErrMismatch unless CRC32C(data) == want.
func Verify(data []byte, want uint32) error {
	if got := CRC32C(data); got != want {
		return fmt.Errorf("got %08x, want %08x: %w", got, want, ErrMismatch)
	}
	return nil
}
