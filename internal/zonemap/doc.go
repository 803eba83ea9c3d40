// Package zonemap implements the zone index: per-column min/max summaries of
// fixed-size row zones, used to skip zones that cannot contain matching rows.
//
// # Overview
//
// A table of N rows is split into zones of ZoneSize rows. Row i lives in zone
// i / ZoneSize at offset i % ZoneSize. For every indexed column the index
// holds one Summary per zone, in zone order:
//
//	Summary{Zone, Min, Max, Rows, Missing}
//
// Min and Max compare lexicographically. Timestamps are stored as
// "YYYY-MM-DD HH:MM", so lexicographic order is chronological order. The
// missing-value marker "M" is counted in Missing and never takes part in
// Min/Max.
//
// An Index is built once by a Builder and is immutable afterwards. Accessors
// return copies, so an Index can be shared read-only by every query.
//
// # Binary Format
//
//	Header (16 bytes):
//	  Magic    (4 bytes) - 0x5A4D4150 ("ZMAP")
//	  Version  (4 bytes) - Format version (currently 1)
//	  Checksum (4 bytes) - CRC32C of payload
//	  Length   (4 bytes) - Payload length in bytes
//
//	Payload:
//	  ID         (8 bytes) - Snapshot version ID
//	  CreatedAt  (8 bytes) - Unix nanoseconds
//	  Source     (string)  - Data file the index was built from
//	  ZoneSize   (4 bytes)
//	  TotalRows  (8 bytes)
//	  NumColumns (4 bytes)
//	  Columns[]:
//	    Name     (string)
//	    NumZones (4 bytes)
//	    Zones[]:  Zone (4), Rows (4), Missing (4), Min (string), Max (string)
//
// Strings are length-prefixed (2-byte length + bytes).
//
// # Atomic Protocol
//
// Store.Save writes ZONEMAP-NNNNNN.bin and then replaces the CURRENT pointer
// file. Load reads CURRENT and then the snapshot it names.
package zonemap
